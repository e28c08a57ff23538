package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/epaustria/idfkit/internal/library"
)

// MaterialRecord is one cached material row. Nil pointers are no-mass
// layers whose only known property is the resistance.
type MaterialRecord struct {
	Name         string
	Thickness    *float64
	Conductivity *float64
	Density      *float64
	SpecificHeat *float64
	Resistance   *float64
	Inertia      *float64
	Category     string
	LastUpdated  time.Time
}

// ConstructionRecord is one cached construction row.
type ConstructionRecord struct {
	Name            string
	Category        string
	LayerCount      int
	Layers          []string
	UValue          *float64
	OIBCompliant    string
	PassivhausReady string
	LastUpdated     time.Time
}

// RefreshLibrary upserts the computed properties of lib into the cache.
// Freshly computed values win; a column only keeps its old value when the
// new computation produced nothing for it (COALESCE on conflict), so a
// resource tree that temporarily loses a material's data sheet does not
// wipe what an earlier run derived.
func (s *Store) RefreshLibrary(ctx context.Context, lib *library.Library) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("refresh library: %w", err)
	}
	defer tx.Rollback()

	matStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO materials
		(name, thickness, conductivity, density, specific_heat, resistance, inertia, category, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			thickness     = COALESCE(excluded.thickness, thickness),
			conductivity  = COALESCE(excluded.conductivity, conductivity),
			density       = COALESCE(excluded.density, density),
			specific_heat = COALESCE(excluded.specific_heat, specific_heat),
			resistance    = COALESCE(excluded.resistance, resistance),
			inertia       = COALESCE(excluded.inertia, inertia),
			category      = excluded.category,
			last_updated  = excluded.last_updated
	`)
	if err != nil {
		return fmt.Errorf("refresh library: %w", err)
	}
	defer matStmt.Close()

	for _, row := range lib.MaterialReport() {
		_, err := matStmt.ExecContext(ctx, row.Name,
			nullable(row.Thickness), nullable(row.Conductivity),
			nullable(row.Density), nullable(row.SpecificHeat),
			nullable(row.Resistance), nullable(row.Inertia),
			row.Category, now)
		if err != nil {
			return fmt.Errorf("refresh material %q: %w", row.Name, err)
		}
	}

	conStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO constructions
		(name, category, layer_count, layers, u_value, oib_compliant, passivhaus_ready, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			category         = excluded.category,
			layer_count      = excluded.layer_count,
			layers           = excluded.layers,
			u_value          = COALESCE(excluded.u_value, u_value),
			oib_compliant    = excluded.oib_compliant,
			passivhaus_ready = excluded.passivhaus_ready,
			last_updated     = excluded.last_updated
	`)
	if err != nil {
		return fmt.Errorf("refresh library: %w", err)
	}
	defer conStmt.Close()

	for _, row := range lib.ConstructionReport() {
		_, err := conStmt.ExecContext(ctx, row.Name, row.Category,
			row.LayerCount, strings.Join(row.Layers, ";"),
			nullable(row.UValue), row.OIBCompliant, row.PassivhausReady, now)
		if err != nil {
			return fmt.Errorf("refresh construction %q: %w", row.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("refresh library: %w", err)
	}
	return nil
}

// Materials returns all cached material rows ordered by name.
func (s *Store) Materials(ctx context.Context) ([]MaterialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, thickness, conductivity, density, specific_heat,
		       resistance, inertia, category, last_updated
		FROM materials ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("read materials: %w", err)
	}
	defer rows.Close()

	var out []MaterialRecord
	for rows.Next() {
		var rec MaterialRecord
		var thickness, conductivity, density, specificHeat, resistance, inertia sql.NullFloat64
		var updated string
		if err := rows.Scan(&rec.Name, &thickness, &conductivity, &density,
			&specificHeat, &resistance, &inertia, &rec.Category, &updated); err != nil {
			return nil, fmt.Errorf("read materials: %w", err)
		}
		rec.Thickness = fromNull(thickness)
		rec.Conductivity = fromNull(conductivity)
		rec.Density = fromNull(density)
		rec.SpecificHeat = fromNull(specificHeat)
		rec.Resistance = fromNull(resistance)
		rec.Inertia = fromNull(inertia)
		rec.LastUpdated, _ = time.Parse(time.RFC3339, updated)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Constructions returns all cached construction rows ordered by name.
func (s *Store) Constructions(ctx context.Context) ([]ConstructionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, category, layer_count, layers, u_value,
		       oib_compliant, passivhaus_ready, last_updated
		FROM constructions ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("read constructions: %w", err)
	}
	defer rows.Close()

	var out []ConstructionRecord
	for rows.Next() {
		var rec ConstructionRecord
		var layers, updated string
		var uValue sql.NullFloat64
		if err := rows.Scan(&rec.Name, &rec.Category, &rec.LayerCount, &layers,
			&uValue, &rec.OIBCompliant, &rec.PassivhausReady, &updated); err != nil {
			return nil, fmt.Errorf("read constructions: %w", err)
		}
		if layers != "" {
			rec.Layers = strings.Split(layers, ";")
		}
		rec.UValue = fromNull(uValue)
		rec.LastUpdated, _ = time.Parse(time.RFC3339, updated)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// nullable maps NaN report values to SQL NULL.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
