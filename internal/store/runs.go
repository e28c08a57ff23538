package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunRecord is one simulator invocation. FinishedAt and the counters stay
// nil until FinishRun is called.
type RunRecord struct {
	ID          string
	IDFPath     string
	WeatherPath string
	OutputDir   string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Success     *bool
	Warnings    *int
	Severes     *int
	Fatals      *int
}

// RecordRun inserts a started run.
func (s *Store) RecordRun(ctx context.Context, id, idfPath, weatherPath, outputDir string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, idf_path, weather_path, output_dir, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, idfPath, weatherPath, outputDir, startedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record run %s: %w", id, err)
	}
	return nil
}

// FinishRun stores the outcome of a completed run.
func (s *Store) FinishRun(ctx context.Context, id string, finishedAt time.Time, success bool, warnings, severes, fatals int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, success = ?, warnings = ?, severes = ?, fatals = ?
		WHERE id = ?
	`, finishedAt.UTC().Format(time.RFC3339), success, warnings, severes, fatals, id)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: no such run", id)
	}
	return nil
}

// Runs returns the run history, most recent first.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, idf_path, weather_path, output_dir, started_at,
		       finished_at, success, warnings, severes, fatals
		FROM runs ORDER BY started_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var started string
		var finished sql.NullString
		var success sql.NullBool
		var warnings, severes, fatals sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.IDFPath, &rec.WeatherPath, &rec.OutputDir,
			&started, &finished, &success, &warnings, &severes, &fatals); err != nil {
			return nil, fmt.Errorf("read runs: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished.Valid {
			t, _ := time.Parse(time.RFC3339, finished.String)
			rec.FinishedAt = &t
		}
		if success.Valid {
			b := success.Bool
			rec.Success = &b
		}
		rec.Warnings = fromNullInt(warnings)
		rec.Severes = fromNullInt(severes)
		rec.Fatals = fromNullInt(fatals)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
