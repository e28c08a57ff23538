package library

import (
	"fmt"
	"math"
	"sort"
)

// OIB RL6 U-value limits in W/m²K per envelope category.
var OIBLimits = map[string]float64{
	CatExteriorWall: 0.35,
	CatRoof:         0.20,
	CatGroundSlab:   0.40,
	CatWindow:       1.40,
}

// Passivhaus target U-values in W/m²K per envelope category.
var PassivhausLimits = map[string]float64{
	CatExteriorWall: 0.15,
	CatRoof:         0.10,
	CatGroundSlab:   0.15,
	CatWindow:       0.80,
}

// Issue codes. V1xx are violations; V2xx are informational findings.
const (
	IssueUValueTooHigh    = "V101" // exceeds OIB limit
	IssueMissingMaterial  = "V102" // construction references unknown layer
	IssueNamingConvention = "V103" // missing AT_ prefix
	IssuePassivhausReady  = "V201" // meets Passivhaus target
)

// Issue is a single validation finding.
type Issue struct {
	Code         string `json:"code"`
	Construction string `json:"construction"`
	Detail       string `json:"detail"`
}

// Violation reports whether the issue is a compliance violation rather
// than an informational finding.
func (i Issue) Violation() bool {
	return i.Code == IssueUValueTooHigh || i.Code == IssueMissingMaterial || i.Code == IssueNamingConvention
}

// Validate checks every construction against the Austrian standards:
// OIB limits by category, layer resolvability and the AT_ naming
// convention, plus Passivhaus readiness as an informational finding.
// Issues are returned in deterministic construction-name order.
func (l *Library) Validate() []Issue {
	var issues []Issue

	for _, name := range l.ConstructionNames() {
		con := l.Constructions[name]

		u, err := l.UValue(name)
		if err == nil {
			if limit, ok := OIBLimits[con.Category]; ok {
				if u > limit {
					issues = append(issues, Issue{
						Code:         IssueUValueTooHigh,
						Construction: name,
						Detail:       fmt.Sprintf("%.3f W/m²K überschreitet OIB-Grenzwert %.2f W/m²K (%s)", u, limit, con.Category),
					})
				}
				if ph := PassivhausLimits[con.Category]; u <= ph {
					issues = append(issues, Issue{
						Code:         IssuePassivhausReady,
						Construction: name,
						Detail:       fmt.Sprintf("%.3f W/m²K erfüllt Passivhaus-Ziel %.2f W/m²K", u, ph),
					})
				}
			}
		}

		if len(name) < 3 || name[:3] != "AT_" {
			issues = append(issues, Issue{
				Code:         IssueNamingConvention,
				Construction: name,
				Detail:       "Name trägt kein 'AT_' Präfix",
			})
		}

		for _, layer := range con.Layers {
			if _, ok := l.Materials[layer]; ok {
				continue
			}
			if _, ok := l.NoMassR[layer]; ok {
				continue
			}
			if _, ok := l.WindowU[layer]; ok {
				continue
			}
			if isAirLayerName(layer) {
				continue
			}
			issues = append(issues, Issue{
				Code:         IssueMissingMaterial,
				Construction: name,
				Detail:       fmt.Sprintf("Material %q fehlt", layer),
			})
		}
	}

	return issues
}

// Violations filters issues down to actual compliance violations.
func Violations(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Violation() {
			out = append(out, i)
		}
	}
	return out
}

// MaterialRow is one report line of the material database.
type MaterialRow struct {
	Name         string
	Thickness    float64 // m; NaN for no-mass rows
	Conductivity float64 // W/m-K; NaN for no-mass rows
	Density      float64 // kg/m³; NaN for no-mass rows
	SpecificHeat float64 // J/kg-K; NaN for no-mass rows
	Resistance   float64 // m²K/W
	Inertia      float64 // kJ/m²K; NaN for no-mass rows
	SolarAbs     float64 // NaN for no-mass rows
	Category     string
}

// ConstructionRow is one report line of the construction report.
type ConstructionRow struct {
	Name            string
	Category        string
	LayerCount      int
	Layers          []string
	UValue          float64 // W/m²K; NaN when not computable
	OIBCompliant    string  // "Ja", "Nein", "N/A"
	PassivhausReady string
}

// MaterialReport builds the material database rows, massive materials
// first, no-mass resistances appended, sorted by category then name.
func (l *Library) MaterialReport() []MaterialRow {
	rows := make([]MaterialRow, 0, len(l.Materials)+len(l.NoMassR))
	for _, name := range l.MaterialNames() {
		m := l.Materials[name]
		rows = append(rows, MaterialRow{
			Name:         name,
			Thickness:    m.Thickness,
			Conductivity: m.Conductivity,
			Density:      m.Density,
			SpecificHeat: m.SpecificHeat,
			Resistance:   m.Resistance(),
			Inertia:      m.Inertia(),
			SolarAbs:     m.SolarAbsorptance,
			Category:     CategorizeMaterial(name),
		})
	}

	nomass := make([]string, 0, len(l.NoMassR))
	for name := range l.NoMassR {
		nomass = append(nomass, name)
	}
	sort.Strings(nomass)
	for _, name := range nomass {
		rows = append(rows, MaterialRow{
			Name:         name,
			Thickness:    math.NaN(),
			Conductivity: math.NaN(),
			Density:      math.NaN(),
			SpecificHeat: math.NaN(),
			Resistance:   l.NoMassR[name],
			Inertia:      math.NaN(),
			SolarAbs:     math.NaN(),
			Category:     "NoMass/AirGap",
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// ConstructionReport builds the construction report rows sorted by
// category then ascending U-value, uncomputable rows last.
func (l *Library) ConstructionReport() []ConstructionRow {
	rows := make([]ConstructionRow, 0, len(l.Constructions))
	for _, name := range l.ConstructionNames() {
		con := l.Constructions[name]
		row := ConstructionRow{
			Name:       name,
			Category:   con.Category,
			LayerCount: len(con.Layers),
			Layers:     con.Layers,
		}

		u, err := l.UValue(name)
		if err != nil {
			row.UValue = math.NaN()
			row.OIBCompliant = "Unbekannt"
			row.PassivhausReady = "Unbekannt"
		} else {
			row.UValue = math.Round(u*1000) / 1000
			row.OIBCompliant = verdict(OIBLimits, con.Category, u)
			row.PassivhausReady = verdict(PassivhausLimits, con.Category, u)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		ui, uj := rows[i].UValue, rows[j].UValue
		switch {
		case math.IsNaN(ui):
			return false
		case math.IsNaN(uj):
			return true
		default:
			return ui < uj
		}
	})
	return rows
}

func verdict(limits map[string]float64, category string, u float64) string {
	limit, ok := limits[category]
	if !ok {
		return "N/A"
	}
	if u <= limit {
		return "Ja"
	}
	return "Nein"
}
