package results

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// synonyms maps canonical variable names to the spellings different
// EnergyPlus versions report.
var synonyms = map[string][]string{
	"zone air temperature":       {"zone mean air temperature", "zone air temperature"},
	"zone operative temperature": {"zone operative temperature"},
	"zone relative humidity":     {"zone air relative humidity", "zone relative humidity"},
	"zone humidity ratio":        {"zone mean air humidity ratio", "zone air humidity ratio", "zone humidity ratio"},
}

// Series is one zone variable over time.
type Series struct {
	Zone     string
	Variable string
	Column   string // full source column header
	Unit     string
	Times    []time.Time
	Values   []float64 // NaN where the cell was blank or non-numeric
}

// Resolve finds the series for a requested zone and variable. Matching is
// case-insensitive; the variable is tried exactly, then via synonyms, then
// as a substring. When several columns report the variable at different
// frequencies the lexicographically first is taken.
func (t *Table) Resolve(zone, variable string) (*Series, error) {
	actual, ok := t.zoneKey(zone)
	if !ok {
		return nil, fmt.Errorf("zone %q not in results (have: %v)", zone, t.Zones())
	}

	varKey := findVariable(t.index[actual], variable)
	if varKey == "" {
		return nil, fmt.Errorf("variable %q not reported for zone %q (have: %v)", variable, actual, t.Variables(actual))
	}

	columns := append([]string(nil), t.index[actual][varKey]...)
	sort.Strings(columns)
	column := columns[0]

	series := &Series{
		Zone:     actual,
		Variable: varKey,
		Column:   column,
		Times:    t.Times,
		Values:   t.values[column],
	}
	if m := unitRE.FindStringSubmatch(column); m != nil {
		series.Unit = m[1]
	}
	return series, nil
}

func findVariable(vars map[string][]string, wanted string) string {
	wantedNorm := normalize(wanted)

	for v := range vars {
		if normalize(v) == wantedNorm {
			return v
		}
	}

	for canon, alts := range synonyms {
		matches := wantedNorm == canon
		for _, alt := range alts {
			if wantedNorm == normalize(alt) {
				matches = true
			}
		}
		if !matches {
			continue
		}
		for _, alt := range alts {
			for v := range vars {
				if normalize(v) == normalize(alt) {
					return v
				}
			}
		}
	}

	// Substring fallback, deterministic via sorted iteration.
	names := make([]string, 0, len(vars))
	for v := range vars {
		names = append(names, v)
	}
	sort.Strings(names)
	for _, v := range names {
		if wantedNorm != "" && strings.Contains(normalize(v), wantedNorm) {
			return v
		}
	}
	return ""
}

// IsTemperature reports whether the series carries a zone air temperature
// variable, the trigger for the automatic daily statistics file.
func (s *Series) IsTemperature() bool {
	norm := normalize(s.Variable)
	for _, alt := range synonyms["zone air temperature"] {
		if norm == normalize(alt) {
			return true
		}
	}
	return false
}

// DayStat is one day of a series.
type DayStat struct {
	Day  time.Time
	Mean float64
	Min  float64
	Max  float64
}

// DailyStats aggregates a series per calendar day, skipping NaN samples.
// Days come back in chronological order.
func DailyStats(s *Series) []DayStat {
	type acc struct {
		sum      float64
		n        int
		min, max float64
	}
	byDay := map[time.Time]*acc{}

	for i, v := range s.Values {
		if i >= len(s.Times) || math.IsNaN(v) {
			continue
		}
		t := s.Times[i]
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		a, ok := byDay[day]
		if !ok {
			a = &acc{min: v, max: v}
			byDay[day] = a
		}
		a.sum += v
		a.n++
		if v < a.min {
			a.min = v
		}
		if v > a.max {
			a.max = v
		}
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	stats := make([]DayStat, 0, len(days))
	for _, day := range days {
		a := byDay[day]
		stats = append(stats, DayStat{Day: day, Mean: a.sum / float64(a.n), Min: a.min, Max: a.max})
	}
	return stats
}

// WriteDailyCSV writes daily statistics as date,mean,min,max rows.
func WriteDailyCSV(stats []DayStat, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write daily stats: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "mean", "min", "max"}); err != nil {
		return fmt.Errorf("write daily stats: %w", err)
	}
	for _, st := range stats {
		row := []string{
			st.Day.Format("2006-01-02"),
			strconv.FormatFloat(st.Mean, 'g', -1, 64),
			strconv.FormatFloat(st.Min, 'g', -1, 64),
			strconv.FormatFloat(st.Max, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write daily stats: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write daily stats: %w", err)
	}
	return nil
}

// safeNameRE collapses anything outside [A-Za-z0-9_-] for filenames.
var safeNameRE = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SafeName makes a string usable as a filename component.
func SafeName(s string) string {
	return safeNameRE.ReplaceAllString(s, "_")
}
