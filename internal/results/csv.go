// Package results reads EnergyPlus eplusout.csv output and turns it into
// per-zone time series, daily statistics and plots.
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// timeColumns are the accepted spellings of the timestamp column.
var timeColumns = []string{"Date/Time", "Date Time", "Date_Time"}

// columnRE splits an output column header of the form
// `Key:Variable [Unit](Frequency)`, unit and frequency optional.
var columnRE = regexp.MustCompile(`^(?P<key>[^:]+):(?P<var>.+?)(?:\s*\[.*?\])?(?:\(.+?\))?$`)

var unitRE = regexp.MustCompile(`\[(.*?)\]`)

// Table is a parsed eplusout.csv.
type Table struct {
	Times  []time.Time
	values map[string][]float64 // column header -> values, NaN where blank

	// index maps zone key -> variable name -> column headers carrying it
	// (several frequencies of the same variable are separate columns).
	index map[string]map[string][]string
}

// ReadCSV parses the file at path. EnergyPlus timestamps usually carry no
// year; defaultYear fills the gap.
func ReadCSV(path string, defaultYear int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	table, err := Read(f, defaultYear)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Read parses eplusout.csv content from r.
func Read(r io.Reader, defaultYear int) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	timeIdx := -1
	for _, cand := range timeColumns {
		for i, col := range header {
			if col == cand {
				timeIdx = i
				break
			}
		}
		if timeIdx >= 0 {
			break
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("no Date/Time column found")
	}

	table := &Table{
		values: map[string][]float64{},
		index:  map[string]map[string][]string{},
	}
	for _, col := range header {
		if col == "" || !strings.Contains(col, ":") || strings.HasPrefix(col, "Date") {
			continue
		}
		m := columnRE.FindStringSubmatch(col)
		if m == nil {
			continue
		}
		key := strings.TrimSpace(m[1])
		variable := strings.TrimSpace(m[2])
		if table.index[key] == nil {
			table.index[key] = map[string][]string{}
		}
		table.index[key][variable] = append(table.index[key][variable], col)
		table.values[col] = nil
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(table.Times)+2, err)
		}
		if timeIdx >= len(record) {
			continue
		}

		stamp, err := parseStamp(record[timeIdx], defaultYear)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(table.Times)+2, err)
		}
		table.Times = append(table.Times, stamp)

		for i, col := range header {
			if _, tracked := table.values[col]; !tracked {
				continue
			}
			v := math.NaN()
			if i < len(record) {
				if parsed, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64); err == nil {
					v = parsed
				}
			}
			table.values[col] = append(table.values[col], v)
		}
	}

	if len(table.index) == 0 {
		return nil, fmt.Errorf("no output columns found")
	}
	return table, nil
}

// Zones returns the zone keys, sorted.
func (t *Table) Zones() []string {
	zones := make([]string, 0, len(t.index))
	for z := range t.index {
		zones = append(zones, z)
	}
	sort.Strings(zones)
	return zones
}

// Variables returns the variable names reported for a zone, sorted.
func (t *Table) Variables(zone string) []string {
	actual, ok := t.zoneKey(zone)
	if !ok {
		return nil
	}
	vars := make([]string, 0, len(t.index[actual]))
	for v := range t.index[actual] {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return vars
}

func (t *Table) zoneKey(zone string) (string, bool) {
	for z := range t.index {
		if normalize(z) == normalize(zone) {
			return z, true
		}
	}
	return "", false
}

// parseStamp parses one EnergyPlus timestamp. The format wanders between
// runs: optional `*` DST marker, doubled spaces, optional seconds,
// optional year, and hour 24 meaning midnight of the next day.
func parseStamp(raw string, defaultYear int) (time.Time, error) {
	s := strings.ReplaceAll(raw, "*", "")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	s = strings.TrimSpace(s)

	if t, err := parseNormalized(s, defaultYear); err == nil {
		return t, nil
	}
	// Hour 24 is EnergyPlus for midnight of the following day. Only tried
	// after a regular parse failed, so 12:24:00 stays what it is.
	if strings.Contains(s, "24:") {
		t, err := parseNormalized(strings.Replace(s, "24:", "00:", 1), defaultYear)
		if err != nil {
			return time.Time{}, err
		}
		return t.AddDate(0, 0, 1), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", raw)
}

var withYearFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
}

var withoutYearFormats = []string{
	"01/02 15:04:05",
	"01/02 15:04",
}

func parseNormalized(s string, defaultYear int) (time.Time, error) {
	for _, format := range withYearFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	for _, format := range withoutYearFormats {
		if t, err := time.Parse(format, s); err == nil {
			return time.Date(defaultYear, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", s)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
