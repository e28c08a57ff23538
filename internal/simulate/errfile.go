package simulate

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Severity of one eplusout.err entry.
type Severity string

const (
	SeverityWarning Severity = "Warning"
	SeveritySevere  Severity = "Severe"
	SeverityFatal   Severity = "Fatal"
)

// ErrEntry is one message from eplusout.err with continuation lines joined.
type ErrEntry struct {
	Severity Severity
	Message  string
}

// ErrSummary aggregates an eplusout.err file.
type ErrSummary struct {
	Warnings int
	Severes  int
	Fatals   int
	Entries  []ErrEntry
}

// Clean reports whether the file contained no Severe or Fatal entries.
func (s ErrSummary) Clean() bool {
	return s.Severes == 0 && s.Fatals == 0
}

// markerRE matches the `** Warning **` style severity markers. EnergyPlus
// pads the severity word to align the columns, hence the loose spacing.
var markerRE = regexp.MustCompile(`^\s*\*\*\s*(Warning|Severe|Fatal|~~~)\s*\*\*\s?(.*)$`)

// ParseErrFile reads an eplusout.err stream. Continuation lines
// (`**   ~~~   **`) are appended to the preceding entry; lines without a
// recognized marker, including the closing summary, are ignored.
func ParseErrFile(r io.Reader) (ErrSummary, error) {
	var summary ErrSummary

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := markerRE.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		message := strings.TrimSpace(m[2])

		if m[1] == "~~~" {
			if n := len(summary.Entries); n > 0 {
				summary.Entries[n-1].Message += " " + message
			}
			continue
		}

		severity := Severity(m[1])
		switch severity {
		case SeverityWarning:
			summary.Warnings++
		case SeveritySevere:
			summary.Severes++
		case SeverityFatal:
			summary.Fatals++
		}
		summary.Entries = append(summary.Entries, ErrEntry{Severity: severity, Message: message})
	}
	if err := scanner.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}
