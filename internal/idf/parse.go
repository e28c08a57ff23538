package idf

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var commentRE = regexp.MustCompile(`(?m)!.*$`)

// Parse reads IDF text from r. Comments are stripped, records are split on
// semicolons and fields on commas. Records without at least one comma
// (class plus one field) are skipped. Input that is not valid UTF-8 is
// re-decoded as Windows-1252, the encoding older Austrian library files
// were authored in.
func Parse(r io.Reader) (*File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read idf: %w", err)
	}

	text := string(raw)
	if !utf8.ValidString(text) {
		decoded, decErr := charmap.Windows1252.NewDecoder().Bytes(raw)
		if decErr != nil {
			return nil, fmt.Errorf("decode idf: input is neither UTF-8 nor Windows-1252: %w", decErr)
		}
		text = string(decoded)
	}

	text = commentRE.ReplaceAllString(text, "")
	text = strings.NewReplacer(" ", " ", "​", "", "\t", " ").Replace(text)

	file := &File{}
	for _, raw := range strings.Split(text, ";") {
		block := strings.TrimSpace(raw)
		if block == "" || !strings.Contains(block, ",") {
			continue
		}

		classPart, payload, _ := strings.Cut(block, ",")
		class := strings.TrimSpace(strings.Join(strings.Fields(classPart), " "))
		if class == "" {
			continue
		}

		parts := strings.Split(payload, ",")
		fields := make([]Field, len(parts))
		for i, p := range parts {
			fields[i] = Field{Value: strings.TrimSpace(p)}
		}
		file.Objects = append(file.Objects, Object{Class: class, Fields: fields})
	}

	return file, nil
}

// ParseFile parses the IDF file at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open idf: %w", err)
	}
	defer f.Close()

	parsed, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return parsed, nil
}
