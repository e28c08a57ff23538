package idf

import (
	"fmt"
	"io"
	"strings"
)

// Column at which `!- ` annotations start. Lines whose field value runs
// past it get a single separating space instead.
const commentColumn = 29

// Write serializes the file in canonical form. Serialization is
// deterministic: field order, indentation and annotation alignment never
// depend on anything but the File contents.
func (f *File) Write(w io.Writer) error {
	for i, obj := range f.Objects {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := writeObject(w, obj); err != nil {
			return err
		}
	}
	return nil
}

// String returns the canonical serialization.
func (f *File) String() string {
	var sb strings.Builder
	_ = f.Write(&sb)
	return sb.String()
}

func writeObject(w io.Writer, obj Object) error {
	if obj.Banner != "" {
		if err := writeBanner(w, obj.Banner); err != nil {
			return err
		}
	}

	if len(obj.Fields) == 0 {
		_, err := fmt.Fprintf(w, "%s;\n", obj.Class)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s,\n", obj.Class); err != nil {
		return err
	}
	for i, field := range obj.Fields {
		terminator := ","
		if i == len(obj.Fields)-1 {
			terminator = ";"
		}
		line := "    " + field.Value + terminator
		if field.Comment != "" {
			if len(line) < commentColumn {
				line += strings.Repeat(" ", commentColumn-len(line))
			} else {
				line += " "
			}
			line += "!- " + field.Comment
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeBanner(w io.Writer, banner string) error {
	rule := "! " + strings.Repeat("=", 72)
	if _, err := io.WriteString(w, rule+"\n"); err != nil {
		return err
	}
	for _, line := range strings.Split(banner, "\n") {
		if _, err := io.WriteString(w, "! "+line+"\n"); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, rule+"\n"); err != nil {
		return err
	}
	return nil
}
