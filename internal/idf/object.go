package idf

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is a single record field with an optional trailing annotation.
// The annotation is rendered as an `!- ...` comment and ignored on parse.
type Field struct {
	Value   string
	Comment string
}

// Object is one IDF record: a class name followed by positional fields.
// A non-empty Banner is emitted as a comment block above the record.
type Object struct {
	Banner string
	Class  string
	Fields []Field
}

// File is an ordered sequence of IDF records.
type File struct {
	Objects []Object
}

// NewObject builds an object from plain field values.
func NewObject(class string, values ...string) Object {
	obj := Object{Class: class, Fields: make([]Field, len(values))}
	for i, v := range values {
		obj.Fields[i] = Field{Value: v}
	}
	return obj
}

// Name returns the first field, which names the object for every record
// class this tool cares about. Empty for field-less records.
func (o Object) Name() string {
	if len(o.Fields) == 0 {
		return ""
	}
	return o.Fields[0].Value
}

// Num parses field i as a float. The index is zero-based over all fields,
// including the name field.
func (o Object) Num(i int) (float64, error) {
	if i < 0 || i >= len(o.Fields) {
		return 0, fmt.Errorf("%s %q: field %d out of range (%d fields)", o.Class, o.Name(), i, len(o.Fields))
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(o.Fields[i].Value), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: field %d is not numeric: %q", o.Class, o.Name(), i, o.Fields[i].Value)
	}
	return v, nil
}

// NormalizeClass lowercases a class name and strips interior spaces, the
// form used for class comparison throughout this package.
func NormalizeClass(class string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(class)), " ", "")
}

// ByClass returns all records of the given class, matched case-insensitively.
func (f *File) ByClass(class string) []Object {
	want := NormalizeClass(class)
	var out []Object
	for _, obj := range f.Objects {
		if NormalizeClass(obj.Class) == want {
			out = append(out, obj)
		}
	}
	return out
}

// Find returns the first record of the given class with the given name,
// or false when absent. Names are compared case-insensitively, matching
// EnergyPlus reference resolution.
func (f *File) Find(class, name string) (Object, bool) {
	for _, obj := range f.ByClass(class) {
		if strings.EqualFold(obj.Name(), name) {
			return obj, true
		}
	}
	return Object{}, false
}

// Append adds records to the file.
func (f *File) Append(objs ...Object) {
	f.Objects = append(f.Objects, objs...)
}

// Merge appends all records of other to f.
func (f *File) Merge(other *File) {
	f.Objects = append(f.Objects, other.Objects...)
}
