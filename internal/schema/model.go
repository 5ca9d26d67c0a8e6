// Package schema describes the entity declarations that tables are generated
// from: the semantic type of each field, the per-field descriptors and the
// entity itself together with its declaration text.
//
// Nothing in this package knows about SQL. It is the input side of the
// generator; internal/ddl turns an Entity into a table model.
package schema

import (
	"fmt"
	"strings"
)

// SemanticType is the data kind of a field, independent of any concrete
// language type name.
type SemanticType int

const (
	TypeOther SemanticType = iota
	TypeText
	TypeInt32
	TypeInt64
	TypeFloat64
	TypeBool
	TypeDate
	TypeDecimal
)

var semanticNames = [...]string{
	TypeOther:   "other",
	TypeText:    "text",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeFloat64: "float64",
	TypeBool:    "bool",
	TypeDate:    "date",
	TypeDecimal: "decimal",
}

func (t SemanticType) String() string {
	if t < 0 || int(t) >= len(semanticNames) {
		return "other"
	}
	return semanticNames[t]
}

// ParseSemanticType maps a config spelling ("text", "int32", ...) to a
// SemanticType. Matching is case-insensitive; a few common aliases are
// accepted. Unknown names return an error.
func ParseSemanticType(s string) (SemanticType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "string":
		return TypeText, nil
	case "int32", "int", "integer":
		return TypeInt32, nil
	case "int64", "long", "bigint":
		return TypeInt64, nil
	case "float64", "double":
		return TypeFloat64, nil
	case "bool", "boolean":
		return TypeBool, nil
	case "date", "datetime", "timestamp":
		return TypeDate, nil
	case "decimal":
		return TypeDecimal, nil
	case "other", "":
		return TypeOther, nil
	default:
		return TypeOther, fmt.Errorf("schema: unknown semantic type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t SemanticType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so that config files can
// spell types as strings (JSON and YAML both honour it).
func (t *SemanticType) UnmarshalText(b []byte) error {
	v, err := ParseSemanticType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Field is a declared, non-static field of an entity.
//
// Excluded marks a field the author asked to keep out of the table (a
// transient marker); such fields never become columns. Comment is an
// optional explicit comment used when the declaration text carries none.
type Field struct {
	Name     string       `json:"name" yaml:"name"`
	Type     SemanticType `json:"type" yaml:"type"`
	Excluded bool         `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Comment  string       `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Entity is one record type to generate a table for.
//
// Name is the simple type name; Qualified optionally carries the package
// qualified name used in logs. Lines holds the declaration source, one entry
// per line; nil means the source was not available, in which case comments
// degrade to empty. Parent is the single inherited level, if any.
type Entity struct {
	Name      string
	Qualified string
	Comment   string
	Fields    []Field
	Lines     []string
	Parent    *Entity
}

// ID returns the most specific identity available for logs.
func (e Entity) ID() string {
	if e.Qualified != "" {
		return e.Qualified
	}
	return e.Name
}

// HasSource reports whether declaration text was loaded for the entity.
func (e Entity) HasSource() bool { return e.Lines != nil }

// IsRoot reports whether name denotes the universal root type, which never
// contributes columns.
func IsRoot(name string) bool {
	switch strings.TrimSpace(name) {
	case "", "Object", "java.lang.Object":
		return true
	}
	return false
}
