package schema

import "strings"

// Field kinds.
const (
	KindAuto     = "auto" // auto-increment integer primary key
	KindInteger  = "integer"
	KindFloat    = "float"
	KindDecimal  = "decimal"
	KindBoolean  = "boolean"
	KindString   = "string" // bounded text, MaxLength applies
	KindText     = "text"
	KindDate     = "date"
	KindTime     = "time"
	KindDateTime = "datetime"
)

// Field describes a single column of a table.
type Field struct {
	Name       string   `json:"name"`
	Label      string   `json:"label,omitempty"`
	Kind       string   `json:"kind"`
	Nullable   bool     `json:"nullable,omitempty"`
	Blank      bool     `json:"blank,omitempty"` // empty input accepted
	Default    any      `json:"default,omitempty"`
	MaxLength  int      `json:"max_length,omitempty"`
	Precision  int      `json:"precision,omitempty"`
	Scale      int      `json:"scale,omitempty"`
	References string   `json:"references,omitempty"` // FK target table
	Choices    []string `json:"choices,omitempty"`
}

// IsAuto reports whether the field is an auto-generated primary key.
func (f *Field) IsAuto() bool {
	return f.Kind == KindAuto
}

// IsFK reports whether the field references another table.
func (f *Field) IsFK() bool {
	return f.References != ""
}

// IsTextual reports whether the field holds free text.
func (f *Field) IsTextual() bool {
	return f.Kind == KindText || f.Kind == KindString
}

// Required reports whether a value must be supplied on create.
// A field is required when it is not auto-generated, not nullable,
// does not accept blank input, and has no default.
func (f *Field) Required() bool {
	if f.IsAuto() {
		return false
	}
	return !f.Nullable && !f.Blank && f.Default == nil
}

// DisplayLabel returns the human-facing label, deriving one from the
// column name when not set explicitly.
func (f *Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return Humanize(f.Name)
}

// Humanize turns a snake_case identifier into a title-cased label.
// Trailing "_id" on foreign keys is dropped.
func Humanize(name string) string {
	name = strings.TrimSuffix(name, "_id")
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
