package schema

// Table describes one database table: its columns, primary key and
// human-facing label.
type Table struct {
	Name       string  `json:"name"`
	Label      string  `json:"label,omitempty"`
	PrimaryKey string  `json:"primary_key"`
	Fields     []Field `json:"fields"`
}

// Field returns the field with the given name, or nil.
func (t *Table) Field(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// PKField returns the primary key field, or nil for a malformed table.
func (t *Table) PKField() *Field {
	return t.Field(t.PrimaryKey)
}

// WritableFields returns all fields except the auto primary key.
func (t *Table) WritableFields() []Field {
	out := make([]Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.IsAuto() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FKFields returns the fields that reference other tables.
func (t *Table) FKFields() []Field {
	var out []Field
	for _, f := range t.Fields {
		if f.IsFK() {
			out = append(out, f)
		}
	}
	return out
}

// BoolFieldNames returns the names of boolean fields. Used to fix up
// SQLite integer booleans after scanning.
func (t *Table) BoolFieldNames() []string {
	var out []string
	for _, f := range t.Fields {
		if f.Kind == KindBoolean {
			out = append(out, f.Name)
		}
	}
	return out
}

// SearchableColumns returns the names of text-like columns, the set a
// substring search runs against.
func (t *Table) SearchableColumns() []string {
	var out []string
	for _, f := range t.Fields {
		if f.IsTextual() {
			out = append(out, f.Name)
		}
	}
	return out
}

// ColumnNames returns all column names in declaration order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		out[i] = f.Name
	}
	return out
}

// DisplayLabel returns the table's human-facing label.
func (t *Table) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return Humanize(t.Name)
}
