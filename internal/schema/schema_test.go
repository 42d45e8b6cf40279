package schema

import "testing"

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"venture_name":      "Venture Name",
		"venture_id":        "Venture",
		"company_location":  "Company Location",
		"id":                "Id",
		"annual_revenue":    "Annual Revenue",
		"employee_location": "Employee Location",
	}
	for in, want := range cases {
		if got := Humanize(in); got != want {
			t.Errorf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFieldRequired(t *testing.T) {
	cases := []struct {
		name string
		f    Field
		want bool
	}{
		{"plain", Field{Name: "x", Kind: KindString}, true},
		{"nullable", Field{Name: "x", Kind: KindString, Nullable: true}, false},
		{"blank", Field{Name: "x", Kind: KindString, Blank: true}, false},
		{"default", Field{Name: "x", Kind: KindBoolean, Default: false}, false},
		{"auto", Field{Name: "x", Kind: KindAuto}, false},
	}
	for _, tc := range cases {
		if got := tc.f.Required(); got != tc.want {
			t.Errorf("%s: Required() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFieldDisplayLabel(t *testing.T) {
	f := Field{Name: "venture_id", Kind: KindInteger, References: "venture"}
	if got := f.DisplayLabel(); got != "Venture" {
		t.Errorf("DisplayLabel() = %q, want %q", got, "Venture")
	}
	f.Label = "Owning Venture"
	if got := f.DisplayLabel(); got != "Owning Venture" {
		t.Errorf("DisplayLabel() = %q, want %q", got, "Owning Venture")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&Table{Name: "b", PrimaryKey: "b_id"})
	r.Register(&Table{Name: "a", PrimaryKey: "a_id"})

	if _, err := r.Describe("missing"); err == nil {
		t.Fatal("expected error for unknown table")
	}

	names := r.TableNames()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("TableNames() = %v, want registration order [b a]", names)
	}

	// Re-registering replaces without duplicating.
	r.Register(&Table{Name: "b", PrimaryKey: "other_id"})
	if len(r.TableNames()) != 2 {
		t.Fatalf("re-registration duplicated table names: %v", r.TableNames())
	}
	tbl, err := r.Describe("b")
	if err != nil {
		t.Fatal(err)
	}
	if tbl.PrimaryKey != "other_id" {
		t.Errorf("re-registration did not replace descriptor")
	}
}

func TestBuiltinCatalogIntegrity(t *testing.T) {
	reg := NewBuiltinRegistry()

	for _, table := range reg.All() {
		if table.PKField() == nil {
			t.Errorf("table %s: primary key %s not among fields", table.Name, table.PrimaryKey)
		}
		for _, f := range table.FKFields() {
			if !reg.Has(f.References) {
				t.Errorf("table %s: field %s references unknown table %s",
					table.Name, f.Name, f.References)
			}
		}
	}
}

func TestBuiltinCatalogDependencyOrder(t *testing.T) {
	// Tables are declared so every FK target comes first; migration
	// relies on this.
	seen := make(map[string]bool)
	for _, table := range NewBuiltinRegistry().All() {
		for _, f := range table.FKFields() {
			if f.References != table.Name && !seen[f.References] {
				t.Errorf("table %s declared before its FK target %s", table.Name, f.References)
			}
		}
		seen[table.Name] = true
	}
}

func TestBuiltinCatalogCoreTables(t *testing.T) {
	reg := NewBuiltinRegistry()
	for _, name := range []string{
		"venture", "coverage", "products", "company", "employee_location",
		"orders", "applications", "broker", "workflow", "attachment",
	} {
		if !reg.Has(name) {
			t.Errorf("catalog missing table %s", name)
		}
	}

	products, err := reg.Describe("products")
	if err != nil {
		t.Fatal(err)
	}
	venture := products.Field("venture_id")
	if venture == nil || venture.References != "venture" {
		t.Errorf("products.venture_id should reference venture, got %+v", venture)
	}
}
