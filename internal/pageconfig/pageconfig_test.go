package pageconfig

import "testing"

func TestParseRows(t *testing.T) {
	rows := [][]string{
		{"Catalog", "Venture", "venture", "venture_name", "Name", "Yes", "Yes"},
		{"Catalog", "Venture", "venture", "venture_description", "Description", "Yes", "Yes"},
		{"Catalog", "Drive", "drive", "drive_name", "Name", "No", "Yes"},
		{"too", "short"},
		{"Admin", "Users", "users", "email", "Email", "no", "no"},
	}

	pages := ParseRows(rows)
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	catalog := pages[0]
	if catalog.Name != "Catalog" || len(catalog.Sections) != 2 {
		t.Fatalf("catalog = %s with %d sections, want Catalog with 2", catalog.Name, len(catalog.Sections))
	}

	venture := catalog.Section("Venture")
	if venture == nil {
		t.Fatal("Venture section missing")
	}
	if venture.Table != "venture" || !venture.AddButton || !venture.EditButton {
		t.Errorf("Venture section misparsed: %+v", venture)
	}
	if len(venture.Columns) != 2 || venture.Columns[0].DBColumn != "venture_name" {
		t.Errorf("Venture columns misparsed: %+v", venture.Columns)
	}

	drive := catalog.Section("Drive")
	if drive == nil || drive.AddButton || !drive.EditButton {
		t.Errorf("Drive button flags misparsed: %+v", drive)
	}
}

func TestIconFor(t *testing.T) {
	if got := IconFor("venture"); got != "business" {
		t.Errorf("IconFor(venture) = %q", got)
	}
	if got := IconFor("no_such_table"); got != "table_chart" {
		t.Errorf("IconFor default = %q, want table_chart", got)
	}
}

func TestCatalogPageOrder(t *testing.T) {
	page := CatalogPage()

	names := page.SectionNames()
	if len(names) < 3 {
		t.Fatalf("catalog has %d sections", len(names))
	}
	want := []string{"Venture", "Drive", "Employee Location"}
	for i, w := range want {
		if names[i] != w {
			t.Errorf("section %d = %q, want %q", i, names[i], w)
		}
	}

	for _, s := range page.Sections {
		if s.Table == "" {
			t.Errorf("section %s has no table", s.Name)
		}
		if len(s.Columns) == 0 {
			t.Errorf("section %s has no columns", s.Name)
		}
		if s.Icon == "" {
			t.Errorf("section %s has no icon", s.Name)
		}
	}
}

func TestBuiltinRegistryPages(t *testing.T) {
	reg := NewBuiltinRegistry()

	for _, name := range []string{"Catalog", "Machine Learning", "Administration"} {
		if _, err := reg.Get(name); err != nil {
			t.Errorf("page %s missing: %v", name, err)
		}
	}
	if _, err := reg.Get("Nope"); err == nil {
		t.Error("expected error for unknown page")
	}
}
