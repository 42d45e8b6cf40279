package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/skyeops/atlas/internal/config"
	"github.com/skyeops/atlas/internal/display"
	"github.com/skyeops/atlas/internal/pageconfig"
	"github.com/skyeops/atlas/internal/schema"
	"github.com/skyeops/atlas/internal/store"
)

func testConfig() config.SectionsConfig {
	return config.SectionsConfig{
		InitialCount:  3,
		BatchSize:     3,
		CardLimit:     20,
		PageSize:      2,
		SearchLimit:   10,
		FKOptionLimit: 100,
	}
}

func testRegistry() *schema.Registry {
	reg := schema.NewRegistry()
	reg.Register(&schema.Table{
		Name:       "venture",
		PrimaryKey: "venture_id",
		Fields: []schema.Field{
			{Name: "venture_id", Kind: schema.KindAuto},
			{Name: "venture_name", Kind: schema.KindText, Blank: true},
		},
	})
	reg.Register(&schema.Table{
		Name:       "products",
		PrimaryKey: "products_id",
		Fields: []schema.Field{
			{Name: "products_id", Kind: schema.KindAuto},
			{Name: "product_name", Kind: schema.KindString, MaxLength: 120},
			{Name: "product_code", Kind: schema.KindString, MaxLength: 3, Blank: true},
			{Name: "venture_id", Kind: schema.KindInteger, References: "venture", Nullable: true},
			{Name: "active", Kind: schema.KindBoolean, Default: true},
			{Name: "date_created", Kind: schema.KindDateTime, Nullable: true},
		},
	})
	return reg
}

func testPages() *pageconfig.Registry {
	pages := pageconfig.NewRegistry()
	pages.Register(&pageconfig.Page{
		Name: "Catalog",
		Sections: []pageconfig.Section{
			{
				Name: "Venture", Table: "venture", Icon: "business",
				Columns:   []pageconfig.Column{{DBColumn: "venture_name", DisplayName: "Name", Searchable: true}},
				AddButton: true, EditButton: true,
			},
			{
				Name: "Products", Table: "products", Icon: "inventory",
				Columns:   []pageconfig.Column{{DBColumn: "product_name", DisplayName: "Name", Searchable: true}},
				AddButton: true, EditButton: true,
			},
		},
	})
	return pages
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	ctx := context.Background()

	st, err := store.NewMemory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(st.Close)

	reg := testRegistry()
	if err := st.Bootstrap(ctx, reg, zap.NewNop()); err != nil {
		t.Fatal(err)
	}

	rules := display.NewRuleSet()
	rules.Register(display.Rule{Table: "venture", Kind: display.KindColumn, Column: "venture_name"})
	rules.Register(display.Rule{Table: "products", Kind: display.KindColumn, Column: "product_name"})
	resolver := display.NewResolver(st, reg, rules, 100, time.Minute, zap.NewNop())

	return New(st, reg, testPages(), resolver, testConfig(), zap.NewNop())
}

func mustExec(t *testing.T, e *Engine, sqlStr string, args ...any) {
	t.Helper()
	if _, err := store.Exec(context.Background(), e.store.DB, sqlStr, args...); err != nil {
		t.Fatal(err)
	}
}

func catalogSection(t *testing.T, e *Engine, name string) *pageconfig.Section {
	t.Helper()
	page, err := e.pages.Get("Catalog")
	if err != nil {
		t.Fatal(err)
	}
	s := page.Section(name)
	if s == nil {
		t.Fatalf("section %s missing", name)
	}
	return s
}

func TestLoadSectionResolvesForeignKeys(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Acme")
	mustExec(t, e, "INSERT INTO products (product_name, venture_id) VALUES (?1, ?2)", "Widget", 1)

	result := e.LoadSection(ctx, catalogSection(t, e, "Products"), 20)
	if result.Error != "" {
		t.Fatalf("unexpected section error: %s", result.Error)
	}
	if result.TotalCount != 1 || len(result.Data) != 1 {
		t.Fatalf("rows = %d total = %d, want 1/1", len(result.Data), result.TotalCount)
	}

	row := result.Data[0]
	if row["venture"] != "Acme" {
		t.Errorf("venture label = %v, want Acme", row["venture"])
	}
	if row["venture_id"] != int64(1) {
		t.Errorf("raw venture_id = %v, want 1", row["venture_id"])
	}
	if row["pk"] != int64(1) {
		t.Errorf("pk = %v, want 1", row["pk"])
	}
	if row["active"] != true {
		t.Errorf("active = %v, want normalized true", row["active"])
	}
}

func TestLoadSectionNullForeignKey(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "INSERT INTO products (product_name) VALUES (?1)", "Orphan")

	result := e.LoadSection(context.Background(), catalogSection(t, e, "Products"), 20)
	row := result.Data[0]
	if row["venture"] != nil {
		t.Errorf("null FK label = %v, want nil", row["venture"])
	}
}

func TestLoadSectionRespectsLimit(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 25; i++ {
		mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", fmt.Sprintf("V%02d", i))
	}

	result := e.LoadSection(context.Background(), catalogSection(t, e, "Venture"), 20)
	if len(result.Data) != 20 {
		t.Errorf("card rows = %d, want 20", len(result.Data))
	}
	if result.TotalCount != 25 {
		t.Errorf("total = %d, want 25", result.TotalCount)
	}
}

func TestLoadBatchPartition(t *testing.T) {
	e := newTestEngine(t)
	page := &pageconfig.Page{Name: "Wide"}
	for i := 0; i < 7; i++ {
		page.Sections = append(page.Sections, pageconfig.Section{
			Name: fmt.Sprintf("S%d", i), Table: "venture",
		})
	}
	ctx := context.Background()

	first := e.InitialBatch(ctx, page)
	if len(first.Sections) != 3 || !first.HasMore || first.NextIndex != 3 {
		t.Fatalf("initial batch = %d sections, has_more=%v next=%d",
			len(first.Sections), first.HasMore, first.NextIndex)
	}
	if first.SectionOrder[0] != "S0" || first.SectionOrder[2] != "S2" {
		t.Errorf("initial order = %v", first.SectionOrder)
	}
	if first.TotalCount != 7 || first.LoadedCount != 3 {
		t.Errorf("counts = loaded %d total %d", first.LoadedCount, first.TotalCount)
	}

	second := e.LoadBatch(ctx, page, first.NextIndex, 3)
	if len(second.Sections) != 3 || !second.HasMore || second.NextIndex != 6 {
		t.Fatalf("second batch = %d sections, has_more=%v next=%d",
			len(second.Sections), second.HasMore, second.NextIndex)
	}

	last := e.LoadBatch(ctx, page, second.NextIndex, 3)
	if len(last.Sections) != 1 || last.HasMore || last.NextIndex != 7 {
		t.Fatalf("last batch = %d sections, has_more=%v next=%d",
			len(last.Sections), last.HasMore, last.NextIndex)
	}

	past := e.LoadBatch(ctx, page, 100, 3)
	if len(past.Sections) != 0 || past.HasMore {
		t.Errorf("past-the-end batch = %d sections, has_more=%v",
			len(past.Sections), past.HasMore)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Acme Insurance")
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Globex")
	mustExec(t, e, "INSERT INTO products (product_name) VALUES (?1)", "Acme Widget")

	page, _ := e.pages.Get("Catalog")
	result := e.Search(ctx, page, "ACME")

	if result.Query != "ACME" {
		t.Errorf("query echo = %q", result.Query)
	}
	if result.SectionsFound != 2 {
		t.Fatalf("sections found = %d, want 2", result.SectionsFound)
	}
	if result.Results["Venture"].Count != 1 {
		t.Errorf("venture matches = %d, want 1", result.Results["Venture"].Count)
	}
	if result.Results["Products"].Count != 1 {
		t.Errorf("product matches = %d, want 1", result.Results["Products"].Count)
	}

	none := e.Search(ctx, page, "zzzzz")
	if none.SectionsFound != 0 || len(none.Results) != 0 {
		t.Errorf("no-match search returned %v", none.Results)
	}
}

func TestSearchLimitPerSection(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 15; i++ {
		mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", fmt.Sprintf("Match %d", i))
	}

	page, _ := e.pages.Get("Catalog")
	result := e.Search(context.Background(), page, "match")
	if result.Results["Venture"].Count != 10 {
		t.Errorf("matches = %d, want capped at 10", result.Results["Venture"].Count)
	}
}

func TestFormFields(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Acme")

	fields, model, appErr := e.FormFields(context.Background(), catalogSection(t, e, "Products"))
	if appErr != nil {
		t.Fatal(appErr)
	}
	if model != "Products" {
		t.Errorf("model name = %q, want Products", model)
	}

	byName := make(map[string]FormField)
	for _, f := range fields {
		byName[f.Name] = f
	}

	if _, ok := byName["products_id"]; ok {
		t.Error("auto primary key offered on form")
	}
	if _, ok := byName["date_created"]; ok {
		t.Error("audit column offered on form")
	}
	if _, ok := byName["venture_id"]; ok {
		t.Error("raw FK column offered on form")
	}

	name, ok := byName["product_name"]
	if !ok || !name.Required || name.Control != "text" || name.MaxLength != 120 {
		t.Errorf("product_name field = %+v", name)
	}
	if code := byName["product_code"]; code.Required {
		t.Errorf("blank field marked required: %+v", code)
	}
	if active := byName["active"]; active.Required || active.Control != "checkbox" {
		t.Errorf("active field = %+v", active)
	}

	venture, ok := byName["venture"]
	if !ok || venture.Control != "select" {
		t.Fatalf("venture field = %+v", venture)
	}
	if venture.EmptyLabel != "Select Venture" {
		t.Errorf("empty label = %q", venture.EmptyLabel)
	}
	if len(venture.Options) != 1 || venture.Options[0].Label != "Acme" {
		t.Errorf("venture options = %+v", venture.Options)
	}
}

func TestFKOptions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Acme")
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Globex")

	section := catalogSection(t, e, "Products")

	options, emptyLabel, appErr := e.FKOptions(ctx, section, "venture")
	if appErr != nil {
		t.Fatal(appErr)
	}
	if emptyLabel != "Select Venture" {
		t.Errorf("empty label = %q", emptyLabel)
	}
	if len(options) != 2 || options[0].Label != "Acme" || options[1].Label != "Globex" {
		t.Errorf("options = %+v", options)
	}

	// Raw column name works too.
	if _, _, appErr := e.FKOptions(ctx, section, "venture_id"); appErr != nil {
		t.Errorf("lookup by column name failed: %v", appErr)
	}

	if _, _, appErr := e.FKOptions(ctx, section, "nope"); appErr == nil || appErr.Status != 404 {
		t.Errorf("unknown field error = %+v", appErr)
	}
}

func TestCreateValidation(t *testing.T) {
	e := newTestEngine(t)
	section := catalogSection(t, e, "Products")

	_, appErr := e.Create(context.Background(), section, map[string]any{})
	if appErr == nil || appErr.Status != 400 {
		t.Fatalf("expected validation error, got %+v", appErr)
	}
	if appErr.Fields["product_name"] != "This field is required." {
		t.Errorf("field errors = %v", appErr.Fields)
	}
}

func TestCreateWithForeignKey(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Acme")
	section := catalogSection(t, e, "Products")

	result, appErr := e.Create(ctx, section, map[string]any{
		"product_name": "Widget",
		"venture":      "1",
	})
	if appErr != nil {
		t.Fatal(appErr)
	}
	if result.ID != 1 || result.DisplayValue != "Widget" {
		t.Errorf("result = %+v", result)
	}
	if result.Message != "Products created successfully" {
		t.Errorf("message = %q", result.Message)
	}

	row, appErr := e.GetRecord(ctx, section, result.ID)
	if appErr != nil {
		t.Fatal(appErr)
	}
	if row["venture"] != "Acme" || row["venture_id"] != int64(1) {
		t.Errorf("stored row = %v", row)
	}
}

func TestCreateStoresEmptyStringForBlankField(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	section := catalogSection(t, e, "Products")

	// product_code accepts blank input but its column is NOT NULL, so
	// omitting it stores the empty string instead of failing the insert.
	created, appErr := e.Create(ctx, section, map[string]any{"product_name": "Widget"})
	if appErr != nil {
		t.Fatal(appErr)
	}

	row, appErr := e.GetRecord(ctx, section, created.ID)
	if appErr != nil {
		t.Fatal(appErr)
	}
	if row["product_code"] != "" {
		t.Errorf("omitted blank field = %v, want empty string", row["product_code"])
	}

	// An explicit empty submission clears the field the same way.
	mustExec(t, e, "UPDATE products SET product_code = ?1 WHERE products_id = ?2", "ABC", created.ID)
	if _, appErr := e.Update(ctx, section, created.ID, map[string]any{
		"product_name": "Widget",
		"product_code": "",
	}); appErr != nil {
		t.Fatal(appErr)
	}
	after, _ := e.GetRecord(ctx, section, created.ID)
	if after["product_code"] != "" {
		t.Errorf("cleared blank field = %v, want empty string", after["product_code"])
	}
}

func TestCreateDropsBadForeignKey(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	section := catalogSection(t, e, "Products")

	// Unknown target and non-numeric values are dropped, not rejected.
	result, appErr := e.Create(ctx, section, map[string]any{
		"product_name": "Widget",
		"venture":      "999",
	})
	if appErr != nil {
		t.Fatal(appErr)
	}

	row, _ := e.GetRecord(ctx, section, result.ID)
	if row["venture_id"] != nil {
		t.Errorf("dangling FK stored: %v", row["venture_id"])
	}
}

func TestCreateMaxLength(t *testing.T) {
	e := newTestEngine(t)
	section := catalogSection(t, e, "Products")

	_, appErr := e.Create(context.Background(), section, map[string]any{
		"product_name": "Widget",
		"product_code": "TOOLONG",
	})
	if appErr == nil || appErr.Fields["product_code"] == "" {
		t.Errorf("max length violation not reported: %+v", appErr)
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Acme")
	section := catalogSection(t, e, "Products")

	created, appErr := e.Create(ctx, section, map[string]any{
		"product_name": "Widget",
		"venture":      "1",
	})
	if appErr != nil {
		t.Fatal(appErr)
	}

	// Clients edit the resolved record and post it back whole: the label
	// string under "venture" must not clobber the stored pk.
	row, appErr := e.GetRecord(ctx, section, created.ID)
	if appErr != nil {
		t.Fatal(appErr)
	}
	row["product_name"] = "Gadget"

	updated, appErr := e.Update(ctx, section, created.ID, row)
	if appErr != nil {
		t.Fatal(appErr)
	}
	if updated.DisplayValue != "Gadget" {
		t.Errorf("display value = %q, want Gadget", updated.DisplayValue)
	}
	if updated.Message != "Products updated successfully" {
		t.Errorf("message = %q", updated.Message)
	}

	after, _ := e.GetRecord(ctx, section, created.ID)
	if after["venture_id"] != int64(1) {
		t.Errorf("round trip lost FK: %v", after["venture_id"])
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	e := newTestEngine(t)
	section := catalogSection(t, e, "Products")

	_, appErr := e.Update(context.Background(), section, 42, map[string]any{"product_name": "X"})
	if appErr == nil || appErr.Status != 404 {
		t.Errorf("expected 404, got %+v", appErr)
	}
}

func TestFullDataPagination(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", fmt.Sprintf("V%d", i))
	}
	section := catalogSection(t, e, "Venture")

	first, appErr := e.FullData(ctx, section, 1)
	if appErr != nil {
		t.Fatal(appErr)
	}
	p := first.Pagination
	if p.CurrentPage != 1 || p.TotalPages != 3 || !p.HasNext || p.HasPrevious || p.TotalCount != 5 {
		t.Errorf("page 1 pagination = %+v", p)
	}
	if len(first.Data) != 2 {
		t.Errorf("page 1 rows = %d, want 2", len(first.Data))
	}
	if first.Config != section {
		t.Error("section config not echoed")
	}

	last, _ := e.FullData(ctx, section, 99)
	if last.Pagination.CurrentPage != 3 || last.Pagination.HasNext || !last.Pagination.HasPrevious {
		t.Errorf("clamped pagination = %+v", last.Pagination)
	}
	if len(last.Data) != 1 {
		t.Errorf("last page rows = %d, want 1", len(last.Data))
	}

	zero, _ := e.FullData(ctx, section, 0)
	if zero.Pagination.CurrentPage != 1 {
		t.Errorf("page 0 clamped to %d, want 1", zero.Pagination.CurrentPage)
	}
}

func pageconfigSectionForTest() pageconfig.Section {
	return pageconfig.Section{Name: "Spaced Out", Table: "venture"}
}

func TestRelationName(t *testing.T) {
	if got := relationName("venture_id"); got != "venture" {
		t.Errorf("relationName(venture_id) = %q", got)
	}
	if got := relationName("code"); got != "code_label" {
		t.Errorf("relationName(code) = %q", got)
	}
}
