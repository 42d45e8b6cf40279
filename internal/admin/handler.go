package admin

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/skyeops/atlas/internal/display"
	"github.com/skyeops/atlas/internal/engine"
	"github.com/skyeops/atlas/internal/schema"
	"github.com/skyeops/atlas/internal/store"
)

// Handler serves the operational endpoints: table descriptor
// management, display rule management and cache control.
type Handler struct {
	store    *store.Store
	registry *schema.Registry
	loader   *schema.Loader
	migrator *store.Migrator
	rules    *display.RuleSet
	resolver *display.Resolver
}

func NewHandler(s *store.Store, registry *schema.Registry, loader *schema.Loader, migrator *store.Migrator, rules *display.RuleSet, resolver *display.Resolver) *Handler {
	return &Handler{
		store:    s,
		registry: registry,
		loader:   loader,
		migrator: migrator,
		rules:    rules,
		resolver: resolver,
	}
}

func RegisterRoutes(app *fiber.App, h *Handler, middleware ...fiber.Handler) {
	admin := app.Group("/admin")
	for _, m := range middleware {
		admin.Use(m)
	}

	admin.Get("/tables", h.ListTables)
	admin.Get("/tables/:name", h.GetTable)
	admin.Put("/tables/:name", h.UpsertTable)

	admin.Get("/display-rules", h.ListDisplayRules)
	admin.Put("/display-rules/:table", h.UpsertDisplayRule)

	admin.Post("/cache/flush", h.FlushCache)
}

// --- Table descriptors ---

func (h *Handler) ListTables(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"tables": h.registry.TableNames()})
}

func (h *Handler) GetTable(c *fiber.Ctx) error {
	name := c.Params("name")
	table, err := h.registry.Describe(name)
	if err != nil {
		return engine.NotFoundError("table", name)
	}
	return c.JSON(fiber.Map{"data": table})
}

// UpsertTable stores a descriptor override, migrates the physical
// table and registers the new shape.
func (h *Handler) UpsertTable(c *fiber.Ctx) error {
	name := c.Params("name")

	var table schema.Table
	if err := c.BodyParser(&table); err != nil {
		return engine.InputError("Invalid JSON body")
	}
	table.Name = name

	if err := validateTable(&table); err != nil {
		return engine.SchemaError(err.Error())
	}

	ctx := c.Context()
	if err := h.loader.Save(ctx, &table, h.store.Dialect.NowExpr(), h.store.Dialect.Placeholder); err != nil {
		return engine.PersistenceError(err.Error())
	}
	if err := h.migrator.Migrate(ctx, &table); err != nil {
		return engine.PersistenceError(err.Error())
	}

	h.registry.Register(&table)
	h.resolver.InvalidateTable(name)
	return c.JSON(fiber.Map{"data": table})
}

// --- Display rules ---

func (h *Handler) ListDisplayRules(c *fiber.Ctx) error {
	rows, err := store.QueryRows(c.Context(), h.store.DB,
		"SELECT table_name, kind, display_column, expression FROM _display_rules ORDER BY table_name")
	if err != nil {
		return engine.PersistenceError(err.Error())
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return c.JSON(fiber.Map{"data": rows})
}

// UpsertDisplayRule replaces the labelling rule for one table and
// invalidates its cached labels so the change shows immediately.
func (h *Handler) UpsertDisplayRule(c *fiber.Ctx) error {
	tableName := c.Params("table")
	if !h.registry.Has(tableName) {
		return engine.NotFoundError("table", tableName)
	}

	var body struct {
		Kind       string `json:"kind"`
		Column     string `json:"column"`
		Expression string `json:"expression"`
	}
	if err := c.BodyParser(&body); err != nil {
		return engine.InputError("Invalid JSON body")
	}

	rule := display.Rule{
		Table:      tableName,
		Kind:       body.Kind,
		Column:     body.Column,
		Expression: body.Expression,
	}
	if err := validateRule(&rule); err != nil {
		return engine.SchemaError(err.Error())
	}

	ctx := c.Context()
	pb := h.store.Dialect.NewParamBuilder()
	if _, err := store.Exec(ctx, h.store.DB,
		fmt.Sprintf("DELETE FROM _display_rules WHERE table_name = %s", pb.Add(tableName)),
		pb.Params()...); err != nil {
		return engine.PersistenceError(err.Error())
	}
	pb = h.store.Dialect.NewParamBuilder()
	if _, err := store.Exec(ctx, h.store.DB, fmt.Sprintf(
		"INSERT INTO _display_rules (table_name, kind, display_column, expression) VALUES (%s, %s, %s, %s)",
		pb.Add(rule.Table), pb.Add(rule.Kind), pb.Add(rule.Column), pb.Add(rule.Expression)),
		pb.Params()...); err != nil {
		return engine.PersistenceError(err.Error())
	}

	h.rules.Register(rule)
	h.resolver.InvalidateTable(tableName)
	return c.JSON(fiber.Map{"data": fiber.Map{
		"table":      rule.Table,
		"kind":       rule.Kind,
		"column":     rule.Column,
		"expression": rule.Expression,
	}})
}

// --- Cache control ---

func (h *Handler) FlushCache(c *fiber.Ctx) error {
	h.resolver.Flush()
	return c.JSON(fiber.Map{"message": "Display cache flushed"})
}

// --- Validation ---

func validateTable(t *schema.Table) error {
	if t.Name == "" {
		return fmt.Errorf("table name is required")
	}
	if len(t.Fields) == 0 {
		return fmt.Errorf("table must have at least one field")
	}
	if t.PrimaryKey == "" {
		return fmt.Errorf("primary key is required")
	}
	if t.Field(t.PrimaryKey) == nil {
		return fmt.Errorf("primary key column %s not found in fields", t.PrimaryKey)
	}
	for i := range t.Fields {
		if t.Fields[i].Name == "" {
			return fmt.Errorf("every field needs a name")
		}
	}
	return nil
}

func validateRule(r *display.Rule) error {
	switch r.Kind {
	case display.KindColumn:
		if r.Column == "" {
			return fmt.Errorf("column is required for column rules")
		}
	case display.KindExpression:
		if r.Expression == "" {
			return fmt.Errorf("expression is required for expression rules")
		}
	default:
		return fmt.Errorf("invalid rule kind: %s", r.Kind)
	}
	return nil
}
