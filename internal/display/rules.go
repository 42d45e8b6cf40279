package display

import (
	"context"
	"fmt"
	"sync"

	"github.com/skyeops/atlas/internal/store"
)

// Rule kinds.
const (
	KindColumn     = "column"     // label is the value of one column
	KindExpression = "expression" // label is an expr program over the row
)

// Rule describes how to label rows of one table.
type Rule struct {
	Table      string
	Kind       string
	Column     string
	Expression string
}

// BuiltinRules returns the default labelling rules. They are written to
// the _display_rules meta table on first start and editable there.
func BuiltinRules() []Rule {
	column := func(table, col string) Rule {
		return Rule{Table: table, Kind: KindColumn, Column: col}
	}
	expression := func(table, code string) Rule {
		return Rule{Table: table, Kind: KindExpression, Expression: code}
	}
	return []Rule{
		column("venture", "venture_name"),
		column("company", "company_name"),
		column("products", "product_name"),
		column("employee_location", "employee_location_name"),
		column("coverage", "coverage_name"),
		column("stage", "stage_name"),
		column("parameter", "parameter_name"),
		column("workflow", "workflow_name"),
		column("task", "task_name"),
		column("options", "option_name"),
		column("paper", "paper_name"),
		column("broker", "broker_name"),
		column("drive", "drive_name"),
		column("flow_origin", "flow_origin_name"),
		column("parameter_type", "parameter_type_name"),
		column("cover", "cover_name"),
		column("applications", "application_name"),
		column("attachment_type", "attachment_type_name"),
		column("attachment", "attachment_name"),
		column("employee_function", "employee_function"),
		column("document", "document_name"),
		column("sublimit", "sublimit_name"),
		column("input_output", "input_output_name"),
		column("generation_model", "generation_model_name"),
		column("training_model", "model_name"),
		column("data_seed", "data_seed_filename"),
		expression("employee_contact",
			`trim((employee_name_first ?? "") + " " + (employee_name_last ?? ""))`),
		expression("company_contact",
			`trim((company_contact_first ?? "") + " " + (company_contact_last ?? ""))`),
		expression("broker_contact",
			`trim((broker_first_name ?? "") + " " + (broker_last_name ?? ""))`),
		expression("orders",
			`"Order #" + string(orders_id) + ((company ?? "") == "" ? "" : " — " + company)`),
	}
}

// RuleSet holds the active labelling rules.
type RuleSet struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string]Rule)}
}

// Register adds or replaces the rule for a table.
func (rs *RuleSet) Register(r Rule) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.rules[r.Table] = r
}

// Get returns the rule for a table, if any.
func (rs *RuleSet) Get(table string) (Rule, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	r, ok := rs.rules[table]
	return r, ok
}

// Seed writes the built-in rules to _display_rules unless rules are
// already stored, then loads whatever the table holds.
func (rs *RuleSet) Seed(ctx context.Context, st *store.Store) error {
	count, err := store.Count(ctx, st.DB, "SELECT COUNT(*) FROM _display_rules")
	if err != nil {
		return fmt.Errorf("count display rules: %w", err)
	}
	if count == 0 {
		for _, r := range BuiltinRules() {
			pb := st.Dialect.NewParamBuilder()
			sqlStr := fmt.Sprintf(
				"INSERT INTO _display_rules (table_name, kind, display_column, expression) VALUES (%s, %s, %s, %s)",
				pb.Add(r.Table), pb.Add(r.Kind), pb.Add(r.Column), pb.Add(r.Expression))
			if _, err := st.DB.ExecContext(ctx, sqlStr, pb.Params()...); err != nil {
				return fmt.Errorf("seed display rule for %s: %w", r.Table, err)
			}
		}
	}
	return rs.Load(ctx, st)
}

// Load replaces the in-memory rules with the stored ones.
func (rs *RuleSet) Load(ctx context.Context, st *store.Store) error {
	rows, err := store.QueryRows(ctx, st.DB,
		"SELECT table_name, kind, display_column, expression FROM _display_rules")
	if err != nil {
		return fmt.Errorf("load display rules: %w", err)
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.rules = make(map[string]Rule, len(rows))
	for _, row := range rows {
		r := Rule{
			Table:      asString(row["table_name"]),
			Kind:       asString(row["kind"]),
			Column:     asString(row["display_column"]),
			Expression: asString(row["expression"]),
		}
		if r.Table != "" {
			rs.rules[r.Table] = r
		}
	}
	return nil
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
