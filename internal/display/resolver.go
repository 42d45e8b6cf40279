package display

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/skyeops/atlas/internal/schema"
	"github.com/skyeops/atlas/internal/store"
)

// Resolver turns (table, pk) pairs into human-readable labels. Results
// are cached with a TTL; lookups never fail, the worst case is the
// "ID: <pk>" fallback label.
type Resolver struct {
	store    *store.Store
	registry *schema.Registry
	rules    *RuleSet
	cache    *expirable.LRU[string, string]
	logger   *zap.Logger

	progMu   sync.RWMutex
	programs map[string]*vm.Program
}

func NewResolver(st *store.Store, registry *schema.Registry, rules *RuleSet, maxEntries int, ttl time.Duration, logger *zap.Logger) *Resolver {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &Resolver{
		store:    st,
		registry: registry,
		rules:    rules,
		cache:    expirable.NewLRU[string, string](maxEntries, nil, ttl),
		logger:   logger,
		programs: make(map[string]*vm.Program),
	}
}

func cacheKey(table string, pk any) string {
	return table + ":" + fmt.Sprint(pk)
}

// Resolve returns the display label for one row.
func (r *Resolver) Resolve(ctx context.Context, table string, pk any) string {
	if pk == nil {
		return ""
	}
	key := cacheKey(table, pk)
	if label, ok := r.cache.Get(key); ok {
		return label
	}

	label := r.fallbackLabel(pk)
	row, err := r.fetchRow(ctx, table, pk)
	if err == nil && row != nil {
		label = r.labelFor(ctx, table, pk, row)
	} else if err != nil && err != store.ErrNotFound {
		r.logger.Error("display lookup failed",
			zap.String("table", table), zap.Any("pk", pk), zap.Error(err))
	}

	r.cache.Add(key, label)
	return label
}

// ResolveBulk returns labels for many rows of one table in a single
// query, reusing cached entries. Keys of the result map are the string
// form of each pk.
func (r *Resolver) ResolveBulk(ctx context.Context, table string, pks []any) map[string]string {
	results := make(map[string]string, len(pks))
	if len(pks) == 0 {
		return results
	}

	var uncached []any
	seen := make(map[string]bool, len(pks))
	for _, pk := range pks {
		if pk == nil {
			continue
		}
		id := fmt.Sprint(pk)
		if seen[id] {
			continue
		}
		seen[id] = true
		if label, ok := r.cache.Get(cacheKey(table, pk)); ok {
			results[id] = label
		} else {
			uncached = append(uncached, pk)
		}
	}

	if len(uncached) > 0 {
		r.fetchBulk(ctx, table, uncached, results)
	}

	// Anything still missing gets the fallback label.
	for _, pk := range pks {
		if pk == nil {
			continue
		}
		id := fmt.Sprint(pk)
		if _, ok := results[id]; !ok {
			label := r.fallbackLabel(pk)
			results[id] = label
			r.cache.Add(cacheKey(table, pk), label)
		}
	}
	return results
}

func (r *Resolver) fetchBulk(ctx context.Context, table string, pks []any, results map[string]string) {
	desc, err := r.registry.Describe(table)
	if err != nil {
		r.logger.Warn("display lookup for unknown table", zap.String("table", table))
		return
	}

	pb := r.store.Dialect.NewParamBuilder()
	cond := r.store.Dialect.InExpr(desc.PrimaryKey, pb, pks)
	sqlStr := fmt.Sprintf("SELECT * FROM %s WHERE %s", table, cond)

	rows, err := store.QueryRows(ctx, r.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		r.logger.Error("bulk display lookup failed",
			zap.String("table", table), zap.Int("count", len(pks)), zap.Error(err))
		return
	}

	for _, row := range rows {
		pk := row[desc.PrimaryKey]
		if pk == nil {
			continue
		}
		label := r.labelFor(ctx, table, pk, row)
		results[fmt.Sprint(pk)] = label
		r.cache.Add(cacheKey(table, pk), label)
	}
}

func (r *Resolver) fetchRow(ctx context.Context, table string, pk any) (map[string]any, error) {
	desc, err := r.registry.Describe(table)
	if err != nil {
		return nil, err
	}
	pb := r.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s", table, desc.PrimaryKey, pb.Add(pk))
	return store.QueryRow(ctx, r.store.DB, sqlStr, pb.Params()...)
}

// labelFor applies the table's rule to a fetched row.
func (r *Resolver) labelFor(ctx context.Context, table string, pk any, row map[string]any) string {
	rule, ok := r.rules.Get(table)
	if !ok {
		// No rule: a "<table>_name" column is the conventional label.
		rule = Rule{Table: table, Kind: KindColumn, Column: table + "_name"}
	}

	var label string
	switch rule.Kind {
	case KindExpression:
		label = r.evalExpression(ctx, table, rule.Expression, row)
	default:
		if v := row[rule.Column]; v != nil {
			label = strings.TrimSpace(fmt.Sprint(v))
		}
	}

	if label == "" {
		return r.fallbackLabel(pk)
	}
	return label
}

func (r *Resolver) evalExpression(ctx context.Context, table, code string, row map[string]any) string {
	program, err := r.compile(code)
	if err != nil {
		r.logger.Warn("display expression does not compile",
			zap.String("table", table), zap.Error(err))
		return ""
	}
	out, err := vm.Run(program, r.expressionEnv(ctx, table, code, row))
	if err != nil {
		r.logger.Warn("display expression failed",
			zap.String("table", table), zap.Error(err))
		return ""
	}
	if out == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(out))
}

// expressionEnv extends the raw row with resolved labels for foreign
// keys the expression refers to by relation name, so a rule for orders
// can say `company` and get the labelled company, not the raw id.
func (r *Resolver) expressionEnv(ctx context.Context, table, code string, row map[string]any) map[string]any {
	desc, err := r.registry.Describe(table)
	if err != nil {
		return row
	}

	env := row
	copied := false
	for _, f := range desc.Fields {
		if !f.IsFK() {
			continue
		}
		rel := strings.TrimSuffix(f.Name, "_id")
		if rel == f.Name || !strings.Contains(code, rel) {
			continue
		}
		if !copied {
			env = make(map[string]any, len(row)+1)
			for k, v := range row {
				env[k] = v
			}
			copied = true
		}
		env[rel] = r.Resolve(ctx, f.References, row[f.Name])
	}
	return env
}

func (r *Resolver) compile(code string) (*vm.Program, error) {
	r.progMu.RLock()
	program, ok := r.programs[code]
	r.progMu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(code, expr.Env(map[string]any{}), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	r.progMu.Lock()
	r.programs[code] = program
	r.progMu.Unlock()
	return program, nil
}

func (r *Resolver) fallbackLabel(pk any) string {
	return "ID: " + fmt.Sprint(pk)
}

// Invalidate drops the cached label for one row.
func (r *Resolver) Invalidate(table string, pk any) {
	r.cache.Remove(cacheKey(table, pk))
}

// InvalidateTable drops every cached label for a table.
func (r *Resolver) InvalidateTable(table string) {
	prefix := table + ":"
	for _, key := range r.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Remove(key)
		}
	}
}

// Flush empties the cache.
func (r *Resolver) Flush() {
	r.cache.Purge()
}
