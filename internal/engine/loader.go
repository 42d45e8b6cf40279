package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skyeops/atlas/internal/pageconfig"
	"github.com/skyeops/atlas/internal/schema"
	"github.com/skyeops/atlas/internal/store"
)

// SectionResult is one loaded section card.
type SectionResult struct {
	Config     *pageconfig.Section `json:"config"`
	Data       []map[string]any    `json:"data"`
	TotalCount int64               `json:"total_count"`
	Error      string              `json:"error,omitempty"`
}

// LoadSection fetches up to limit rows for a section card, resolving
// every foreign key to a display label. Failures are captured on the
// result, never returned: a broken section must not take down the page.
func (e *Engine) LoadSection(ctx context.Context, section *pageconfig.Section, limit int) SectionResult {
	result := SectionResult{Config: section, Data: []map[string]any{}}

	table, err := e.registry.Describe(section.Table)
	if err != nil {
		result.Error = "unknown table"
		e.logger.Error("section references unknown table",
			zap.String("section", section.Name), zap.String("table", section.Table))
		return result
	}

	total, err := store.Count(ctx, e.store.DB, fmt.Sprintf("SELECT COUNT(*) FROM %s", table.Name))
	if err != nil {
		result.Error = err.Error()
		e.logger.Error("section count failed",
			zap.String("section", section.Name), zap.Error(err))
		return result
	}
	result.TotalCount = total

	pb := e.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("SELECT * FROM %s ORDER BY %s LIMIT %s",
		table.Name, table.PrimaryKey, pb.Add(limit))
	rows, err := store.QueryRows(ctx, e.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		result.Error = err.Error()
		e.logger.Error("section fetch failed",
			zap.String("section", section.Name), zap.Error(err))
		return result
	}

	result.Data = e.resolveRows(ctx, table, rows)
	return result
}

// resolveRows turns raw rows into resolved attribute maps: scalars
// copied, each foreign key column fk_id joined by its label under fk,
// and the primary key echoed as pk. Labels for the same target table
// are fetched in one bulk call.
func (e *Engine) resolveRows(ctx context.Context, table *schema.Table, rows []map[string]any) []map[string]any {
	if e.store.Dialect.NeedsBoolFix() {
		store.NormalizeBooleans(rows, table.BoolFieldNames())
	}

	fkFields := table.FKFields()

	// Collect distinct pks per target table across all rows.
	labels := make(map[string]map[string]string, len(fkFields))
	for _, f := range fkFields {
		var pks []any
		for _, row := range rows {
			if v := row[f.Name]; v != nil {
				pks = append(pks, v)
			}
		}
		if len(pks) > 0 {
			labels[f.References] = e.resolver.ResolveBulk(ctx, f.References, pks)
		}
	}

	resolved := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out := make(map[string]any, len(row)+len(fkFields)+1)
		for k, v := range row {
			out[k] = v
		}
		for _, f := range fkFields {
			labelKey := relationName(f.Name)
			v := row[f.Name]
			if v == nil {
				out[labelKey] = nil
				out[f.Name] = nil
				continue
			}
			out[labelKey] = labels[f.References][fmt.Sprint(v)]
		}
		out["pk"] = row[table.PrimaryKey]
		resolved = append(resolved, out)
	}
	return resolved
}

// relationName strips the conventional _id suffix from a foreign key
// column, yielding the key its resolved label is published under.
func relationName(column string) string {
	if name := strings.TrimSuffix(column, "_id"); name != column && name != "" {
		return name
	}
	return column + "_label"
}
