package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skyeops/atlas/internal/pageconfig"
	"github.com/skyeops/atlas/internal/store"
)

// SearchSectionResult holds the matches of one section.
type SearchSectionResult struct {
	Data  []map[string]any `json:"data"`
	Count int              `json:"count"`
}

// SearchResult groups matches by section name.
type SearchResult struct {
	Results       map[string]SearchSectionResult `json:"results"`
	Query         string                         `json:"query"`
	SectionsFound int                            `json:"sections_found"`
}

// Search runs a case-insensitive substring query across every
// searchable column of every section of a page. Sections that error
// are omitted; the search itself never fails.
func (e *Engine) Search(ctx context.Context, page *pageconfig.Page, query string) SearchResult {
	result := SearchResult{
		Results: make(map[string]SearchSectionResult),
		Query:   query,
	}

	for i := range page.Sections {
		section := &page.Sections[i]
		rows, err := e.searchSection(ctx, section, query)
		if err != nil {
			e.logger.Warn("section search failed",
				zap.String("section", section.Name), zap.Error(err))
			continue
		}
		if len(rows) == 0 {
			continue
		}
		result.Results[section.Name] = SearchSectionResult{Data: rows, Count: len(rows)}
	}
	result.SectionsFound = len(result.Results)
	return result
}

func (e *Engine) searchSection(ctx context.Context, section *pageconfig.Section, query string) ([]map[string]any, error) {
	table, err := e.registry.Describe(section.Table)
	if err != nil {
		return nil, err
	}

	pb := e.store.Dialect.NewParamBuilder()
	var conds []string
	for _, col := range section.Columns {
		if !col.Searchable || table.Field(col.DBColumn) == nil {
			continue
		}
		conds = append(conds, e.store.Dialect.ContainsExpr(col.DBColumn, pb, query))
	}
	if len(conds) == 0 {
		return nil, nil
	}

	sqlStr := fmt.Sprintf("SELECT * FROM %s WHERE %s ORDER BY %s LIMIT %s",
		table.Name, strings.Join(conds, " OR "), table.PrimaryKey, pb.Add(e.cfg.SearchLimit))
	rows, err := store.QueryRows(ctx, e.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, err
	}
	return e.resolveRows(ctx, table, rows), nil
}
