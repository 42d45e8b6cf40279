package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skyeops/atlas/internal/pageconfig"
	"github.com/skyeops/atlas/internal/store"
)

// Pagination describes one page of a section's full listing.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
	TotalCount  int64 `json:"total_count"`
}

// FullDataResult is one page of a section's complete data set.
type FullDataResult struct {
	Data       []map[string]any    `json:"data"`
	Config     *pageconfig.Section `json:"config"`
	Pagination Pagination          `json:"pagination"`
}

// FullData returns one page of a section's rows with foreign keys
// resolved. Page numbers start at 1; out-of-range pages clamp to the
// valid range.
func (e *Engine) FullData(ctx context.Context, section *pageconfig.Section, pageNum int) (*FullDataResult, *AppError) {
	table, err := e.registry.Describe(section.Table)
	if err != nil {
		return nil, SchemaError(fmt.Sprintf("table %s not found", section.Table))
	}

	total, err := store.Count(ctx, e.store.DB, fmt.Sprintf("SELECT COUNT(*) FROM %s", table.Name))
	if err != nil {
		e.logger.Error("full data count failed",
			zap.String("section", section.Name), zap.Error(err))
		return nil, PersistenceError(err.Error())
	}

	pageSize := e.cfg.PageSize
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if pageNum < 1 {
		pageNum = 1
	}
	if pageNum > totalPages {
		pageNum = totalPages
	}

	pb := e.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("SELECT * FROM %s ORDER BY %s LIMIT %s OFFSET %s",
		table.Name, table.PrimaryKey, pb.Add(pageSize), pb.Add((pageNum-1)*pageSize))
	rows, err := store.QueryRows(ctx, e.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		e.logger.Error("full data fetch failed",
			zap.String("section", section.Name), zap.Error(err))
		return nil, PersistenceError(err.Error())
	}

	return &FullDataResult{
		Data:   e.resolveRows(ctx, table, rows),
		Config: section,
		Pagination: Pagination{
			CurrentPage: pageNum,
			TotalPages:  totalPages,
			HasNext:     pageNum < totalPages,
			HasPrevious: pageNum > 1,
			TotalCount:  total,
		},
	}, nil
}
