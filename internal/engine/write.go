package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/skyeops/atlas/internal/pageconfig"
	"github.com/skyeops/atlas/internal/schema"
	"github.com/skyeops/atlas/internal/store"
)

// WriteResult is the outcome of a successful create or update.
type WriteResult struct {
	ID           int64  `json:"id"`
	DisplayValue string `json:"display_value"`
	Message      string `json:"message"`
}

// Create coerces and validates a payload, inserts the row in one
// transaction and returns its id and fresh display label.
func (e *Engine) Create(ctx context.Context, section *pageconfig.Section, payload map[string]any) (*WriteResult, *AppError) {
	table, err := e.registry.Describe(section.Table)
	if err != nil {
		return nil, SchemaError(fmt.Sprintf("table %s not found", section.Table))
	}

	values, fieldErrs := e.coercePayload(ctx, table, payload, false)
	if len(fieldErrs) > 0 {
		return nil, ValidationError(fieldErrs)
	}

	id, appErr := e.insertRow(ctx, table, values)
	if appErr != nil {
		return nil, appErr
	}

	e.resolver.Invalidate(table.Name, id)
	return &WriteResult{
		ID:           id,
		DisplayValue: e.resolver.Resolve(ctx, table.Name, id),
		Message:      fmt.Sprintf("%s created successfully", modelName(table)),
	}, nil
}

// Update applies a coerced payload to an existing row. Fields absent
// from the payload are left untouched; an empty payload is a no-op.
func (e *Engine) Update(ctx context.Context, section *pageconfig.Section, id int64, payload map[string]any) (*WriteResult, *AppError) {
	table, err := e.registry.Describe(section.Table)
	if err != nil {
		return nil, SchemaError(fmt.Sprintf("table %s not found", section.Table))
	}

	if _, appErr := e.fetchRecord(ctx, table, id); appErr != nil {
		return nil, appErr
	}

	values, fieldErrs := e.coercePayload(ctx, table, payload, true)
	if len(fieldErrs) > 0 {
		return nil, ValidationError(fieldErrs)
	}

	if len(values) > 0 {
		if appErr := e.updateRow(ctx, table, id, values); appErr != nil {
			return nil, appErr
		}
	}

	e.resolver.Invalidate(table.Name, id)
	return &WriteResult{
		ID:           id,
		DisplayValue: e.resolver.Resolve(ctx, table.Name, id),
		Message:      fmt.Sprintf("%s updated successfully", modelName(table)),
	}, nil
}

// GetRecord fetches one row with foreign keys resolved.
func (e *Engine) GetRecord(ctx context.Context, section *pageconfig.Section, id int64) (map[string]any, *AppError) {
	table, err := e.registry.Describe(section.Table)
	if err != nil {
		return nil, SchemaError(fmt.Sprintf("table %s not found", section.Table))
	}
	row, appErr := e.fetchRecord(ctx, table, id)
	if appErr != nil {
		return nil, appErr
	}
	resolved := e.resolveRows(ctx, table, []map[string]any{row})
	return resolved[0], nil
}

func (e *Engine) fetchRecord(ctx context.Context, table *schema.Table, id int64) (map[string]any, *AppError) {
	pb := e.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s",
		table.Name, table.PrimaryKey, pb.Add(id))
	row, err := store.QueryRow(ctx, e.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFoundError("record", fmt.Sprint(id))
		}
		e.logger.Error("record fetch failed",
			zap.String("table", table.Name), zap.Int64("id", id), zap.Error(err))
		return nil, PersistenceError(err.Error())
	}
	return row, nil
}

func (e *Engine) insertRow(ctx context.Context, table *schema.Table, values map[string]any) (int64, *AppError) {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return 0, PersistenceError(err.Error())
	}
	defer tx.Rollback()

	pb := e.store.Dialect.NewParamBuilder()
	var sqlStr string
	if len(values) == 0 {
		sqlStr = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", table.Name, table.PrimaryKey)
	} else {
		cols := sortedKeys(values)
		phs := make([]string, len(cols))
		for i, col := range cols {
			phs[i] = pb.Add(values[col])
		}
		sqlStr = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			table.Name, strings.Join(cols, ", "), strings.Join(phs, ", "), table.PrimaryKey)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, sqlStr, pb.Params()...).Scan(&id); err != nil {
		return 0, PersistenceError(e.store.Dialect.MapError(err).Error())
	}
	if err := tx.Commit(); err != nil {
		return 0, PersistenceError(err.Error())
	}
	return id, nil
}

func (e *Engine) updateRow(ctx context.Context, table *schema.Table, id int64, values map[string]any) *AppError {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return PersistenceError(err.Error())
	}
	defer tx.Rollback()

	pb := e.store.Dialect.NewParamBuilder()
	cols := sortedKeys(values)
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = " + pb.Add(values[col])
	}
	sqlStr := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		table.Name, strings.Join(sets, ", "), table.PrimaryKey, pb.Add(id))

	if _, err := store.Exec(ctx, tx, sqlStr, pb.Params()...); err != nil {
		return PersistenceError(e.store.Dialect.MapError(err).Error())
	}
	if err := tx.Commit(); err != nil {
		return PersistenceError(err.Error())
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
