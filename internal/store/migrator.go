package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/skyeops/atlas/internal/schema"
)

// Migrator keeps physical tables in sync with their descriptors.
type Migrator struct {
	store *Store
}

func NewMigrator(store *Store) *Migrator {
	return &Migrator{store: store}
}

// Migrate ensures the table matches its descriptor. Creates the table
// if it doesn't exist, or adds missing columns.
func (m *Migrator) Migrate(ctx context.Context, table *schema.Table) error {
	exists, err := m.store.Dialect.TableExists(ctx, m.store.DB, table.Name)
	if err != nil {
		return fmt.Errorf("check table exists: %w", err)
	}

	if !exists {
		return m.createTable(ctx, table)
	}
	return m.alterTable(ctx, table)
}

func (m *Migrator) createTable(ctx context.Context, table *schema.Table) error {
	cols := make([]string, 0, len(table.Fields))
	for i := range table.Fields {
		cols = append(cols, m.buildColumnDef(table, &table.Fields[i]))
	}

	sqlStr := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", table.Name, strings.Join(cols, ",\n  "))
	if _, err := m.store.DB.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("create table %s: %w", table.Name, err)
	}
	return nil
}

func (m *Migrator) alterTable(ctx context.Context, table *schema.Table) error {
	existing, err := m.store.Dialect.GetColumns(ctx, m.store.DB, table.Name)
	if err != nil {
		return fmt.Errorf("get columns for %s: %w", table.Name, err)
	}

	for i := range table.Fields {
		f := &table.Fields[i]
		if _, ok := existing[f.Name]; ok {
			continue
		}
		colType := m.store.Dialect.ColumnType(f.Kind, f.MaxLength, f.Precision, f.Scale)
		sqlStr := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table.Name, f.Name, colType)
		if _, err := m.store.DB.ExecContext(ctx, sqlStr); err != nil {
			return fmt.Errorf("add column %s.%s: %w", table.Name, f.Name, err)
		}
	}
	return nil
}

func (m *Migrator) buildColumnDef(table *schema.Table, f *schema.Field) string {
	if f.IsAuto() && f.Name == table.PrimaryKey {
		return m.store.Dialect.AutoPrimaryKeySQL(f.Name)
	}

	col := f.Name + " " + m.store.Dialect.ColumnType(f.Kind, f.MaxLength, f.Precision, f.Scale)

	if f.Name == table.PrimaryKey {
		col += " PRIMARY KEY"
	} else if !f.Nullable && f.Default == nil {
		col += " NOT NULL"
	}

	if f.Default != nil {
		switch v := f.Default.(type) {
		case string:
			col += fmt.Sprintf(" DEFAULT '%s'", v)
		case bool:
			if m.store.Dialect.Name() == "sqlite" {
				if v {
					col += " DEFAULT 1"
				} else {
					col += " DEFAULT 0"
				}
			} else {
				col += fmt.Sprintf(" DEFAULT %t", v)
			}
		case int, int64, float64:
			col += fmt.Sprintf(" DEFAULT %v", v)
		default:
			col += fmt.Sprintf(" DEFAULT '%v'", v)
		}
	}

	if f.IsFK() {
		// Referenced PKs are all auto integer ids; the descriptor for the
		// target table names the column.
		col += fmt.Sprintf(" REFERENCES %s", f.References)
	}

	return col
}
