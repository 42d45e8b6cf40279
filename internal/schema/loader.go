package schema

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Loader reads table descriptors stored as JSON in the _tables meta
// table. Stored descriptors override the compiled-in catalog, so the
// schema can be adjusted without a rebuild.
type Loader struct {
	db *sql.DB
}

func NewLoader(db *sql.DB) *Loader {
	return &Loader{db: db}
}

// Load reads every stored descriptor into the registry.
func (l *Loader) Load(ctx context.Context, registry *Registry) error {
	rows, err := l.db.QueryContext(ctx, "SELECT name, definition FROM _tables")
	if err != nil {
		return fmt.Errorf("query _tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var definition []byte
		if err := rows.Scan(&name, &definition); err != nil {
			return fmt.Errorf("scan _tables row: %w", err)
		}

		var table Table
		if err := json.Unmarshal(definition, &table); err != nil {
			return fmt.Errorf("parse descriptor for %s: %w", name, err)
		}
		if table.Name == "" {
			table.Name = name
		}
		registry.Register(&table)
	}
	return rows.Err()
}

// Save upserts a descriptor into the _tables meta table.
func (l *Loader) Save(ctx context.Context, table *Table, nowExpr string, placeholder func(int) string) error {
	definition, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal descriptor: %w", err)
	}

	sqlStr := fmt.Sprintf(`INSERT INTO _tables (name, definition) VALUES (%s, %s)
		ON CONFLICT (name) DO UPDATE SET definition = %s, updated_at = %s`,
		placeholder(1), placeholder(2), placeholder(3), nowExpr)
	_, err = l.db.ExecContext(ctx, sqlStr, table.Name, string(definition), string(definition))
	if err != nil {
		return fmt.Errorf("save descriptor for %s: %w", table.Name, err)
	}
	return nil
}
