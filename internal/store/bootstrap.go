package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyeops/atlas/internal/schema"
)

// Bootstrap creates the meta tables, migrates every registered business
// table and seeds the staff user. Safe to run on every startup.
func (s *Store) Bootstrap(ctx context.Context, registry *schema.Registry, logger *zap.Logger) error {
	for _, stmt := range splitStatements(s.Dialect.SystemTablesSQL()) {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap meta tables: %w", err)
		}
	}

	migrator := NewMigrator(s)
	for _, table := range registry.All() {
		if err := migrator.Migrate(ctx, table); err != nil {
			return fmt.Errorf("migrate %s: %w", table.Name, err)
		}
	}

	if err := s.seedStaffUser(ctx, logger); err != nil {
		return fmt.Errorf("seed staff user: %w", err)
	}
	return nil
}

func (s *Store) seedStaffUser(ctx context.Context, logger *zap.Logger) error {
	count, err := Count(ctx, s.DB, "SELECT COUNT(*) FROM _users")
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("INSERT INTO _users (id, email, password_hash) VALUES (%s, %s, %s)",
		pb.Add(uuid.NewString()), pb.Add("admin@localhost"), pb.Add(string(hash)))
	if _, err := s.DB.ExecContext(ctx, sqlStr, pb.Params()...); err != nil {
		return err
	}

	logger.Warn("default staff user created, change the password immediately",
		zap.String("email", "admin@localhost"))
	return nil
}

// splitStatements breaks a DDL script into individual statements.
// modernc.org/sqlite only executes the first statement of a multi
// statement Exec, so scripts are split on ";" at line ends.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
