package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies every embedded migration in file name order. Statements
// are written to be idempotent, so re-running is safe.
func Migrate(ctx context.Context, db Querier, log *zap.Logger) error {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := migrationFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := db.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		log.Info("Migration applied", zap.String("file", name))
	}

	return nil
}
