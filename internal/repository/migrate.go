package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is one numbered schema step.
type Migration struct {
	Name string
	Up   string
	Down string
}

// Migrations returns the embedded migrations in apply order.
func Migrations() ([]Migration, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	migrations := make([]Migration, 0, len(entries))
	for _, upPath := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(upPath, "migrations/"), ".up.sql")

		up, err := migrationFiles.ReadFile(upPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", upPath, err)
		}
		down, err := migrationFiles.ReadFile("migrations/" + name + ".down.sql")
		if err != nil {
			return nil, fmt.Errorf("read down migration for %s: %w", name, err)
		}

		migrations = append(migrations, Migration{Name: name, Up: string(up), Down: string(down)})
	}

	return migrations, nil
}

// Migrate applies every up migration. The statements are idempotent.
func (r *Repository) Migrate(ctx context.Context) error {
	migrations, err := Migrations()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if _, err := r.pool.Exec(ctx, m.Up); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}

	return nil
}

// Reset drops and recreates the schema. Intended for tests.
func (r *Repository) Reset(ctx context.Context) error {
	migrations, err := Migrations()
	if err != nil {
		return err
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		if _, err := r.pool.Exec(ctx, migrations[i].Down); err != nil {
			return fmt.Errorf("revert migration %s: %w", migrations[i].Name, err)
		}
	}

	return r.Migrate(ctx)
}
