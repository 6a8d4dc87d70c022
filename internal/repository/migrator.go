package repository

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// newMigrator opens a golang-migrate instance pointed at the SQL files
// under migrationsDir, shared by the `sim-engine migrate` CLI command and
// the repository's own integration test.
func newMigrator(dbURL, migrationsDir string) (*migrate.Migrate, error) {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsDir), dbURL)
	if err != nil {
		return nil, fmt.Errorf("opening migrator: %w", err)
	}
	return m, nil
}

// Migrate applies all pending up migrations.
func Migrate(dbURL, migrationsDir string) error {
	m, err := newMigrator(dbURL, migrationsDir)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Rollback reverts the most recently applied migration.
func Rollback(dbURL, migrationsDir string) error {
	m, err := newMigrator(dbURL, migrationsDir)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("rolling back migration: %w", err)
	}
	return nil
}
