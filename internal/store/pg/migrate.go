package pg

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	migrations "github.com/Zim95/browseterm-server/migrations/postgres"
)

// NewMigrator crea la instancia de golang-migrate sobre las migraciones embebidas.
// dsn es una URL postgres://...
func NewMigrator(dsn string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, migrations.Dir)
	if err != nil {
		return nil, fmt.Errorf("pg: migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create migrator: %w", err)
	}
	return m, nil
}

// MigrateUp aplica todas las migraciones pendientes. Sin cambios no es error.
func MigrateUp(dsn string) error {
	return run(dsn, func(m *migrate.Migrate) error { return m.Up() })
}

// MigrateDown revierte steps migraciones (steps <= 0 revierte todo).
func MigrateDown(dsn string, steps int) error {
	return run(dsn, func(m *migrate.Migrate) error {
		if steps <= 0 {
			return m.Down()
		}
		return m.Steps(-steps)
	})
}

// Version devuelve la versión aplicada y si quedó dirty.
func Version(dsn string) (uint, bool, error) {
	m, err := NewMigrator(dsn)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func run(dsn string, fn func(*migrate.Migrate) error) error {
	m, err := NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("pg: migrate: %w", err)
	}
	return nil
}
