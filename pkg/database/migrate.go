package database

import (
	"embed"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator wraps golang-migrate over the embedded schema files.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator builds a migrator that runs through the given pool.
func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create postgres driver")
	}

	sourceDriver, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create source driver")
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migrator")
	}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. An already current schema is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("no pending migrations")
			return nil
		}
		return errors.Wrap(err, "failed to run migrations")
	}
	slog.Info("migrations completed successfully")
	return nil
}

// Down rolls back the given number of migrations.
func (mg *Migrator) Down(steps int) error {
	if err := mg.m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return errors.Wrap(err, "failed to roll back migrations")
	}
	return nil
}

// Version returns the applied version and whether the schema is dirty.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func (mg *Migrator) Close() {
	if sourceErr, dbErr := mg.m.Close(); sourceErr != nil || dbErr != nil {
		slog.Error("failed to close migrator", "sourceErr", sourceErr, "dbErr", dbErr)
	}
}

// Migrate is the one-shot form used at startup and by the test harness.
func Migrate(pool *pgxpool.Pool) error {
	mg, err := NewMigrator(pool)
	if err != nil {
		return err
	}
	defer mg.Close()
	return mg.Up()
}
