package sqlite

import (
	"database/sql"
	"errors"
	"io/fs"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations brings the credential store schema up to date using the
// embedded migration files.
func (s *Store) ApplyMigrations() error {
	return Migrate(s.db, migrations.Migrations, "schema_migrations")
}

// Migrate applies every pending up migration in fsys to db, tracking the
// version in table. Other sqlite-backed components share it with their own
// migration sets.
func Migrate(db *sql.DB, fsys fs.FS, table string) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: table})
	if err != nil {
		return err
	}

	source, err := iofs.New(fsys, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return err
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
