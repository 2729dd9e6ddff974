package postgres

import (
	"errors"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5://
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Jexxer/warframe-checklist/internal/auth/store/drivers/postgres/migrations"
)

// ApplyMigrations creates the users table if it is missing.
func (s *Store) ApplyMigrations() error {
	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(s.dsn))
	if err != nil {
		return err
	}
	defer func() {
		_, _ = instance.Close()
	}()

	err = instance.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// migrateURL swaps the postgres:// scheme for the one the migrate pgx
// driver registers under.
func migrateURL(dsn string) string {
	if _, rest, ok := strings.Cut(dsn, "://"); ok {
		return "pgx5://" + rest
	}
	return dsn
}
