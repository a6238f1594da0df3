package db

import (
	"embed"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Migrate applies the embedded migrations against dsn. Running it on an
// up-to-date schema is not an error.
func Migrate(dsn string, direction Direction) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return errors.Wrap(err, "open migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, MigrationURL(dsn))
	if err != nil {
		return errors.Wrap(err, "init migrate")
	}
	defer m.Close()

	switch direction {
	case DirectionUp:
		err = m.Up()
	case DirectionDown:
		err = m.Down()
	default:
		return errors.Errorf("unknown migration direction %q", direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrapf(err, "migrate %s", direction)
	}
	return nil
}

// MigrationURL rewrites a postgres DSN to the scheme of the pgx/v5 migrate driver.
func MigrationURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
