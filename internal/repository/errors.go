package repository

import (
	"context"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/yakoovad/makarapreneur/internal/db"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapPgError converts constraint violations to repository errors.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrAlreadyExists
		case pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}

type builder interface {
	Build(ctx context.Context) (string, []any, error)
}

// execAffectingOne runs q and reports ErrNotFound when no row changed.
func execAffectingOne(ctx context.Context, e db.Executor, q builder) error {
	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	commandTag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return mapPgError(err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
