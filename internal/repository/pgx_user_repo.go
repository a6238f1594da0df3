package repository

import (
	"context"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/model"
	"time"
)

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	Phone        string     `db:"phone"`
	Institution  string     `db:"institution"`
	Role         model.Role `db:"role"`
	CreatedAt    time.Time  `db:"created_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgxUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgxUserRepository{pool: pool}
}

var userColumns = []any{"id", "email", "password_hash", "name", "phone", "institution", "role", "created_at"}

func (p *pgxUserRepository) Create(ctx context.Context, user *User) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("users", "id", "email", "password_hash", "name", "phone", "institution", "role"),
		im.Values(
			psql.Arg(user.ID),
			psql.Arg(user.Email),
			psql.Arg(user.PasswordHash),
			psql.Arg(user.Name),
			psql.Arg(user.Phone),
			psql.Arg(user.Institution),
			psql.Arg(user.Role),
		),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return mapPgError(e.QueryRow(ctx, sql, args...).Scan(&user.CreatedAt))
}

func (p *pgxUserRepository) Get(ctx context.Context, userID string) (*User, error) {
	return p.getBy(ctx, "id", userID)
}

func (p *pgxUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return p.getBy(ctx, "email", email)
}

func (p *pgxUserRepository) getBy(ctx context.Context, column, value string) (*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(userColumns...),
		sm.From("users"),
		sm.Where(psql.Quote(column).EQ(psql.Arg(value))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	u := &User{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Phone,
		&u.Institution,
		&u.Role,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
