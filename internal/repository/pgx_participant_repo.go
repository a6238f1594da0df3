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
)

type NetworkingRepository interface {
	Create(ctx context.Context, participant *model.NetworkingParticipant) error
	GetByUser(ctx context.Context, userID string) (*model.NetworkingParticipant, error)
	List(ctx context.Context) ([]*model.NetworkingParticipant, error)
}

type BusinessClassRepository interface {
	Create(ctx context.Context, participant *model.BusinessClassParticipant) error
	GetByUser(ctx context.Context, userID string) (*model.BusinessClassParticipant, error)
	List(ctx context.Context) ([]*model.BusinessClassParticipant, error)
}

type pgxNetworkingRepository struct {
	pool *pgxpool.Pool
}

func NewPgxNetworkingRepository(pool *pgxpool.Pool) NetworkingRepository {
	return &pgxNetworkingRepository{pool: pool}
}

var networkingColumns = []any{"id", "user_id", "name", "email", "phone", "institution", "motivation", "created_at"}

func scanNetworking(row pgx.Row) (*model.NetworkingParticipant, error) {
	n := &model.NetworkingParticipant{}
	err := row.Scan(&n.ID, &n.UserID, &n.Name, &n.Email, &n.Phone, &n.Institution, &n.Motivation, &n.CreatedAt)
	return n, err
}

func (p *pgxNetworkingRepository) Create(ctx context.Context, n *model.NetworkingParticipant) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("networking_participants", "id", "user_id", "name", "email", "phone", "institution", "motivation", "created_at"),
		im.Values(
			psql.Arg(n.ID),
			psql.Arg(n.UserID),
			psql.Arg(n.Name),
			psql.Arg(n.Email),
			psql.Arg(n.Phone),
			psql.Arg(n.Institution),
			psql.Arg(n.Motivation),
			psql.Arg(n.CreatedAt),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return mapPgError(err)
}

func (p *pgxNetworkingRepository) GetByUser(ctx context.Context, userID string) (*model.NetworkingParticipant, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(networkingColumns...),
		sm.From("networking_participants"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	n, err := scanNetworking(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (p *pgxNetworkingRepository) List(ctx context.Context) ([]*model.NetworkingParticipant, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(networkingColumns...),
		sm.From("networking_participants"),
		sm.OrderBy("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.NetworkingParticipant, error) {
		return scanNetworking(row)
	})
}

type pgxBusinessClassRepository struct {
	pool *pgxpool.Pool
}

func NewPgxBusinessClassRepository(pool *pgxpool.Pool) BusinessClassRepository {
	return &pgxBusinessClassRepository{pool: pool}
}

var businessClassColumns = []any{
	"id", "user_id", "name", "email", "phone", "institution", "business_name", "business_stage", "created_at",
}

func scanBusinessClass(row pgx.Row) (*model.BusinessClassParticipant, error) {
	b := &model.BusinessClassParticipant{}
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Email, &b.Phone, &b.Institution, &b.BusinessName, &b.BusinessStage, &b.CreatedAt)
	return b, err
}

func (p *pgxBusinessClassRepository) Create(ctx context.Context, b *model.BusinessClassParticipant) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("business_class_participants", "id", "user_id", "name", "email", "phone", "institution", "business_name", "business_stage", "created_at"),
		im.Values(
			psql.Arg(b.ID),
			psql.Arg(b.UserID),
			psql.Arg(b.Name),
			psql.Arg(b.Email),
			psql.Arg(b.Phone),
			psql.Arg(b.Institution),
			psql.Arg(b.BusinessName),
			psql.Arg(b.BusinessStage),
			psql.Arg(b.CreatedAt),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return mapPgError(err)
}

func (p *pgxBusinessClassRepository) GetByUser(ctx context.Context, userID string) (*model.BusinessClassParticipant, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(businessClassColumns...),
		sm.From("business_class_participants"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	b, err := scanBusinessClass(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (p *pgxBusinessClassRepository) List(ctx context.Context) ([]*model.BusinessClassParticipant, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(businessClassColumns...),
		sm.From("business_class_participants"),
		sm.OrderBy("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.BusinessClassParticipant, error) {
		return scanBusinessClass(row)
	})
}
