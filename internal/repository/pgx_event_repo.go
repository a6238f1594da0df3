package repository

import (
	"context"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/model"
)

type EventRepository interface {
	List(ctx context.Context) ([]*model.Event, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
}

type pgxEventRepository struct {
	pool *pgxpool.Pool
}

func NewPgxEventRepository(pool *pgxpool.Pool) EventRepository {
	return &pgxEventRepository{pool: pool}
}

func (p *pgxEventRepository) List(ctx context.Context) ([]*model.Event, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "slug", "name", "description", "venue", "starts_at", "ends_at"),
		sm.From("events"),
		sm.OrderBy("starts_at"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Event, error) {
		ev := &model.Event{}
		err := row.Scan(&ev.ID, &ev.Slug, &ev.Name, &ev.Description, &ev.Venue, &ev.StartsAt, &ev.EndsAt)
		return ev, err
	})
}

func (p *pgxEventRepository) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "slug", "name", "description", "venue", "starts_at", "ends_at"),
		sm.From("events"),
		sm.Where(psql.Quote("slug").EQ(psql.Arg(slug))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	ev := &model.Event{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&ev.ID, &ev.Slug, &ev.Name, &ev.Description, &ev.Venue, &ev.StartsAt, &ev.EndsAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}
