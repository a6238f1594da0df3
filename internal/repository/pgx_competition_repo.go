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

type CompetitionRepository interface {
	List(ctx context.Context) ([]*model.Competition, error)
	Get(ctx context.Context, id string) (*model.Competition, error)
	GetBySlug(ctx context.Context, slug string) (*model.Competition, error)
}

type pgxCompetitionRepository struct {
	pool *pgxpool.Pool
}

func NewPgxCompetitionRepository(pool *pgxpool.Pool) CompetitionRepository {
	return &pgxCompetitionRepository{pool: pool}
}

var competitionColumns = []any{
	"id", "slug", "name", "description", "guidebook_url", "registration_opens_at", "registration_closes_at",
}

func scanCompetition(row pgx.Row) (*model.Competition, error) {
	c := &model.Competition{}
	err := row.Scan(
		&c.ID,
		&c.Slug,
		&c.Name,
		&c.Description,
		&c.GuidebookURL,
		&c.RegistrationOpensAt,
		&c.RegistrationClosesAt,
	)
	return c, err
}

func (p *pgxCompetitionRepository) List(ctx context.Context) ([]*model.Competition, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(competitionColumns...),
		sm.From("competitions"),
		sm.OrderBy("registration_opens_at"),
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

	competitions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Competition, error) {
		return scanCompetition(row)
	})
	if err != nil {
		return nil, err
	}

	for _, c := range competitions {
		if c.Stages, err = p.stages(ctx, e, c.ID); err != nil {
			return nil, err
		}
	}
	return competitions, nil
}

func (p *pgxCompetitionRepository) Get(ctx context.Context, id string) (*model.Competition, error) {
	return p.getBy(ctx, "id", id)
}

func (p *pgxCompetitionRepository) GetBySlug(ctx context.Context, slug string) (*model.Competition, error) {
	return p.getBy(ctx, "slug", slug)
}

func (p *pgxCompetitionRepository) getBy(ctx context.Context, column, value string) (*model.Competition, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(competitionColumns...),
		sm.From("competitions"),
		sm.Where(psql.Quote(column).EQ(psql.Arg(value))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	c, err := scanCompetition(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if c.Stages, err = p.stages(ctx, e, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *pgxCompetitionRepository) stages(ctx context.Context, e db.Executor, competitionID string) ([]*model.StageSchedule, error) {
	q := psql.Select(
		sm.Columns("stage", "fee", "opens_at", "closes_at"),
		sm.From("competition_stages"),
		sm.Where(psql.Quote("competition_id").EQ(psql.Arg(competitionID))),
		sm.OrderBy("opens_at"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.StageSchedule, error) {
		s := &model.StageSchedule{}
		err := row.Scan(&s.Stage, &s.Fee, &s.OpensAt, &s.ClosesAt)
		return s, err
	})
}
