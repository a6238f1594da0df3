package repository

import (
	"context"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/model"
)

type SponsorRepository interface {
	Create(ctx context.Context, sponsor *model.Sponsor) error
	Get(ctx context.Context, id string) (*model.Sponsor, error)
	List(ctx context.Context) ([]*model.Sponsor, error)
	Update(ctx context.Context, sponsor *model.Sponsor) error
	Delete(ctx context.Context, id string) error
}

type MediaPartnerRepository interface {
	Create(ctx context.Context, partner *model.MediaPartner) error
	Get(ctx context.Context, id string) (*model.MediaPartner, error)
	List(ctx context.Context) ([]*model.MediaPartner, error)
	Update(ctx context.Context, partner *model.MediaPartner) error
	Delete(ctx context.Context, id string) error
}

type pgxSponsorRepository struct {
	pool *pgxpool.Pool
}

func NewPgxSponsorRepository(pool *pgxpool.Pool) SponsorRepository {
	return &pgxSponsorRepository{pool: pool}
}

func (p *pgxSponsorRepository) Create(ctx context.Context, s *model.Sponsor) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("sponsors", "id", "name", "logo_url", "website", "tier", "sort_order"),
		im.Values(psql.Arg(s.ID), psql.Arg(s.Name), psql.Arg(s.LogoURL), psql.Arg(s.Website), psql.Arg(s.Tier), psql.Arg(s.Order)),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return mapPgError(err)
}

func (p *pgxSponsorRepository) Get(ctx context.Context, id string) (*model.Sponsor, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "logo_url", "website", "tier", "sort_order"),
		sm.From("sponsors"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	s := &model.Sponsor{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Name, &s.LogoURL, &s.Website, &s.Tier, &s.Order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (p *pgxSponsorRepository) List(ctx context.Context) ([]*model.Sponsor, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "logo_url", "website", "tier", "sort_order"),
		sm.From("sponsors"),
		sm.OrderBy("sort_order"),
		sm.OrderBy("name"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Sponsor, error) {
		s := &model.Sponsor{}
		err := row.Scan(&s.ID, &s.Name, &s.LogoURL, &s.Website, &s.Tier, &s.Order)
		return s, err
	})
}

func (p *pgxSponsorRepository) Update(ctx context.Context, s *model.Sponsor) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("sponsors"),
		um.SetCol("name").ToArg(s.Name),
		um.SetCol("logo_url").ToArg(s.LogoURL),
		um.SetCol("website").ToArg(s.Website),
		um.SetCol("tier").ToArg(s.Tier),
		um.SetCol("sort_order").ToArg(s.Order),
		um.Where(psql.Quote("id").EQ(psql.Arg(s.ID))),
	)

	return execAffectingOne(ctx, e, q)
}

func (p *pgxSponsorRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, db.GetPgxExecutorFromContext(ctx, p.pool), "sponsors", id)
}

type pgxMediaPartnerRepository struct {
	pool *pgxpool.Pool
}

func NewPgxMediaPartnerRepository(pool *pgxpool.Pool) MediaPartnerRepository {
	return &pgxMediaPartnerRepository{pool: pool}
}

func (p *pgxMediaPartnerRepository) Create(ctx context.Context, m *model.MediaPartner) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("media_partners", "id", "name", "logo_url", "website", "sort_order"),
		im.Values(psql.Arg(m.ID), psql.Arg(m.Name), psql.Arg(m.LogoURL), psql.Arg(m.Website), psql.Arg(m.Order)),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return mapPgError(err)
}

func (p *pgxMediaPartnerRepository) Get(ctx context.Context, id string) (*model.MediaPartner, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "logo_url", "website", "sort_order"),
		sm.From("media_partners"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	m := &model.MediaPartner{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.Name, &m.LogoURL, &m.Website, &m.Order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (p *pgxMediaPartnerRepository) List(ctx context.Context) ([]*model.MediaPartner, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "logo_url", "website", "sort_order"),
		sm.From("media_partners"),
		sm.OrderBy("sort_order"),
		sm.OrderBy("name"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.MediaPartner, error) {
		m := &model.MediaPartner{}
		err := row.Scan(&m.ID, &m.Name, &m.LogoURL, &m.Website, &m.Order)
		return m, err
	})
}

func (p *pgxMediaPartnerRepository) Update(ctx context.Context, m *model.MediaPartner) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("media_partners"),
		um.SetCol("name").ToArg(m.Name),
		um.SetCol("logo_url").ToArg(m.LogoURL),
		um.SetCol("website").ToArg(m.Website),
		um.SetCol("sort_order").ToArg(m.Order),
		um.Where(psql.Quote("id").EQ(psql.Arg(m.ID))),
	)

	return execAffectingOne(ctx, e, q)
}

func (p *pgxMediaPartnerRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, db.GetPgxExecutorFromContext(ctx, p.pool), "media_partners", id)
}
