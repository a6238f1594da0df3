package repository

import (
	"context"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/model"
	"time"
)

type ArticlePatch struct {
	ID          string
	Slug        *string
	Title       *string
	Summary     *string
	Content     *string
	CoverURL    *string
	Author      *string
	Published   *bool
	PublishedAt *time.Time
	UpdatedAt   time.Time
}

type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	Get(ctx context.Context, id string) (*model.Article, error)
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Article, error)
	Patch(ctx context.Context, patch *ArticlePatch) (*model.Article, error)
	Delete(ctx context.Context, id string) error
}

type pgxArticleRepository struct {
	pool *pgxpool.Pool
}

func NewPgxArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &pgxArticleRepository{pool: pool}
}

var articleColumns = []any{
	"id", "slug", "title", "summary", "content", "cover_url", "author", "published", "published_at", "created_at", "updated_at",
}

func scanArticle(row pgx.Row) (*model.Article, error) {
	a := &model.Article{}
	err := row.Scan(
		&a.ID,
		&a.Slug,
		&a.Title,
		&a.Summary,
		&a.Content,
		&a.CoverURL,
		&a.Author,
		&a.Published,
		&a.PublishedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (p *pgxArticleRepository) Create(ctx context.Context, a *model.Article) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("articles", "id", "slug", "title", "summary", "content", "cover_url", "author", "published", "published_at", "created_at", "updated_at"),
		im.Values(
			psql.Arg(a.ID),
			psql.Arg(a.Slug),
			psql.Arg(a.Title),
			psql.Arg(a.Summary),
			psql.Arg(a.Content),
			psql.Arg(a.CoverURL),
			psql.Arg(a.Author),
			psql.Arg(a.Published),
			psql.Arg(a.PublishedAt),
			psql.Arg(a.CreatedAt),
			psql.Arg(a.UpdatedAt),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return mapPgError(err)
}

func (p *pgxArticleRepository) Get(ctx context.Context, id string) (*model.Article, error) {
	return p.getBy(ctx, "id", id)
}

func (p *pgxArticleRepository) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	return p.getBy(ctx, "slug", slug)
}

func (p *pgxArticleRepository) getBy(ctx context.Context, column, value string) (*model.Article, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(articleColumns...),
		sm.From("articles"),
		sm.Where(psql.Quote(column).EQ(psql.Arg(value))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	a, err := scanArticle(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (p *pgxArticleRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Article, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(articleColumns...),
		sm.From("articles"),
		sm.OrderBy("published_at").Desc().NullsLast(),
		sm.OrderBy("created_at").Desc(),
		sm.Limit(limit),
		sm.Offset(offset),
	)
	if publishedOnly {
		q.Apply(sm.Where(psql.Quote("published").EQ(psql.Arg(true))))
	}

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Article, error) {
		return scanArticle(row)
	})
}

func (p *pgxArticleRepository) Patch(ctx context.Context, patch *ArticlePatch) (*model.Article, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := []bob.Mod[*dialect.UpdateQuery]{um.SetCol("updated_at").ToArg(patch.UpdatedAt)}

	if patch.Slug != nil {
		sets = append(sets, um.SetCol("slug").ToArg(*patch.Slug))
	}
	if patch.Title != nil {
		sets = append(sets, um.SetCol("title").ToArg(*patch.Title))
	}
	if patch.Summary != nil {
		sets = append(sets, um.SetCol("summary").ToArg(*patch.Summary))
	}
	if patch.Content != nil {
		sets = append(sets, um.SetCol("content").ToArg(*patch.Content))
	}
	if patch.CoverURL != nil {
		sets = append(sets, um.SetCol("cover_url").ToArg(*patch.CoverURL))
	}
	if patch.Author != nil {
		sets = append(sets, um.SetCol("author").ToArg(*patch.Author))
	}
	if patch.Published != nil {
		sets = append(sets, um.SetCol("published").ToArg(*patch.Published))
	}
	if patch.PublishedAt != nil {
		sets = append(sets, um.SetCol("published_at").ToArg(*patch.PublishedAt))
	}

	q := psql.Update(
		um.Table("articles"),
		um.Where(psql.Quote("id").EQ(psql.Arg(patch.ID))),
		um.Returning(articleColumns...),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	a, err := scanArticle(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, mapPgError(err)
	}
	return a, nil
}

func (p *pgxArticleRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, db.GetPgxExecutorFromContext(ctx, p.pool), "articles", id)
}

func deleteByID(ctx context.Context, e db.Executor, table, id string) error {
	q := psql.Delete(
		dm.From(table),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return execAffectingOne(ctx, e, q)
}
