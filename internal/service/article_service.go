package service

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/repository"
	"github.com/yakoovad/makarapreneur/internal/storage"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"regexp"
	"strings"
	"time"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title and collapses every run of other characters into a dash.
func Slugify(title string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

type ArticleService struct {
	tx db.Transactor

	articles repository.ArticleRepository
	files    storage.FileStore

	now func() time.Time
}

func NewArticleService(tx db.Transactor) *ArticleService {
	return &ArticleService{tx: tx, now: time.Now}
}

// List returns published articles, newest first.
func (a *ArticleService) List(ctx context.Context, limit, offset int) ([]*model.Article, *Error) {
	return a.list(ctx, true, limit, offset)
}

// ListAll includes drafts.
func (a *ArticleService) ListAll(ctx context.Context, limit, offset int) ([]*model.Article, *Error) {
	return a.list(ctx, false, limit, offset)
}

func (a *ArticleService) list(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Article, *Error) {
	l := logger.FromContext(ctx)

	limit, offset = page(limit, offset)

	articles, err := a.articles.List(ctx, publishedOnly, limit, offset)
	if err != nil {
		l.Error("failed to list articles", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list articles")
	}
	return articles, nil
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetBySlug returns a published article. Drafts are reported as missing.
func (a *ArticleService) GetBySlug(ctx context.Context, slug string) (*model.Article, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("getting article", zap.String("slug", slug))

	article, err := a.articles.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !article.Published) {
		return nil, NewError(ErrorCodeNotFound, "article not found")
	}
	if err != nil {
		l.Error("failed to get article", zap.String("slug", slug), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get article")
	}
	return article, nil
}

func (a *ArticleService) Get(ctx context.Context, id string) (*model.Article, *Error) {
	l := logger.FromContext(ctx)

	article, err := a.articles.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "article not found")
	}
	if err != nil {
		l.Error("failed to get article", zap.String("article_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get article")
	}
	return article, nil
}

func (a *ArticleService) Create(ctx context.Context, in *model.ArticleInput) (*model.Article, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating article", zap.String("title", in.Title))

	now := a.now().UTC()
	article := &model.Article{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Summary:   in.Summary,
		Content:   in.Content,
		Author:    in.Author,
		Published: in.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Published {
		article.PublishedAt = &now
	}

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		slug, err := a.uniqueSlug(txCtx, in.Title, "")
		if err != nil {
			return err
		}
		article.Slug = slug

		err = a.articles.Create(txCtx, article)
		if errors.Is(err, repository.ErrAlreadyExists) {
			l.Warn("article slug taken concurrently", zap.String("slug", slug))
			return NewError(ErrorCodeAlreadyExists, "article slug already exists")
		}
		if err != nil {
			l.Error("failed to create article", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create article")
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	l.Debug("article created", zap.String("article_id", article.ID), zap.String("slug", article.Slug))
	return article, nil
}

func (a *ArticleService) Update(ctx context.Context, id string, in *model.ArticlePatch) (*model.Article, *Error) {
	l := logger.FromContext(ctx)
	l.Info("updating article", zap.String("article_id", id))

	var updated *model.Article

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := a.articles.Get(txCtx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(ErrorCodeNotFound, "article not found")
		}
		if err != nil {
			l.Error("failed to get article", zap.String("article_id", id), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to update article")
		}

		now := a.now().UTC()
		patch := &repository.ArticlePatch{
			ID:        id,
			Title:     in.Title,
			Summary:   in.Summary,
			Content:   in.Content,
			Author:    in.Author,
			Published: in.Published,
			UpdatedAt: now,
		}

		if in.Title != nil && *in.Title != current.Title {
			slug, err := a.uniqueSlug(txCtx, *in.Title, id)
			if err != nil {
				return err
			}
			patch.Slug = &slug
		}

		if in.Published != nil && *in.Published && current.PublishedAt == nil {
			patch.PublishedAt = &now
		}

		updated, err = a.articles.Patch(txCtx, patch)
		if errors.Is(err, repository.ErrAlreadyExists) {
			return NewError(ErrorCodeAlreadyExists, "article slug already exists")
		}
		if err != nil {
			l.Error("failed to patch article", zap.String("article_id", id), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to update article")
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	return updated, nil
}

func (a *ArticleService) Delete(ctx context.Context, id string) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting article", zap.String("article_id", id))

	err := a.articles.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NewError(ErrorCodeNotFound, "article not found")
	}
	if err != nil {
		l.Error("failed to delete article", zap.String("article_id", id), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to delete article")
	}
	return nil
}

func (a *ArticleService) UploadCover(ctx context.Context, id string, f *Upload) (*model.Article, *Error) {
	l := logger.FromContext(ctx)

	current, serr := a.Get(ctx, id)
	if serr != nil {
		return nil, serr
	}

	url, serr := store(ctx, a.files, storage.KindImage, f, "cover", "articles", id)
	if serr != nil {
		return nil, serr
	}

	article, err := a.articles.Patch(ctx, &repository.ArticlePatch{
		ID:        id,
		CoverURL:  &url,
		UpdatedAt: a.now().UTC(),
	})
	if err != nil {
		l.Error("failed to set article cover", zap.String("article_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to set cover")
	}

	if current.CoverURL != "" && current.CoverURL != url {
		removeObject(ctx, a.files, current.CoverURL)
	}
	return article, nil
}

// uniqueSlug derives a slug from title, appending -2, -3... while another
// article than self holds it.
func (a *ArticleService) uniqueSlug(ctx context.Context, title, self string) (string, error) {
	base := Slugify(title)
	if base == "" {
		return "", NewError(ErrorCodeInvalidBody, "title must contain letters or digits")
	}

	for i := 1; ; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}

		existing, err := a.articles.GetBySlug(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			logger.FromContext(ctx).Error("failed to check slug", zap.String("slug", candidate), zap.Error(err))
			return "", NewError(ErrorCodeUnspecified, "failed to check slug")
		}
		if existing.ID == self {
			return candidate, nil
		}
	}
}

func (a *ArticleService) WithArticleRepo(r repository.ArticleRepository) *ArticleService {
	a.articles = r
	return a
}

func (a *ArticleService) WithFileStore(fs storage.FileStore) *ArticleService {
	a.files = fs
	return a
}

func (a *ArticleService) WithClock(now func() time.Time) *ArticleService {
	a.now = now
	return a
}
