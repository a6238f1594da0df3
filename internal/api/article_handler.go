package api

import (
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/service"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"net/http"
)

func paging(e echo.Context) (limit, offset int, err *service.Error) {
	if bindErr := echo.QueryParamsBinder(e).
		Int("limit", &limit).
		Int("offset", &offset).
		BindError(); bindErr != nil {
		return 0, 0, service.NewError(service.ErrorCodeInvalidBody, "limit and offset must be integers")
	}
	return limit, offset, nil
}

func (h *Handler) ListArticles(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	limit, offset, err := paging(e)
	if err != nil {
		return transportError(e, err)
	}

	articles, err := h.article.List(e.Request().Context(), limit, offset)
	if err != nil {
		l.Error("failed to list articles", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, articles)
}

func (h *Handler) GetArticle(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	slug := e.Param("slug")

	article, err := h.article.GetBySlug(e.Request().Context(), slug)
	if err != nil {
		l.Info("failed to get article", zap.String("slug", slug), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, article)
}

func (h *Handler) AdminListArticles(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	limit, offset, err := paging(e)
	if err != nil {
		return transportError(e, err)
	}

	articles, err := h.article.ListAll(e.Request().Context(), limit, offset)
	if err != nil {
		l.Error("failed to list articles", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, articles)
}

func (h *Handler) AdminGetArticle(e echo.Context) error {
	article, err := h.article.Get(e.Request().Context(), e.Param("id"))
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, article)
}

func (h *Handler) CreateArticle(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	in := &model.ArticleInput{}
	if err := decodeRequest(e, in); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	article, err := h.article.Create(e.Request().Context(), in)
	if err != nil {
		l.Error("failed to create article", zap.String("title", in.Title), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, article)
}

func (h *Handler) UpdateArticle(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	id := e.Param("id")

	patch := &model.ArticlePatch{}
	if err := decodeRequest(e, patch); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	article, err := h.article.Update(e.Request().Context(), id, patch)
	if err != nil {
		l.Error("failed to update article", zap.String("article_id", id), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, article)
}

func (h *Handler) DeleteArticle(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	id := e.Param("id")

	if err := h.article.Delete(e.Request().Context(), id); err != nil {
		l.Error("failed to delete article", zap.String("article_id", id), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

type uploadRequest struct {
	ID   string
	File *service.Upload
}

func uploadSteps() []step[uploadRequest] {
	return []step[uploadRequest]{
		pathParamStep("id", func(r *uploadRequest, v string) { r.ID = v }),
		fileStep("file", func(r *uploadRequest, u *service.Upload) { r.File = u }),
	}
}

func (h *Handler) UploadArticleCover(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req uploadRequest
	defer func() { closeUpload(req.File) }()

	if err := ProcessRequest(e, &req, uploadSteps()...); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	article, err := h.article.UploadCover(e.Request().Context(), req.ID, req.File)
	if err != nil {
		l.Error("failed to upload cover", zap.String("article_id", req.ID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, article)
}
