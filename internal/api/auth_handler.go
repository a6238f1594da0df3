package api

import (
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"net/http"
)

func (h *Handler) Register(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	reg := &model.Registration{}
	if err := decodeRequest(e, reg); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	user, err := h.user.Register(e.Request().Context(), reg)
	if err != nil {
		l.Error("failed to register user", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	session, err := h.user.Login(e.Request().Context(), req.Email, req.Password)
	if err != nil {
		l.Warn("login failed", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, session)
}

func (h *Handler) Me(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	user, err := h.user.Me(e.Request().Context(), currentUserID(e))
	if err != nil {
		l.Error("failed to get current user", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, user)
}
