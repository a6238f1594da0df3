package api

import (
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"net/http"
)

func (h *Handler) ListCompetitions(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	competitions, err := h.program.ListCompetitions(e.Request().Context())
	if err != nil {
		l.Error("failed to list competitions", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, competitions)
}

func (h *Handler) GetCompetition(e echo.Context) error {
	competition, err := h.program.GetCompetition(e.Request().Context(), e.Param("slug"))
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, competition)
}

func (h *Handler) ListEvents(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	events, err := h.program.ListEvents(e.Request().Context())
	if err != nil {
		l.Error("failed to list events", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, events)
}

func (h *Handler) GetEvent(e echo.Context) error {
	event, err := h.program.GetEvent(e.Request().Context(), e.Param("slug"))
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, event)
}

func (h *Handler) GetCountdown(e echo.Context) error {
	countdown, err := h.program.Countdown(e.Request().Context(), e.Param("slug"))
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, countdown)
}
