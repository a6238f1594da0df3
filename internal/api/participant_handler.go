package api

import (
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"net/http"
)

func (h *Handler) RegisterNetworking(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	p := &model.NetworkingParticipant{}
	if err := decodeRequest(e, p); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	registered, err := h.participant.RegisterNetworking(e.Request().Context(), currentUserID(e), p)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, registered)
}

func (h *Handler) NetworkingStatus(e echo.Context) error {
	status, err := h.participant.NetworkingStatus(e.Request().Context(), currentUserID(e))
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, status)
}

func (h *Handler) RegisterBusinessClass(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	p := &model.BusinessClassParticipant{}
	if err := decodeRequest(e, p); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	registered, err := h.participant.RegisterBusinessClass(e.Request().Context(), currentUserID(e), p)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, registered)
}

func (h *Handler) BusinessClassStatus(e echo.Context) error {
	status, err := h.participant.BusinessClassStatus(e.Request().Context(), currentUserID(e))
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, status)
}

func (h *Handler) AdminListNetworking(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	participants, err := h.participant.ListNetworking(e.Request().Context())
	if err != nil {
		l.Error("failed to list networking participants", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, participants)
}

func (h *Handler) AdminListBusinessClass(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	participants, err := h.participant.ListBusinessClass(e.Request().Context())
	if err != nil {
		l.Error("failed to list business class participants", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, participants)
}
