package api

import (
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/makarapreneur/internal/payment"
	"github.com/yakoovad/makarapreneur/internal/service"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"io"
	"net/http"
)

const maxCallbackSize = 64 << 10

func (h *Handler) CreateInvoice(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")

	p, err := h.payment.CreateInvoice(e.Request().Context(), currentUserID(e), teamID)
	if err != nil {
		l.Error("failed to create invoice", zap.String("team_id", teamID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPayments(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")

	payments, err := h.payment.Status(e.Request().Context(), currentUserID(e), teamID)
	if err != nil {
		l.Error("failed to list payments", zap.String("team_id", teamID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, payments)
}

func (h *Handler) PaymentCallback(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	body, readErr := io.ReadAll(io.LimitReader(e.Request().Body, maxCallbackSize))
	if readErr != nil {
		l.Error("failed to read callback body", zap.Error(readErr))
		return transportError(e, service.NewError(service.ErrorCodeInvalidBody, "failed to read body"))
	}

	token := e.Request().Header.Get(payment.CallbackTokenHeader)

	p, err := h.payment.HandleCallback(e.Request().Context(), token, body)
	if err != nil {
		l.Error("failed to handle payment callback", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, p)
}
