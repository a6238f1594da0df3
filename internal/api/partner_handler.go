package api

import (
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"net/http"
)

func (h *Handler) ListSponsors(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	sponsors, err := h.partner.ListSponsors(e.Request().Context())
	if err != nil {
		l.Error("failed to list sponsors", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, sponsors)
}

func (h *Handler) CreateSponsor(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	sponsor := &model.Sponsor{}
	if err := decodeRequest(e, sponsor); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	created, err := h.partner.CreateSponsor(e.Request().Context(), sponsor)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateSponsor(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	sponsor := &model.Sponsor{}
	if err := decodeRequest(e, sponsor); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	updated, err := h.partner.UpdateSponsor(e.Request().Context(), e.Param("id"), sponsor)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteSponsor(e echo.Context) error {
	if err := h.partner.DeleteSponsor(e.Request().Context(), e.Param("id")); err != nil {
		return transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) UploadSponsorLogo(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req uploadRequest
	defer func() { closeUpload(req.File) }()

	if err := ProcessRequest(e, &req, uploadSteps()...); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	sponsor, err := h.partner.UploadSponsorLogo(e.Request().Context(), req.ID, req.File)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, sponsor)
}

func (h *Handler) ListMediaPartners(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	partners, err := h.partner.ListMediaPartners(e.Request().Context())
	if err != nil {
		l.Error("failed to list media partners", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, partners)
}

func (h *Handler) CreateMediaPartner(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	partner := &model.MediaPartner{}
	if err := decodeRequest(e, partner); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	created, err := h.partner.CreateMediaPartner(e.Request().Context(), partner)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateMediaPartner(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	partner := &model.MediaPartner{}
	if err := decodeRequest(e, partner); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	updated, err := h.partner.UpdateMediaPartner(e.Request().Context(), e.Param("id"), partner)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteMediaPartner(e echo.Context) error {
	if err := h.partner.DeleteMediaPartner(e.Request().Context(), e.Param("id")); err != nil {
		return transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) UploadMediaPartnerLogo(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req uploadRequest
	defer func() { closeUpload(req.File) }()

	if err := ProcessRequest(e, &req, uploadSteps()...); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	partner, err := h.partner.UploadMediaPartnerLogo(e.Request().Context(), req.ID, req.File)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, partner)
}
