package api

import (
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/service"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"net/http"
)

func (h *Handler) RegisterTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	slug := e.Param("slug")

	reg := &model.TeamRegistration{}
	if err := decodeRequest(e, reg); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("registering team", zap.String("competition", slug), zap.String("team_name", reg.Name))

	team, err := h.team.RegisterTeam(e.Request().Context(), currentUserID(e), slug, reg)
	if err != nil {
		l.Error("failed to register team", zap.String("competition", slug), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, team)
}

func (h *Handler) MyTeams(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teams, err := h.team.MyTeams(e.Request().Context(), currentUserID(e))
	if err != nil {
		l.Error("failed to list teams", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, teams)
}

func (h *Handler) GetTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")

	team, err := h.team.GetTeam(e.Request().Context(), currentUserID(e), teamID)
	if err != nil {
		l.Info("failed to get team", zap.String("team_id", teamID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}

type submissionRequest struct {
	TeamID string
	Stage  model.Stage `form:"stage" validate:"required,oneof=preliminary semifinal final"`
	Note   string      `form:"note" validate:"max=1000"`
	File   *service.Upload
}

func (h *Handler) Submit(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req submissionRequest
	defer func() { closeUpload(req.File) }()

	err := ProcessRequest(e, &req,
		decodeStep[submissionRequest],
		pathParamStep("id", func(r *submissionRequest, v string) { r.TeamID = v }),
		fileStep("file", func(r *submissionRequest, u *service.Upload) { r.File = u }),
	)
	if err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("submitting stage work", zap.String("team_id", req.TeamID), zap.String("stage", string(req.Stage)))

	submission, err := h.team.Submit(e.Request().Context(), currentUserID(e), req.TeamID, &service.SubmissionInput{
		Stage: req.Stage,
		Note:  req.Note,
		File:  req.File,
	})
	if err != nil {
		l.Error("failed to submit", zap.String("team_id", req.TeamID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, submission)
}

func (h *Handler) AdminListTeams(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	filter := &model.TeamFilter{
		CompetitionSlug: e.QueryParam("competition"),
		Stage:           model.Stage(e.QueryParam("stage")),
		Status:          model.TeamStatus(e.QueryParam("status")),
	}

	teams, err := h.team.ListTeams(e.Request().Context(), filter)
	if err != nil {
		l.Error("failed to list teams", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, teams)
}

func (h *Handler) AdminGetTeam(e echo.Context) error {
	team, err := h.team.AdminGetTeam(e.Request().Context(), e.Param("id"))
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}

func (h *Handler) AdminListSubmissions(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")

	submissions, err := h.team.ListSubmissions(e.Request().Context(), teamID)
	if err != nil {
		l.Error("failed to list submissions", zap.String("team_id", teamID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, submissions)
}

func (h *Handler) AdminSubmissionFile(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")
	stage := model.Stage(e.Param("stage"))

	url, err := h.team.SubmissionFile(e.Request().Context(), teamID, stage)
	if err != nil {
		l.Error("failed to get submission file", zap.String("team_id", teamID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.Redirect(http.StatusFound, url)
}

func (h *Handler) ReviewSubmission(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")

	var req struct {
		Stage  model.Stage `json:"stage" validate:"required,oneof=preliminary semifinal final"`
		Passed *bool       `json:"passed" validate:"required"`
	}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("reviewing submission",
		zap.String("team_id", teamID),
		zap.String("stage", string(req.Stage)),
		zap.Bool("passed", *req.Passed))

	team, err := h.team.Review(e.Request().Context(), teamID, req.Stage, *req.Passed)
	if err != nil {
		l.Error("failed to review submission", zap.String("team_id", teamID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}
