package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/yakoovad/makarapreneur/internal/auth"
	"github.com/yakoovad/makarapreneur/internal/service"
	"go.uber.org/zap"
	"net/http"
)

type Handler struct {
	user        *service.UserService
	article     *service.ArticleService
	partner     *service.PartnerService
	program     *service.ProgramService
	team        *service.TeamService
	payment     *service.PaymentService
	participant *service.ParticipantService

	healthChecker HealthChecker
	metrics       *Metrics
	limiter       *RateLimiter
	ipExtractor   echo.IPExtractor
	corsOrigins   []string

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithMetrics(m *Metrics) *Handler {
	h.metrics = m
	return h
}

func (h *Handler) WithRateLimiter(l *RateLimiter) *Handler {
	h.limiter = l
	return h
}

func (h *Handler) WithIPExtractor(x echo.IPExtractor) *Handler {
	h.ipExtractor = x
	return h
}

func (h *Handler) WithCORSOrigins(origins []string) *Handler {
	h.corsOrigins = origins
	return h
}

func (h *Handler) WithUserService(user *service.UserService) *Handler {
	h.user = user
	return h
}

func (h *Handler) WithArticleService(article *service.ArticleService) *Handler {
	h.article = article
	return h
}

func (h *Handler) WithPartnerService(partner *service.PartnerService) *Handler {
	h.partner = partner
	return h
}

func (h *Handler) WithProgramService(program *service.ProgramService) *Handler {
	h.program = program
	return h
}

func (h *Handler) WithTeamService(team *service.TeamService) *Handler {
	h.team = team
	return h
}

func (h *Handler) WithPaymentService(payment *service.PaymentService) *Handler {
	h.payment = payment
	return h
}

func (h *Handler) WithParticipantService(participant *service.ParticipantService) *Handler {
	h.participant = participant
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.IPExtractor = h.ipExtractor
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(h.cors())
	e.Use(middleware.BodyLimit("12M"))

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}
	if h.metrics != nil {
		e.Use(h.metrics.Middleware())
		e.GET("/metrics", h.metrics.Handler())
	}

	limited := h.rateLimited()

	e.GET("/articles", h.ListArticles)
	e.GET("/articles/:slug", h.GetArticle)
	e.GET("/sponsors", h.ListSponsors)
	e.GET("/media-partners", h.ListMediaPartners)
	e.GET("/competitions", h.ListCompetitions)
	e.GET("/competitions/:slug", h.GetCompetition)
	e.GET("/events", h.ListEvents)
	e.GET("/events/:slug", h.GetEvent)
	e.GET("/events/:slug/countdown", h.GetCountdown)

	e.POST("/auth/register", h.Register, limited...)
	e.POST("/auth/login", h.Login, limited...)
	e.POST("/payments/callback", h.PaymentCallback)

	// per route, so unknown paths reach RouteNotFound unauthenticated
	userAuth := AuthMiddleware(auth.TokenTypeUser, auth.TokenTypeAdmin)
	limitedUser := append([]echo.MiddlewareFunc{userAuth}, limited...)

	e.GET("/me", h.Me, userAuth)
	e.POST("/competitions/:slug/teams", h.RegisterTeam, limitedUser...)
	e.GET("/teams", h.MyTeams, userAuth)
	e.GET("/teams/:id", h.GetTeam, userAuth)
	e.POST("/teams/:id/submissions", h.Submit, userAuth)
	e.POST("/teams/:id/invoice", h.CreateInvoice, userAuth)
	e.GET("/teams/:id/payments", h.ListPayments, userAuth)
	e.POST("/networking", h.RegisterNetworking, limitedUser...)
	e.GET("/networking/me", h.NetworkingStatus, userAuth)
	e.POST("/business-class", h.RegisterBusinessClass, limitedUser...)
	e.GET("/business-class/me", h.BusinessClassStatus, userAuth)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return transportError(c, service.NewError(service.ErrorCodeNotFound, "route not found"))
	})

	adminSecurity := e.Group("/admin", AuthMiddleware(auth.TokenTypeAdmin))

	adminSecurity.GET("/articles", h.AdminListArticles)
	adminSecurity.GET("/articles/:id", h.AdminGetArticle)
	adminSecurity.POST("/articles", h.CreateArticle)
	adminSecurity.PATCH("/articles/:id", h.UpdateArticle)
	adminSecurity.DELETE("/articles/:id", h.DeleteArticle)
	adminSecurity.POST("/articles/:id/cover", h.UploadArticleCover)

	adminSecurity.GET("/sponsors", h.ListSponsors)
	adminSecurity.POST("/sponsors", h.CreateSponsor)
	adminSecurity.PUT("/sponsors/:id", h.UpdateSponsor)
	adminSecurity.DELETE("/sponsors/:id", h.DeleteSponsor)
	adminSecurity.POST("/sponsors/:id/logo", h.UploadSponsorLogo)

	adminSecurity.GET("/media-partners", h.ListMediaPartners)
	adminSecurity.POST("/media-partners", h.CreateMediaPartner)
	adminSecurity.PUT("/media-partners/:id", h.UpdateMediaPartner)
	adminSecurity.DELETE("/media-partners/:id", h.DeleteMediaPartner)
	adminSecurity.POST("/media-partners/:id/logo", h.UploadMediaPartnerLogo)

	adminSecurity.GET("/teams", h.AdminListTeams)
	adminSecurity.GET("/teams/:id", h.AdminGetTeam)
	adminSecurity.GET("/teams/:id/submissions", h.AdminListSubmissions)
	adminSecurity.GET("/teams/:id/submissions/:stage/file", h.AdminSubmissionFile)
	adminSecurity.POST("/teams/:id/review", h.ReviewSubmission)

	adminSecurity.GET("/networking", h.AdminListNetworking)
	adminSecurity.GET("/business-class", h.AdminListBusinessClass)
}

func (h *Handler) cors() echo.MiddlewareFunc {
	if len(h.corsOrigins) == 0 {
		return middleware.CORS()
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: h.corsOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	})
}

func (h *Handler) rateLimited() []echo.MiddlewareFunc {
	if h.limiter == nil {
		return nil
	}
	return []echo.MiddlewareFunc{h.limiter.Middleware()}
}

func decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "invalid request body")
	}

	if err := e.Validate(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}

func transportError(e echo.Context, err *service.Error) error {
	response := struct {
		Error *service.Error `json:"error"`
	}{Error: err}

	return e.JSON(statusFor(err.Code), response)
}

func statusFor(code service.ErrorCode) int {
	switch code {
	case service.ErrorCodeNotFound:
		return http.StatusNotFound
	case service.ErrorCodeInvalidBody, service.ErrorCodeNoFee:
		return http.StatusBadRequest
	case service.ErrorCodeUnauthorized, service.ErrorCodeInvalidCredentials, service.ErrorCodeInvalidCallback:
		return http.StatusUnauthorized
	case service.ErrorCodeForbidden:
		return http.StatusForbidden
	case service.ErrorCodePaymentRequired:
		return http.StatusPaymentRequired
	case service.ErrorCodeAlreadyExists, service.ErrorCodeAlreadyPaid, service.ErrorCodeInvalidTransition,
		service.ErrorCodeStageMismatch, service.ErrorCodeTeamInactive, service.ErrorCodeRegistrationClosed:
		return http.StatusConflict
	case service.ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case service.ErrorCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
