package main

import (
	"context"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yakoovad/makarapreneur/internal/api"
	"github.com/yakoovad/makarapreneur/internal/auth"
	"github.com/yakoovad/makarapreneur/internal/config"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/mail"
	"github.com/yakoovad/makarapreneur/internal/payment"
	"github.com/yakoovad/makarapreneur/internal/repository"
	"github.com/yakoovad/makarapreneur/internal/scheduler"
	"github.com/yakoovad/makarapreneur/internal/service"
	"github.com/yakoovad/makarapreneur/internal/storage"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	limiterSweepSpec = "@every 10m"
	limiterIdle      = 30 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background jobs",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	l, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}
	defer func() { _ = l.Sync() }()

	l.Info("starting application", zap.String("version", version))

	auth.TokenSecretKey = cfg.Auth.TokenSecret

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.MigrateOnStart {
		if err = db.Migrate(cfg.Database.DSN, db.DirectionUp); err != nil {
			return err
		}
		l.Info("database migrated")
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	defer pool.Close()

	if err = pool.Ping(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}

	l.Info("database connection established")

	files, err := storage.NewS3Store(ctx, storage.Config{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		PresignTTL:    cfg.Storage.PresignTTL,
	})
	if err != nil {
		return err
	}

	gateway, err := payment.NewClient(payment.Config{
		BaseURL:   cfg.Payment.BaseURL,
		SecretKey: cfg.Payment.SecretKey,
	})
	if err != nil {
		return err
	}

	mailer, err := newMailer(cfg.Mail, l)
	if err != nil {
		return err
	}

	transactor := db.NewPgxTransactor(pool)

	userRepo := repository.NewPgxUserRepository(pool)
	articleRepo := repository.NewPgxArticleRepository(pool)
	sponsorRepo := repository.NewPgxSponsorRepository(pool)
	mediaPartnerRepo := repository.NewPgxMediaPartnerRepository(pool)
	competitionRepo := repository.NewPgxCompetitionRepository(pool)
	eventRepo := repository.NewPgxEventRepository(pool)
	teamRepo := repository.NewPgxTeamRepository(pool)
	submissionRepo := repository.NewPgxSubmissionRepository(pool)
	paymentRepo := repository.NewPgxPaymentRepository(pool)
	networkingRepo := repository.NewPgxNetworkingRepository(pool)
	businessClassRepo := repository.NewPgxBusinessClassRepository(pool)

	user := service.NewUserService(transactor).WithUserRepo(userRepo).WithMailer(mailer).
		WithAdminEmails(cfg.Auth.AdminEmails).WithTokenTTL(cfg.Auth.TokenTTL)
	article := service.NewArticleService(transactor).WithArticleRepo(articleRepo).WithFileStore(files)
	partner := service.NewPartnerService(transactor).WithSponsorRepo(sponsorRepo).
		WithMediaPartnerRepo(mediaPartnerRepo).WithFileStore(files)
	program := service.NewProgramService().WithCompetitionRepo(competitionRepo).WithEventRepo(eventRepo)
	team := service.NewTeamService(transactor).WithCompetitionRepo(competitionRepo).WithTeamRepo(teamRepo).
		WithSubmissionRepo(submissionRepo).WithPaymentRepo(paymentRepo).WithFileStore(files).WithMailer(mailer)
	pay := service.NewPaymentService(transactor, service.PaymentOptions{
		CallbackToken:      cfg.Payment.CallbackToken,
		InvoiceDuration:    cfg.Payment.InvoiceDuration,
		SuccessRedirectURL: cfg.Payment.SuccessRedirectURL,
		FailureRedirectURL: cfg.Payment.FailureRedirectURL,
	}).WithTeamRepo(teamRepo).WithCompetitionRepo(competitionRepo).WithPaymentRepo(paymentRepo).
		WithGateway(gateway).WithMailer(mailer)
	participant := service.NewParticipantService().WithNetworkingRepo(networkingRepo).
		WithBusinessClassRepo(businessClassRepo)

	metrics := api.NewMetrics()
	if err = service.RegisterMetrics(metrics.Registry()); err != nil {
		return errors.Wrap(err, "failed to register metrics")
	}

	healthChecker, err := api.NewHealthChecker(version, api.PingCheck("postgres", pool))
	if err != nil {
		return err
	}

	jobs := scheduler.New(l.Named("scheduler"))
	if err = jobs.AddPaymentExpiry(cfg.Scheduler.ExpirySpec, pay); err != nil {
		return err
	}

	ipExtractor, err := api.NewIPExtractor(cfg.HTTP.TrustedProxies)
	if err != nil {
		return err
	}

	handler := api.NewHandler(l).
		WithHealthChecker(healthChecker).
		WithIPExtractor(ipExtractor).
		WithMetrics(metrics).
		WithCORSOrigins(cfg.HTTP.CORSOrigins).
		WithUserService(user).
		WithArticleService(article).
		WithPartnerService(partner).
		WithProgramService(program).
		WithTeamService(team).
		WithPaymentService(pay).
		WithParticipantService(participant)

	if cfg.HTTP.RateLimit > 0 {
		limiter := api.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst)
		handler.WithRateLimiter(limiter)
		if err = jobs.AddIdleSweep(limiterSweepSpec, limiterIdle, limiter); err != nil {
			return err
		}
	}

	e := echo.New()
	e.HideBanner = true
	handler.RegisterRoutes(e)

	jobs.Start()

	errCh := make(chan error, 1)
	go func() {
		l.Info("server starting", zap.String("addr", cfg.HTTP.Addr))
		if err := e.Start(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		l.Info("shutting down")
	case err = <-errCh:
		if err != nil {
			l.Error("server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if serr := e.Shutdown(shutdownCtx); serr != nil {
		l.Error("failed to shut down server", zap.Error(serr))
	}
	if serr := jobs.Stop(shutdownCtx); serr != nil {
		l.Error("failed to stop scheduler", zap.Error(serr))
	}

	return err
}

func newMailer(cfg config.MailConfig, l *zap.Logger) (mail.Mailer, error) {
	if cfg.Host == "" {
		l.Warn("smtp host not configured, outgoing mail disabled")
		return mail.NopMailer{}, nil
	}

	return mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})
}
