package scheduler

import (
	"context"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/yakoovad/makarapreneur/internal/service"
	"go.uber.org/zap"
	"time"
)

type PaymentExpirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int64, *service.Error)
}

type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	now    func() time.Time
}

func New(l *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: l,
		now:    time.Now,
	}
}

// AddPaymentExpiry registers the sweep that expires overdue invoices.
func (s *Scheduler) AddPaymentExpiry(spec string, p PaymentExpirer) error {
	if _, err := s.cron.AddFunc(spec, func() { s.expirePayments(p) }); err != nil {
		return errors.Wrapf(err, "invalid schedule %q", spec)
	}
	return nil
}

func (s *Scheduler) expirePayments(p PaymentExpirer) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := p.ExpireStale(ctx, s.now())
	if err != nil {
		s.logger.Error("payment expiry sweep failed", zap.String("error", err.Message))
		return
	}
	if n > 0 {
		s.logger.Info("expired stale payments", zap.Int64("count", n))
	}
}

type IdleSweeper interface {
	Sweep(idle time.Duration) int
}

// AddIdleSweep periodically drops state idle for longer than idle.
func (s *Scheduler) AddIdleSweep(spec string, idle time.Duration, sw IdleSweeper) error {
	_, err := s.cron.AddFunc(spec, func() {
		if n := sw.Sweep(idle); n > 0 {
			s.logger.Debug("swept idle entries", zap.Int("count", n))
		}
	})
	if err != nil {
		return errors.Wrapf(err, "invalid schedule %q", spec)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
