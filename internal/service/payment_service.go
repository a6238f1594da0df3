package service

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/mail"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/payment"
	"github.com/yakoovad/makarapreneur/internal/repository"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"time"
)

type PaymentOptions struct {
	CallbackToken      string
	InvoiceDuration    time.Duration
	SuccessRedirectURL string
	FailureRedirectURL string
}

type PaymentService struct {
	tx db.Transactor

	teams        repository.TeamRepository
	competitions repository.CompetitionRepository
	payments     repository.PaymentRepository
	gateway      payment.Gateway
	mailer       mail.Mailer

	opts PaymentOptions
	now  func() time.Time
}

func NewPaymentService(tx db.Transactor, opts PaymentOptions) *PaymentService {
	if opts.InvoiceDuration <= 0 {
		opts.InvoiceDuration = 24 * time.Hour
	}
	return &PaymentService{
		tx:   tx,
		opts: opts,
		now:  time.Now,
	}
}

// CreateInvoice opens an invoice for the fee of the team's current stage. A
// pending invoice that has not expired yet is returned instead of a new one.
func (p *PaymentService) CreateInvoice(ctx context.Context, userID, teamID string) (*model.Payment, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating invoice", zap.String("team_id", teamID), zap.String("user_id", userID))

	team, serr := p.leaderTeam(ctx, userID, teamID)
	if serr != nil {
		return nil, serr
	}
	if team.Status != model.TeamStatusActive {
		return nil, NewError(ErrorCodeTeamInactive, "team is no longer competing")
	}

	competition, err := p.competitions.Get(ctx, team.CompetitionID)
	if err != nil {
		l.Error("failed to get competition", zap.String("competition_id", team.CompetitionID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to create invoice")
	}

	schedule := competition.Schedule(team.Stage)
	if schedule == nil || schedule.Fee <= 0 {
		return nil, NewError(ErrorCodeNoFee, "the current stage has no fee")
	}

	var res *model.Payment

	err = p.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		// serializes invoice creation per team
		locked, err := p.teams.GetForUpdate(txCtx, team.ID)
		if err != nil {
			l.Error("failed to lock team", zap.String("team_id", team.ID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create invoice")
		}
		if locked.Stage != team.Stage || locked.Status != model.TeamStatusActive {
			return NewError(ErrorCodeInvalidTransition, "team progressed while the invoice was being created")
		}

		paid, err := p.payments.HasPaid(txCtx, team.ID, team.Stage)
		if err != nil {
			l.Error("failed to check payment", zap.String("team_id", team.ID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create invoice")
		}
		if paid {
			return NewError(ErrorCodeAlreadyPaid, "the current stage is already paid")
		}

		now := p.now().UTC()

		latest, err := p.payments.LatestForStage(txCtx, team.ID, team.Stage)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			l.Error("failed to get latest payment", zap.String("team_id", team.ID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create invoice")
		}
		if err == nil && latest.Usable(now) {
			l.Debug("reusing pending invoice", zap.String("payment_id", latest.ID))
			res = latest
			return nil
		}

		id := uuid.NewString()
		invoice, err := p.gateway.CreateInvoice(txCtx, &payment.InvoiceRequest{
			ExternalID:         id,
			Amount:             schedule.Fee,
			PayerEmail:         team.Leader.Email,
			Description:        fmt.Sprintf("%s - %s (%s)", competition.Name, team.Name, team.Stage),
			InvoiceDuration:    int64(p.opts.InvoiceDuration / time.Second),
			SuccessRedirectURL: p.opts.SuccessRedirectURL,
			FailureRedirectURL: p.opts.FailureRedirectURL,
		})
		if err != nil {
			l.Error("payment gateway rejected invoice", zap.String("team_id", team.ID), zap.Error(err))
			return NewError(ErrorCodeUpstream, "payment gateway unavailable")
		}

		expiresAt := invoice.ExpiryDate.UTC()
		if expiresAt.IsZero() {
			expiresAt = now.Add(p.opts.InvoiceDuration)
		}

		res = &model.Payment{
			ID:         id,
			TeamID:     team.ID,
			Stage:      team.Stage,
			Amount:     schedule.Fee,
			InvoiceID:  invoice.ID,
			InvoiceURL: invoice.InvoiceURL,
			Status:     model.PaymentStatusPending,
			ExpiresAt:  expiresAt,
			CreatedAt:  now,
		}

		if err = p.payments.Create(txCtx, res); err != nil {
			l.Error("failed to store payment", zap.String("payment_id", id), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create invoice")
		}

		paymentEvents.WithLabelValues(string(model.PaymentStatusPending)).Inc()
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	return res, nil
}

// HandleCallback applies a gateway notification. Repeated notifications for
// a paid invoice are accepted without side effects.
func (p *PaymentService) HandleCallback(ctx context.Context, token string, body []byte) (*model.Payment, *Error) {
	l := logger.FromContext(ctx)

	if !payment.VerifyCallbackToken(p.opts.CallbackToken, token) {
		l.Warn("payment callback with invalid token")
		return nil, NewError(ErrorCodeInvalidCallback, "invalid callback token")
	}

	cb, err := payment.ParseCallback(body)
	if err != nil {
		l.Warn("malformed payment callback", zap.Error(err))
		return nil, NewError(ErrorCodeInvalidBody, err.Error())
	}

	l.Info("payment callback",
		zap.String("payment_id", cb.ExternalID),
		zap.String("invoice_id", cb.InvoiceID),
		zap.String("status", string(cb.Status)))

	var (
		res        *model.Payment
		becamePaid bool
	)

	err = p.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		res, err = p.payments.Get(txCtx, cb.ExternalID)
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(ErrorCodeNotFound, "payment not found")
		}
		if err != nil {
			l.Error("failed to get payment", zap.String("payment_id", cb.ExternalID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to handle callback")
		}

		switch cb.Status {
		case payment.CallbackStatusPaid, payment.CallbackStatusSettled:
			if res.Status == model.PaymentStatusPaid {
				return nil
			}
			if cb.PaidAmount > 0 && cb.PaidAmount != res.Amount {
				l.Error("paid amount does not match invoice, payment left pending",
					zap.String("payment_id", res.ID),
					zap.Int64("expected", res.Amount),
					zap.Int64("paid", cb.PaidAmount))
				return nil
			}

			paidAt := cb.PaidAt.UTC()
			if cb.PaidAt.IsZero() {
				paidAt = p.now().UTC()
			}
			if err = p.payments.MarkPaid(txCtx, res.ID, paidAt); err != nil {
				l.Error("failed to mark payment paid", zap.String("payment_id", res.ID), zap.Error(err))
				return NewError(ErrorCodeUnspecified, "failed to handle callback")
			}
			res.Status, res.PaidAt = model.PaymentStatusPaid, &paidAt
			becamePaid = true

		case payment.CallbackStatusExpired:
			if res.Status != model.PaymentStatusPending {
				return nil
			}
			if err = p.payments.SetStatus(txCtx, res.ID, model.PaymentStatusExpired); err != nil {
				l.Error("failed to expire payment", zap.String("payment_id", res.ID), zap.Error(err))
				return NewError(ErrorCodeUnspecified, "failed to handle callback")
			}
			res.Status = model.PaymentStatusExpired
			paymentEvents.WithLabelValues(string(model.PaymentStatusExpired)).Inc()

		default:
			l.Warn("ignoring callback status", zap.String("status", string(cb.Status)))
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	if becamePaid {
		paymentEvents.WithLabelValues(string(model.PaymentStatusPaid)).Inc()
		p.notifyPaid(ctx, res)
	}
	return res, nil
}

func (p *PaymentService) notifyPaid(ctx context.Context, pay *model.Payment) {
	team, err := p.teams.Get(ctx, pay.TeamID)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to load team for receipt", zap.String("team_id", pay.TeamID), zap.Error(err))
		return
	}

	notify(ctx, p.mailer, team.Leader.Email, mail.TemplatePaymentReceived, mail.PaymentReceivedData{
		LeaderName: team.Leader.Name,
		TeamName:   team.Name,
		Stage:      string(pay.Stage),
		Amount:     pay.Amount,
		PaymentID:  pay.ID,
	})
}

func (p *PaymentService) Status(ctx context.Context, userID, teamID string) ([]*model.Payment, *Error) {
	l := logger.FromContext(ctx)

	if _, serr := p.leaderTeam(ctx, userID, teamID); serr != nil {
		return nil, serr
	}

	payments, err := p.payments.ListByTeam(ctx, teamID)
	if err != nil {
		l.Error("failed to list payments", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list payments")
	}
	return payments, nil
}

// ExpireStale marks pending invoices past their expiry as expired.
func (p *PaymentService) ExpireStale(ctx context.Context, now time.Time) (int64, *Error) {
	l := logger.FromContext(ctx)

	n, err := p.payments.ExpirePending(ctx, now.UTC())
	if err != nil {
		l.Error("failed to expire payments", zap.Error(err))
		return 0, NewError(ErrorCodeUnspecified, "failed to expire payments")
	}
	if n > 0 {
		paymentEvents.WithLabelValues(string(model.PaymentStatusExpired)).Add(float64(n))
	}
	return n, nil
}

func (p *PaymentService) leaderTeam(ctx context.Context, userID, teamID string) (*model.Team, *Error) {
	l := logger.FromContext(ctx)

	team, err := p.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get team")
	}
	if team.LeaderID != userID {
		return nil, NewError(ErrorCodeForbidden, "only the team leader can manage payments")
	}
	return team, nil
}

func (p *PaymentService) WithTeamRepo(r repository.TeamRepository) *PaymentService {
	p.teams = r
	return p
}

func (p *PaymentService) WithCompetitionRepo(r repository.CompetitionRepository) *PaymentService {
	p.competitions = r
	return p
}

func (p *PaymentService) WithPaymentRepo(r repository.PaymentRepository) *PaymentService {
	p.payments = r
	return p
}

func (p *PaymentService) WithGateway(g payment.Gateway) *PaymentService {
	p.gateway = g
	return p
}

func (p *PaymentService) WithMailer(m mail.Mailer) *PaymentService {
	p.mailer = m
	return p
}

func (p *PaymentService) WithClock(now func() time.Time) *PaymentService {
	p.now = now
	return p
}
