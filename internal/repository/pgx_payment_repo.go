package repository

import (
	"context"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/model"
	"time"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	Get(ctx context.Context, id string) (*model.Payment, error)
	ListByTeam(ctx context.Context, teamID string) ([]*model.Payment, error)
	LatestForStage(ctx context.Context, teamID string, stage model.Stage) (*model.Payment, error)
	HasPaid(ctx context.Context, teamID string, stage model.Stage) (bool, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
	SetStatus(ctx context.Context, id string, status model.PaymentStatus) error
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

type pgxPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPgxPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &pgxPaymentRepository{pool: pool}
}

var paymentColumns = []any{
	"id", "team_id", "stage", "amount", "invoice_id", "invoice_url", "status", "expires_at", "paid_at", "created_at",
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	err := row.Scan(
		&p.ID,
		&p.TeamID,
		&p.Stage,
		&p.Amount,
		&p.InvoiceID,
		&p.InvoiceURL,
		&p.Status,
		&p.ExpiresAt,
		&p.PaidAt,
		&p.CreatedAt,
	)
	return p, err
}

func (r *pgxPaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	e := db.GetPgxExecutorFromContext(ctx, r.pool)

	q := psql.Insert(
		im.Into("payments", "id", "team_id", "stage", "amount", "invoice_id", "invoice_url", "status", "expires_at", "created_at"),
		im.Values(
			psql.Arg(p.ID),
			psql.Arg(p.TeamID),
			psql.Arg(p.Stage),
			psql.Arg(p.Amount),
			psql.Arg(p.InvoiceID),
			psql.Arg(p.InvoiceURL),
			psql.Arg(p.Status),
			psql.Arg(p.ExpiresAt),
			psql.Arg(p.CreatedAt),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return mapPgError(err)
}

func (r *pgxPaymentRepository) Get(ctx context.Context, id string) (*model.Payment, error) {
	e := db.GetPgxExecutorFromContext(ctx, r.pool)

	q := psql.Select(
		sm.Columns(paymentColumns...),
		sm.From("payments"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate("payments"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	p, err := scanPayment(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *pgxPaymentRepository) ListByTeam(ctx context.Context, teamID string) ([]*model.Payment, error) {
	e := db.GetPgxExecutorFromContext(ctx, r.pool)

	q := psql.Select(
		sm.Columns(paymentColumns...),
		sm.From("payments"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
		sm.OrderBy("created_at").Desc(),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Payment, error) {
		return scanPayment(row)
	})
}

func (r *pgxPaymentRepository) LatestForStage(ctx context.Context, teamID string, stage model.Stage) (*model.Payment, error) {
	e := db.GetPgxExecutorFromContext(ctx, r.pool)

	q := psql.Select(
		sm.Columns(paymentColumns...),
		sm.From("payments"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
		sm.Where(psql.Quote("stage").EQ(psql.Arg(stage))),
		sm.OrderBy("created_at").Desc(),
		sm.Limit(1),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	p, err := scanPayment(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *pgxPaymentRepository) HasPaid(ctx context.Context, teamID string, stage model.Stage) (bool, error) {
	e := db.GetPgxExecutorFromContext(ctx, r.pool)

	q := psql.Select(
		sm.Columns("id"),
		sm.From("payments"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
		sm.Where(psql.Quote("stage").EQ(psql.Arg(stage))),
		sm.Where(psql.Quote("status").EQ(psql.Arg(model.PaymentStatusPaid))),
		sm.Limit(1),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return false, err
	}

	var id string
	if err = e.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *pgxPaymentRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	e := db.GetPgxExecutorFromContext(ctx, r.pool)

	q := psql.Update(
		um.Table("payments"),
		um.SetCol("status").ToArg(model.PaymentStatusPaid),
		um.SetCol("paid_at").ToArg(paidAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	return execAffectingOne(ctx, e, q)
}

func (r *pgxPaymentRepository) SetStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	e := db.GetPgxExecutorFromContext(ctx, r.pool)

	q := psql.Update(
		um.Table("payments"),
		um.SetCol("status").ToArg(status),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	return execAffectingOne(ctx, e, q)
}

// ExpirePending flips every pending payment whose invoice expired before now.
func (r *pgxPaymentRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	e := db.GetPgxExecutorFromContext(ctx, r.pool)

	q := psql.Update(
		um.Table("payments"),
		um.SetCol("status").ToArg(model.PaymentStatusExpired),
		um.Where(psql.Quote("status").EQ(psql.Arg(model.PaymentStatusPending))),
		um.Where(psql.Quote("expires_at").LT(psql.Arg(now))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return 0, err
	}

	commandTag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}
