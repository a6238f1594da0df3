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

type SubmissionRepository interface {
	Upsert(ctx context.Context, submission *model.Submission) error
	Get(ctx context.Context, teamID string, stage model.Stage) (*model.Submission, error)
	ListByTeam(ctx context.Context, teamID string) ([]*model.Submission, error)
	SetStatus(ctx context.Context, teamID string, stage model.Stage, status model.SubmissionStatus, reviewedAt time.Time) error
}

type pgxSubmissionRepository struct {
	pool *pgxpool.Pool
}

func NewPgxSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &pgxSubmissionRepository{pool: pool}
}

var submissionColumns = []any{"team_id", "stage", "file_url", "note", "status", "submitted_at", "reviewed_at"}

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	s := &model.Submission{}
	err := row.Scan(&s.TeamID, &s.Stage, &s.FileURL, &s.Note, &s.Status, &s.SubmittedAt, &s.ReviewedAt)
	return s, err
}

// Upsert replaces an earlier upload for the same team and stage.
func (p *pgxSubmissionRepository) Upsert(ctx context.Context, s *model.Submission) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("submissions", "team_id", "stage", "file_url", "note", "status", "submitted_at"),
		im.Values(
			psql.Arg(s.TeamID),
			psql.Arg(s.Stage),
			psql.Arg(s.FileURL),
			psql.Arg(s.Note),
			psql.Arg(s.Status),
			psql.Arg(s.SubmittedAt),
		),
		im.OnConflict(psql.Quote("team_id"), psql.Quote("stage")).DoUpdate(
			im.SetCol("file_url").ToArg(s.FileURL),
			im.SetCol("note").ToArg(s.Note),
			im.SetCol("status").ToArg(s.Status),
			im.SetCol("submitted_at").ToArg(s.SubmittedAt),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return mapPgError(err)
}

func (p *pgxSubmissionRepository) Get(ctx context.Context, teamID string, stage model.Stage) (*model.Submission, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(submissionColumns...),
		sm.From("submissions"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
		sm.Where(psql.Quote("stage").EQ(psql.Arg(stage))),
		sm.ForUpdate("submissions"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	s, err := scanSubmission(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (p *pgxSubmissionRepository) ListByTeam(ctx context.Context, teamID string) ([]*model.Submission, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(submissionColumns...),
		sm.From("submissions"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
		sm.OrderBy("submitted_at"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Submission, error) {
		return scanSubmission(row)
	})
}

func (p *pgxSubmissionRepository) SetStatus(ctx context.Context, teamID string, stage model.Stage, status model.SubmissionStatus, reviewedAt time.Time) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("submissions"),
		um.SetCol("status").ToArg(status),
		um.SetCol("reviewed_at").ToArg(reviewedAt),
		um.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
		um.Where(psql.Quote("stage").EQ(psql.Arg(stage))),
	)

	return execAffectingOne(ctx, e, q)
}
