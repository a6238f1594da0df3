package service

import (
	"context"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/makarapreneur/internal/auth"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/mail"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/repository"
	"github.com/yakoovad/makarapreneur/internal/storage"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"time"
)

type TeamService struct {
	tx db.Transactor

	competitions repository.CompetitionRepository
	teams        repository.TeamRepository
	submissions  repository.SubmissionRepository
	payments     repository.PaymentRepository
	files        storage.FileStore
	mailer       mail.Mailer

	now func() time.Time
}

func NewTeamService(tx db.Transactor) *TeamService {
	return &TeamService{
		tx:  tx,
		now: time.Now,
	}
}

type SubmissionInput struct {
	Stage model.Stage
	Note  string
	File  *Upload
}

// RegisterTeam enrolls a team led by userID in the competition. The team
// starts active in the preliminary stage.
func (t *TeamService) RegisterTeam(ctx context.Context, userID, competitionSlug string, reg *model.TeamRegistration) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Info("registering team",
		zap.String("competition", competitionSlug),
		zap.String("team_name", reg.Name),
		zap.String("leader_id", userID))

	if len(reg.Members) > model.MaxTeamMembers {
		return nil, NewError(ErrorCodeInvalidBody, "a team has at most 2 members besides the leader")
	}

	competition, err := t.competitions.GetBySlug(ctx, competitionSlug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "competition not found")
	}
	if err != nil {
		l.Error("failed to get competition", zap.String("competition", competitionSlug), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to register team")
	}

	now := t.now().UTC()
	if !competition.RegistrationOpen(now) {
		l.Warn("registration closed", zap.String("competition", competitionSlug))
		return nil, NewError(ErrorCodeRegistrationClosed, "registration is closed")
	}

	leader := reg.Leader
	leader.Email = auth.NormalizeEmail(leader.Email)
	members := make([]model.TeamMember, 0, len(reg.Members))
	for _, m := range reg.Members {
		m.Email = auth.NormalizeEmail(m.Email)
		members = append(members, m)
	}

	team := &model.Team{
		ID:            uuid.NewString(),
		CompetitionID: competition.ID,
		LeaderID:      userID,
		Name:          reg.Name,
		Institution:   reg.Institution,
		Leader:        leader,
		Members:       members,
		Stage:         model.StagePreliminary,
		Status:        model.TeamStatusActive,
		CreatedAt:     now,
	}

	err = t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		err := t.teams.Create(txCtx, team)
		if errors.Is(err, repository.ErrAlreadyExists) {
			l.Warn("team already registered",
				zap.String("competition", competitionSlug),
				zap.String("team_name", reg.Name))
			return NewError(ErrorCodeAlreadyExists, "team name taken or leader already registered")
		}
		if err != nil {
			l.Error("failed to create team", zap.String("team_name", reg.Name), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to register team")
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	teamRegistrations.WithLabelValues(competition.Slug).Inc()

	var fee int64
	if s := competition.Schedule(model.StagePreliminary); s != nil {
		fee = s.Fee
	}
	notify(ctx, t.mailer, leader.Email, mail.TemplateTeamRegistered, mail.TeamRegisteredData{
		LeaderName:  leader.Name,
		TeamName:    team.Name,
		Competition: competition.Name,
		Stage:       string(team.Stage),
		Fee:         fee,
	})

	l.Debug("team registered", zap.String("team_id", team.ID))
	return team, nil
}

func (t *TeamService) MyTeams(ctx context.Context, userID string) ([]*model.Team, *Error) {
	l := logger.FromContext(ctx)

	teams, err := t.teams.ListByLeader(ctx, userID)
	if err != nil {
		l.Error("failed to list teams", zap.String("leader_id", userID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list teams")
	}
	return teams, nil
}

// GetTeam returns the team when userID leads it.
func (t *TeamService) GetTeam(ctx context.Context, userID, teamID string) (*model.Team, *Error) {
	team, serr := t.AdminGetTeam(ctx, teamID)
	if serr != nil {
		return nil, serr
	}
	if team.LeaderID != userID {
		return nil, NewError(ErrorCodeForbidden, "only the team leader can access this team")
	}
	return team, nil
}

func (t *TeamService) AdminGetTeam(ctx context.Context, teamID string) (*model.Team, *Error) {
	l := logger.FromContext(ctx)

	team, err := t.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get team")
	}
	return team, nil
}

// Submit stores the team's work for its current stage. A repeated submission
// before review replaces the previous file.
func (t *TeamService) Submit(ctx context.Context, userID, teamID string, in *SubmissionInput) (*model.Submission, *Error) {
	l := logger.FromContext(ctx)
	l.Info("submitting stage work",
		zap.String("team_id", teamID),
		zap.String("stage", string(in.Stage)))

	if !in.Stage.Valid() {
		return nil, NewError(ErrorCodeInvalidBody, "unknown stage")
	}

	team, serr := t.GetTeam(ctx, userID, teamID)
	if serr != nil {
		return nil, serr
	}

	if team.Status != model.TeamStatusActive {
		return nil, NewError(ErrorCodeTeamInactive, "team is no longer competing")
	}
	if in.Stage != team.Stage {
		return nil, NewError(ErrorCodeStageMismatch, "team is in the "+string(team.Stage)+" stage")
	}

	competition, err := t.competitions.Get(ctx, team.CompetitionID)
	if err != nil {
		l.Error("failed to get competition", zap.String("competition_id", team.CompetitionID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to submit")
	}

	now := t.now().UTC()
	schedule := competition.Schedule(in.Stage)
	if schedule == nil || !schedule.Open(now) {
		return nil, NewError(ErrorCodeRegistrationClosed, "submissions for this stage are closed")
	}

	if schedule.Fee > 0 {
		paid, err := t.payments.HasPaid(ctx, team.ID, in.Stage)
		if err != nil {
			l.Error("failed to check payment", zap.String("team_id", team.ID), zap.Error(err))
			return nil, NewError(ErrorCodeUnspecified, "failed to submit")
		}
		if !paid {
			return nil, NewError(ErrorCodePaymentRequired, "the stage fee has not been paid")
		}
	}

	// keys are unique per upload
	name := ""
	if in.File != nil {
		name = now.Format("20060102150405") + "-" + in.File.Name
	}
	url, serr := store(ctx, t.files, storage.KindDocument, in.File, name,
		"submissions", competition.Slug, team.ID, string(in.Stage))
	if serr != nil {
		return nil, serr
	}

	submission := &model.Submission{
		TeamID:      team.ID,
		Stage:       in.Stage,
		FileURL:     url,
		Note:        in.Note,
		Status:      model.SubmissionStatusSubmitted,
		SubmittedAt: now,
	}

	if err = t.submissions.Upsert(ctx, submission); err != nil {
		l.Error("failed to save submission", zap.String("team_id", team.ID), zap.Error(err))
		removeObject(ctx, t.files, url)
		return nil, NewError(ErrorCodeUnspecified, "failed to submit")
	}

	l.Debug("submission saved", zap.String("team_id", team.ID), zap.String("file_url", url))
	return submission, nil
}

func (t *TeamService) ListTeams(ctx context.Context, filter *model.TeamFilter) ([]*model.Team, *Error) {
	l := logger.FromContext(ctx)

	if filter != nil && filter.Stage != "" && !filter.Stage.Valid() {
		return nil, NewError(ErrorCodeInvalidBody, "unknown stage")
	}

	teams, err := t.teams.List(ctx, filter)
	if err != nil {
		l.Error("failed to list teams", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list teams")
	}
	return teams, nil
}

func (t *TeamService) ListSubmissions(ctx context.Context, teamID string) ([]*model.Submission, *Error) {
	l := logger.FromContext(ctx)

	if _, serr := t.AdminGetTeam(ctx, teamID); serr != nil {
		return nil, serr
	}

	submissions, err := t.submissions.ListByTeam(ctx, teamID)
	if err != nil {
		l.Error("failed to list submissions", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list submissions")
	}
	return submissions, nil
}

// SubmissionFile returns a short-lived download link for the file submitted in stage.
func (t *TeamService) SubmissionFile(ctx context.Context, teamID string, stage model.Stage) (string, *Error) {
	l := logger.FromContext(ctx)

	if !stage.Valid() {
		return "", NewError(ErrorCodeInvalidBody, "unknown stage")
	}

	submission, err := t.submissions.Get(ctx, teamID, stage)
	if errors.Is(err, repository.ErrNotFound) {
		return "", NewError(ErrorCodeNotFound, "submission not found")
	}
	if err != nil {
		l.Error("failed to get submission", zap.String("team_id", teamID), zap.Error(err))
		return "", NewError(ErrorCodeUnspecified, "failed to get submission")
	}

	key, ok := t.files.KeyFromURL(submission.FileURL)
	if !ok {
		return submission.FileURL, nil
	}

	url, err := t.files.PresignGet(ctx, key)
	if err != nil {
		l.Error("failed to presign submission", zap.String("key", key), zap.Error(err))
		return "", NewError(ErrorCodeUpstream, "failed to sign download link")
	}
	return url, nil
}

// Review records the verdict for the team's submission in stage. A pass
// moves the team to the next stage or completes it after the final; a fail
// eliminates it.
func (t *TeamService) Review(ctx context.Context, teamID string, stage model.Stage, passed bool) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Info("reviewing submission",
		zap.String("team_id", teamID),
		zap.String("stage", string(stage)),
		zap.Bool("passed", passed))

	var team *model.Team

	err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		team, err = t.teams.GetForUpdate(txCtx, teamID)
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(ErrorCodeNotFound, "team not found")
		}
		if err != nil {
			l.Error("failed to lock team", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to review")
		}

		if team.Status != model.TeamStatusActive || team.Stage != stage {
			return NewError(ErrorCodeInvalidTransition, "team is not awaiting review for this stage")
		}

		submission, err := t.submissions.Get(txCtx, teamID, stage)
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(ErrorCodeInvalidTransition, "nothing was submitted for this stage")
		}
		if err != nil {
			l.Error("failed to get submission", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to review")
		}
		if submission.Status != model.SubmissionStatusSubmitted {
			return NewError(ErrorCodeInvalidTransition, "submission was already reviewed")
		}

		verdict := model.SubmissionStatusFailed
		nextStage, nextStatus := team.Stage, model.TeamStatusEliminated
		if passed {
			verdict = model.SubmissionStatusPassed
			if next, ok := stage.Next(); ok {
				nextStage, nextStatus = next, model.TeamStatusActive
			} else {
				nextStatus = model.TeamStatusCompleted
			}
		}

		if err = t.submissions.SetStatus(txCtx, teamID, stage, verdict, t.now().UTC()); err != nil {
			l.Error("failed to set submission status", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to review")
		}

		if err = t.teams.UpdateProgress(txCtx, teamID, nextStage, nextStatus); err != nil {
			l.Error("failed to update team progress", zap.String("team_id", teamID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to review")
		}

		team.Stage, team.Status = nextStage, nextStatus
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	data := mail.ReviewResultData{
		LeaderName: team.Leader.Name,
		TeamName:   team.Name,
		Stage:      string(stage),
		Passed:     passed,
	}
	if passed && team.Status == model.TeamStatusActive {
		data.NextStage = string(team.Stage)
	}
	notify(ctx, t.mailer, team.Leader.Email, mail.TemplateReviewResult, data)

	return team, nil
}

func (t *TeamService) WithCompetitionRepo(r repository.CompetitionRepository) *TeamService {
	t.competitions = r
	return t
}

func (t *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	t.teams = r
	return t
}

func (t *TeamService) WithSubmissionRepo(r repository.SubmissionRepository) *TeamService {
	t.submissions = r
	return t
}

func (t *TeamService) WithPaymentRepo(r repository.PaymentRepository) *TeamService {
	t.payments = r
	return t
}

func (t *TeamService) WithFileStore(fs storage.FileStore) *TeamService {
	t.files = fs
	return t
}

func (t *TeamService) WithMailer(m mail.Mailer) *TeamService {
	t.mailer = m
	return t
}

func (t *TeamService) WithClock(now func() time.Time) *TeamService {
	t.now = now
	return t
}
