package service

import (
	"context"
	"github.com/pkg/errors"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/repository"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"time"
)

// ProgramService serves the public competition and event pages.
type ProgramService struct {
	competitions repository.CompetitionRepository
	events       repository.EventRepository

	now func() time.Time
}

func NewProgramService() *ProgramService {
	return &ProgramService{now: time.Now}
}

func (p *ProgramService) ListCompetitions(ctx context.Context) ([]*model.Competition, *Error) {
	l := logger.FromContext(ctx)

	competitions, err := p.competitions.List(ctx)
	if err != nil {
		l.Error("failed to list competitions", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list competitions")
	}
	return competitions, nil
}

func (p *ProgramService) GetCompetition(ctx context.Context, slug string) (*model.Competition, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("getting competition", zap.String("slug", slug))

	competition, err := p.competitions.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "competition not found")
	}
	if err != nil {
		l.Error("failed to get competition", zap.String("slug", slug), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get competition")
	}
	return competition, nil
}

func (p *ProgramService) ListEvents(ctx context.Context) ([]*model.Event, *Error) {
	l := logger.FromContext(ctx)

	events, err := p.events.List(ctx)
	if err != nil {
		l.Error("failed to list events", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list events")
	}
	return events, nil
}

func (p *ProgramService) GetEvent(ctx context.Context, slug string) (*model.Event, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("getting event", zap.String("slug", slug))

	event, err := p.events.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "event not found")
	}
	if err != nil {
		l.Error("failed to get event", zap.String("slug", slug), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get event")
	}
	return event, nil
}

func (p *ProgramService) Countdown(ctx context.Context, slug string) (*model.Countdown, *Error) {
	event, err := p.GetEvent(ctx, slug)
	if err != nil {
		return nil, err
	}

	c := event.CountdownTo(p.now())
	return &c, nil
}

func (p *ProgramService) WithCompetitionRepo(r repository.CompetitionRepository) *ProgramService {
	p.competitions = r
	return p
}

func (p *ProgramService) WithEventRepo(r repository.EventRepository) *ProgramService {
	p.events = r
	return p
}

func (p *ProgramService) WithClock(now func() time.Time) *ProgramService {
	p.now = now
	return p
}
