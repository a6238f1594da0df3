package service

import (
	"context"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/makarapreneur/internal/auth"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/repository"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"time"
)

const (
	programNetworking    = "networking"
	programBusinessClass = "business_class"
)

// ParticipantService handles sign-ups for the networking night and the business class.
type ParticipantService struct {
	networking    repository.NetworkingRepository
	businessClass repository.BusinessClassRepository

	now func() time.Time
}

func NewParticipantService() *ParticipantService {
	return &ParticipantService{now: time.Now}
}

func (s *ParticipantService) RegisterNetworking(ctx context.Context, userID string, p *model.NetworkingParticipant) (*model.NetworkingParticipant, *Error) {
	l := logger.FromContext(ctx)
	l.Info("registering networking participant", zap.String("user_id", userID))

	p.ID = uuid.NewString()
	p.UserID = userID
	p.Email = auth.NormalizeEmail(p.Email)
	p.CreatedAt = s.now().UTC()

	err := s.networking.Create(ctx, p)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, NewError(ErrorCodeAlreadyExists, "already registered for networking")
	}
	if err != nil {
		l.Error("failed to register networking participant", zap.String("user_id", userID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to register")
	}

	participantRegistrations.WithLabelValues(programNetworking).Inc()
	return p, nil
}

func (s *ParticipantService) NetworkingStatus(ctx context.Context, userID string) (*model.RegistrationStatus, *Error) {
	_, err := s.networking.GetByUser(ctx, userID)
	return registrationStatus(ctx, userID, err)
}

func (s *ParticipantService) ListNetworking(ctx context.Context) ([]*model.NetworkingParticipant, *Error) {
	l := logger.FromContext(ctx)

	participants, err := s.networking.List(ctx)
	if err != nil {
		l.Error("failed to list networking participants", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list participants")
	}
	return participants, nil
}

func (s *ParticipantService) RegisterBusinessClass(ctx context.Context, userID string, p *model.BusinessClassParticipant) (*model.BusinessClassParticipant, *Error) {
	l := logger.FromContext(ctx)
	l.Info("registering business class participant", zap.String("user_id", userID))

	p.ID = uuid.NewString()
	p.UserID = userID
	p.Email = auth.NormalizeEmail(p.Email)
	p.CreatedAt = s.now().UTC()

	err := s.businessClass.Create(ctx, p)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, NewError(ErrorCodeAlreadyExists, "already registered for the business class")
	}
	if err != nil {
		l.Error("failed to register business class participant", zap.String("user_id", userID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to register")
	}

	participantRegistrations.WithLabelValues(programBusinessClass).Inc()
	return p, nil
}

func (s *ParticipantService) BusinessClassStatus(ctx context.Context, userID string) (*model.RegistrationStatus, *Error) {
	_, err := s.businessClass.GetByUser(ctx, userID)
	return registrationStatus(ctx, userID, err)
}

func (s *ParticipantService) ListBusinessClass(ctx context.Context) ([]*model.BusinessClassParticipant, *Error) {
	l := logger.FromContext(ctx)

	participants, err := s.businessClass.List(ctx)
	if err != nil {
		l.Error("failed to list business class participants", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list participants")
	}
	return participants, nil
}

func registrationStatus(ctx context.Context, userID string, err error) (*model.RegistrationStatus, *Error) {
	if errors.Is(err, repository.ErrNotFound) {
		return &model.RegistrationStatus{Registered: false}, nil
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to get registration", zap.String("user_id", userID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get registration")
	}
	return &model.RegistrationStatus{Registered: true}, nil
}

func (s *ParticipantService) WithNetworkingRepo(r repository.NetworkingRepository) *ParticipantService {
	s.networking = r
	return s
}

func (s *ParticipantService) WithBusinessClassRepo(r repository.BusinessClassRepository) *ParticipantService {
	s.businessClass = r
	return s
}

func (s *ParticipantService) WithClock(now func() time.Time) *ParticipantService {
	s.now = now
	return s
}
