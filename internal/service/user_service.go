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
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"time"
)

const defaultTokenTTL = 24 * time.Hour

type UserService struct {
	tx db.Transactor

	users  repository.UserRepository
	mailer mail.Mailer

	admins   map[string]struct{}
	tokenTTL time.Duration
	now      func() time.Time
}

func NewUserService(tx db.Transactor) *UserService {
	return &UserService{
		tx:       tx,
		admins:   map[string]struct{}{},
		tokenTTL: defaultTokenTTL,
		now:      time.Now,
	}
}

func (u *UserService) Register(ctx context.Context, reg *model.Registration) (*model.User, *Error) {
	l := logger.FromContext(ctx)

	email := auth.NormalizeEmail(reg.Email)
	if !auth.IsValidEmail(email) {
		return nil, NewError(ErrorCodeInvalidBody, "invalid email address")
	}

	l.Info("registering user", zap.String("email", email))

	hash, err := auth.HashPassword(reg.Password)
	if errors.Is(err, auth.ErrEmptyPassword) {
		return nil, NewError(ErrorCodeInvalidBody, "password is required")
	}
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to register user")
	}

	role := model.RoleUser
	if _, ok := u.admins[email]; ok {
		role = model.RoleAdmin
	}

	user := &repository.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         reg.Name,
		Phone:        reg.Phone,
		Institution:  reg.Institution,
		Role:         role,
	}

	err = u.users.Create(ctx, user)
	if errors.Is(err, repository.ErrAlreadyExists) {
		l.Warn("email already registered", zap.String("email", email))
		return nil, NewError(ErrorCodeAlreadyExists, "email already registered")
	}
	if err != nil {
		l.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to register user")
	}

	notify(ctx, u.mailer, email, mail.TemplateWelcome, mail.WelcomeData{Name: user.Name, Email: email})

	return toModelUser(user), nil
}

func (u *UserService) Login(ctx context.Context, email, password string) (*model.Session, *Error) {
	l := logger.FromContext(ctx)

	email = auth.NormalizeEmail(email)
	l.Info("user login", zap.String("email", email))

	user, err := u.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		l.Warn("login for unknown email", zap.String("email", email))
		return nil, NewError(ErrorCodeInvalidCredentials, "invalid email or password")
	}
	if err != nil {
		l.Error("failed to get user", zap.String("email", email), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to login")
	}

	if err = auth.CheckPassword(user.PasswordHash, password); err != nil {
		l.Warn("wrong password", zap.String("user_id", user.ID))
		return nil, NewError(ErrorCodeInvalidCredentials, "invalid email or password")
	}

	tokenType := auth.TokenTypeUser
	if user.Role == model.RoleAdmin {
		tokenType = auth.TokenTypeAdmin
	}

	token, err := auth.GenerateToken(user.ID, tokenType, u.tokenTTL)
	if err != nil {
		l.Error("failed to generate token", zap.String("user_id", user.ID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to login")
	}

	return &model.Session{
		Token:     token,
		ExpiresAt: u.now().Add(u.tokenTTL),
		User:      toModelUser(user),
	}, nil
}

func (u *UserService) Me(ctx context.Context, userID string) (*model.User, *Error) {
	l := logger.FromContext(ctx)

	user, err := u.users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "user not found")
	}
	if err != nil {
		l.Error("failed to get user", zap.String("user_id", userID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get user")
	}
	return toModelUser(user), nil
}

func toModelUser(u *repository.User) *model.User {
	return &model.User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Institution: u.Institution,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

func (u *UserService) WithUserRepo(userRepo repository.UserRepository) *UserService {
	u.users = userRepo
	return u
}

func (u *UserService) WithMailer(m mail.Mailer) *UserService {
	u.mailer = m
	return u
}

// WithAdminEmails grants the admin role to accounts registered with these addresses.
func (u *UserService) WithAdminEmails(emails []string) *UserService {
	for _, e := range emails {
		u.admins[auth.NormalizeEmail(e)] = struct{}{}
	}
	return u
}

func (u *UserService) WithTokenTTL(ttl time.Duration) *UserService {
	if ttl > 0 {
		u.tokenTTL = ttl
	}
	return u
}

func (u *UserService) WithClock(now func() time.Time) *UserService {
	u.now = now
	return u
}
