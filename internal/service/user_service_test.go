package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/makarapreneur/internal/auth"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/repository"
)

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name          string
		reg           *model.Registration
		setupMocks    func(*MockUserRepository, *MockMailer)
		expectedError bool
		errorCode     ErrorCode
		expectedRole  model.Role
	}{
		{
			name: "success",
			reg:  &model.Registration{Email: " Dina@UI.ac.id ", Password: "rahasia123", Name: "Dina"},
			setupMocks: func(ur *MockUserRepository, mm *MockMailer) {
				ur.On("Create", mock.Anything, mock.MatchedBy(func(u *repository.User) bool {
					return u.Email == "dina@ui.ac.id" && u.Role == model.RoleUser &&
						auth.CheckPassword(u.PasswordHash, "rahasia123") == nil
				})).Return(nil)
				mm.On("Send", mock.Anything, "dina@ui.ac.id", "Welcome to Makarapreneur", mock.Anything).Return(nil)
			},
			expectedRole: model.RoleUser,
		},
		{
			name: "admin email gets admin role",
			reg:  &model.Registration{Email: "panitia@makarapreneur.id", Password: "rahasia123", Name: "Panitia"},
			setupMocks: func(ur *MockUserRepository, mm *MockMailer) {
				ur.On("Create", mock.Anything, mock.MatchedBy(func(u *repository.User) bool {
					return u.Role == model.RoleAdmin
				})).Return(nil)
				mm.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			expectedRole: model.RoleAdmin,
		},
		{
			name: "mail failure does not fail registration",
			reg:  &model.Registration{Email: "dina@ui.ac.id", Password: "rahasia123", Name: "Dina"},
			setupMocks: func(ur *MockUserRepository, mm *MockMailer) {
				ur.On("Create", mock.Anything, mock.Anything).Return(nil)
				mm.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
			},
			expectedRole: model.RoleUser,
		},
		{
			name: "email already registered",
			reg:  &model.Registration{Email: "dina@ui.ac.id", Password: "rahasia123", Name: "Dina"},
			setupMocks: func(ur *MockUserRepository, mm *MockMailer) {
				ur.On("Create", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)
			},
			expectedError: true,
			errorCode:     ErrorCodeAlreadyExists,
		},
		{
			name:          "invalid email",
			reg:           &model.Registration{Email: "dina@ui", Password: "rahasia123", Name: "Dina"},
			setupMocks:    func(ur *MockUserRepository, mm *MockMailer) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
		},
		{
			name: "create failure",
			reg:  &model.Registration{Email: "dina@ui.ac.id", Password: "rahasia123", Name: "Dina"},
			setupMocks: func(ur *MockUserRepository, mm *MockMailer) {
				ur.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTx := new(MockTransactor)
			mockUserRepo := new(MockUserRepository)
			mockMailer := new(MockMailer)

			tt.setupMocks(mockUserRepo, mockMailer)

			service := NewUserService(mockTx).
				WithUserRepo(mockUserRepo).
				WithMailer(mockMailer).
				WithAdminEmails([]string{"Panitia@Makarapreneur.id"})

			got, err := service.Register(context.Background(), tt.reg)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				assert.Nil(t, err)
				require.NotNil(t, got)
				assert.NotEmpty(t, got.ID)
				assert.Equal(t, tt.expectedRole, got.Role)
			}

			mockUserRepo.AssertExpectations(t)
			mockMailer.AssertExpectations(t)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	auth.TokenSecretKey = "user-service-test-secret"

	hash, err := auth.HashPassword("rahasia123")
	require.NoError(t, err)

	now := time.Date(2026, time.October, 20, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMocks    func(*MockUserRepository)
		expectedError bool
		errorCode     ErrorCode
		expectedType  auth.TokenType
	}{
		{
			name:     "success",
			email:    "DINA@ui.ac.id",
			password: "rahasia123",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("GetByEmail", mock.Anything, "dina@ui.ac.id").Return(&repository.User{
					ID: "user1", Email: "dina@ui.ac.id", PasswordHash: hash, Role: model.RoleUser,
				}, nil)
			},
			expectedType: auth.TokenTypeUser,
		},
		{
			name:     "admin token",
			email:    "panitia@makarapreneur.id",
			password: "rahasia123",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("GetByEmail", mock.Anything, "panitia@makarapreneur.id").Return(&repository.User{
					ID: "admin1", PasswordHash: hash, Role: model.RoleAdmin,
				}, nil)
			},
			expectedType: auth.TokenTypeAdmin,
		},
		{
			name:     "wrong password",
			email:    "dina@ui.ac.id",
			password: "salah12345",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("GetByEmail", mock.Anything, "dina@ui.ac.id").Return(&repository.User{
					ID: "user1", PasswordHash: hash,
				}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@ui.ac.id",
			password: "rahasia123",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("GetByEmail", mock.Anything, "nobody@ui.ac.id").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeInvalidCredentials,
		},
		{
			name:     "lookup failure",
			email:    "dina@ui.ac.id",
			password: "rahasia123",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("GetByEmail", mock.Anything, "dina@ui.ac.id").Return(nil, errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			tt.setupMocks(mockUserRepo)

			service := NewUserService(new(MockTransactor)).
				WithUserRepo(mockUserRepo).
				WithTokenTTL(time.Hour).
				WithClock(func() time.Time { return now })

			got, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				assert.Nil(t, err)
				require.NotNil(t, got)
				assert.Equal(t, now.Add(time.Hour), got.ExpiresAt)

				claims, verr := auth.VerifyToken(got.Token)
				require.NoError(t, verr)
				assert.Equal(t, tt.expectedType, claims.Type)
				assert.Equal(t, got.User.ID, claims.UserID())
			}

			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Me(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("Get", mock.Anything, "user1").Return(&repository.User{ID: "user1", Name: "Dina", PasswordHash: "x"}, nil)
	mockUserRepo.On("Get", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	service := NewUserService(new(MockTransactor)).WithUserRepo(mockUserRepo)

	got, err := service.Me(context.Background(), "user1")
	assert.Nil(t, err)
	assert.Equal(t, &model.User{ID: "user1", Name: "Dina"}, got)

	_, err = service.Me(context.Background(), "ghost")
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeNotFound, err.Code)
}
