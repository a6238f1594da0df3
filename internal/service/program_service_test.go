package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/repository"
)

func TestProgramService_Countdown(t *testing.T) {
	mockEventRepo := new(MockEventRepository)
	mockEventRepo.On("GetBySlug", mock.Anything, "grand-final").Return(&model.Event{
		Slug:     "grand-final",
		StartsAt: testNow.Add(26*time.Hour + 30*time.Second),
	}, nil)
	mockEventRepo.On("GetBySlug", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	service := NewProgramService().
		WithEventRepo(mockEventRepo).
		WithClock(func() time.Time { return testNow })

	got, err := service.Countdown(context.Background(), "grand-final")
	require.Nil(t, err)
	assert.Equal(t, &model.Countdown{Days: 1, Hours: 2, Seconds: 30}, got)

	_, err = service.Countdown(context.Background(), "ghost")
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeNotFound, err.Code)
}

func TestProgramService_GetCompetition(t *testing.T) {
	tests := []struct {
		name          string
		slug          string
		setupMocks    func(*MockCompetitionRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			slug: "business-plan",
			setupMocks: func(cr *MockCompetitionRepository) {
				cr.On("GetBySlug", mock.Anything, "business-plan").Return(testCompetition(), nil)
			},
		},
		{
			name: "not found",
			slug: "hackathon",
			setupMocks: func(cr *MockCompetitionRepository) {
				cr.On("GetBySlug", mock.Anything, "hackathon").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name: "db failure",
			slug: "business-plan",
			setupMocks: func(cr *MockCompetitionRepository) {
				cr.On("GetBySlug", mock.Anything, "business-plan").Return(nil, errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCompRepo := new(MockCompetitionRepository)
			tt.setupMocks(mockCompRepo)

			got, err := NewProgramService().WithCompetitionRepo(mockCompRepo).GetCompetition(context.Background(), tt.slug)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				assert.Nil(t, err)
				assert.Len(t, got.Stages, 3)
			}

			mockCompRepo.AssertExpectations(t)
		})
	}
}
