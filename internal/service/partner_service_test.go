package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/repository"
)

func TestPartnerService_ListSponsors(t *testing.T) {
	mockSponsorRepo := new(MockSponsorRepository)
	mockSponsorRepo.On("List", mock.Anything).Return([]*model.Sponsor{
		{Name: "bronze-1", Tier: model.SponsorTierBronze, Order: 1},
		{Name: "gold-2", Tier: model.SponsorTierGold, Order: 2},
		{Name: "platinum", Tier: model.SponsorTierPlatinum, Order: 9},
		{Name: "gold-1", Tier: model.SponsorTierGold, Order: 1},
	}, nil)

	service := NewPartnerService(new(MockTransactor)).WithSponsorRepo(mockSponsorRepo)

	got, err := service.ListSponsors(context.Background())
	require.Nil(t, err)

	names := make([]string, 0, len(got))
	for _, s := range got {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"platinum", "gold-1", "gold-2", "bronze-1"}, names)
}

func TestPartnerService_UpdateSponsor(t *testing.T) {
	tests := []struct {
		name          string
		input         *model.Sponsor
		setupMocks    func(*MockSponsorRepository)
		expectedError bool
		errorCode     ErrorCode
		expectedLogo  string
	}{
		{
			name:  "keeps current logo",
			input: &model.Sponsor{Name: "Bank Makara", Tier: model.SponsorTierGold},
			setupMocks: func(sr *MockSponsorRepository) {
				sr.On("Get", mock.Anything, "s1").Return(&model.Sponsor{ID: "s1", LogoURL: "https://cdn/logo.png"}, nil)
				sr.On("Update", mock.Anything, mock.MatchedBy(func(s *model.Sponsor) bool {
					return s.ID == "s1" && s.LogoURL == "https://cdn/logo.png"
				})).Return(nil)
			},
			expectedLogo: "https://cdn/logo.png",
		},
		{
			name:  "not found",
			input: &model.Sponsor{Name: "Bank Makara", Tier: model.SponsorTierGold},
			setupMocks: func(sr *MockSponsorRepository) {
				sr.On("Get", mock.Anything, "s1").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name:  "update failure",
			input: &model.Sponsor{Name: "Bank Makara", Tier: model.SponsorTierGold},
			setupMocks: func(sr *MockSponsorRepository) {
				sr.On("Get", mock.Anything, "s1").Return(&model.Sponsor{ID: "s1"}, nil)
				sr.On("Update", mock.Anything, mock.Anything).Return(errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSponsorRepo := new(MockSponsorRepository)
			tt.setupMocks(mockSponsorRepo)

			service := NewPartnerService(new(MockTransactor)).WithSponsorRepo(mockSponsorRepo)

			got, err := service.UpdateSponsor(context.Background(), "s1", tt.input)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				assert.Nil(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.expectedLogo, got.LogoURL)
			}

			mockSponsorRepo.AssertExpectations(t)
		})
	}
}

func TestPartnerService_UploadMediaPartnerLogo(t *testing.T) {
	mockPartnerRepo := new(MockMediaPartnerRepository)
	mockFileStore := new(MockFileStore)

	mockPartnerRepo.On("Get", mock.Anything, "m1").Return(&model.MediaPartner{ID: "m1", Name: "Radio Kampus"}, nil)
	mockPartnerRepo.On("Get", mock.Anything, "m2").Return(nil, repository.ErrNotFound)
	mockFileStore.On("Upload", mock.Anything, "media-partners/m1/logo.webp", "image/webp", int64(100), mock.Anything).
		Return("https://cdn/media-partners/m1/logo.webp", nil)
	mockPartnerRepo.On("Update", mock.Anything, mock.MatchedBy(func(m *model.MediaPartner) bool {
		return m.LogoURL == "https://cdn/media-partners/m1/logo.webp"
	})).Return(nil)

	service := NewPartnerService(new(MockTransactor)).
		WithMediaPartnerRepo(mockPartnerRepo).
		WithFileStore(mockFileStore)

	upload := &Upload{Name: "logo.webp", ContentType: "image/webp", Size: 100, Body: strings.NewReader("webp")}

	got, err := service.UploadMediaPartnerLogo(context.Background(), "m1", upload)
	assert.Nil(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "https://cdn/media-partners/m1/logo.webp", got.LogoURL)

	_, err = service.UploadMediaPartnerLogo(context.Background(), "m2", upload)
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeNotFound, err.Code)

	mockPartnerRepo.AssertExpectations(t)
	mockFileStore.AssertExpectations(t)
}

func TestPartnerService_CreateAndDelete(t *testing.T) {
	mockSponsorRepo := new(MockSponsorRepository)
	mockPartnerRepo := new(MockMediaPartnerRepository)

	mockSponsorRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Sponsor) bool { return s.ID != "" })).Return(nil)
	mockSponsorRepo.On("Delete", mock.Anything, "s404").Return(repository.ErrNotFound)
	mockPartnerRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error"))
	mockPartnerRepo.On("Delete", mock.Anything, "m1").Return(nil)

	service := NewPartnerService(new(MockTransactor)).
		WithSponsorRepo(mockSponsorRepo).
		WithMediaPartnerRepo(mockPartnerRepo)

	sponsor, err := service.CreateSponsor(context.Background(), &model.Sponsor{Name: "Bank Makara", Tier: model.SponsorTierGold})
	assert.Nil(t, err)
	assert.NotEmpty(t, sponsor.ID)

	err = service.DeleteSponsor(context.Background(), "s404")
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeNotFound, err.Code)

	_, err = service.CreateMediaPartner(context.Background(), &model.MediaPartner{Name: "Radio Kampus"})
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeUnspecified, err.Code)

	assert.Nil(t, service.DeleteMediaPartner(context.Background(), "m1"))
}
