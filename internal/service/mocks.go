package service

import (
	"context"
	"github.com/stretchr/testify/mock"
	"github.com/yakoovad/makarapreneur/internal/model"
	"github.com/yakoovad/makarapreneur/internal/payment"
	"github.com/yakoovad/makarapreneur/internal/repository"
	"io"
	"time"
)

type MockTransactor struct {
	mock.Mock
}

type mockTxKey struct{}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(context.WithValue(ctx, mockTxKey{}, true))
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *repository.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, userID string) (*repository.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.User), args.Error(1)
}

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *model.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Get(ctx context.Context, id string) (*model.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Article, error) {
	args := m.Called(ctx, publishedOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Article), args.Error(1)
}

func (m *MockArticleRepository) Patch(ctx context.Context, patch *repository.ArticlePatch) (*model.Article, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSponsorRepository struct {
	mock.Mock
}

func (m *MockSponsorRepository) Create(ctx context.Context, sponsor *model.Sponsor) error {
	args := m.Called(ctx, sponsor)
	return args.Error(0)
}

func (m *MockSponsorRepository) Get(ctx context.Context, id string) (*model.Sponsor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sponsor), args.Error(1)
}

func (m *MockSponsorRepository) List(ctx context.Context) ([]*model.Sponsor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Sponsor), args.Error(1)
}

func (m *MockSponsorRepository) Update(ctx context.Context, sponsor *model.Sponsor) error {
	args := m.Called(ctx, sponsor)
	return args.Error(0)
}

func (m *MockSponsorRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMediaPartnerRepository struct {
	mock.Mock
}

func (m *MockMediaPartnerRepository) Create(ctx context.Context, partner *model.MediaPartner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockMediaPartnerRepository) Get(ctx context.Context, id string) (*model.MediaPartner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaPartner), args.Error(1)
}

func (m *MockMediaPartnerRepository) List(ctx context.Context) ([]*model.MediaPartner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MediaPartner), args.Error(1)
}

func (m *MockMediaPartnerRepository) Update(ctx context.Context, partner *model.MediaPartner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockMediaPartnerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCompetitionRepository struct {
	mock.Mock
}

func (m *MockCompetitionRepository) List(ctx context.Context) ([]*model.Competition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Competition), args.Error(1)
}

func (m *MockCompetitionRepository) Get(ctx context.Context, id string) (*model.Competition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Competition), args.Error(1)
}

func (m *MockCompetitionRepository) GetBySlug(ctx context.Context, slug string) (*model.Competition, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Competition), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *MockEventRepository) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *model.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Get(ctx context.Context, id string) (*model.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamRepository) GetForUpdate(ctx context.Context, id string) (*model.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByLeader(ctx context.Context, leaderID string) ([]*model.Team, error) {
	args := m.Called(ctx, leaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Team), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context, filter *model.TeamFilter) ([]*model.Team, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Team), args.Error(1)
}

func (m *MockTeamRepository) UpdateProgress(ctx context.Context, id string, stage model.Stage, status model.TeamStatus) error {
	args := m.Called(ctx, id, stage, status)
	return args.Error(0)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Upsert(ctx context.Context, submission *model.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Get(ctx context.Context, teamID string, stage model.Stage) (*model.Submission, error) {
	args := m.Called(ctx, teamID, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByTeam(ctx context.Context, teamID string) ([]*model.Submission, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) SetStatus(ctx context.Context, teamID string, stage model.Stage, status model.SubmissionStatus, reviewedAt time.Time) error {
	args := m.Called(ctx, teamID, stage, status, reviewedAt)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Get(ctx context.Context, id string) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByTeam(ctx context.Context, teamID string) ([]*model.Payment, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) LatestForStage(ctx context.Context, teamID string, stage model.Stage) (*model.Payment, error) {
	args := m.Called(ctx, teamID, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) HasPaid(ctx context.Context, teamID string, stage model.Stage) (bool, error) {
	args := m.Called(ctx, teamID, stage)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	args := m.Called(ctx, id, paidAt)
	return args.Error(0)
}

func (m *MockPaymentRepository) SetStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPaymentRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockNetworkingRepository struct {
	mock.Mock
}

func (m *MockNetworkingRepository) Create(ctx context.Context, p *model.NetworkingParticipant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockNetworkingRepository) GetByUser(ctx context.Context, userID string) (*model.NetworkingParticipant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NetworkingParticipant), args.Error(1)
}

func (m *MockNetworkingRepository) List(ctx context.Context) ([]*model.NetworkingParticipant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.NetworkingParticipant), args.Error(1)
}

type MockBusinessClassRepository struct {
	mock.Mock
}

func (m *MockBusinessClassRepository) Create(ctx context.Context, p *model.BusinessClassParticipant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockBusinessClassRepository) GetByUser(ctx context.Context, userID string) (*model.BusinessClassParticipant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BusinessClassParticipant), args.Error(1)
}

func (m *MockBusinessClassRepository) List(ctx context.Context) ([]*model.BusinessClassParticipant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BusinessClassParticipant), args.Error(1)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Upload(ctx context.Context, key, contentType string, size int64, body io.Reader) (string, error) {
	args := m.Called(ctx, key, contentType, size, body)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockFileStore) PresignGet(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateInvoice(ctx context.Context, req *payment.InvoiceRequest) (*payment.Invoice, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Invoice), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
