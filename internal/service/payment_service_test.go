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
	"github.com/yakoovad/makarapreneur/internal/payment"
	"github.com/yakoovad/makarapreneur/internal/repository"
)

const testCallbackToken = "cb-secret"

type paymentMocks struct {
	teams        *MockTeamRepository
	competitions *MockCompetitionRepository
	payments     *MockPaymentRepository
	gateway      *MockGateway
	mailer       *MockMailer
}

func newPaymentMocks() *paymentMocks {
	return &paymentMocks{
		teams:        new(MockTeamRepository),
		competitions: new(MockCompetitionRepository),
		payments:     new(MockPaymentRepository),
		gateway:      new(MockGateway),
		mailer:       new(MockMailer),
	}
}

func (m *paymentMocks) service() *PaymentService {
	return NewPaymentService(new(MockTransactor), PaymentOptions{
		CallbackToken:   testCallbackToken,
		InvoiceDuration: 2 * time.Hour,
	}).
		WithTeamRepo(m.teams).
		WithCompetitionRepo(m.competitions).
		WithPaymentRepo(m.payments).
		WithGateway(m.gateway).
		WithMailer(m.mailer).
		WithClock(func() time.Time { return testNow })
}

func (m *paymentMocks) assert(t *testing.T) {
	m.teams.AssertExpectations(t)
	m.competitions.AssertExpectations(t)
	m.payments.AssertExpectations(t)
	m.gateway.AssertExpectations(t)
	m.mailer.AssertExpectations(t)
}

// inTransaction matches contexts handed out by MockTransactor.
func inTransaction() any {
	return mock.MatchedBy(func(ctx context.Context) bool {
		in, _ := ctx.Value(mockTxKey{}).(bool)
		return in
	})
}

func TestPaymentService_CreateInvoice(t *testing.T) {
	tests := []struct {
		name          string
		userID        string
		setupMocks    func(*paymentMocks)
		expectedError bool
		errorCode     ErrorCode
		expectedID    string
	}{
		{
			name:   "success: new invoice",
			userID: "user1",
			setupMocks: func(m *paymentMocks) {
				m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
				m.competitions.On("Get", mock.Anything, "comp1").Return(testCompetition(), nil)
				m.teams.On("GetForUpdate", inTransaction(), "team1").Return(testTeam(), nil)
				m.payments.On("HasPaid", mock.Anything, "team1", model.StagePreliminary).Return(false, nil)
				m.payments.On("LatestForStage", mock.Anything, "team1", model.StagePreliminary).Return(nil, repository.ErrNotFound)
				m.gateway.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(r *payment.InvoiceRequest) bool {
					return r.Amount == 150000 &&
						r.PayerEmail == "dina@ui.ac.id" &&
						r.InvoiceDuration == 7200 &&
						r.ExternalID != ""
				})).Return(&payment.Invoice{ID: "inv-1", InvoiceURL: "https://checkout.xendit.co/inv-1"}, nil)
				m.payments.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Payment) bool {
					return p.InvoiceID == "inv-1" &&
						p.Status == model.PaymentStatusPending &&
						p.ExpiresAt.Equal(testNow.Add(2*time.Hour))
				})).Return(nil)
			},
		},
		{
			name:   "success: pending invoice reused",
			userID: "user1",
			setupMocks: func(m *paymentMocks) {
				m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
				m.competitions.On("Get", mock.Anything, "comp1").Return(testCompetition(), nil)
				m.teams.On("GetForUpdate", inTransaction(), "team1").Return(testTeam(), nil)
				m.payments.On("HasPaid", mock.Anything, "team1", model.StagePreliminary).Return(false, nil)
				m.payments.On("LatestForStage", mock.Anything, "team1", model.StagePreliminary).Return(&model.Payment{
					ID: "pay-old", Status: model.PaymentStatusPending, ExpiresAt: testNow.Add(time.Hour),
				}, nil)
			},
			expectedID: "pay-old",
		},
		{
			name:   "expired invoice replaced",
			userID: "user1",
			setupMocks: func(m *paymentMocks) {
				m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
				m.competitions.On("Get", mock.Anything, "comp1").Return(testCompetition(), nil)
				m.teams.On("GetForUpdate", inTransaction(), "team1").Return(testTeam(), nil)
				m.payments.On("HasPaid", mock.Anything, "team1", model.StagePreliminary).Return(false, nil)
				m.payments.On("LatestForStage", mock.Anything, "team1", model.StagePreliminary).Return(&model.Payment{
					ID: "pay-old", Status: model.PaymentStatusPending, ExpiresAt: testNow.Add(-time.Minute),
				}, nil)
				m.gateway.On("CreateInvoice", mock.Anything, mock.Anything).Return(&payment.Invoice{ID: "inv-2"}, nil)
				m.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:   "not the leader",
			userID: "user2",
			setupMocks: func(m *paymentMocks) {
				m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeForbidden,
		},
		{
			name:   "stage without fee",
			userID: "user1",
			setupMocks: func(m *paymentMocks) {
				team := testTeam()
				team.Stage = model.StageSemifinal
				m.teams.On("Get", mock.Anything, "team1").Return(team, nil)
				m.competitions.On("Get", mock.Anything, "comp1").Return(testCompetition(), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeNoFee,
		},
		{
			name:   "already paid",
			userID: "user1",
			setupMocks: func(m *paymentMocks) {
				m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
				m.competitions.On("Get", mock.Anything, "comp1").Return(testCompetition(), nil)
				m.teams.On("GetForUpdate", inTransaction(), "team1").Return(testTeam(), nil)
				m.payments.On("HasPaid", mock.Anything, "team1", model.StagePreliminary).Return(true, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeAlreadyPaid,
		},
		{
			name:   "inactive team",
			userID: "user1",
			setupMocks: func(m *paymentMocks) {
				team := testTeam()
				team.Status = model.TeamStatusEliminated
				m.teams.On("Get", mock.Anything, "team1").Return(team, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeTeamInactive,
		},
		{
			name:   "team advanced before the lock",
			userID: "user1",
			setupMocks: func(m *paymentMocks) {
				advanced := testTeam()
				advanced.Stage = model.StageSemifinal
				m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
				m.competitions.On("Get", mock.Anything, "comp1").Return(testCompetition(), nil)
				m.teams.On("GetForUpdate", inTransaction(), "team1").Return(advanced, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeInvalidTransition,
		},
		{
			name:   "gateway failure",
			userID: "user1",
			setupMocks: func(m *paymentMocks) {
				m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
				m.competitions.On("Get", mock.Anything, "comp1").Return(testCompetition(), nil)
				m.teams.On("GetForUpdate", inTransaction(), "team1").Return(testTeam(), nil)
				m.payments.On("HasPaid", mock.Anything, "team1", model.StagePreliminary).Return(false, nil)
				m.payments.On("LatestForStage", mock.Anything, "team1", model.StagePreliminary).Return(nil, repository.ErrNotFound)
				m.gateway.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil, payment.ErrGateway)
			},
			expectedError: true,
			errorCode:     ErrorCodeUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPaymentMocks()
			tt.setupMocks(m)

			got, err := m.service().CreateInvoice(context.Background(), tt.userID, "team1")

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				assert.Nil(t, err)
				require.NotNil(t, got)
				if tt.expectedID != "" {
					assert.Equal(t, tt.expectedID, got.ID)
				}
			}

			m.assert(t)
		})
	}
}

func TestPaymentService_HandleCallback(t *testing.T) {
	pending := func() *model.Payment {
		return &model.Payment{ID: "pay-1", TeamID: "team1", Stage: model.StagePreliminary, Amount: 150000, Status: model.PaymentStatusPending}
	}
	paidAt := time.Date(2026, time.October, 20, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name           string
		token          string
		body           string
		setupMocks     func(*paymentMocks)
		expectedError  bool
		errorCode      ErrorCode
		expectedStatus model.PaymentStatus
	}{
		{
			name:  "paid",
			token: testCallbackToken,
			body:  `{"id":"inv-1","external_id":"pay-1","status":"PAID","paid_at":"2026-10-20T08:30:00Z"}`,
			setupMocks: func(m *paymentMocks) {
				m.payments.On("Get", mock.Anything, "pay-1").Return(pending(), nil)
				m.payments.On("MarkPaid", mock.Anything, "pay-1", paidAt).Return(nil)
				m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
				m.mailer.On("Send", mock.Anything, "dina@ui.ac.id", "Payment received", mock.Anything).Return(nil)
			},
			expectedStatus: model.PaymentStatusPaid,
		},
		{
			name:  "paid with matching amount",
			token: testCallbackToken,
			body:  `{"external_id":"pay-1","status":"PAID","paid_amount":150000,"paid_at":"2026-10-20T08:30:00Z"}`,
			setupMocks: func(m *paymentMocks) {
				m.payments.On("Get", mock.Anything, "pay-1").Return(pending(), nil)
				m.payments.On("MarkPaid", mock.Anything, "pay-1", paidAt).Return(nil)
				m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
				m.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: model.PaymentStatusPaid,
		},
		{
			name:  "underpaid stays pending",
			token: testCallbackToken,
			body:  `{"external_id":"pay-1","status":"PAID","paid_amount":1000}`,
			setupMocks: func(m *paymentMocks) {
				m.payments.On("Get", mock.Anything, "pay-1").Return(pending(), nil)
			},
			expectedStatus: model.PaymentStatusPending,
		},
		{
			name:  "settled without paid_at uses now",
			token: testCallbackToken,
			body:  `{"id":"inv-1","external_id":"pay-1","status":"SETTLED"}`,
			setupMocks: func(m *paymentMocks) {
				m.payments.On("Get", mock.Anything, "pay-1").Return(pending(), nil)
				m.payments.On("MarkPaid", mock.Anything, "pay-1", testNow).Return(nil)
				m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
				m.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: model.PaymentStatusPaid,
		},
		{
			name:  "repeated paid is idempotent",
			token: testCallbackToken,
			body:  `{"id":"inv-1","external_id":"pay-1","status":"PAID"}`,
			setupMocks: func(m *paymentMocks) {
				p := pending()
				p.Status = model.PaymentStatusPaid
				m.payments.On("Get", mock.Anything, "pay-1").Return(p, nil)
			},
			expectedStatus: model.PaymentStatusPaid,
		},
		{
			name:  "expired",
			token: testCallbackToken,
			body:  `{"id":"inv-1","external_id":"pay-1","status":"EXPIRED"}`,
			setupMocks: func(m *paymentMocks) {
				m.payments.On("Get", mock.Anything, "pay-1").Return(pending(), nil)
				m.payments.On("SetStatus", mock.Anything, "pay-1", model.PaymentStatusExpired).Return(nil)
			},
			expectedStatus: model.PaymentStatusExpired,
		},
		{
			name:          "bad token",
			token:         "guess",
			body:          `{"external_id":"pay-1","status":"PAID"}`,
			setupMocks:    func(m *paymentMocks) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidCallback,
		},
		{
			name:          "malformed body",
			token:         testCallbackToken,
			body:          `{"status":"PAID"}`,
			setupMocks:    func(m *paymentMocks) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
		},
		{
			name:  "unknown payment",
			token: testCallbackToken,
			body:  `{"external_id":"pay-404","status":"PAID"}`,
			setupMocks: func(m *paymentMocks) {
				m.payments.On("Get", mock.Anything, "pay-404").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name:  "mark paid failure",
			token: testCallbackToken,
			body:  `{"external_id":"pay-1","status":"PAID"}`,
			setupMocks: func(m *paymentMocks) {
				m.payments.On("Get", mock.Anything, "pay-1").Return(pending(), nil)
				m.payments.On("MarkPaid", mock.Anything, "pay-1", mock.Anything).Return(errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPaymentMocks()
			tt.setupMocks(m)

			got, err := m.service().HandleCallback(context.Background(), tt.token, []byte(tt.body))

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				assert.Nil(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.expectedStatus, got.Status)
			}

			m.assert(t)
		})
	}
}

func TestPaymentService_Status(t *testing.T) {
	m := newPaymentMocks()
	m.teams.On("Get", mock.Anything, "team1").Return(testTeam(), nil)
	m.payments.On("ListByTeam", mock.Anything, "team1").Return([]*model.Payment{{ID: "pay-1"}}, nil)

	got, err := m.service().Status(context.Background(), "user1", "team1")
	assert.Nil(t, err)
	assert.Len(t, got, 1)

	_, err = m.service().Status(context.Background(), "user2", "team1")
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeForbidden, err.Code)

	m.assert(t)
}

func TestPaymentService_ExpireStale(t *testing.T) {
	m := newPaymentMocks()
	m.payments.On("ExpirePending", mock.Anything, testNow).Return(int64(2), nil).Once()
	m.payments.On("ExpirePending", mock.Anything, testNow).Return(int64(0), errors.New("db error")).Once()

	n, err := m.service().ExpireStale(context.Background(), testNow)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)

	_, err = m.service().ExpireStale(context.Background(), testNow)
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeUnspecified, err.Code)

	m.assert(t)
}
