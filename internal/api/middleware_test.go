package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/makarapreneur/internal/auth"
	"github.com/yakoovad/makarapreneur/internal/model"
)

func TestAuthMiddleware(t *testing.T) {
	auth.TokenSecretKey = testSecret

	e := echo.New()
	e.GET("/private", func(c echo.Context) error {
		return c.String(http.StatusOK, currentUserID(c))
	}, AuthMiddleware(auth.TokenTypeAdmin))

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedBody   string
	}{
		{name: "no header", expectedStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic YWRtaW46YWRtaW4=", expectedStatus: http.StatusUnauthorized},
		{name: "wrong type", header: bearer(t, "user1", auth.TokenTypeUser), expectedStatus: http.StatusForbidden},
		{name: "admin", header: bearer(t, "admin1", auth.TokenTypeAdmin), expectedStatus: http.StatusOK, expectedBody: "admin1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}

			rec := do(e, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	current := time.Date(2026, time.October, 20, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	e := echo.New()
	e.IPExtractor = echo.ExtractIPDirect()
	e.POST("/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, rl.Middleware())

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":41000"
		return do(e, req).Code
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.2"))

	current = current.Add(time.Hour)
	send("10.0.0.2")

	assert.Equal(t, 1, rl.Sweep(30*time.Minute))
	assert.Equal(t, 0, rl.Sweep(30*time.Minute))
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	valid := &model.NetworkingParticipant{
		Name:        "Dina",
		Email:       "dina@ui.ac.id",
		Phone:       "+62 812 3456 7890",
		Institution: "Universitas Indonesia",
	}
	require.NoError(t, v.Validate(valid))

	badPhone := *valid
	badPhone.Phone = "call me"
	assert.Error(t, v.Validate(&badPhone))

	badEmail := *valid
	badEmail.Email = "dina@"
	assert.Error(t, v.Validate(&badEmail))

	tooMany := &model.TeamRegistration{
		Name:        "Kopi",
		Institution: "UI",
		Leader:      model.TeamMember{Name: "Dina", Email: "dina@ui.ac.id"},
		Members: []model.TeamMember{
			{Name: "A", Email: "a@ui.ac.id"},
			{Name: "B", Email: "b@ui.ac.id"},
			{Name: "C", Email: "c@ui.ac.id"},
		},
	}
	assert.Error(t, v.Validate(tooMany))

	tooMany.Members = tooMany.Members[:2]
	assert.NoError(t, v.Validate(tooMany))
}

func TestHealthChecker(t *testing.T) {
	hc, err := NewHealthChecker("test")
	require.NoError(t, err)

	e := echo.New()
	e.GET("/health", hc.HealthCheck())

	rec := do(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
}

func TestNewIPExtractor(t *testing.T) {
	tests := []struct {
		name        string
		trusted     []string
		remoteAddr  string
		expectedIP  string
		expectError bool
	}{
		{name: "direct ignores forwarded header", remoteAddr: "203.0.113.50:4000", expectedIP: "203.0.113.50"},
		{name: "trusted proxy forwards client", trusted: []string{"198.51.100.0/24"}, remoteAddr: "198.51.100.7:4000", expectedIP: "192.0.2.44"},
		{name: "untrusted peer keeps socket", trusted: []string{"198.51.100.0/24"}, remoteAddr: "203.0.113.50:4000", expectedIP: "203.0.113.50"},
		{name: "invalid range", trusted: []string{"not-a-cidr"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extract, err := NewIPExtractor(tt.trusted)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set(echo.HeaderXForwardedFor, "192.0.2.44")
			assert.Equal(t, tt.expectedIP, extract(req))
		})
	}
}
