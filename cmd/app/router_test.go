package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"sownmark/internal/config"
	handlers "sownmark/internal/handler"
	"sownmark/internal/middleware"
	"sownmark/internal/service"
)

type healthy struct{}

func (healthy) HealthCheck() error { return nil }

type rejectAll struct{}

func (rejectAll) ValidateToken(string) (*service.AdminClaims, error) {
	return nil, errors.New("invalid")
}

func newTestRouter() http.Handler {
	log, _ := test.NewNullLogger()
	cfg := &config.Config{Server: config.Server{AllowedOrigins: []string{"https://sownmark.com"}}}
	h := &handlers.Handlers{DB: healthy{}, Cfg: cfg, Validate: handlers.NewValidator(), Log: log}
	return NewRouter(h, rejectAll{}, middleware.NewRateLimiter(100, 100, log), cfg, log)
}

func TestRouter(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name           string
		method         string
		target         string
		body           string
		header         map[string]string
		expectedStatus int
	}{
		{name: "health", method: http.MethodGet, target: "/health", expectedStatus: http.StatusOK},
		{name: "admin route without token", method: http.MethodPost, target: "/api/jobs", body: "{}", expectedStatus: http.StatusUnauthorized},
		{
			name:           "admin route with bad token",
			method:         http.MethodGet,
			target:         "/api/admin/stats",
			header:         map[string]string{"Authorization": "Bearer nope"},
			expectedStatus: http.StatusForbidden,
		},
		{name: "apply is not shadowed by job id", method: http.MethodPost, target: "/api/jobs/apply", body: "{", expectedStatus: http.StatusBadRequest},
		{name: "unknown path", method: http.MethodGet, target: "/api/nothing", expectedStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPatch, target: "/api/blogs", expectedStatus: http.StatusMethodNotAllowed},
		{name: "wrong method on nested api route", method: http.MethodPost, target: "/api/admin/stats", expectedStatus: http.StatusMethodNotAllowed},
		{
			name:           "preflight",
			method:         http.MethodOptions,
			target:         "/api/marketing/apply",
			header:         map[string]string{"Origin": "https://sownmark.com"},
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestRouter_LogsRoutedRequests(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "req-42", rr.Header().Get(middleware.RequestIDHeader))
}
