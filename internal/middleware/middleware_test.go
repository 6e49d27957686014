package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sownmark/internal/service"
)

type stubValidator struct {
	claims *service.AdminClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*service.AdminClaims, error) {
	return s.claims, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp["error"]
}

func TestAuthMiddleware(t *testing.T) {
	admin := &service.AdminClaims{ID: 1, Role: service.RoleAdmin}

	tests := []struct {
		name           string
		header         string
		validator      stubValidator
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "no header",
			validator:      stubValidator{claims: admin},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Access denied: No token provided",
		},
		{
			name:           "not bearer",
			header:         "Basic abc",
			validator:      stubValidator{claims: admin},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Access denied: No token provided",
		},
		{
			name:           "invalid token",
			header:         "Bearer bad",
			validator:      stubValidator{err: errors.New("expired")},
			expectedStatus: http.StatusForbidden,
			expectedError:  "Invalid or expired token",
		},
		{
			name:           "admin",
			header:         "Bearer good",
			validator:      stubValidator{claims: admin},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non admin role",
			header:         "Bearer good",
			validator:      stubValidator{claims: &service.AdminClaims{ID: 2, Role: "editor"}},
			expectedStatus: http.StatusForbidden,
			expectedError:  "Access denied: Admin privileges required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Chain(okHandler(), AdminOnly, AuthMiddleware(tt.validator))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorBody(t, rr))
			}
		})
	}
}

func TestAuthMiddleware_StoresClaims(t *testing.T) {
	claims := &service.AdminClaims{ID: 7, Role: service.RoleAdmin}
	var got *service.AdminClaims

	h := AuthMiddleware(stubValidator{claims: claims})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.ID)
}

func TestAdminOnly_WithoutAuth(t *testing.T) {
	rr := httptest.NewRecorder()
	AdminOnly(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCORSMiddleware(t *testing.T) {
	m := NewCORSMiddleware([]string{"https://sownmark.com"})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
		req.Header.Set("Origin", "https://sownmark.com")
		rr := httptest.NewRecorder()

		m.Handler(okHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "https://sownmark.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
		req.Header.Set("Origin", "https://evil.example")
		rr := httptest.NewRecorder()

		m.Handler(okHandler()).ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/blogs", nil)
		req.Header.Set("Origin", "https://sownmark.com")
		rr := httptest.NewRecorder()

		m.Handler(okHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rr := httptest.NewRecorder()

		NewCORSMiddleware([]string{"*"}).Handler(okHandler()).ServeHTTP(rr, req)

		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	log, hook := test.NewNullLogger()

	h := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFromContext(r.Context()))
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/jobs/1", nil))

	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, http.StatusNotFound, hook.LastEntry().Data["status"])
	assert.Equal(t, rr.Header().Get(RequestIDHeader), hook.LastEntry().Data["request_id"])
}

func TestLoggingMiddleware_KeepsIncomingID(t *testing.T) {
	log, _ := test.NewNullLogger()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()

	LoggingMiddleware(log)(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}
