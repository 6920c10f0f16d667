package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"parking-backend/internal/auth"
	"parking-backend/internal/config"
	"parking-backend/internal/models"
	"parking-backend/internal/repositories"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := f[username]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func newAuth(t *testing.T, users fakeUsers) (*AuthMiddleware, *auth.JWTManager) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test"
	cfg.JWT.ExpirationHours = 1
	jm := auth.NewJWTManager(cfg)
	return NewAuthMiddleware(jm, users), jm
}

func TestAuthenticate(t *testing.T) {
	active := &models.User{ID: 1, Username: "gate", IsActive: true}
	paused := &models.User{ID: 2, Username: "night", IsActive: false}
	am, jm := newAuth(t, fakeUsers{"gate": active, "night": paused})

	okToken, err := jm.GenerateToken(active)
	require.NoError(t, err)
	pausedToken, err := jm.GenerateToken(paused)
	require.NoError(t, err)
	ghostToken, err := jm.GenerateToken(&models.User{ID: 3, Username: "ghost"})
	require.NoError(t, err)

	var seenUser string
	h := am.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = GetUsernameFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"unknown user", "Bearer " + ghostToken, http.StatusUnauthorized},
		{"suspended user", "Bearer " + pausedToken, http.StatusForbidden},
		{"valid", "Bearer " + okToken, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/occupancy", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	assert.Equal(t, "gate", seenUser)
}

func TestPanicRecovery(t *testing.T) {
	h := PanicRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	var fromCtx string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx, _ = GetRequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/payments", nil))
	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, fromCtx)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, incoming, rec.Header().Get(RequestIDHeader))
}
