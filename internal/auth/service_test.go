package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/iqtest/internal/auth/jwt"
)

func newTestService(t *testing.T, withRedis bool) *Service {
	t.Helper()
	opts := ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte("test-access-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
	}
	if withRedis {
		mr := miniredis.RunT(t)
		opts.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}
	return NewService(opts, zerolog.Nop())
}

func TestService_Anonymous(t *testing.T) {
	svc := newTestService(t, false)

	tokens, err := svc.Anonymous(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)

	claims, err := svc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.UserID, claims.UserID)

	other, err := svc.Anonymous(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, tokens.UserID, other.UserID)
}

func TestService_RefreshKeepsIdentity(t *testing.T) {
	svc := newTestService(t, false)
	tokens, err := svc.Anonymous(context.Background())
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.UserID, refreshed.UserID)

	_, err = svc.RefreshToken(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestService_RefreshSingleUse(t *testing.T) {
	svc := newTestService(t, true)
	tokens, err := svc.Anonymous(context.Background())
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenReused)
}

func TestAuthMiddleware(t *testing.T) {
	svc := newTestService(t, false)
	tokens, err := svc.Anonymous(context.Background())
	require.NoError(t, err)

	var seen string
	protected := AuthMiddleware(svc, zerolog.Nop())(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + tokens.AccessToken, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, tokens.UserID.String(), seen)
}

func TestHTTPHandlers(t *testing.T) {
	svc := newTestService(t, false)
	h := NewHTTPHandlers(svc, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Anonymous(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/anonymous", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var tokens TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))

	body, _ := json.Marshal(RefreshRequest{RefreshToken: tokens.RefreshToken})
	rec = httptest.NewRecorder()
	h.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", bytes.NewBufferString(`{"refresh_token":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
