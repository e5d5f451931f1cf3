package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/gokatarajesh/iqtest/internal/auth"
	"github.com/gokatarajesh/iqtest/internal/auth/jwt"
	"github.com/gokatarajesh/iqtest/internal/config"
	"github.com/gokatarajesh/iqtest/internal/question"
	"github.com/gokatarajesh/iqtest/internal/session"
)

var testCORS = config.CORS{
	AllowedOrigins:   []string{"http://localhost:3000"},
	AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
	AllowedHeaders:   []string{"Content-Type", "Authorization"},
	AllowCredentials: true,
	MaxAge:           600,
}

func newTestRouter(t *testing.T, pingers ...Pinger) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zerolog.Nop()
	authSvc := auth.NewService(auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{AccessSecret: []byte("test-secret")},
		Redis:       client,
	}, logger)
	packs := question.NewService(question.NewLoader("", nil, nil), nil, logger)
	sessions := session.NewService(packs, session.NewStore(client, 0), session.NewLastRunStore(client), session.Config{}, logger)

	return NewRouter(testCORS, logger, Handlers{
		Auth:        auth.NewHTTPHandlers(authSvc, logger),
		AuthService: authSvc,
		Packs:       question.NewHTTPHandlers(packs, logger),
		Sessions:    session.NewHTTPHandlers(sessions, logger),
		Pingers:     pingers,
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Ping(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("down") }

	rec := serve(newTestRouter(t, ok), httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(newTestRouter(t, ok, down), httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouter_CORS(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := serve(router, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_AnonymousSessionFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = serve(router, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", gjson.Get(rec.Body.String(), "error").String())

	rec = serve(router, httptest.NewRequest(http.MethodPost, "/v1/auth/anonymous", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	token := gjson.Get(rec.Body.String(), "access_token").String()
	require.NotEmpty(t, token)

	req = httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(`{"seed":"router","difficulty":"medium","count":3}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = serve(router, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(3), gjson.Get(rec.Body.String(), "total").Int())
	id := gjson.Get(rec.Body.String(), "id").String()

	req = httptest.NewRequest(http.MethodGet, "/v1/sessions/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, gjson.Get(rec.Body.String(), "id").String())
}

func TestRouter_PublicPackRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/v1/packs/sample", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/v1/matrix/grid?seed=7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodDelete, "/v1/packs/sample", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	upgrader := NewUpgrader([]string{"https://iq.example"})

	req := httptest.NewRequest(http.MethodGet, "/ws/leaderboard", nil)
	assert.True(t, upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://IQ.example")
	assert.True(t, upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://other.example")
	assert.False(t, upgrader.CheckOrigin(req))

	assert.True(t, NewUpgrader(nil).CheckOrigin(req))
}
