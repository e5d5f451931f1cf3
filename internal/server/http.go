package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/iqtest/internal/analytics"
	"github.com/gokatarajesh/iqtest/internal/auth"
	"github.com/gokatarajesh/iqtest/internal/config"
	"github.com/gokatarajesh/iqtest/internal/leaderboard"
	"github.com/gokatarajesh/iqtest/internal/logging"
	"github.com/gokatarajesh/iqtest/internal/question"
	"github.com/gokatarajesh/iqtest/internal/score"
	"github.com/gokatarajesh/iqtest/internal/session"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger func(ctx context.Context) error

// Handlers groups the feature handlers mounted on the API mux. Nil groups
// are skipped.
type Handlers struct {
	Auth        *auth.HTTPHandlers
	AuthService *auth.Service
	Packs       *question.HTTPHandlers
	Sessions    *session.HTTPHandlers
	Scores      *score.HTTPHandlers
	Leaderboard *leaderboard.HTTPHandler
	Analytics   *analytics.Pending
	Pingers     []Pinger
}

// NewUpgrader builds a WebSocket upgrader that accepts the configured
// origins. An empty list or "*" accepts any origin.
func NewUpgrader(origins []string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || originAllowed(origins, origin)
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// NewHTTPServer wires every API route behind the shared middleware chain.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, h Handlers) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewRouter(cfg.CORS, logger, h),
	}
}

// NewRouter returns the API handler without binding an address.
func NewRouter(cors config.CORS, logger zerolog.Logger, h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), h.Pingers); err != nil {
			logger := logging.FromContext(r.Context())
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if h.Auth != nil {
		mux.HandleFunc("POST /v1/auth/anonymous", h.Auth.Anonymous)
		mux.HandleFunc("POST /v1/auth/refresh", h.Auth.RefreshToken)
	}

	if h.Packs != nil {
		mux.HandleFunc("GET /v1/packs/generated", h.Packs.GeneratedPack)
		mux.HandleFunc("GET /v1/packs/{name}", h.Packs.NamedPack)
		mux.HandleFunc("GET /v1/matrix/cells", h.Packs.Cell)
		mux.HandleFunc("GET /v1/matrix/grid", h.Packs.Grid)
		mux.HandleFunc("GET /v1/matrix/questions/{seed}", h.Packs.MatrixQuestion)
	}

	if h.Sessions != nil {
		mux.Handle("POST /v1/sessions", protected(h.Sessions.Start))
		mux.Handle("GET /v1/sessions/{id}", protected(h.Sessions.Get))
		mux.Handle("POST /v1/sessions/{id}/answers", protected(h.Sessions.Answer))
		mux.Handle("POST /v1/sessions/{id}/timeout", protected(h.Sessions.Timeout))
		mux.Handle("POST /v1/sessions/{id}/finish", protected(h.Sessions.Finish))
		mux.Handle("GET /v1/results/last", protected(h.Sessions.LastResult))
	}

	if h.Scores != nil {
		mux.Handle("POST /v1/scores", protected(h.Scores.Submit))
	}

	if h.Leaderboard != nil {
		mux.HandleFunc("GET /v1/leaderboards/{filter}", h.Leaderboard.HandleGet)
		mux.HandleFunc("GET /ws/leaderboard", h.Leaderboard.HandleWebSocket)
	}

	var handler http.Handler = mux
	if h.AuthService != nil {
		handler = auth.AuthMiddleware(h.AuthService, logger)(handler)
	}
	handler = analytics.Middleware(h.Analytics)(handler)
	handler = corsMiddleware(cors)(handler)
	handler = logging.Middleware(logger)(handler)
	return handler
}

func protected(fn http.HandlerFunc) http.Handler {
	return auth.RequireAuth(fn)
}

func pingDependencies(ctx context.Context, pingers []Pinger) error {
	for _, ping := range pingers {
		if err := ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

// corsMiddleware answers preflight requests and stamps the allow headers on
// responses to accepted origins.
func corsMiddleware(cfg config.CORS) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !originAllowed(cfg.AllowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
