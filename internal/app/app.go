package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/iqtest/internal/analytics"
	"github.com/gokatarajesh/iqtest/internal/auth"
	"github.com/gokatarajesh/iqtest/internal/auth/jwt"
	"github.com/gokatarajesh/iqtest/internal/config"
	"github.com/gokatarajesh/iqtest/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/iqtest/internal/db/sqlc"
	"github.com/gokatarajesh/iqtest/internal/leaderboard"
	"github.com/gokatarajesh/iqtest/internal/logging"
	"github.com/gokatarajesh/iqtest/internal/question"
	"github.com/gokatarajesh/iqtest/internal/score"
	"github.com/gokatarajesh/iqtest/internal/server"
	"github.com/gokatarajesh/iqtest/internal/session"
	ws "github.com/gokatarajesh/iqtest/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	analytics      *analytics.Pending
	lbBroadcaster  *leaderboard.Broadcaster
	snapshotWorker *leaderboard.SnapshotWorker
	prefetch       *question.PrefetchWorker
	bgCancels      []context.CancelFunc
}

// New bootstraps configs, logger, Postgres, Redis and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.Postgres.MaxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	queries := sqlcgen.New(pool)
	scoreRepo := repository.NewScoreRepository(queries)
	snapshotRepo := repository.NewSnapshotRepository(queries)

	authOpts := auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte(cfg.Security.JWTSecret),
			RefreshSecret: []byte(cfg.Security.JWTSecret + "_refresh"),
			AccessTTL:     cfg.Security.AccessTTL,
			RefreshTTL:    cfg.Security.RefreshTTL,
			Issuer:        cfg.Name,
		},
	}
	if cfg.Security.SingleUseRefresh {
		authOpts.Redis = redisClient
	}
	authSvc := auth.NewService(authOpts, logger)

	leaderboardSvc := leaderboard.NewService(redisClient, logger, leaderboard.ServiceOptions{
		TopN:          cfg.Leaderboard.TopN,
		PubSubChannel: cfg.Leaderboard.Channel,
	})
	lbReader := leaderboard.NewReader(logger, leaderboard.DefaultStrategies(leaderboardSvc, scoreRepo, snapshotRepo)...)
	wsHub := ws.NewHub(logger)
	lbBroadcaster := leaderboard.NewBroadcaster(redisClient, wsHub, lbReader, leaderboardSvc.Channel(), logger)
	var snapshotWorker *leaderboard.SnapshotWorker
	if interval := cfg.Leaderboard.SnapshotInterval; interval > 0 {
		snapshotWorker = leaderboard.NewSnapshotWorker(
			leaderboardSvc,
			snapshotRepo,
			interval,
			cfg.Leaderboard.SnapshotTopN,
			logger,
		)
	}

	validator, err := question.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("compile pack schema: %w", err)
	}
	loader := question.NewLoader(cfg.Packs.BaseURL, &http.Client{Timeout: cfg.Packs.FetchTimeout}, validator)
	packSvc := question.NewService(loader, question.NewCache(redisClient, cfg.Packs.CacheTTL), logger)
	prefetch := question.NewPrefetchWorker(packSvc, cfg.Packs.Prefetch, logger, cfg.Packs.FetchTimeout, cfg.Packs.PrefetchInterval)

	sessionSvc := session.NewService(
		packSvc,
		session.NewStore(redisClient, cfg.Quiz.SessionTTL),
		session.NewLastRunStore(redisClient),
		session.Config{
			DefaultCount:  cfg.Quiz.DefaultCount,
			PracticeCount: cfg.Quiz.PracticeCount,
		},
		logger,
	)
	scoreSvc := score.NewService(scoreRepo, leaderboardSvc, logger)

	counters := analytics.Init(ctx, analytics.Options{
		Enabled:   cfg.Analytics.Enabled,
		InitDelay: cfg.Analytics.InitDelay,
		Namespace: cfg.Analytics.Namespace,
	}, prometheus.DefaultRegisterer)

	apiServer := server.NewHTTPServer(cfg, logger, server.Handlers{
		Auth:        auth.NewHTTPHandlers(authSvc, logger),
		AuthService: authSvc,
		Packs:       question.NewHTTPHandlers(packSvc, logger),
		Sessions:    session.NewHTTPHandlers(sessionSvc, logger),
		Scores:      score.NewHTTPHandlers(scoreSvc, logger),
		Leaderboard: leaderboard.NewHTTPHandler(lbReader, wsHub, server.NewUpgrader(cfg.CORS.AllowedOrigins), logger),
		Analytics:   counters,
		Pingers: []server.Pinger{
			pool.Ping,
			func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})

	return &Application{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		http:           apiServer,
		analytics:      counters,
		lbBroadcaster:  lbBroadcaster,
		snapshotWorker: snapshotWorker,
		prefetch:       prefetch,
		bgCancels:      make([]context.CancelFunc, 0, 3),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}
	a.prefetch.Stop()

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	go a.prefetch.Run()

	go func() {
		h, err := a.analytics.Wait(ctx)
		switch {
		case err != nil:
			a.logger.Warn().Err(err).Msg("analytics unavailable")
		case h == nil:
			a.logger.Info().Msg("analytics disabled")
		default:
			a.logger.Info().Msg("analytics ready")
		}
	}()

	if a.lbBroadcaster != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.lbBroadcaster.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("leaderboard broadcaster stopped")
			}
		}()
	}

	if a.snapshotWorker != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.snapshotWorker.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("leaderboard snapshot worker stopped")
			}
		}()
	}
}
