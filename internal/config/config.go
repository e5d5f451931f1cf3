package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"iqtest"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres    Postgres
	Redis       Redis
	Security    Security
	Quiz        Quiz
	Packs       Packs
	Leaderboard Leaderboard
	Analytics   Analytics
	CORS        CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders the keyword/value connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds cache, session and pub/sub configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing tokens.
type Security struct {
	JWTSecret        string        `env:"JWT_SECRET,notEmpty"`
	AccessTTL        time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL       time.Duration `env:"JWT_REFRESH_TTL" envDefault:"720h"`
	SingleUseRefresh bool          `env:"JWT_SINGLE_USE_REFRESH" envDefault:"true"`
}

// Quiz groups session defaults.
type Quiz struct {
	DefaultCount  int           `env:"QUIZ_DEFAULT_COUNT" envDefault:"30"`
	PracticeCount int           `env:"QUIZ_PRACTICE_COUNT" envDefault:"1"`
	SessionTTL    time.Duration `env:"QUIZ_SESSION_TTL" envDefault:"2h"`
}

// Packs configures where named question packs come from.
type Packs struct {
	// BaseURL empty means only the bundled packs are served.
	BaseURL          string        `env:"PACKS_BASE_URL" envDefault:""`
	FetchTimeout     time.Duration `env:"PACKS_FETCH_TIMEOUT" envDefault:"4s"`
	CacheTTL         time.Duration `env:"PACKS_CACHE_TTL" envDefault:"10m"`
	Prefetch         []string      `env:"PACKS_PREFETCH" envSeparator:"," envDefault:"sample"`
	PrefetchInterval time.Duration `env:"PACKS_PREFETCH_INTERVAL" envDefault:"5m"`
}

// Leaderboard governs snapshotting and broadcast behavior.
type Leaderboard struct {
	TopN             int           `env:"LEADERBOARD_TOP_N" envDefault:"100"`
	Channel          string        `env:"LEADERBOARD_CHANNEL" envDefault:"lb:updates"`
	SnapshotInterval time.Duration `env:"LEADERBOARD_SNAPSHOT_INTERVAL" envDefault:"5m"`
	SnapshotTopN     int           `env:"LEADERBOARD_SNAPSHOT_TOP" envDefault:"50"`
}

// Analytics toggles gameplay counters.
type Analytics struct {
	Enabled   bool          `env:"ANALYTICS_ENABLED" envDefault:"true"`
	InitDelay time.Duration `env:"ANALYTICS_INIT_DELAY" envDefault:"0s"`
	Namespace string        `env:"ANALYTICS_NAMESPACE" envDefault:"iqtest"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
