package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_USER", "iq")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "iqtest")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "jwt")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "iqtest", cfg.Name)
	assert.Equal(t, 30, cfg.Quiz.DefaultCount)
	assert.Equal(t, 1, cfg.Quiz.PracticeCount)
	assert.Equal(t, 2*time.Hour, cfg.Quiz.SessionTTL)
	assert.Equal(t, "", cfg.Packs.BaseURL)
	assert.Equal(t, []string{"sample"}, cfg.Packs.Prefetch)
	assert.Equal(t, "lb:updates", cfg.Leaderboard.Channel)
	assert.True(t, cfg.Analytics.Enabled)
	assert.Equal(t, "host=db port=5432 user=iq password=secret dbname=iqtest sslmode=disable", cfg.Postgres.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PACKS_PREFETCH", "sample,daily")
	t.Setenv("QUIZ_DEFAULT_COUNT", "12")
	t.Setenv("ANALYTICS_INIT_DELAY", "250ms")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sample", "daily"}, cfg.Packs.Prefetch)
	assert.Equal(t, 12, cfg.Quiz.DefaultCount)
	assert.Equal(t, 250*time.Millisecond, cfg.Analytics.InitDelay)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(context.Background())
	assert.Error(t, err)
}
