package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/iqtest/internal/app"
	"github.com/gokatarajesh/iqtest/internal/config"
)

func main() {
	envFile := flag.String("env", "configs/.env", "Optional dotenv file to load first")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("cmd", "api").Logger()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Warn().Err(err).Str("file", *envFile).Msg("could not load .env file")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logConfig(log.Logger, cfg)

	appCtx := context.Background()
	instance, err := app.New(appCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build iqtest api")
	}

	if err := instance.Run(appCtx); err != nil {
		log.Fatal().Err(err).Msg("iqtest api stopped with error")
	}
}

func logConfig(logger zerolog.Logger, cfg *config.App) {
	logger.Info().
		Str("app", cfg.Name).
		Str("env", cfg.Env).
		Str("addr", cfg.HTTPAddr).
		Str("postgres", cfg.Postgres.Host).
		Str("redis", cfg.Redis.Addr).
		Str("packs", cfg.Packs.BaseURL).
		Strs("prefetch", cfg.Packs.Prefetch).
		Int("quiz_default_count", cfg.Quiz.DefaultCount).
		Bool("analytics", cfg.Analytics.Enabled).
		Msg("configuration loaded")
}
