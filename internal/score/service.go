package score

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/iqtest/internal/analytics"
	sqlcgen "github.com/gokatarajesh/iqtest/internal/db/sqlc"
	"github.com/gokatarajesh/iqtest/internal/leaderboard"
)

// Store persists score documents.
type Store interface {
	Upsert(ctx context.Context, userID, difficulty, nickname string, score int, iq *float64) (sqlcgen.UpsertScoreRow, error)
}

// Recorder mirrors documents into the live leaderboard.
type Recorder interface {
	Record(ctx context.Context, e leaderboard.Entry) error
}

// SubmitResult reports the stored entry and whether it replaced one.
type SubmitResult struct {
	Existed bool              `json:"existed"`
	Entry   leaderboard.Entry `json:"entry"`
}

// Service accepts score submissions.
type Service struct {
	store    Store
	recorder Recorder
	logger   zerolog.Logger
}

func NewService(store Store, recorder Recorder, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		recorder: recorder,
		logger:   logger.With().Str("component", "score").Logger(),
	}
}

// Submit validates the payload and upserts the user's document for its
// difficulty. A leaderboard write failure is logged, not returned.
func (s *Service) Submit(ctx context.Context, userID string, p Payload) (SubmitResult, error) {
	clean, err := ValidatePayload(p)
	if err != nil {
		return SubmitResult{}, err
	}

	row, err := s.store.Upsert(ctx, userID, clean.Difficulty, clean.Nickname, int(clean.Score), clean.IQ)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("save score: %w", err)
	}

	entry := leaderboard.Entry{
		UserID:     userID,
		Nickname:   clean.Nickname,
		Difficulty: clean.Difficulty,
		Score:      int(clean.Score),
		IQ:         clean.IQ,
		UpdatedAt:  time.Now().UTC(),
	}
	if row.UpdatedAt.Valid {
		entry.UpdatedAt = row.UpdatedAt.Time
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, entry); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("leaderboard record failed")
		}
	}
	analytics.FromContext(ctx).ScoreSubmitted(clean.Difficulty)

	s.logger.Info().
		Str("user_id", userID).
		Str("difficulty", clean.Difficulty).
		Int("score", entry.Score).
		Bool("existed", row.Existed).
		Msg("score submitted")

	return SubmitResult{Existed: row.Existed, Entry: entry}, nil
}
