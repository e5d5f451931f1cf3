package repository

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/iqtest/internal/db/sqlc"
)

// FilterAll selects every difficulty.
const FilterAll = "all"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type scoreStore interface {
	UpsertScore(ctx context.Context, arg sqlcgen.UpsertScoreParams) (sqlcgen.UpsertScoreRow, error)
	GetScore(ctx context.Context, arg sqlcgen.GetScoreParams) (sqlcgen.Score, error)
	ListTopScores(ctx context.Context, arg sqlcgen.ListTopScoresParams) ([]sqlcgen.Score, error)
	ListTopScoresByScore(ctx context.Context, arg sqlcgen.ListTopScoresByScoreParams) ([]sqlcgen.Score, error)
	ListScoresByName(ctx context.Context, arg sqlcgen.ListScoresByNameParams) ([]sqlcgen.Score, error)
}

// ScoreRepository stores one score document per user and difficulty.
type ScoreRepository struct {
	store scoreStore
}

func NewScoreRepository(store scoreStore) *ScoreRepository {
	return &ScoreRepository{store: store}
}

// Upsert writes the latest score for (user, difficulty). The returned row
// reports whether a previous document was replaced.
func (r *ScoreRepository) Upsert(ctx context.Context, userID, difficulty, nickname string, score int, iq *float64) (sqlcgen.UpsertScoreRow, error) {
	return r.store.UpsertScore(ctx, sqlcgen.UpsertScoreParams{
		UserID:     userID,
		Difficulty: difficulty,
		Nickname:   nickname,
		Score:      int32(score),
		Iq:         float8(iq),
	})
}

// Get fetches a single score document.
func (r *ScoreRepository) Get(ctx context.Context, userID, difficulty string) (sqlcgen.Score, error) {
	row, err := r.store.GetScore(ctx, sqlcgen.GetScoreParams{UserID: userID, Difficulty: difficulty})
	if errors.Is(err, pgx.ErrNoRows) {
		return sqlcgen.Score{}, ErrNotFound
	}
	return row, err
}

// TopRecent orders by score, breaking ties by the most recent update.
func (r *ScoreRepository) TopRecent(ctx context.Context, filter string, limit int) ([]sqlcgen.Score, error) {
	return r.store.ListTopScores(ctx, sqlcgen.ListTopScoresParams{
		Difficulty: difficultyFilter(filter),
		Limit:      int32(limit),
	})
}

// TopByScore orders by score alone.
func (r *ScoreRepository) TopByScore(ctx context.Context, filter string, limit int) ([]sqlcgen.Score, error) {
	return r.store.ListTopScoresByScore(ctx, sqlcgen.ListTopScoresByScoreParams{
		Difficulty: difficultyFilter(filter),
		Limit:      int32(limit),
	})
}

// ByName lists documents alphabetically by nickname.
func (r *ScoreRepository) ByName(ctx context.Context, filter string, limit int) ([]sqlcgen.Score, error) {
	return r.store.ListScoresByName(ctx, sqlcgen.ListScoresByNameParams{
		Difficulty: difficultyFilter(filter),
		Limit:      int32(limit),
	})
}

func difficultyFilter(filter string) pgtype.Text {
	if filter == "" || filter == FilterAll {
		return pgtype.Text{}
	}
	return pgtype.Text{String: filter, Valid: true}
}

func float8(v *float64) pgtype.Float8 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *v, Valid: true}
}
