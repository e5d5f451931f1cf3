package repository

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/gokatarajesh/iqtest/internal/db/sqlc"
)

type mockScoreStore struct {
	mock.Mock
}

func (m *mockScoreStore) UpsertScore(ctx context.Context, arg sqlcgen.UpsertScoreParams) (sqlcgen.UpsertScoreRow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.UpsertScoreRow), args.Error(1)
}

func (m *mockScoreStore) GetScore(ctx context.Context, arg sqlcgen.GetScoreParams) (sqlcgen.Score, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Score), args.Error(1)
}

func (m *mockScoreStore) ListTopScores(ctx context.Context, arg sqlcgen.ListTopScoresParams) ([]sqlcgen.Score, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]sqlcgen.Score), args.Error(1)
}

func (m *mockScoreStore) ListTopScoresByScore(ctx context.Context, arg sqlcgen.ListTopScoresByScoreParams) ([]sqlcgen.Score, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]sqlcgen.Score), args.Error(1)
}

func (m *mockScoreStore) ListScoresByName(ctx context.Context, arg sqlcgen.ListScoresByNameParams) ([]sqlcgen.Score, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]sqlcgen.Score), args.Error(1)
}

func TestScoreRepository_Upsert(t *testing.T) {
	store := new(mockScoreStore)
	repo := NewScoreRepository(store)

	iq := 104.5
	params := sqlcgen.UpsertScoreParams{
		UserID:     "u1",
		Difficulty: "easy",
		Nickname:   "Ace",
		Score:      24,
		Iq:         pgtype.Float8{Float64: 104.5, Valid: true},
	}
	expect := sqlcgen.UpsertScoreRow{UserID: "u1", Difficulty: "easy", Nickname: "Ace", Score: 24, Existed: true}
	store.On("UpsertScore", mock.Anything, params).Return(expect, nil)

	got, err := repo.Upsert(context.Background(), "u1", "easy", "Ace", 24, &iq)
	assert.NoError(t, err)
	assert.True(t, got.Existed)
	store.AssertExpectations(t)
}

func TestScoreRepository_UpsertWithoutIQ(t *testing.T) {
	store := new(mockScoreStore)
	repo := NewScoreRepository(store)

	nan := math.NaN()
	params := sqlcgen.UpsertScoreParams{UserID: "u1", Difficulty: "hard", Nickname: "Ace", Score: 3}
	store.On("UpsertScore", mock.Anything, params).Return(sqlcgen.UpsertScoreRow{}, nil).Twice()

	_, err := repo.Upsert(context.Background(), "u1", "hard", "Ace", 3, nil)
	assert.NoError(t, err)
	_, err = repo.Upsert(context.Background(), "u1", "hard", "Ace", 3, &nan)
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestScoreRepository_GetMapsNoRows(t *testing.T) {
	store := new(mockScoreStore)
	repo := NewScoreRepository(store)

	store.On("GetScore", mock.Anything, sqlcgen.GetScoreParams{UserID: "u1", Difficulty: "easy"}).Return(sqlcgen.Score{}, pgx.ErrNoRows)
	_, err := repo.Get(context.Background(), "u1", "easy")
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("boom")
	store.On("GetScore", mock.Anything, sqlcgen.GetScoreParams{UserID: "u2", Difficulty: "easy"}).Return(sqlcgen.Score{}, boom)
	_, err = repo.Get(context.Background(), "u2", "easy")
	assert.ErrorIs(t, err, boom)
}

func TestScoreRepository_Filters(t *testing.T) {
	store := new(mockScoreStore)
	repo := NewScoreRepository(store)
	rows := []sqlcgen.Score{{UserID: "u1", Score: 10}}

	store.On("ListTopScores", mock.Anything, sqlcgen.ListTopScoresParams{Limit: 20}).Return(rows, nil)
	store.On("ListTopScoresByScore", mock.Anything, sqlcgen.ListTopScoresByScoreParams{
		Difficulty: pgtype.Text{String: "medium", Valid: true}, Limit: 5,
	}).Return(rows, nil)
	store.On("ListScoresByName", mock.Anything, sqlcgen.ListScoresByNameParams{Limit: 3}).Return(rows, nil)

	got, err := repo.TopRecent(context.Background(), FilterAll, 20)
	assert.NoError(t, err)
	assert.Equal(t, rows, got)

	_, err = repo.TopByScore(context.Background(), "medium", 5)
	assert.NoError(t, err)

	_, err = repo.ByName(context.Background(), "", 3)
	assert.NoError(t, err)
	store.AssertExpectations(t)
}
