package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/gokatarajesh/iqtest/internal/db/sqlc"
)

type mockSnapshotStore struct {
	mock.Mock
}

func (m *mockSnapshotStore) InsertLeaderboardSnapshot(ctx context.Context, arg sqlcgen.InsertLeaderboardSnapshotParams) (sqlcgen.LeaderboardSnapshot, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.LeaderboardSnapshot), args.Error(1)
}

func (m *mockSnapshotStore) GetLatestSnapshot(ctx context.Context, filter string) (sqlcgen.LeaderboardSnapshot, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(sqlcgen.LeaderboardSnapshot), args.Error(1)
}

func TestSnapshotRepository_Insert(t *testing.T) {
	store := new(mockSnapshotStore)
	repo := NewSnapshotRepository(store)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return at }

	params := sqlcgen.InsertLeaderboardSnapshotParams{
		Filter:      "all",
		GeneratedAt: pgtype.Timestamptz{Time: at, Valid: true},
		Entries:     []byte(`[]`),
		// sha256 of "[]"
		SourceHash: "4f53cda18c2baa0c0354bb5f9a3ecbe5ed12ab4d8e11ba873c2f11161202b945",
	}
	store.On("InsertLeaderboardSnapshot", mock.Anything, params).Return(sqlcgen.LeaderboardSnapshot{SnapshotID: 7}, nil)

	got, err := repo.Insert(context.Background(), "all", []byte(`[]`))
	assert.NoError(t, err)
	assert.Equal(t, int64(7), got.SnapshotID)
	store.AssertExpectations(t)
}

func TestSnapshotRepository_Latest(t *testing.T) {
	store := new(mockSnapshotStore)
	repo := NewSnapshotRepository(store)

	store.On("GetLatestSnapshot", mock.Anything, "easy").Return(sqlcgen.LeaderboardSnapshot{Filter: "easy"}, nil)
	store.On("GetLatestSnapshot", mock.Anything, "hard").Return(sqlcgen.LeaderboardSnapshot{}, pgx.ErrNoRows)

	got, err := repo.Latest(context.Background(), "easy")
	assert.NoError(t, err)
	assert.Equal(t, "easy", got.Filter)

	_, err = repo.Latest(context.Background(), "hard")
	assert.ErrorIs(t, err, ErrNotFound)
}
