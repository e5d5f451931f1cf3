package score

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/iqtest/internal/analytics"
	sqlcgen "github.com/gokatarajesh/iqtest/internal/db/sqlc"
	"github.com/gokatarajesh/iqtest/internal/leaderboard"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Upsert(ctx context.Context, userID, difficulty, nickname string, score int, iq *float64) (sqlcgen.UpsertScoreRow, error) {
	args := m.Called(ctx, userID, difficulty, nickname, score, iq)
	return args.Get(0).(sqlcgen.UpsertScoreRow), args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, e leaderboard.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func TestService_Submit(t *testing.T) {
	store := new(mockStore)
	recorder := new(mockRecorder)
	svc := NewService(store, recorder, zerolog.Nop())

	updated := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	iq := 112.0
	store.On("Upsert", mock.Anything, "user-1", "medium", "Ada L", 20, &iq).
		Return(sqlcgen.UpsertScoreRow{Existed: true, UpdatedAt: pgtype.Timestamptz{Time: updated, Valid: true}}, nil)
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(e leaderboard.Entry) bool {
		return e.UserID == "user-1" && e.Nickname == "Ada L" && e.Score == 20 && e.UpdatedAt.Equal(updated)
	})).Return(nil)

	res, err := svc.Submit(context.Background(), "user-1", Payload{Nickname: " Ada   L ", Score: 20, Difficulty: "medium", IQ: &iq})
	require.NoError(t, err)
	assert.True(t, res.Existed)
	assert.Equal(t, "Ada L", res.Entry.Nickname)
	assert.Equal(t, updated, res.Entry.UpdatedAt)
	store.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestService_SubmitValidationError(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, nil, zerolog.Nop())

	_, err := svc.Submit(context.Background(), "user-1", Payload{Nickname: "x", Score: -3, Difficulty: "easy"})
	assert.ErrorIs(t, err, ErrInvalidScore)
	store.AssertNotCalled(t, "Upsert")
}

func TestService_SubmitStoreError(t *testing.T) {
	store := new(mockStore)
	recorder := new(mockRecorder)
	svc := NewService(store, recorder, zerolog.Nop())

	boom := errors.New("db down")
	store.On("Upsert", mock.Anything, "user-1", "easy", "x", 1, (*float64)(nil)).Return(sqlcgen.UpsertScoreRow{}, boom)

	_, err := svc.Submit(context.Background(), "user-1", Payload{Nickname: "x", Score: 1, Difficulty: "easy"})
	assert.ErrorIs(t, err, boom)
	recorder.AssertNotCalled(t, "Record")
}

func TestService_SubmitRecorderFailureIsNotFatal(t *testing.T) {
	store := new(mockStore)
	recorder := new(mockRecorder)
	svc := NewService(store, recorder, zerolog.Nop())

	store.On("Upsert", mock.Anything, "user-1", "hard", "x", 4, (*float64)(nil)).Return(sqlcgen.UpsertScoreRow{}, nil)
	recorder.On("Record", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	reg := prometheus.NewRegistry()
	handle, err := analytics.Init(context.Background(), analytics.Options{Enabled: true}, reg).Wait(context.Background())
	require.NoError(t, err)
	ctx := analytics.IntoContext(context.Background(), handle)

	res, err := svc.Submit(ctx, "user-1", Payload{Nickname: "x", Score: 4, Difficulty: "hard"})
	require.NoError(t, err)
	assert.False(t, res.Existed)
	assert.False(t, res.Entry.UpdatedAt.IsZero())

	n, err := testutil.GatherAndCount(reg, "iqtest_score_submitted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
