package leaderboard

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/gokatarajesh/iqtest/internal/db/sqlc"
)

type recordingSnapshots struct {
	mu      sync.Mutex
	written map[string][]byte
}

func (r *recordingSnapshots) Insert(_ context.Context, filter string, entries []byte) (sqlcgen.LeaderboardSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.written == nil {
		r.written = map[string][]byte{}
	}
	r.written[filter] = entries
	return sqlcgen.LeaderboardSnapshot{Filter: filter, Entries: entries}, nil
}

func TestSnapshotWorkerPersistsNonEmptyFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, Entry{UserID: "a", Nickname: "Ann", Difficulty: FilterMedium, Score: 8}))

	writer := &recordingSnapshots{}
	worker := NewSnapshotWorker(svc, writer, 0, 10, zerolog.New(io.Discard))
	worker.tick(ctx)

	assert.Len(t, writer.written, 2)
	var entries []Entry
	require.NoError(t, json.Unmarshal(writer.written[FilterMedium], &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Ann", entries[0].Nickname)
	assert.Contains(t, writer.written, FilterAll)
	assert.NotContains(t, writer.written, FilterEasy)
}

func TestSnapshotWorkerWithoutDependencies(t *testing.T) {
	worker := NewSnapshotWorker(nil, nil, 0, 0, zerolog.New(io.Discard))
	assert.NoError(t, worker.Run(context.Background()))
}
