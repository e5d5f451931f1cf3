package leaderboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	sqlcgen "github.com/gokatarajesh/iqtest/internal/db/sqlc"
)

// SnapshotWriter persists encoded leaderboard tops.
type SnapshotWriter interface {
	Insert(ctx context.Context, filter string, entries []byte) (sqlcgen.LeaderboardSnapshot, error)
}

// SnapshotWorker periodically persists Redis leaderboards into Postgres so
// the reader has something to serve when everything else is down.
type SnapshotWorker struct {
	svc       *Service
	snapshots SnapshotWriter
	logger    zerolog.Logger
	interval  time.Duration
	topN      int
}

func NewSnapshotWorker(svc *Service, snapshots SnapshotWriter, interval time.Duration, topN int, logger zerolog.Logger) *SnapshotWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if topN <= 0 {
		topN = 50
	}
	return &SnapshotWorker{
		svc:       svc,
		snapshots: snapshots,
		logger:    logger.With().Str("component", "leaderboard_snapshot_worker").Logger(),
		interval:  interval,
		topN:      topN,
	}
}

// Run blocks until context cancellation.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	if w.svc == nil || w.snapshots == nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// run immediately
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *SnapshotWorker) tick(ctx context.Context) {
	for _, filter := range Filters {
		if err := w.snapshotFilter(ctx, filter); err != nil {
			w.logger.Warn().Err(err).Str("filter", filter).Msg("snapshot failed")
		}
	}
}

func (w *SnapshotWorker) snapshotFilter(ctx context.Context, filter string) error {
	entries, err := w.svc.Top(ctx, filter, w.topN)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	snap, err := w.snapshots.Insert(ctx, filter, data)
	if err != nil {
		return err
	}

	w.logger.Info().
		Str("filter", filter).
		Int("entries", len(entries)).
		Str("source_hash", snap.SourceHash).
		Msg("leaderboard snapshot persisted")

	return nil
}
