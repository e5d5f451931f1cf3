package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/iqtest/internal/db/sqlc"
)

type snapshotStore interface {
	InsertLeaderboardSnapshot(ctx context.Context, arg sqlcgen.InsertLeaderboardSnapshotParams) (sqlcgen.LeaderboardSnapshot, error)
	GetLatestSnapshot(ctx context.Context, filter string) (sqlcgen.LeaderboardSnapshot, error)
}

// SnapshotRepository persists serialized leaderboard tops.
type SnapshotRepository struct {
	store snapshotStore
	now   func() time.Time
}

func NewSnapshotRepository(store snapshotStore) *SnapshotRepository {
	return &SnapshotRepository{store: store, now: time.Now}
}

// Insert stores entries (already JSON encoded) for a filter, stamped with a
// content hash.
func (r *SnapshotRepository) Insert(ctx context.Context, filter string, entries []byte) (sqlcgen.LeaderboardSnapshot, error) {
	sum := sha256.Sum256(entries)
	return r.store.InsertLeaderboardSnapshot(ctx, sqlcgen.InsertLeaderboardSnapshotParams{
		Filter:      filter,
		GeneratedAt: pgtype.Timestamptz{Time: r.now().UTC(), Valid: true},
		Entries:     entries,
		SourceHash:  hex.EncodeToString(sum[:]),
	})
}

// Latest returns the newest snapshot for a filter, or ErrNotFound.
func (r *SnapshotRepository) Latest(ctx context.Context, filter string) (sqlcgen.LeaderboardSnapshot, error) {
	row, err := r.store.GetLatestSnapshot(ctx, filter)
	if errors.Is(err, pgx.ErrNoRows) {
		return sqlcgen.LeaderboardSnapshot{}, ErrNotFound
	}
	return row, err
}
