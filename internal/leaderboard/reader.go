package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	sqlcgen "github.com/gokatarajesh/iqtest/internal/db/sqlc"
)

// Strategy names, in the order the default chain tries them.
const (
	SourceRedis       = "redis"
	SourcePrimary     = "primary"
	SourceNoUpdatedAt = "noUpdatedAt"
	SourceNameOnly    = "nameOnly"
	SourceSnapshot    = "snapshot"
)

// ErrUnavailable is returned when every strategy failed.
var ErrUnavailable = errors.New("leaderboard unavailable")

// FetchFunc loads one view of a leaderboard.
type FetchFunc func(ctx context.Context, filter string, limit int) ([]Entry, error)

// Strategy is one named way of reading a leaderboard.
type Strategy struct {
	Name  string
	Fetch FetchFunc
}

// Attempt records what a strategy returned.
type Attempt struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// Result is the leaderboard as served, naming the strategy that produced it.
type Result struct {
	Filter      string    `json:"filter"`
	Source      string    `json:"source"`
	Entries     []Entry   `json:"top"`
	Attempts    []Attempt `json:"attempts"`
	RetrievedAt time.Time `json:"retrievedAt"`
}

// ScoreLister reads score documents from the primary database.
type ScoreLister interface {
	TopRecent(ctx context.Context, filter string, limit int) ([]sqlcgen.Score, error)
	TopByScore(ctx context.Context, filter string, limit int) ([]sqlcgen.Score, error)
	ByName(ctx context.Context, filter string, limit int) ([]sqlcgen.Score, error)
}

// SnapshotSource reads persisted leaderboard snapshots.
type SnapshotSource interface {
	Latest(ctx context.Context, filter string) (sqlcgen.LeaderboardSnapshot, error)
}

// Reader tries each strategy in turn until one returns rows.
type Reader struct {
	strategies []Strategy
	logger     zerolog.Logger
	now        func() time.Time
}

func NewReader(logger zerolog.Logger, strategies ...Strategy) *Reader {
	return &Reader{
		strategies: strategies,
		logger:     logger.With().Str("component", "leaderboard_reader").Logger(),
		now:        time.Now,
	}
}

// DefaultStrategies builds the redis, primary, noUpdatedAt, nameOnly and
// snapshot chain from whichever sources are available.
func DefaultStrategies(svc *Service, scores ScoreLister, snapshots SnapshotSource) []Strategy {
	var out []Strategy
	if svc != nil {
		out = append(out, Strategy{Name: SourceRedis, Fetch: svc.Top})
	}
	if scores != nil {
		out = append(out,
			Strategy{Name: SourcePrimary, Fetch: fromRows(scores.TopRecent)},
			Strategy{Name: SourceNoUpdatedAt, Fetch: fromRows(scores.TopByScore)},
			Strategy{Name: SourceNameOnly, Fetch: fromRows(scores.ByName)},
		)
	}
	if snapshots != nil {
		out = append(out, Strategy{Name: SourceSnapshot, Fetch: fromSnapshot(snapshots)})
	}
	return out
}

// Read returns the first non-empty result. When every strategy succeeds
// with no rows the result is empty and names the first strategy.
func (r *Reader) Read(ctx context.Context, filter string, limit int) (Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	res := Result{Filter: filter, Entries: []Entry{}, RetrievedAt: r.now().UTC()}

	var lastErr error
	for _, strategy := range r.strategies {
		entries, err := runStrategy(ctx, strategy, filter, limit)
		attempt := Attempt{Source: strategy.Name, Count: len(entries)}
		if err != nil {
			attempt.Error = err.Error()
			lastErr = err
			r.logger.Warn().Err(err).Str("variant", strategy.Name).Str("filter", filter).Msg("leaderboard strategy failed")
		}
		res.Attempts = append(res.Attempts, attempt)

		if err != nil {
			continue
		}
		if res.Source == "" {
			res.Source = strategy.Name
		}
		if len(entries) > 0 {
			res.Source = strategy.Name
			res.Entries = entries
			return res, nil
		}
	}

	if res.Source == "" {
		if lastErr == nil {
			lastErr = errors.New("no strategies configured")
		}
		return res, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	return res, nil
}

func runStrategy(ctx context.Context, s Strategy, filter string, limit int) (entries []Entry, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			entries, err = nil, fmt.Errorf("%s panicked: %v", s.Name, rec)
		}
	}()
	entries, err = s.Fetch(ctx, filter, limit)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, err
}

func fromRows(list func(ctx context.Context, filter string, limit int) ([]sqlcgen.Score, error)) FetchFunc {
	return func(ctx context.Context, filter string, limit int) ([]Entry, error) {
		rows, err := list(ctx, filter, limit)
		if err != nil {
			return nil, err
		}
		entries := make([]Entry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, entryFromRow(row))
		}
		return entries, nil
	}
}

func fromSnapshot(src SnapshotSource) FetchFunc {
	return func(ctx context.Context, filter string, limit int) ([]Entry, error) {
		snap, err := src.Latest(ctx, filter)
		if err != nil {
			return nil, err
		}
		var entries []Entry
		if err := json.Unmarshal(snap.Entries, &entries); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		return entries, nil
	}
}

func entryFromRow(row sqlcgen.Score) Entry {
	e := Entry{
		UserID:     row.UserID,
		Nickname:   row.Nickname,
		Difficulty: row.Difficulty,
		Score:      int(row.Score),
	}
	if row.Iq.Valid {
		iq := row.Iq.Float64
		e.IQ = &iq
	}
	if row.UpdatedAt.Valid {
		e.UpdatedAt = row.UpdatedAt.Time
	}
	return e
}
