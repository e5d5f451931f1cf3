package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"

	"github.com/gokatarajesh/iqtest/internal/score"
)

const (
	defaultStateTTL = 2 * time.Hour
	lockTTL         = 5 * time.Second
)

var unlockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Store keeps session state in Redis with a TTL.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore creates a state store backed by Redis.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &Store{redis: client, ttl: ttl}
}

func stateKey(id string) string { return "session:" + id }

// Lock acquires a short-lived lock for state transitions. It returns
// ErrBusy when another request holds it.
func (s *Store) Lock(ctx context.Context, id string) (func() error, error) {
	key := "session:lock:" + id
	token := uuid.NewString()

	acquired, err := s.redis.SetNX(ctx, key, token, lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		return nil, ErrBusy
	}

	unlock := func() error {
		return unlockScript.Run(context.WithoutCancel(ctx), s.redis, []string{key}, token).Err()
	}
	return unlock, nil
}

// Save writes the state and refreshes its TTL.
func (s *Store) Save(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return s.redis.Set(ctx, stateKey(state.ID), data, s.ttl).Err()
}

// Load returns ErrNotFound for unknown or expired sessions.
func (s *Store) Load(ctx context.Context, id string) (*State, error) {
	data, err := s.redis.Get(ctx, stateKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return &state, nil
}

// LastRunStore keeps the latest result per user and difficulty.
type LastRunStore struct {
	redis *redis.Client
}

func NewLastRunStore(client *redis.Client) *LastRunStore {
	return &LastRunStore{redis: client}
}

func lastRunKey(userID, difficulty string) string {
	return fmt.Sprintf("lastRun:%s:%s", userID, difficulty)
}

// Put overwrites the record for run.Difficulty.
func (s *LastRunStore) Put(ctx context.Context, userID string, run LastRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal last run: %w", err)
	}
	return s.redis.Set(ctx, lastRunKey(userID, run.Difficulty), data, 0).Err()
}

// Get reads the record for difficulty. Records written by older clients may
// carry missing or malformed fields: correct falls back to score and then 0,
// and a missing iq is estimated again.
func (s *LastRunStore) Get(ctx context.Context, userID, difficulty string) (LastRun, error) {
	data, err := s.redis.Get(ctx, lastRunKey(userID, difficulty)).Bytes()
	if errors.Is(err, redis.Nil) {
		return LastRun{}, ErrNoResult
	}
	if err != nil {
		return LastRun{}, fmt.Errorf("get last run: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return LastRun{}, ErrNoResult
	}
	return decodeLastRun(gjson.ParseBytes(data), difficulty), nil
}

func decodeLastRun(doc gjson.Result, difficulty string) LastRun {
	correct, ok := looseNumber(doc.Get("correct"))
	if !ok {
		if v := doc.Get("score"); v.Type == gjson.Number {
			correct = v.Num
		} else {
			correct = 0
		}
	}
	total, ok := looseNumber(doc.Get("total"))
	if !ok {
		total = 0
	}

	run := LastRun{
		Correct:    int(correct),
		Total:      int(total),
		AtISO:      doc.Get("atISO").String(),
		Difficulty: difficulty,
	}
	if v := doc.Get("timeMs"); v.Type == gjson.Number {
		ms := int64(v.Num)
		run.TimeMs = &ms
	}
	if v := doc.Get("iq"); v.Type == gjson.Number {
		run.IQ = v.Num
	} else {
		run.IQ = score.EstimateIQ(run.Correct, difficulty)
	}
	return run
}

// looseNumber converts the way a browser's Number() does. A missing value
// is not a number; null and "" are zero.
func looseNumber(v gjson.Result) (float64, bool) {
	var n float64
	switch v.Type {
	case gjson.Number:
		n = v.Num
	case gjson.Null:
		if !v.Exists() {
			return 0, false
		}
		n = 0
	case gjson.True:
		n = 1
	case gjson.False:
		n = 0
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
