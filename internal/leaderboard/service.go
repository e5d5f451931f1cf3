package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Supported leaderboard filters.
const (
	FilterAll    = "all"
	FilterEasy   = "easy"
	FilterMedium = "medium"
	FilterHard   = "hard"
	FilterMixed  = "mixed"
)

// DefaultLimit is the number of rows a leaderboard shows.
const DefaultLimit = 20

// Filters lists every leaderboard view.
var Filters = []string{FilterAll, FilterEasy, FilterMedium, FilterHard, FilterMixed}

// ValidFilter reports whether f names a leaderboard view.
func ValidFilter(f string) bool {
	for _, filter := range Filters {
		if filter == f {
			return true
		}
	}
	return false
}

// Entry is one score document as shown on a leaderboard.
type Entry struct {
	UserID     string    `json:"userId"`
	Nickname   string    `json:"nickname"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	IQ         *float64  `json:"iq,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Update is published whenever a score document changes.
type Update struct {
	UserID     string `json:"userId"`
	Difficulty string `json:"difficulty"`
}

// ServiceOptions configures leaderboard service behavior.
type ServiceOptions struct {
	TopN           int
	PubSubChannel  string
	RedisKeyPrefix string
}

// Service keeps one sorted set per filter in Redis and emits updates over
// Pub/Sub.
type Service struct {
	redis         *redis.Client
	logger        zerolog.Logger
	topN          int
	pubsubChannel string
	prefix        string
}

// NewService constructs a leaderboard service instance.
func NewService(redis *redis.Client, logger zerolog.Logger, opts ServiceOptions) *Service {
	topN := opts.TopN
	if topN <= 0 {
		topN = 100
	}
	channel := opts.PubSubChannel
	if channel == "" {
		channel = "lb:updates"
	}
	prefix := opts.RedisKeyPrefix
	if prefix == "" {
		prefix = "lb"
	}

	return &Service{
		redis:         redis,
		logger:        logger.With().Str("component", "leaderboard").Logger(),
		topN:          topN,
		pubsubChannel: channel,
		prefix:        prefix,
	}
}

// Channel is the Pub/Sub channel updates are published on.
func (s *Service) Channel() string {
	return s.pubsubChannel
}

// Record writes the entry to its difficulty set and to the all set,
// replacing any earlier entry for the same user and difficulty.
func (s *Service) Record(ctx context.Context, e Entry) error {
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now()
	}
	member := memberID(e.UserID, e.Difficulty)
	rank := redis.Z{Score: rankScore(e.Score, e.UpdatedAt), Member: member}

	iq := ""
	if e.IQ != nil {
		iq = strconv.FormatFloat(*e.IQ, 'f', -1, 64)
	}

	pipe := s.redis.TxPipeline()
	pipe.ZAdd(ctx, s.leaderboardKey(e.Difficulty), rank)
	pipe.ZAdd(ctx, s.leaderboardKey(FilterAll), rank)
	pipe.HSet(ctx, s.metaKey(member), map[string]interface{}{
		"user_id":    e.UserID,
		"nickname":   e.Nickname,
		"difficulty": e.Difficulty,
		"score":      e.Score,
		"iq":         iq,
		"updated_at": e.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update leaderboard %s: %w", e.Difficulty, err)
	}

	s.publishUpdate(ctx, Update{UserID: e.UserID, Difficulty: e.Difficulty})
	return nil
}

// Top retrieves up to limit entries for a filter, best first.
func (s *Service) Top(ctx context.Context, filter string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > s.topN {
		limit = s.topN
	}

	members, err := s.redis.ZRevRange(ctx, s.leaderboardKey(filter), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(members))
	for _, member := range members {
		entry, err := s.readMeta(ctx, member)
		if err != nil {
			s.logger.Warn().Err(err).Str("member", member).Msg("failed to read leaderboard metadata")
			continue
		}
		if entry == nil {
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (s *Service) publishUpdate(ctx context.Context, update Update) {
	payload, err := json.Marshal(update)
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, s.pubsubChannel, payload).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("leaderboard publish failed")
	}
}

func (s *Service) readMeta(ctx context.Context, member string) (*Entry, error) {
	data, err := s.redis.HGetAll(ctx, s.metaKey(member)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	entry := &Entry{
		UserID:     data["user_id"],
		Nickname:   data["nickname"],
		Difficulty: data["difficulty"],
		Score:      parseInt(data["score"]),
	}
	if iq, err := strconv.ParseFloat(data["iq"], 64); err == nil {
		entry.IQ = &iq
	}
	if at, err := time.Parse(time.RFC3339Nano, data["updated_at"]); err == nil {
		entry.UpdatedAt = at
	}
	return entry, nil
}

func (s *Service) leaderboardKey(filter string) string {
	return fmt.Sprintf("%s:%s", s.prefix, filter)
}

func (s *Service) metaKey(member string) string {
	return fmt.Sprintf("%s:meta:%s", s.prefix, member)
}

func memberID(userID, difficulty string) string {
	return userID + ":" + difficulty
}

// rankScore packs score and update time into one sorted-set score so that
// ties on score go to the most recent update.
func rankScore(score int, updatedAt time.Time) float64 {
	return float64(score)*1e10 + float64(updatedAt.Unix())
}

func parseInt(val string) int {
	if val == "" {
		return 0
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
