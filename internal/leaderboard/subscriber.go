package leaderboard

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/gokatarajesh/iqtest/pkg/http/ws"
)

// Broadcaster listens for Redis Pub/Sub leaderboard updates and pushes the
// refreshed tops to viewers of the affected filters.
type Broadcaster struct {
	redis   *redis.Client
	hub     *ws.Hub
	reader  *Reader
	channel string
	logger  zerolog.Logger
}

// NewBroadcaster creates a Pub/Sub powered leaderboard broadcaster.
func NewBroadcaster(redis *redis.Client, hub *ws.Hub, reader *Reader, channel string, logger zerolog.Logger) *Broadcaster {
	if channel == "" {
		channel = "lb:updates"
	}
	return &Broadcaster{
		redis:   redis,
		hub:     hub,
		reader:  reader,
		channel: channel,
		logger:  logger.With().Str("component", "leaderboard_broadcaster").Logger(),
	}
}

// Run subscribes to the update channel and blocks until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.redis == nil || b.hub == nil || b.reader == nil {
		return nil
	}

	sub := b.redis.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward(ctx, msg.Payload)
		}
	}
}

func (b *Broadcaster) forward(ctx context.Context, payload string) {
	var evt Update
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		b.logger.Warn().Err(err).Msg("failed to decode leaderboard update payload")
		return
	}

	filters := []string{FilterAll}
	if evt.Difficulty != FilterAll && ValidFilter(evt.Difficulty) {
		filters = append(filters, evt.Difficulty)
	}
	for _, filter := range filters {
		b.push(ctx, filter)
	}
}

func (b *Broadcaster) push(ctx context.Context, filter string) {
	res, err := b.reader.Read(ctx, filter, DefaultLimit)
	if err != nil {
		b.logger.Warn().Err(err).Str("filter", filter).Msg("failed to read leaderboard for broadcast")
		return
	}
	msg, err := updateMessage(res)
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to marshal leaderboard WS payload")
		return
	}
	if err := b.hub.Broadcast(filter, msg); err != nil {
		b.logger.Warn().Err(err).Str("filter", filter).Msg("failed to broadcast leaderboard update")
	}
}
