package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes verdicts on a Redis channel. Delivery is best-effort
// pub/sub: listeners that are offline miss events, which matches the
// fire-and-forget contract.
type RedisSink struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisSink(client *redis.Client, channel string, logger *slog.Logger) *RedisSink {
	return &RedisSink{client: client, channel: channel, logger: logger}
}

func (s *RedisSink) Emit(ctx context.Context, event string, verdict Verdict) {
	payload, err := json.Marshal(envelope{Event: event, Verdict: verdict})
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal verdict event failed",
			"event", event,
			"queue_id", verdict.QueueID,
			"error", err,
		)
		return
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		s.logger.WarnContext(ctx, "publish verdict event failed",
			"event", event,
			"queue_id", verdict.QueueID,
			"channel", s.channel,
			"error", err,
		)
	}
}

type envelope struct {
	Event   string  `json:"event"`
	Verdict Verdict `json:"verdict"`
}
