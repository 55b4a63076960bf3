package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink produces verdicts to a Kafka topic, keyed by queue ID so one
// item's events land in order on the same partition. Produce is asynchronous;
// failures are logged, never surfaced to the moderation path.
type KafkaSink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaSink connects a producer to the given brokers.
func NewKafkaSink(brokers []string, topic string, logger *slog.Logger) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{client: client, topic: topic, logger: logger}, nil
}

func (s *KafkaSink) Emit(ctx context.Context, event string, verdict Verdict) {
	payload, err := json.Marshal(envelope{Event: event, Verdict: verdict})
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal verdict event failed",
			"event", event,
			"queue_id", verdict.QueueID,
			"error", err,
		)
		return
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(verdict.QueueID),
		Value: payload,
	}
	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			s.logger.WarnContext(ctx, "produce verdict event failed",
				"event", event,
				"queue_id", verdict.QueueID,
				"topic", s.topic,
				"error", err,
			)
		}
	})
}

// Close flushes buffered records and releases the producer.
func (s *KafkaSink) Close(ctx context.Context) error {
	if err := s.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	s.client.Close()
	return nil
}
