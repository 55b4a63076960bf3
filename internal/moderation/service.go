package moderation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"curator/internal/capability"
	"curator/internal/events"
	"curator/internal/moderation/metrics"
	"curator/internal/queue"
	id "curator/pkg/domain"
	"curator/pkg/platform/sentinel"
	"curator/pkg/platform/tx"
	"curator/pkg/requestcontext"
)

// Authorizer decides whether the current user may moderate.
type Authorizer interface {
	Can(ctx context.Context, capability string, userID id.UserID, object *capability.ObjectRef) bool
}

// Synchronizer applies a verdict to the underlying content record.
type Synchronizer interface {
	Apply(ctx context.Context, contentType id.ContentType, contentID id.ContentID, action id.Action) error
}

// Service is the moderation façade: it authorizes the caller, drives the
// queue transition and content sync inside one unit of work, and emits a
// verdict event after commit.
//
// Every failure class resolves to false at this boundary; a partial state
// never escapes. Only persistence failures are logged at error level, with
// enough context for operator diagnosis.
type Service struct {
	authz   Authorizer
	queue   queue.Store
	sync    Synchronizer
	runner  tx.Runner
	sink    events.Sink
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func NewService(
	authz Authorizer,
	queueStore queue.Store,
	sync Synchronizer,
	runner tx.Runner,
	sink events.Sink,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		authz:   authz,
		queue:   queueStore,
		sync:    sync,
		runner:  runner,
		sink:    sink,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("curator/moderation"),
	}
}

// Moderate applies one verdict to one pending queue item. It reports true
// only when both the queue transition and the content sync committed.
func (s *Service) Moderate(ctx context.Context, queueID id.QueueID, action id.Action, notes string) bool {
	start := time.Now()
	defer func() { s.metrics.ObserveModerateLatency(time.Since(start)) }()

	ctx, span := s.tracer.Start(ctx, "moderation.Moderate",
		trace.WithAttributes(
			attribute.String("queue_id", queueID.String()),
			attribute.String("action", action.String()),
		),
	)
	defer span.End()

	moderatorID := requestcontext.UserID(ctx)
	if !s.authz.Can(ctx, capability.CapModerateContent, moderatorID, nil) {
		s.metrics.RecordFailure("denied")
		s.logger.InfoContext(ctx, "moderation denied",
			"queue_id", queueID.String(),
			"user_id", moderatorID.String(),
		)
		return false
	}

	if !action.IsValid() {
		s.metrics.RecordFailure("invalid_action")
		return false
	}
	newStatus, ok := queue.StatusForAction(action)
	if !ok {
		s.metrics.RecordFailure("invalid_action")
		return false
	}

	item, err := s.queue.Get(ctx, queueID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.RecordFailure("not_found")
			return false
		}
		s.metrics.RecordFailure("persistence")
		s.logPersistenceFailure(ctx, queueID, nil, action, err)
		return false
	}
	if item.Status != queue.StatusPending {
		// Terminal and escalated items are immutable through this API.
		s.metrics.RecordFailure("conflict")
		return false
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.queue.Transition(ctx, queueID, newStatus, moderatorID, notes); err != nil {
			return err
		}
		return s.sync.Apply(ctx, item.ContentType, item.ContentID, action)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// A concurrent moderation won the compare-and-set.
			s.metrics.RecordFailure("conflict")
			return false
		}
		s.metrics.RecordFailure("persistence")
		s.logPersistenceFailure(ctx, queueID, item, action, err)
		return false
	}

	s.metrics.RecordVerdict(action.String(), item.ContentType.String())
	s.sink.Emit(ctx, events.EventVerdict, events.NewVerdict(
		queueID, action, item.ContentType, item.ContentID, moderatorID, notes, requestcontext.Now(ctx),
	))
	return true
}

func (s *Service) logPersistenceFailure(ctx context.Context, queueID id.QueueID, item *queue.Item, action id.Action, err error) {
	attrs := []any{
		"queue_id", queueID.String(),
		"action", action.String(),
		"error", err,
	}
	if item != nil {
		attrs = append(attrs,
			"content_type", item.ContentType.String(),
			"content_id", item.ContentID.String(),
		)
	}
	s.logger.ErrorContext(ctx, "moderation unit of work failed", attrs...)
}
