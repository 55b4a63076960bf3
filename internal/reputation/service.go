package reputation

import (
	"context"
	"errors"
	"log/slog"

	id "curator/pkg/domain"
	"curator/pkg/platform/sentinel"
)

// Invalidator is notified whenever a user's points change so read caches
// never serve a stale positive decision across a downgrade.
type Invalidator interface {
	Invalidate(userID id.UserID)
}

// Service is the sole read/write path for reputation. Points is total: any
// failure resolves to zero points so capability evaluation never errors on a
// user who simply has no reputation yet.
type Service struct {
	store        Store
	logger       *slog.Logger
	invalidators []Invalidator
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// RegisterInvalidator subscribes a cache to point mutations. Must be called
// during wiring, before concurrent use.
func (s *Service) RegisterInvalidator(inv Invalidator) {
	s.invalidators = append(s.invalidators, inv)
}

// Points returns the user's current point total, or zero when the user has no
// record. Unexpected store failures also resolve to zero, logged for
// diagnosis; reputation absence must never block an otherwise valid request.
func (s *Service) Points(ctx context.Context, userID id.UserID) int {
	record, err := s.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "reputation lookup failed, treating as zero",
				"user_id", userID.String(),
				"error", err,
			)
		}
		return 0
	}
	return record.Points
}

// Ensure creates the user's record with zero points if absent.
func (s *Service) Ensure(ctx context.Context, userID id.UserID) error {
	if err := s.store.Ensure(ctx, userID); err != nil {
		return err
	}
	return nil
}

// Award adjusts the user's points by delta (negative deltas clamp at zero)
// and invalidates every registered cache for that user.
func (s *Service) Award(ctx context.Context, userID id.UserID, delta int) (int, error) {
	points, err := s.store.Add(ctx, userID, delta)
	if err != nil {
		return 0, err
	}
	for _, inv := range s.invalidators {
		inv.Invalidate(userID)
	}
	return points, nil
}
