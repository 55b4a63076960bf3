package reputation

import (
	"context"

	id "curator/pkg/domain"
)

// Store persists reputation records.
//
// Get returns sentinel.ErrNotFound when no record exists; callers treat that
// as zero points. Ensure is idempotent. Add upserts, clamps the result at
// zero, and returns the new point total.
type Store interface {
	Get(ctx context.Context, userID id.UserID) (*Record, error)
	Ensure(ctx context.Context, userID id.UserID) error
	Add(ctx context.Context, userID id.UserID, delta int) (int, error)
}
