package queue

import (
	"context"

	id "curator/pkg/domain"
)

// Store persists queue items.
//
// Transition succeeds only when the item is still pending; a decided item
// yields sentinel.ErrConflict and no write. That conditional update is the
// storage-level guarantee that two racing moderations of one item produce
// exactly one winner.
type Store interface {
	Insert(ctx context.Context, item *Item) error
	Get(ctx context.Context, queueID id.QueueID) (*Item, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Item, error)
	Transition(ctx context.Context, queueID id.QueueID, newStatus Status, moderatorID id.UserID, notes string) error
}
