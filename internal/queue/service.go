package queue

import (
	"context"

	id "curator/pkg/domain"
	dErrors "curator/pkg/domain-errors"
	"curator/pkg/requestcontext"
)

// Service owns enqueueing and listing. Transitions go through the moderation
// orchestrator so they stay inside a unit of work.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Enqueue creates a fresh pending item for the given content. Repeated
// enqueues of the same content are legal and independent; deduplication is
// deliberately not performed here.
func (s *Service) Enqueue(ctx context.Context, contentType id.ContentType, contentID id.ContentID) (id.QueueID, error) {
	if !contentType.IsValid() {
		return id.QueueID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid content type: "+contentType.String())
	}
	if contentID <= 0 {
		return id.QueueID{}, dErrors.New(dErrors.CodeInvalidInput, "content id must be positive")
	}

	now := requestcontext.Now(ctx)
	item := &Item{
		ID:          id.NewQueueID(),
		ContentType: contentType,
		ContentID:   contentID,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return id.QueueID{}, dErrors.Wrap(err, dErrors.CodeInternal, "enqueue failed")
	}
	return item.ID, nil
}

// List returns a page of queue items. An unset status filter defaults to
// pending, which is what moderation dashboards want.
func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Item, error) {
	if filter.Status == "" {
		filter.Status = StatusPending
	}
	if !filter.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid status filter: "+filter.Status.String())
	}
	if filter.ContentType != "" && !filter.ContentType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid content type filter: "+filter.ContentType.String())
	}
	return s.store.List(ctx, filter, limit, offset)
}

// Get looks up one queue item.
func (s *Service) Get(ctx context.Context, queueID id.QueueID) (*Item, error) {
	return s.store.Get(ctx, queueID)
}
