package queue

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	id "curator/pkg/domain"
	"curator/pkg/platform/sentinel"
	txcontext "curator/pkg/platform/tx"
)

// InMemoryStore keeps queue items in a map with the same conditional
// transition semantics as the PostgreSQL store. Used by unit tests and
// development mode.
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[id.QueueID]*Item
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{items: make(map[id.QueueID]*Item)}
}

func (s *InMemoryStore) Insert(ctx context.Context, item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *item
	s.items[item.ID] = &copied
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.items, item.ID)
	})
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, queueID id.QueueID) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[queueID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *InMemoryStore) List(_ context.Context, filter ListFilter, limit, offset int) ([]*Item, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	matched := make([]*Item, 0, len(s.items))
	for _, item := range s.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.ContentType != "" && item.ContentType != filter.ContentType {
			continue
		}
		if filter.ModeratorID != nil && (item.ModeratorID == nil || *item.ModeratorID != *filter.ModeratorID) {
			continue
		}
		copied := *item
		matched = append(matched, &copied)
	}
	s.mu.RUnlock()

	// Same ordering contract as the SQL store: created_at descending with id
	// descending as the tie-break, so offset pagination stays stable.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		a := uuid.UUID(matched[i].ID)
		b := uuid.UUID(matched[j].ID)
		return bytes.Compare(a[:], b[:]) > 0
	})

	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *InMemoryStore) Transition(ctx context.Context, queueID id.QueueID, newStatus Status, moderatorID id.UserID, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[queueID]
	if !exists || item.Status != StatusPending {
		return sentinel.ErrConflict
	}

	prev := *item
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		restored := prev
		s.items[queueID] = &restored
	})

	item.Status = newStatus
	item.ModeratorID = &moderatorID
	item.Notes = &notes
	item.UpdatedAt = time.Now()
	return nil
}
