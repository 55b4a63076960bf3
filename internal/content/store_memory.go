package content

import (
	"context"
	"sync"

	id "curator/pkg/domain"
	"curator/pkg/platform/sentinel"
	txcontext "curator/pkg/platform/tx"
)

// Record is an in-memory host content record.
type Record struct {
	ID      id.ContentID
	OwnerID id.UserID
	Status  string
}

type contentKey struct {
	contentType id.ContentType
	contentID   id.ContentID
}

// InMemoryStore keeps host content records in a map. Used by unit tests and
// development mode; tests also use it to inject write failures.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[contentKey]*Record

	// FailWrites forces every SetStatus/Delete to fail, for atomicity tests.
	FailWrites bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[contentKey]*Record)}
}

// Put seeds a content record.
func (s *InMemoryStore) Put(contentType id.ContentType, record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := record
	s.records[contentKey{contentType, record.ID}] = &copied
}

// Lookup returns the current record, if present.
func (s *InMemoryStore) Lookup(contentType id.ContentType, contentID id.ContentID) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[contentKey{contentType, contentID}]
	if !ok {
		return nil, false
	}
	copied := *record
	return &copied, true
}

func (s *InMemoryStore) Owner(_ context.Context, contentType id.ContentType, contentID id.ContentID) (id.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[contentKey{contentType, contentID}]
	if !ok {
		return id.UserID{}, sentinel.ErrNotFound
	}
	return record.OwnerID, nil
}

func (s *InMemoryStore) SetStatus(ctx context.Context, contentType id.ContentType, contentID id.ContentID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return sentinel.ErrUnavailable
	}
	key := contentKey{contentType, contentID}
	record, ok := s.records[key]
	if !ok {
		return sentinel.ErrNotFound
	}

	prev := *record
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		restored := prev
		s.records[key] = &restored
	})

	record.Status = status
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, contentType id.ContentType, contentID id.ContentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return sentinel.ErrUnavailable
	}
	key := contentKey{contentType, contentID}
	record, ok := s.records[key]
	if !ok {
		return sentinel.ErrNotFound
	}

	prev := *record
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		restored := prev
		s.records[key] = &restored
	})

	delete(s.records, key)
	return nil
}
