package reputation

import (
	"context"
	"sync"
	"time"

	id "curator/pkg/domain"
	"curator/pkg/platform/sentinel"
	txcontext "curator/pkg/platform/tx"
)

// InMemoryStore keeps reputation records in a map. Used by unit tests and
// development mode.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.UserID]*Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.UserID]*Record)}
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[userID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *InMemoryStore) Ensure(ctx context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[userID]; exists {
		return nil
	}
	s.records[userID] = &Record{
		UserID:    userID,
		Points:    0,
		Level:     LevelContributor,
		UpdatedAt: time.Now(),
	}
	txcontext.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.records, userID)
	})
	return nil
}

func (s *InMemoryStore) Add(ctx context.Context, userID id.UserID, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[userID]
	if !exists {
		record = &Record{UserID: userID, Level: LevelContributor}
		s.records[userID] = record
		txcontext.OnRollback(ctx, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.records, userID)
		})
	} else {
		prev := *record
		txcontext.OnRollback(ctx, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			restored := prev
			s.records[userID] = &restored
		})
	}

	record.Points += delta
	if record.Points < 0 {
		record.Points = 0
	}
	record.Level = DeriveLevel(record.Points)
	record.UpdatedAt = time.Now()
	return record.Points, nil
}
