package rolestore

import (
	"context"
	"sync"

	id "curator/pkg/domain"
)

// InMemoryStore holds role and grant assignments in maps. Used by unit tests
// and development mode.
type InMemoryStore struct {
	mu     sync.RWMutex
	roles  map[id.UserID]map[string]bool
	grants map[id.UserID]map[string]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		roles:  make(map[id.UserID]map[string]bool),
		grants: make(map[id.UserID]map[string]bool),
	}
}

func (s *InMemoryStore) HasRole(_ context.Context, userID id.UserID, role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles[userID][role]
}

func (s *InMemoryStore) HasGlobalGrant(_ context.Context, userID id.UserID, grant string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grants[userID][grant]
}

// AssignRole grants a role to a user.
func (s *InMemoryStore) AssignRole(userID id.UserID, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roles[userID] == nil {
		s.roles[userID] = make(map[string]bool)
	}
	s.roles[userID][role] = true
}

// AssignGrant gives a user a global grant.
func (s *InMemoryStore) AssignGrant(userID id.UserID, grant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grants[userID] == nil {
		s.grants[userID] = make(map[string]bool)
	}
	s.grants[userID][grant] = true
}
