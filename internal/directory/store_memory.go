package directory

import (
	"context"
	"sort"
	"strings"
	"sync"

	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
)

// InMemoryStore keeps users in a map. It backs unit tests and single-node
// deployments without a database.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[id.UserID]*User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[id.UserID]*User)}
}

func (s *InMemoryStore) Save(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByIDs(_ context.Context, userIDs []id.UserID) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*User, 0, len(userIDs))
	for _, userID := range userIDs {
		if user, ok := s.users[userID]; ok {
			cp := *user
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Search(_ context.Context, term string) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	term = strings.ToLower(strings.TrimSpace(term))
	var out []*User
	for _, user := range s.users {
		if !user.IsActive() {
			continue
		}
		if strings.Contains(strings.ToLower(user.FirstName), term) ||
			strings.Contains(strings.ToLower(user.LastName), term) ||
			strings.Contains(strings.ToLower(user.FullName()), term) {
			cp := *user
			out = append(out, &cp)
		}
	}
	// Deterministic order for tests and stable API responses.
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	if len(out) > searchLimit {
		out = out[:searchLimit]
	}
	return out, nil
}
