package alerts

import (
	"context"
	"sort"
	"strings"
	"sync"

	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
)

// InMemoryStore keeps alerts in a map guarded by a RWMutex.
type InMemoryStore struct {
	mu     sync.RWMutex
	alerts map[id.AlertID]*Alert
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{alerts: make(map[id.AlertID]*Alert)}
}

func (s *InMemoryStore) Save(_ context.Context, alert *Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *alert
	s.alerts[alert.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, alertID id.AlertID) (*Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if alert, ok := s.alerts[alertID]; ok {
		cp := *alert
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]*Alert, error) {
	terms := make(map[string]struct{}, len(filter.StateTerms))
	for _, t := range filter.StateTerms {
		terms[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Alert
	for _, alert := range s.alerts {
		if len(terms) > 0 {
			if _, ok := terms[strings.ToLower(strings.TrimSpace(alert.State))]; !ok {
				continue
			}
		}
		if filter.Resolved != nil && alert.Resolved != *filter.Resolved {
			continue
		}
		cp := *alert
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, alert *Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[alert.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *alert
	s.alerts[alert.ID] = &cp
	return nil
}
