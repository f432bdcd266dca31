package rules

import (
	"context"
	"sort"
	"strings"
	"sync"

	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
)

// InMemoryStore keeps rules in a map guarded by a RWMutex. Semantics mirror
// the postgres store, including RuleID uniqueness.
type InMemoryStore struct {
	mu    sync.RWMutex
	rules map[id.RuleID]*StateRule
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rules: make(map[id.RuleID]*StateRule)}
}

func (s *InMemoryStore) Save(_ context.Context, rule *StateRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rules {
		if existing.RuleID == rule.RuleID {
			return sentinel.ErrConflict
		}
	}
	cp := *rule
	s.rules[rule.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, ruleID id.RuleID) (*StateRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rule, ok := s.rules[ruleID]; ok {
		cp := *rule
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByState(_ context.Context, stateTerms []string) ([]*StateRule, error) {
	terms := make(map[string]struct{}, len(stateTerms))
	for _, t := range stateTerms {
		terms[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*StateRule
	for _, rule := range s.rules {
		if !rule.Active {
			continue
		}
		if _, ok := terms[strings.ToLower(strings.TrimSpace(rule.State))]; !ok {
			continue
		}
		cp := *rule
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, rule *StateRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[rule.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for otherID, existing := range s.rules {
		if otherID != rule.ID && existing.RuleID == rule.RuleID {
			return sentinel.ErrConflict
		}
	}
	cp := *rule
	s.rules[rule.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, ruleID id.RuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[ruleID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.rules, ruleID)
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules), nil
}
