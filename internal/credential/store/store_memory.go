package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"complio/internal/credential/models"
	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
)

// InMemory keeps credential records in a map guarded by a RWMutex. It backs
// unit tests and database-less deployments; semantics mirror the postgres
// store, including the (kind, number, state) uniqueness constraint.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.RecordID]*models.CredentialRecord
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.RecordID]*models.CredentialRecord)}
}

func uniqueKey(rec *models.CredentialRecord) string {
	return string(rec.Kind) + "|" + rec.Number + "|" + strings.ToLower(strings.TrimSpace(rec.State))
}

func (s *InMemory) Create(_ context.Context, rec *models.CredentialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := uniqueKey(rec)
	for _, existing := range s.records {
		if uniqueKey(existing) == key {
			return sentinel.ErrConflict
		}
	}
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, recordID id.RecordID) (*models.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[recordID]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByAssignee(_ context.Context, kind models.Kind, userID id.UserID) ([]*models.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.CredentialRecord
	for _, rec := range s.records {
		if rec.Kind == kind && rec.AssignedTo == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sortByExpiry(out)
	return out, nil
}

func (s *InMemory) ListApprovedByStates(_ context.Context, kind models.Kind, stateTerms []string) ([]*models.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	terms := make(map[string]struct{}, len(stateTerms))
	for _, t := range stateTerms {
		terms[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	var out []*models.CredentialRecord
	for _, rec := range s.records {
		if rec.Kind != kind || rec.EffectiveStatus() != models.StatusApproved {
			continue
		}
		if _, ok := terms[strings.ToLower(strings.TrimSpace(rec.State))]; !ok {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sortByExpiry(out)
	return out, nil
}

func (s *InMemory) ListApprovedByAssignees(_ context.Context, kind models.Kind, userIDs []id.UserID) ([]*models.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[id.UserID]struct{}, len(userIDs))
	for _, userID := range userIDs {
		wanted[userID] = struct{}{}
	}
	var out []*models.CredentialRecord
	for _, rec := range s.records {
		if rec.Kind != kind || rec.Status != models.StatusApproved {
			continue
		}
		if _, ok := wanted[rec.AssignedTo]; !ok {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sortByExpiry(out)
	return out, nil
}

func (s *InMemory) Update(_ context.Context, rec *models.CredentialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; !ok {
		return sentinel.ErrNotFound
	}
	key := uniqueKey(rec)
	for otherID, existing := range s.records {
		if otherID != rec.ID && uniqueKey(existing) == key {
			return sentinel.ErrConflict
		}
	}
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, recordID id.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[recordID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, recordID)
	return nil
}

// Len reports the number of stored records. Test helper.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func sortByExpiry(recs []*models.CredentialRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ExpiresDate.Before(recs[j].ExpiresDate)
	})
}
