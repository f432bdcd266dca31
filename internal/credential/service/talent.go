package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"complio/internal/credential/expiry"
	"complio/internal/credential/models"
	"complio/internal/directory"
	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
	"complio/pkg/requestcontext"
	"complio/pkg/states"
)

const minSearchLength = 2

// RecordSummary is the projection of a credential used in talent views.
type RecordSummary struct {
	ID          id.RecordID   `json:"id"`
	Name        string        `json:"name"`
	Type        string        `json:"type,omitempty"`
	Number      string        `json:"number"`
	State       string        `json:"state"`
	Amount      *float64      `json:"amount,omitempty"`
	ExpiresDate time.Time     `json:"expiresDate"`
	Expiry      expiry.Bucket `json:"expiryStatus"`
	DaysLeft    int           `json:"daysUntilExpiration"`
}

// TalentEntry pairs one directory user with their approved credentials.
type TalentEntry struct {
	User     *directory.User `json:"user"`
	Licenses []RecordSummary `json:"licenses"`
	Bonds    []RecordSummary `json:"bonds"`
}

// StateTalent is the by-state aggregation result.
type StateTalent struct {
	State   string        `json:"state"`
	Entries []TalentEntry `json:"talent"`
}

// TalentByState lists users holding effectively-approved credentials in a
// jurisdiction. "CA" and "California" address the same records; unknown
// input is matched verbatim against stored state strings. Licenses and bonds
// are fetched concurrently.
func (s *Service) TalentByState(ctx context.Context, state string) (*StateTalent, error) {
	ctx, span := s.tracer.Start(ctx, "credential.TalentByState")
	defer span.End()
	start := time.Now()

	state = strings.TrimSpace(state)
	if state == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "state is required")
	}
	terms := states.SearchTerms(state)

	var licenses, bonds []*models.CredentialRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		licenses, err = s.records.ListApprovedByStates(gctx, models.KindLicense, terms)
		return err
	})
	g.Go(func() error {
		var err error
		bonds, err = s.records.ListApprovedByStates(gctx, models.KindBond, terms)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "talent lookup failed")
	}

	entries, err := s.groupByAssignee(ctx, licenses, bonds)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveAggregation("by-state", time.Since(start))
	return &StateTalent{State: states.DisplayName(state), Entries: entries}, nil
}

// SearchTalent finds active users by name and attaches their approved
// credentials. Queries shorter than two characters match nothing.
func (s *Service) SearchTalent(ctx context.Context, query string) ([]TalentEntry, error) {
	ctx, span := s.tracer.Start(ctx, "credential.SearchTalent")
	defer span.End()
	start := time.Now()

	query = strings.TrimSpace(query)
	if len(query) < minSearchLength {
		return []TalentEntry{}, nil
	}
	users, err := s.users.Search(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "talent search failed")
	}
	if len(users) == 0 {
		return []TalentEntry{}, nil
	}

	userIDs := make([]id.UserID, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}
	var licenses, bonds []*models.CredentialRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		licenses, err = s.records.ListApprovedByAssignees(gctx, models.KindLicense, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		bonds, err = s.records.ListApprovedByAssignees(gctx, models.KindBond, userIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "talent search failed")
	}

	now := requestcontext.Now(ctx)
	byLicense := summariesByAssignee(licenses, now)
	byBond := summariesByAssignee(bonds, now)
	entries := make([]TalentEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, TalentEntry{
			User:     u,
			Licenses: orEmpty(byLicense[u.ID]),
			Bonds:    orEmpty(byBond[u.ID]),
		})
	}
	s.metrics.ObserveAggregation("search", time.Since(start))
	return entries, nil
}

// groupByAssignee buckets records per user and joins the directory. Records
// whose assignee no longer exists in the directory are dropped from the view.
func (s *Service) groupByAssignee(ctx context.Context, licenses, bonds []*models.CredentialRecord) ([]TalentEntry, error) {
	now := requestcontext.Now(ctx)
	byLicense := summariesByAssignee(licenses, now)
	byBond := summariesByAssignee(bonds, now)

	order := make([]id.UserID, 0, len(byLicense)+len(byBond))
	seen := make(map[id.UserID]struct{})
	for _, rec := range licenses {
		if _, ok := seen[rec.AssignedTo]; !ok {
			seen[rec.AssignedTo] = struct{}{}
			order = append(order, rec.AssignedTo)
		}
	}
	for _, rec := range bonds {
		if _, ok := seen[rec.AssignedTo]; !ok {
			seen[rec.AssignedTo] = struct{}{}
			order = append(order, rec.AssignedTo)
		}
	}
	if len(order) == 0 {
		return []TalentEntry{}, nil
	}

	users, err := s.users.ListByIDs(ctx, order)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "talent lookup failed")
	}
	byUser := make(map[id.UserID]*directory.User, len(users))
	for _, u := range users {
		byUser[u.ID] = u
	}

	entries := make([]TalentEntry, 0, len(order))
	for _, userID := range order {
		user, ok := byUser[userID]
		if !ok {
			s.logger.DebugContext(ctx, "skipping records with unknown assignee", "user_id", userID)
			continue
		}
		entries = append(entries, TalentEntry{
			User:     user,
			Licenses: orEmpty(byLicense[userID]),
			Bonds:    orEmpty(byBond[userID]),
		})
	}
	return entries, nil
}

func summariesByAssignee(recs []*models.CredentialRecord, now time.Time) map[id.UserID][]RecordSummary {
	out := make(map[id.UserID][]RecordSummary)
	for _, rec := range recs {
		out[rec.AssignedTo] = append(out[rec.AssignedTo], summarize(rec, now))
	}
	return out
}

func summarize(rec *models.CredentialRecord, now time.Time) RecordSummary {
	return RecordSummary{
		ID:          rec.ID,
		Name:        rec.Name,
		Type:        rec.Type,
		Number:      rec.Number,
		State:       rec.State,
		Amount:      rec.Amount,
		ExpiresDate: rec.ExpiresDate,
		Expiry:      expiry.Classify(rec.ExpiresDate, now),
		DaysLeft:    expiry.DaysUntil(rec.ExpiresDate, now),
	}
}

func orEmpty(s []RecordSummary) []RecordSummary {
	if s == nil {
		return []RecordSummary{}
	}
	return s
}
