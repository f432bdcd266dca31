package rules

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
	"complio/pkg/platform/sentinel"
	strutil "complio/pkg/platform/strings"
	"complio/pkg/requestcontext"
	"complio/pkg/states"
)

// Service wraps the rule store with validation and error translation.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Input carries the editable fields of a rule.
type Input struct {
	RuleID         string
	State          string
	Category       string
	Subcategory    string
	AuthorityLevel AuthorityLevel
	Confidence     Confidence
	Text           string
	Sources        []string
	Version        string
	Active         bool
}

// Create stores a new rule.
func (s *Service) Create(ctx context.Context, input Input) (*StateRule, error) {
	now := requestcontext.Now(ctx)
	rule := &StateRule{
		ID:             id.NewRuleID(),
		RuleID:         strings.TrimSpace(input.RuleID),
		State:          strings.TrimSpace(input.State),
		Category:       strings.TrimSpace(input.Category),
		Subcategory:    strings.TrimSpace(input.Subcategory),
		AuthorityLevel: input.AuthorityLevel,
		Confidence:     input.Confidence,
		Text:           input.Text,
		Sources:        strutil.DedupeAndTrim(input.Sources),
		Version:        input.Version,
		Active:         input.Active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if rule.Version == "" {
		rule.Version = "1.0"
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, rule); err != nil {
		return nil, s.translate(err)
	}
	return rule, nil
}

// ByState returns the active rules for a jurisdiction; "CA" and "California"
// resolve to the same set.
func (s *Service) ByState(ctx context.Context, state string) ([]*StateRule, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "state is required")
	}
	out, err := s.store.ListByState(ctx, states.SearchTerms(state))
	if err != nil {
		return nil, s.translate(err)
	}
	if out == nil {
		out = []*StateRule{}
	}
	return out, nil
}

// Update replaces the editable fields of an existing rule.
func (s *Service) Update(ctx context.Context, ruleID id.RuleID, input Input) (*StateRule, error) {
	rule, err := s.store.FindByID(ctx, ruleID)
	if err != nil {
		return nil, s.translate(err)
	}
	rule.RuleID = strings.TrimSpace(input.RuleID)
	rule.State = strings.TrimSpace(input.State)
	rule.Category = strings.TrimSpace(input.Category)
	rule.Subcategory = strings.TrimSpace(input.Subcategory)
	rule.AuthorityLevel = input.AuthorityLevel
	rule.Confidence = input.Confidence
	rule.Text = input.Text
	rule.Sources = strutil.DedupeAndTrim(input.Sources)
	if input.Version != "" {
		rule.Version = input.Version
	}
	rule.Active = input.Active
	rule.UpdatedAt = requestcontext.Now(ctx)
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, rule); err != nil {
		return nil, s.translate(err)
	}
	return rule, nil
}

// Delete removes a rule permanently.
func (s *Service) Delete(ctx context.Context, ruleID id.RuleID) error {
	if err := s.store.Delete(ctx, ruleID); err != nil {
		return s.translate(err)
	}
	return nil
}

func (s *Service) translate(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "rule not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "a rule with this rule id already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "rule storage failure")
	}
}
