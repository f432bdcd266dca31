package rules

import (
	"context"

	id "complio/pkg/domain"
)

// Store abstracts rule persistence. Implementations return
// pkg/platform/sentinel errors for infrastructure facts.
type Store interface {
	// Save inserts a rule. Returns sentinel.ErrConflict when the RuleID is
	// already taken.
	Save(ctx context.Context, rule *StateRule) error
	FindByID(ctx context.Context, ruleID id.RuleID) (*StateRule, error)
	// ListByState returns active rules whose state matches any of the given
	// spellings case-insensitively, ordered by RuleID.
	ListByState(ctx context.Context, stateTerms []string) ([]*StateRule, error)
	Update(ctx context.Context, rule *StateRule) error
	Delete(ctx context.Context, ruleID id.RuleID) error
	// Count reports the number of stored rules. The seed step uses it to run
	// only against an empty store.
	Count(ctx context.Context) (int, error)
}
