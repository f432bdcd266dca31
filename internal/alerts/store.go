package alerts

import (
	"context"

	id "complio/pkg/domain"
)

// Filter narrows alert listings. Nil fields match everything.
type Filter struct {
	StateTerms []string
	Resolved   *bool
}

// Store abstracts alert persistence. Implementations return
// pkg/platform/sentinel errors for infrastructure facts.
type Store interface {
	Save(ctx context.Context, alert *Alert) error
	FindByID(ctx context.Context, alertID id.AlertID) (*Alert, error)
	// List returns alerts matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*Alert, error)
	Update(ctx context.Context, alert *Alert) error
}
