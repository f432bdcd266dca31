package alerts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
	"complio/pkg/platform/sentinel"
	"complio/pkg/requestcontext"
	"complio/pkg/states"
)

// Service wraps the alert store with validation and error translation.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Input carries the fields of a new alert.
type Input struct {
	State          string
	Type           Type
	Message        string
	Priority       Priority
	Date           time.Time
	RuleID         string
	ActionRequired bool
	Deadline       *time.Time
}

// Create records a new alert. A zero date defaults to the request time.
func (s *Service) Create(ctx context.Context, input Input) (*Alert, error) {
	now := requestcontext.Now(ctx)
	date := input.Date
	if date.IsZero() {
		date = now
	}
	alert := &Alert{
		ID:             id.NewAlertID(),
		State:          strings.TrimSpace(input.State),
		Type:           input.Type,
		Message:        input.Message,
		Priority:       input.Priority,
		Date:           date,
		RuleID:         strings.TrimSpace(input.RuleID),
		ActionRequired: input.ActionRequired,
		Deadline:       input.Deadline,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := alert.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, alert); err != nil {
		return nil, s.translate(err)
	}
	return alert, nil
}

// List returns alerts, optionally narrowed by jurisdiction and resolution
// state. The state filter accepts either spelling of a jurisdiction.
func (s *Service) List(ctx context.Context, state string, resolved *bool) ([]*Alert, error) {
	filter := Filter{Resolved: resolved}
	if state = strings.TrimSpace(state); state != "" {
		filter.StateTerms = states.SearchTerms(state)
	}
	out, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, s.translate(err)
	}
	if out == nil {
		out = []*Alert{}
	}
	return out, nil
}

// Resolve marks an alert handled. Resolving an already resolved alert is a
// no-op that still returns the alert.
func (s *Service) Resolve(ctx context.Context, alertID id.AlertID) (*Alert, error) {
	alert, err := s.store.FindByID(ctx, alertID)
	if err != nil {
		return nil, s.translate(err)
	}
	if !alert.Resolved {
		alert.Resolved = true
		alert.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.Update(ctx, alert); err != nil {
			return nil, s.translate(err)
		}
	}
	return alert, nil
}

func (s *Service) translate(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "alert not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "alert storage failure")
}
