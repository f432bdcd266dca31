// Package alerts tracks compliance alerts: regulation changes, sunset
// warnings, and expiring bonds that need attention in a jurisdiction.
package alerts

import (
	"strings"
	"time"

	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
)

// Type categorizes what triggered an alert.
type Type string

const (
	TypeRuleChange     Type = "Rule Change"
	TypeSunsetWarning  Type = "Sunset Warning"
	TypeBondExpiration Type = "Bond Expiration"
	TypeNewRegulation  Type = "New Regulation"
	TypeCourtDecision  Type = "Court Decision"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeRuleChange, TypeSunsetWarning, TypeBondExpiration, TypeNewRegulation, TypeCourtDecision:
		return true
	}
	return false
}

// Priority ranks how urgently an alert needs attention.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Alert is one compliance alert. RuleID optionally links it to the state
// rule that triggered it.
type Alert struct {
	ID             id.AlertID `json:"id"`
	State          string     `json:"state"`
	Type           Type       `json:"type"`
	Message        string     `json:"message"`
	Priority       Priority   `json:"priority"`
	Date           time.Time  `json:"date"`
	Resolved       bool       `json:"resolved"`
	RuleID         string     `json:"ruleId,omitempty"`
	ActionRequired bool       `json:"actionRequired"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Validate enforces the construction invariants.
func (a *Alert) Validate() error {
	if strings.TrimSpace(a.State) == "" {
		return dErrors.New(dErrors.CodeValidation, "state is required")
	}
	if !a.Type.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unsupported alert type %q", a.Type)
	}
	if strings.TrimSpace(a.Message) == "" {
		return dErrors.New(dErrors.CodeValidation, "message is required")
	}
	if !a.Priority.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unsupported priority %q", a.Priority)
	}
	return nil
}
