// Package rules stores per-state regulation entries maintained by compliance
// admins. Rules feed the by-state regulation lookups and the compliance
// alerts that reference them.
package rules

import (
	"strings"
	"time"

	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
)

// AuthorityLevel ranks the legal weight of a rule's source.
type AuthorityLevel string

const (
	AuthorityStatute  AuthorityLevel = "STATUTE"
	AuthorityReg      AuthorityLevel = "REG"
	AuthorityAdvisory AuthorityLevel = "ADVISORY"
	AuthorityCase     AuthorityLevel = "CASE"
	AuthorityAgency   AuthorityLevel = "AGENCY"
)

func (a AuthorityLevel) IsValid() bool {
	switch a {
	case AuthorityStatute, AuthorityReg, AuthorityAdvisory, AuthorityCase, AuthorityAgency:
		return true
	}
	return false
}

// Confidence grades how certain the compliance team is about a rule's
// current accuracy.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

func (c Confidence) IsValid() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium || c == ConfidenceLow
}

// StateRule is one regulation entry. RuleID is the human-readable stable
// identifier ("TX-PUBADJ-BOND-001") and is unique across the store.
type StateRule struct {
	ID             id.RuleID      `json:"id"`
	RuleID         string         `json:"ruleId"`
	State          string         `json:"state"`
	Category       string         `json:"category"`
	Subcategory    string         `json:"subcategory,omitempty"`
	AuthorityLevel AuthorityLevel `json:"authorityLevel"`
	Confidence     Confidence     `json:"confidence"`
	Text           string         `json:"text"`
	Sources        []string       `json:"sources,omitempty"`
	Version        string         `json:"version"`
	Active         bool           `json:"active"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Validate enforces the construction invariants.
func (r *StateRule) Validate() error {
	if strings.TrimSpace(r.RuleID) == "" {
		return dErrors.New(dErrors.CodeValidation, "rule id is required")
	}
	if strings.TrimSpace(r.State) == "" {
		return dErrors.New(dErrors.CodeValidation, "state is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return dErrors.New(dErrors.CodeValidation, "category is required")
	}
	if !r.AuthorityLevel.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unsupported authority level %q", r.AuthorityLevel)
	}
	if !r.Confidence.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unsupported confidence %q", r.Confidence)
	}
	if strings.TrimSpace(r.Text) == "" {
		return dErrors.New(dErrors.CodeValidation, "rule text is required")
	}
	return nil
}
