package models

import (
	"strings"
	"time"

	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
	strutil "complio/pkg/platform/strings"
)

// Kind discriminates the two credential variants. Licenses and bonds share
// the full lifecycle; only a few descriptive fields differ.
type Kind string

const (
	KindLicense Kind = "license"
	KindBond    Kind = "bond"
)

func (k Kind) IsValid() bool { return k == KindLicense || k == KindBond }

// ParseKind constructs a Kind from external input.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported credential kind %q", s)
	}
	return k, nil
}

// Status is the review state of a record. The empty status only occurs on
// legacy rows created before the review workflow existed; see EffectiveStatus.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsDecided() bool { return s == StatusApproved || s == StatusRejected }

// CredentialRecord is the aggregate for one tracked license or bond.
//
// Invariants:
//   - AssignedTo and CreatedBy never change after creation
//   - Status moves pending→approved or pending→rejected; a decision may be
//     overwritten by another decision (idempotent re-review) but never unset
//   - ReviewedAt/ReviewedBy are populated iff Status is decided
//   - Name and State are non-empty after trimming
//   - ExpiresDate is always set; for licenses IssuedDate is too
type CredentialRecord struct {
	ID          id.RecordID `json:"id"`
	Kind        Kind        `json:"kind"`
	Name        string      `json:"name"`
	Type        string      `json:"type,omitempty"`   // license only
	Number      string      `json:"number"`           // licenseNumber / bondNumber
	State       string      `json:"state"`
	Amount      *float64    `json:"amount,omitempty"` // bond only
	IssuedDate  *time.Time  `json:"issuedDate,omitempty"`
	ExpiresDate time.Time   `json:"expiresDate"`
	IsActive    bool        `json:"isActive"`
	AssignedTo  id.UserID   `json:"assignedTo"`
	CreatedBy   id.UserID   `json:"createdBy"`
	Attachments []string    `json:"attachments,omitempty"`
	Status      Status      `json:"status,omitempty"`
	SubmittedAt time.Time   `json:"submittedAt"`
	ReviewedAt  *time.Time  `json:"reviewedAt,omitempty"`
	ReviewedBy  *id.UserID  `json:"reviewedBy,omitempty"`
	ReviewNotes string      `json:"reviewNotes,omitempty"`
	DocumentURL string      `json:"documentUrl,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// EffectiveStatus resolves the legacy-active fallback: rows written before
// the review workflow have no status, and IsActive=true on them counts as
// approved.
func (r *CredentialRecord) EffectiveStatus() Status {
	if r.Status != "" {
		return r.Status
	}
	if r.IsActive {
		return StatusApproved
	}
	return StatusRejected
}

// Validate enforces the construction invariants shared by both kinds plus the
// kind-specific requirements.
func (r *CredentialRecord) Validate() error {
	if !r.Kind.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "credential kind is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(r.Number) == "" {
		if r.Kind == KindBond {
			return dErrors.New(dErrors.CodeValidation, "bond number is required")
		}
		return dErrors.New(dErrors.CodeValidation, "license number is required")
	}
	if strings.TrimSpace(r.State) == "" {
		return dErrors.New(dErrors.CodeValidation, "state is required")
	}
	if r.ExpiresDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "expiration date is required")
	}
	if r.AssignedTo.IsZero() || r.CreatedBy.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "assignee and creator are required")
	}
	switch r.Kind {
	case KindLicense:
		if r.IssuedDate == nil || r.IssuedDate.IsZero() {
			return dErrors.New(dErrors.CodeValidation, "issued date is required for licenses")
		}
	case KindBond:
		if r.Amount == nil || *r.Amount < 0 {
			return dErrors.New(dErrors.CodeValidation, "bond amount must be zero or greater")
		}
	}
	if r.IssuedDate != nil && !r.IssuedDate.IsZero() && !r.ExpiresDate.After(*r.IssuedDate) {
		return dErrors.New(dErrors.CodeValidation, "expiration date must be after the issued date")
	}
	return nil
}

// ApplyDecision records an admin review. Re-deciding an already decided
// record overwrites the previous decision; the newest reviewer and timestamp
// win. Notes are applied only when provided, matching the reject contract.
func (r *CredentialRecord) ApplyDecision(status Status, reviewer id.UserID, now time.Time, notes *string) {
	r.Status = status
	r.ReviewedAt = &now
	r.ReviewedBy = &reviewer
	if notes != nil && *notes != "" {
		r.ReviewNotes = *notes
	}
	r.UpdatedAt = now
}

// Patch carries a partial update. A nil field means "leave unchanged"; a
// present field is applied even when it is empty or zero, except that
// validation still rejects blanking required fields. This replaces the
// original falsy-skip semantics with explicit field presence.
type Patch struct {
	Name        *string
	Type        *string
	Number      *string
	State       *string
	Amount      *float64
	IssuedDate  *time.Time
	ExpiresDate *time.Time
	Attachments *[]string
	DocumentURL *string
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Name == nil && p.Type == nil && p.Number == nil && p.State == nil &&
		p.Amount == nil && p.IssuedDate == nil && p.ExpiresDate == nil &&
		p.Attachments == nil && p.DocumentURL == nil
}

// ApplyPatch overwrites the whitelisted descriptive fields. Status, assignee,
// creator, and review fields are never touched by this path. The patched
// record is re-validated before persisting; callers must persist the returned
// error-free state atomically.
func (r *CredentialRecord) ApplyPatch(p Patch, now time.Time) error {
	if p.Name != nil {
		r.Name = strings.TrimSpace(*p.Name)
	}
	if p.Type != nil {
		r.Type = strings.TrimSpace(*p.Type)
	}
	if p.Number != nil {
		r.Number = strings.TrimSpace(*p.Number)
	}
	if p.State != nil {
		r.State = strings.TrimSpace(*p.State)
	}
	if p.Amount != nil {
		amount := *p.Amount
		r.Amount = &amount
	}
	if p.IssuedDate != nil {
		issued := *p.IssuedDate
		r.IssuedDate = &issued
	}
	if p.ExpiresDate != nil {
		r.ExpiresDate = *p.ExpiresDate
	}
	if p.Attachments != nil {
		r.Attachments = strutil.DedupeAndTrim(*p.Attachments)
	}
	if p.DocumentURL != nil {
		// Explicitly clearable: an empty string removes the document reference.
		r.DocumentURL = strings.TrimSpace(*p.DocumentURL)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	r.UpdatedAt = now
	return nil
}
