package handler

import (
	"strings"
	"time"

	"complio/internal/credential/models"
	"complio/internal/credential/service"
	id "complio/pkg/domain"
)

// createRequest is the submission payload. The number may arrive as the
// generic "number" or the legacy kind-specific aliases still sent by older
// clients; Validate resolves them into one field.
type createRequest struct {
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	Number        string     `json:"number"`
	LicenseNumber string     `json:"licenseNumber"`
	BondNumber    string     `json:"bondNumber"`
	State         string     `json:"state"`
	Amount        *float64   `json:"amount"`
	IssuedDate    *time.Time `json:"issuedDate"`
	ExpiresDate   time.Time  `json:"expiresDate"`
	AssignedTo    string     `json:"assignedTo"`
	Attachments   []string   `json:"attachments"`
	DocumentURL   string     `json:"documentUrl"`

	assignedTo id.UserID
}

func (r *createRequest) Validate() error {
	if r.Number == "" {
		if r.LicenseNumber != "" {
			r.Number = r.LicenseNumber
		} else if r.BondNumber != "" {
			r.Number = r.BondNumber
		}
	}
	if s := strings.TrimSpace(r.AssignedTo); s != "" {
		parsed, err := id.ParseUserID(s)
		if err != nil {
			return err
		}
		r.assignedTo = parsed
	}
	return nil
}

func (r *createRequest) submission() service.Submission {
	return service.Submission{
		Name:        r.Name,
		Type:        r.Type,
		Number:      r.Number,
		State:       r.State,
		Amount:      r.Amount,
		IssuedDate:  r.IssuedDate,
		ExpiresDate: r.ExpiresDate,
		AssignedTo:  r.assignedTo,
		Attachments: r.Attachments,
		DocumentURL: r.DocumentURL,
	}
}

// updateRequest is the partial-update payload. Every field is a pointer:
// absent fields stay untouched, present fields are applied even when empty.
// An explicit empty documentUrl clears the stored reference.
type updateRequest struct {
	Name          *string     `json:"name"`
	Type          *string     `json:"type"`
	Number        *string     `json:"number"`
	LicenseNumber *string     `json:"licenseNumber"`
	BondNumber    *string     `json:"bondNumber"`
	State         *string     `json:"state"`
	Amount        *float64    `json:"amount"`
	IssuedDate    *time.Time  `json:"issuedDate"`
	ExpiresDate   *time.Time  `json:"expiresDate"`
	Attachments   *[]string   `json:"attachments"`
	DocumentURL   *string     `json:"documentUrl"`
}

func (r *updateRequest) Validate() error {
	if r.Number == nil {
		if r.LicenseNumber != nil {
			r.Number = r.LicenseNumber
		} else if r.BondNumber != nil {
			r.Number = r.BondNumber
		}
	}
	return nil
}

func (r *updateRequest) patch() models.Patch {
	return models.Patch{
		Name:        r.Name,
		Type:        r.Type,
		Number:      r.Number,
		State:       r.State,
		Amount:      r.Amount,
		IssuedDate:  r.IssuedDate,
		ExpiresDate: r.ExpiresDate,
		Attachments: r.Attachments,
		DocumentURL: r.DocumentURL,
	}
}

// rejectRequest optionally carries reviewer notes. reviewNotes is the
// documented field; notes is accepted as an alias.
type rejectRequest struct {
	ReviewNotes *string `json:"reviewNotes"`
	Notes       *string `json:"notes"`
}

func (r *rejectRequest) Validate() error {
	if r.ReviewNotes == nil {
		r.ReviewNotes = r.Notes
	}
	return nil
}
