// Package directory tracks the employees whose credentials the company
// monitors. Credential records reference directory users by ID; talent
// lookups join back through this package.
package directory

import (
	"strings"
	"time"

	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
)

// Status of a directory user. Inactive users stay referenced by historical
// records but drop out of talent search.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is one employee in the directory.
type User struct {
	ID             id.UserID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Position       string    `json:"position,omitempty"`
	Location       string    `json:"location,omitempty"`
	EmployeeID     string    `json:"employeeID,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Role           id.Role   `json:"role"`
	Status         Status    `json:"status"`
	PasswordHash   []byte    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FullName is the display name used in talent summaries.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsActive reports whether the user should appear in searches.
func (u *User) IsActive() bool { return u.Status == StatusActive }

// NewUser validates and constructs a directory user.
func NewUser(userID id.UserID, firstName, lastName, email string, role id.Role, now time.Time) (*User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(strings.ToLower(email))
	if firstName == "" || lastName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "first and last name are required")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "role must be admin or user")
	}
	return &User{
		ID:        userID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      role,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
