// Package domain defines typed identifiers used across module boundaries.
//
// Typed IDs prevent cross-type assignment at compile time: a UserID can never
// be passed where a RecordID is expected. Construct them via the Parse
// functions at trust boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "complio/pkg/domain-errors"
)

// UserID identifies a user in the directory.
type UserID uuid.UUID

// RecordID identifies a credential record (license or bond).
type RecordID uuid.UUID

// RuleID identifies a state regulation rule.
type RuleID uuid.UUID

// AlertID identifies a compliance alert.
type AlertID uuid.UUID

func (id UserID) String() string   { return uuid.UUID(id).String() }
func (id RecordID) String() string { return uuid.UUID(id).String() }
func (id RuleID) String() string   { return uuid.UUID(id).String() }
func (id AlertID) String() string  { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
func (id RecordID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders IDs as canonical UUID strings in JSON payloads.
func (id UserID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id RecordID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id RuleID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id AlertID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RecordID) UnmarshalText(b []byte) error {
	parsed, err := ParseRecordID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RuleID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "rule id")
	if err != nil {
		return err
	}
	*id = RuleID(u)
	return nil
}

func (id *AlertID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "alert id")
	if err != nil {
		return err
	}
	*id = AlertID(u)
	return nil
}

// NewUserID returns a fresh random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewRecordID returns a fresh random record ID.
func NewRecordID() RecordID { return RecordID(uuid.New()) }

// NewRuleID returns a fresh random rule ID.
func NewRuleID() RuleID { return RuleID(uuid.New()) }

// NewAlertID returns a fresh random alert ID.
func NewAlertID() AlertID { return AlertID(uuid.New()) }

// ParseUserID parses external input into a UserID.
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil UUID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseRecordID parses external input into a RecordID.
func ParseRecordID(s string) (RecordID, error) {
	u, err := parseUUID(s, "record id")
	if err != nil {
		return RecordID{}, err
	}
	return RecordID(u), nil
}

// ParseRuleID parses external input into a RuleID.
func ParseRuleID(s string) (RuleID, error) {
	u, err := parseUUID(s, "rule id")
	if err != nil {
		return RuleID{}, err
	}
	return RuleID(u), nil
}

// ParseAlertID parses external input into an AlertID.
func ParseAlertID(s string) (AlertID, error) {
	u, err := parseUUID(s, "alert id")
	if err != nil {
		return AlertID{}, err
	}
	return AlertID(u), nil
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", what)
	}
	return u, nil
}
