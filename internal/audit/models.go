// Package audit captures structured events for credential lifecycle actions.
// Events are emitted from domain logic and fanned out through a Publisher so
// sinks (Kafka, memory) stay swappable.
package audit

import (
	"time"

	id "complio/pkg/domain"
)

// Action identifies what happened to a credential record.
type Action string

const (
	ActionCreated  Action = "credential.created"
	ActionApproved Action = "credential.approved"
	ActionRejected Action = "credential.rejected"
	ActionDeleted  Action = "credential.deleted"
	ActionLogin    Action = "auth.login"
	ActionLogout   Action = "auth.logout"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	ActorID   id.UserID `json:"actor_id"`
	SubjectID id.UserID `json:"subject_id,omitempty"`
	RecordID  string    `json:"record_id,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	State     string    `json:"state,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	ClientUA  string    `json:"client_ua,omitempty"`
}
