// Package store persists credential records. Implementations return
// pkg/platform/sentinel errors; the service layer translates them.
package store

import (
	"context"

	"complio/internal/credential/models"
	id "complio/pkg/domain"
)

// Store abstracts credential record persistence.
//
// Writes are last-write-wins: there is no optimistic concurrency token, so
// two concurrent updates to the same record both succeed and the second
// overwrites the first. Reads are not transactionally isolated from writes.
type Store interface {
	// Create inserts a new record. Returns sentinel.ErrConflict when another
	// record of the same kind already uses the number/state pair.
	Create(ctx context.Context, rec *models.CredentialRecord) error
	FindByID(ctx context.Context, recordID id.RecordID) (*models.CredentialRecord, error)
	// ListByAssignee returns one user's records of a kind, ascending by
	// expiration date.
	ListByAssignee(ctx context.Context, kind models.Kind, userID id.UserID) ([]*models.CredentialRecord, error)
	// ListApprovedByStates returns effectively-approved records of a kind
	// whose state matches any of the given spellings case-insensitively,
	// ascending by expiration date. Effectively approved means status
	// approved, or legacy rows with no status and IsActive set.
	ListApprovedByStates(ctx context.Context, kind models.Kind, stateTerms []string) ([]*models.CredentialRecord, error)
	// ListApprovedByAssignees returns approved records of a kind belonging to
	// any of the given users, ascending by expiration date.
	ListApprovedByAssignees(ctx context.Context, kind models.Kind, userIDs []id.UserID) ([]*models.CredentialRecord, error)
	// Update overwrites an existing record in full. Returns
	// sentinel.ErrNotFound when the id is unknown and sentinel.ErrConflict on
	// a number/state collision.
	Update(ctx context.Context, rec *models.CredentialRecord) error
	// Delete removes a record permanently. No tombstone is kept.
	Delete(ctx context.Context, recordID id.RecordID) error
}
