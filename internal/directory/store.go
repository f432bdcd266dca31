package directory

import (
	"context"

	id "complio/pkg/domain"
)

// searchLimit caps talent search result sets; the UI never pages past this.
const searchLimit = 50

// Store abstracts user persistence. Implementations return
// pkg/platform/sentinel errors for infrastructure facts.
type Store interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, userID id.UserID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListByIDs(ctx context.Context, userIDs []id.UserID) ([]*User, error)
	// Search matches active users whose first or last name contains the term,
	// case-insensitively, up to the search limit.
	Search(ctx context.Context, term string) ([]*User, error)
}
