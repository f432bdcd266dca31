package directory

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
	"complio/pkg/requestcontext"
)

// SeedUser describes one user for the bootstrap seed step.
type SeedUser struct {
	FirstName  string
	LastName   string
	Email      string
	Position   string
	Location   string
	EmployeeID string
	Role       id.Role
	Password   string
}

// DefaultSeedUsers is the development bootstrap set: one admin plus two
// adjusters. Production deployments disable seeding and provision users
// out of band.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{
			FirstName: "Dana", LastName: "Whitfield",
			Email: "dana.whitfield@example.com", Position: "Compliance Manager",
			Location: "Louisville, KY", EmployeeID: "EMP-0001",
			Role: id.RoleAdmin, Password: "changeme-admin",
		},
		{
			FirstName: "Marcus", LastName: "Reyes",
			Email: "marcus.reyes@example.com", Position: "Public Adjuster",
			Location: "Tampa, FL", EmployeeID: "EMP-0002",
			Role: id.RoleUser, Password: "changeme-user",
		},
		{
			FirstName: "Priya", LastName: "Natarajan",
			Email: "priya.natarajan@example.com", Position: "Public Adjuster",
			Location: "Sacramento, CA", EmployeeID: "EMP-0003",
			Role: id.RoleUser, Password: "changeme-user",
		},
	}
}

// Seed inserts the given users if they are not already present (matched by
// email). It is an explicit bootstrap step invoked once from main, never a
// package-level side effect, and is idempotent across restarts.
func Seed(ctx context.Context, store Store, users []SeedUser) error {
	now := requestcontext.Now(ctx)
	for _, su := range users {
		if _, err := store.FindByEmail(ctx, su.Email); err == nil {
			continue
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}

		user, err := NewUser(id.NewUserID(), su.FirstName, su.LastName, su.Email, su.Role, now)
		if err != nil {
			return err
		}
		user.Position = su.Position
		user.Location = su.Location
		user.EmployeeID = su.EmployeeID

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordHash = hash

		if err := store.Save(ctx, user); err != nil {
			return err
		}
	}
	return nil
}
