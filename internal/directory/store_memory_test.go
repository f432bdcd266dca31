package directory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) newUser(first, last, email string) *User {
	user, err := NewUser(id.NewUserID(), first, last, email, id.RoleUser, time.Now())
	s.Require().NoError(err)
	return user
}

func (s *InMemoryStoreSuite) TestLookup() {
	s.Run("finds by ID", func() {
		user := s.newUser("Jane", "Doe", "jane@example.com")
		s.Require().NoError(s.store.Save(s.ctx, user))

		found, err := s.store.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(user.Email, found.Email)
	})

	s.Run("finds by email regardless of case", func() {
		user := s.newUser("Eli", "Mail", "eli@example.com")
		s.Require().NoError(s.store.Save(s.ctx, user))

		found, err := s.store.FindByEmail(s.ctx, " ELI@Example.com ")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("unknown ID returns ErrNotFound", func() {
		_, err := s.store.FindByID(s.ctx, id.NewUserID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown email returns ErrNotFound", func() {
		_, err := s.store.FindByEmail(s.ctx, "missing@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestListByIDs() {
	alice := s.newUser("Alice", "Archer", "alice@example.com")
	bob := s.newUser("Bob", "Baker", "bob@example.com")
	s.Require().NoError(s.store.Save(s.ctx, alice))
	s.Require().NoError(s.store.Save(s.ctx, bob))

	got, err := s.store.ListByIDs(s.ctx, []id.UserID{alice.ID, id.NewUserID(), bob.ID})
	s.Require().NoError(err)
	// Unknown IDs are silently skipped.
	s.Require().Len(got, 2)
	s.Equal(alice.ID, got[0].ID)
	s.Equal(bob.ID, got[1].ID)
}

func (s *InMemoryStoreSuite) TestSearch() {
	s.Run("matches first and last names case-insensitively", func() {
		alice := s.newUser("Alice", "Archer", "alice@example.com")
		bob := s.newUser("Bob", "Archibald", "bob@example.com")
		carol := s.newUser("Carol", "Chase", "carol@example.com")
		for _, u := range []*User{alice, bob, carol} {
			s.Require().NoError(s.store.Save(s.ctx, u))
		}

		got, err := s.store.Search(s.ctx, "arch")
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		// Ordered by last name, then first.
		s.Equal("Archer", got[0].LastName)
		s.Equal("Archibald", got[1].LastName)
	})

	s.Run("inactive users are excluded", func() {
		store := NewInMemoryStore()
		gone := s.newUser("Gone", "Ghost", "gone@example.com")
		gone.Status = StatusInactive
		s.Require().NoError(store.Save(s.ctx, gone))

		got, err := store.Search(s.ctx, "ghost")
		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("results are capped at the search limit", func() {
		store := NewInMemoryStore()
		for i := 0; i < searchLimit+10; i++ {
			u := s.newUser("Common", fmt.Sprintf("Name%03d", i), fmt.Sprintf("u%d@example.com", i))
			s.Require().NoError(store.Save(s.ctx, u))
		}

		got, err := store.Search(s.ctx, "common")
		s.Require().NoError(err)
		s.Len(got, searchLimit)
	})
}
