//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"complio/internal/credential/models"
	"complio/internal/credential/store"
	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
	"complio/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) newLicense(assignee id.UserID, state, number string, expires time.Time) *models.CredentialRecord {
	issued := expires.AddDate(-2, 0, 0)
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.CredentialRecord{
		ID:          id.NewRecordID(),
		Kind:        models.KindLicense,
		Name:        "Adjuster License",
		Type:        "Public Adjuster",
		Number:      number,
		State:       state,
		IssuedDate:  &issued,
		ExpiresDate: expires,
		AssignedTo:  assignee,
		CreatedBy:   assignee,
		Status:      models.StatusApproved,
		IsActive:    true,
		Attachments: []string{"scan.pdf"},
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	rec := s.newLicense(id.NewUserID(), "TX", "PA-1", time.Now().UTC().AddDate(1, 0, 0).Truncate(time.Microsecond))
	s.Require().NoError(s.store.Create(ctx, rec))

	found, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(rec.Number, found.Number)
	s.Equal(rec.State, found.State)
	s.Equal(rec.Attachments, found.Attachments)
	s.Equal(models.StatusApproved, found.Status)
	s.Require().NotNil(found.IssuedDate)
	s.WithinDuration(*rec.IssuedDate, *found.IssuedDate, time.Millisecond)
}

func (s *PostgresStoreSuite) TestUniqueIndex() {
	ctx := context.Background()
	user := id.NewUserID()
	expires := time.Now().UTC().AddDate(1, 0, 0)

	s.Require().NoError(s.store.Create(ctx, s.newLicense(user, "TX", "PA-1", expires)))

	// Case-insensitive on state.
	err := s.store.Create(ctx, s.newLicense(user, "tx", "PA-1", expires))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	s.Require().NoError(s.store.Create(ctx, s.newLicense(user, "OK", "PA-1", expires)))
}

func (s *PostgresStoreSuite) TestListApprovedByStates() {
	ctx := context.Background()
	user := id.NewUserID()
	now := time.Now().UTC()

	approved := s.newLicense(user, "CA", "PA-1", now.AddDate(1, 0, 0))
	fullName := s.newLicense(user, "California", "PA-2", now.AddDate(0, 6, 0))
	pending := s.newLicense(user, "CA", "PA-3", now.AddDate(0, 3, 0))
	pending.Status = models.StatusPending
	pending.IsActive = false
	for _, rec := range []*models.CredentialRecord{approved, fullName, pending} {
		s.Require().NoError(s.store.Create(ctx, rec))
	}

	got, err := s.store.ListApprovedByStates(ctx, models.KindLicense, []string{"CA", "California"})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	// Ascending by expiration.
	s.Equal(fullName.ID, got[0].ID)
	s.Equal(approved.ID, got[1].ID)
}

func (s *PostgresStoreSuite) TestUpdateAndDelete() {
	ctx := context.Background()
	rec := s.newLicense(id.NewUserID(), "FL", "PA-9", time.Now().UTC().AddDate(1, 0, 0))
	s.Require().NoError(s.store.Create(ctx, rec))

	rec.Name = "Renamed"
	rec.ReviewNotes = "checked"
	s.Require().NoError(s.store.Update(ctx, rec))

	found, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", found.Name)
	s.Equal("checked", found.ReviewNotes)

	s.Require().NoError(s.store.Delete(ctx, rec.ID))
	_, err = s.store.FindByID(ctx, rec.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(ctx, rec.ID), sentinel.ErrNotFound)
}
