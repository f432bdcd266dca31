package service

import (
	"context"
	"time"

	"complio/internal/credential/expiry"
	"complio/internal/credential/models"
	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
)

func (s *ServiceSuite) approveLicense(assignee id.UserID, state, number string, expires time.Time) *models.CredentialRecord {
	sub := s.licenseSubmission(assignee, state, number)
	sub.ExpiresDate = expires
	rec, err := s.svc.Submit(s.ctxAs(s.admin, id.RoleAdmin), models.KindLicense, sub)
	s.Require().NoError(err)
	return rec
}

func (s *ServiceSuite) TestTalentByState() {
	s.Run("empty state is rejected", func() {
		_, err := s.svc.TalentByState(s.ctxAs(s.admin, id.RoleAdmin), "  ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("abbreviation and full name address the same records", func() {
		s.approveLicense(s.alice, "CA", "PA-1", testNow.AddDate(1, 0, 0))
		s.approveLicense(s.bob, "California", "PA-2", testNow.AddDate(0, 6, 0))

		byAbbr, err := s.svc.TalentByState(s.ctxAs(s.admin, id.RoleAdmin), "CA")
		s.Require().NoError(err)
		byName, err := s.svc.TalentByState(s.ctxAs(s.admin, id.RoleAdmin), "california")
		s.Require().NoError(err)

		s.Equal("California", byAbbr.State)
		s.Equal("California", byName.State)
		s.Require().Len(byAbbr.Entries, 2)
		s.Len(byName.Entries, 2)
	})

	s.Run("pending records are excluded", func() {
		_, err := s.svc.Submit(s.ctxAs(s.alice, id.RoleUser), models.KindLicense,
			s.licenseSubmission(id.UserID{}, "WY", "PA-10"))
		s.Require().NoError(err)

		got, err := s.svc.TalentByState(s.ctxAs(s.admin, id.RoleAdmin), "WY")
		s.Require().NoError(err)
		s.Empty(got.Entries)
	})

	s.Run("summaries carry expiry classification", func() {
		s.approveLicense(s.alice, "NV", "PA-20", testNow.AddDate(0, 0, 10))

		got, err := s.svc.TalentByState(s.ctxAs(s.admin, id.RoleAdmin), "NV")
		s.Require().NoError(err)
		s.Require().Len(got.Entries, 1)

		entry := got.Entries[0]
		s.Equal(s.alice, entry.User.ID)
		s.Require().Len(entry.Licenses, 1)
		s.Equal(expiry.BucketSoon, entry.Licenses[0].Expiry)
		s.Equal(10, entry.Licenses[0].DaysLeft)
		s.NotNil(entry.Bonds)
		s.Empty(entry.Bonds)
	})

	s.Run("records with unknown assignees are dropped", func() {
		ghost := id.NewUserID()
		issued := testNow.AddDate(-1, 0, 0)
		rec := &models.CredentialRecord{
			ID:          id.NewRecordID(),
			Kind:        models.KindLicense,
			Name:        "Orphaned License",
			Number:      "PA-30",
			State:       "MT",
			IssuedDate:  &issued,
			ExpiresDate: testNow.AddDate(1, 0, 0),
			AssignedTo:  ghost,
			CreatedBy:   ghost,
			Status:      models.StatusApproved,
		}
		s.Require().NoError(s.records.Create(context.Background(), rec))

		got, err := s.svc.TalentByState(s.ctxAs(s.admin, id.RoleAdmin), "MT")
		s.Require().NoError(err)
		s.Empty(got.Entries)
	})

	s.Run("unrecognized jurisdictions match verbatim", func() {
		s.approveLicense(s.alice, "Guam", "PA-40", testNow.AddDate(1, 0, 0))

		got, err := s.svc.TalentByState(s.ctxAs(s.admin, id.RoleAdmin), "Guam")
		s.Require().NoError(err)
		s.Equal("Guam", got.State)
		s.Len(got.Entries, 1)
	})
}

func (s *ServiceSuite) TestSearchTalent() {
	s.Run("short queries match nothing", func() {
		got, err := s.svc.SearchTalent(s.ctxAs(s.admin, id.RoleAdmin), " a ")
		s.Require().NoError(err)
		s.NotNil(got)
		s.Empty(got)
	})

	s.Run("matches attach approved credentials", func() {
		s.approveLicense(s.alice, "TX", "PA-1", testNow.AddDate(1, 0, 0))

		got, err := s.svc.SearchTalent(s.ctxAs(s.admin, id.RoleAdmin), "Archer")
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(s.alice, got[0].User.ID)
		s.Require().Len(got[0].Licenses, 1)
		s.Equal("PA-1", got[0].Licenses[0].Number)
	})

	s.Run("users without credentials still appear", func() {
		got, err := s.svc.SearchTalent(s.ctxAs(s.admin, id.RoleAdmin), "Baker")
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(s.bob, got[0].User.ID)
		s.NotNil(got[0].Licenses)
		s.Empty(got[0].Licenses)
		s.NotNil(got[0].Bonds)
		s.Empty(got[0].Bonds)
	})

	s.Run("no matches yields an empty list", func() {
		got, err := s.svc.SearchTalent(s.ctxAs(s.admin, id.RoleAdmin), "Zzyzx")
		s.Require().NoError(err)
		s.NotNil(got)
		s.Empty(got)
	})
}
