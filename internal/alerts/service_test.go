package alerts

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
	"complio/pkg/requestcontext"
)

var testNow = time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)

type AlertServiceSuite struct {
	suite.Suite
	store *InMemoryStore
	svc   *Service
	ctx   context.Context
}

func (s *AlertServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.svc = NewService(s.store, slog.Default())
	s.ctx = requestcontext.WithTime(context.Background(), testNow)
}

func TestAlertServiceSuite(t *testing.T) {
	suite.Run(t, new(AlertServiceSuite))
}

func (s *AlertServiceSuite) input(state string, alertType Type) Input {
	return Input{
		State:    state,
		Type:     alertType,
		Message:  "Licensing requirement amended",
		Priority: PriorityHigh,
	}
}

func (s *AlertServiceSuite) TestCreate() {
	s.Run("zero date defaults to the request time", func() {
		alert, err := s.svc.Create(s.ctx, s.input("FL", TypeRuleChange))
		s.Require().NoError(err)
		s.Equal(testNow, alert.Date)
		s.False(alert.Resolved)
	})

	s.Run("explicit date is kept", func() {
		input := s.input("TX", TypeBondExpiration)
		input.Date = testNow.AddDate(0, 0, -3)

		alert, err := s.svc.Create(s.ctx, input)
		s.Require().NoError(err)
		s.Equal(input.Date, alert.Date)
	})

	s.Run("unsupported type is rejected", func() {
		input := s.input("TX", Type("Weather Event"))
		_, err := s.svc.Create(s.ctx, input)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AlertServiceSuite) TestList() {
	older := s.input("CA", TypeRuleChange)
	older.Date = testNow.AddDate(0, 0, -10)
	newer := s.input("California", TypeSunsetWarning)
	newer.Date = testNow.AddDate(0, 0, -1)
	elsewhere := s.input("TX", TypeNewRegulation)

	_, err := s.svc.Create(s.ctx, older)
	s.Require().NoError(err)
	created, err := s.svc.Create(s.ctx, newer)
	s.Require().NoError(err)
	_, err = s.svc.Create(s.ctx, elsewhere)
	s.Require().NoError(err)

	s.Run("state filter accepts either spelling, newest first", func() {
		got, err := s.svc.List(s.ctx, "CA", nil)
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal(TypeSunsetWarning, got[0].Type)
		s.Equal(TypeRuleChange, got[1].Type)
	})

	s.Run("no filter returns everything", func() {
		got, err := s.svc.List(s.ctx, "", nil)
		s.Require().NoError(err)
		s.Len(got, 3)
	})

	s.Run("resolved filter narrows the set", func() {
		_, err := s.svc.Resolve(s.ctx, created.ID)
		s.Require().NoError(err)

		resolved := true
		got, err := s.svc.List(s.ctx, "CA", &resolved)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(created.ID, got[0].ID)

		unresolved := false
		got, err = s.svc.List(s.ctx, "CA", &unresolved)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(TypeRuleChange, got[0].Type)
	})

	s.Run("no matches yields an empty slice", func() {
		got, err := s.svc.List(s.ctx, "HI", nil)
		s.Require().NoError(err)
		s.NotNil(got)
		s.Empty(got)
	})
}

func (s *AlertServiceSuite) TestResolve() {
	alert, err := s.svc.Create(s.ctx, s.input("KY", TypeCourtDecision))
	s.Require().NoError(err)

	s.Run("marks the alert handled", func() {
		got, err := s.svc.Resolve(s.ctx, alert.ID)
		s.Require().NoError(err)
		s.True(got.Resolved)
	})

	s.Run("resolving again is a no-op", func() {
		first, err := s.store.FindByID(s.ctx, alert.ID)
		s.Require().NoError(err)

		later := requestcontext.WithTime(context.Background(), testNow.Add(time.Hour))
		got, err := s.svc.Resolve(later, alert.ID)
		s.Require().NoError(err)
		s.True(got.Resolved)
		s.Equal(first.UpdatedAt, got.UpdatedAt)
	})

	s.Run("unknown alert is not found", func() {
		_, err := s.svc.Resolve(s.ctx, id.NewAlertID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
