package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"complio/internal/audit"
	"complio/internal/auth/store/revocation"
	"complio/internal/directory"
	"complio/internal/jwttoken"
	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
	"complio/pkg/requestcontext"
)

const testPassword = "correct horse battery staple"

type AuthServiceSuite struct {
	suite.Suite
	users  *directory.InMemoryStore
	tokens *jwttoken.JWTService
	trl    *revocation.MemoryTRL
	sink   *audit.MemorySink
	svc    *Service

	alice *directory.User
}

func (s *AuthServiceSuite) SetupTest() {
	s.users = directory.NewInMemoryStore()
	s.tokens = jwttoken.NewJWTService("test-signing-key-at-least-32-bytes!!", "complio", "complio-api")
	s.trl = revocation.NewMemoryTRL()
	s.sink = audit.NewMemorySink()
	s.svc = New(s.users, s.tokens, s.trl, time.Hour, slog.Default(), WithAuditPublisher(s.sink))

	s.alice = s.addUser("Alice", "Archer", "alice@example.com", directory.StatusActive)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) addUser(first, last, email string, status directory.Status) *directory.User {
	user, err := directory.NewUser(id.NewUserID(), first, last, email, id.RoleUser, time.Now())
	s.Require().NoError(err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	s.Require().NoError(err)
	user.PasswordHash = hash
	user.Status = status

	s.Require().NoError(s.users.Save(context.Background(), user))
	return user
}

func (s *AuthServiceSuite) TestLogin() {
	ctx := context.Background()

	s.Run("valid credentials mint a token", func() {
		token, user, err := s.svc.Login(ctx, "alice@example.com", testPassword)
		s.Require().NoError(err)
		s.Equal(s.alice.ID, user.ID)

		claims, err := s.tokens.ValidateToken(token)
		s.Require().NoError(err)
		s.Equal(s.alice.ID.String(), claims.UserID)
		s.Equal("user", claims.Role)
	})

	s.Run("email comparison ignores case and whitespace", func() {
		_, _, err := s.svc.Login(ctx, "  ALICE@Example.COM ", testPassword)
		s.Require().NoError(err)
	})

	s.Run("unknown email and wrong password are indistinguishable", func() {
		_, _, errUnknown := s.svc.Login(ctx, "nobody@example.com", testPassword)
		_, _, errWrong := s.svc.Login(ctx, "alice@example.com", "wrong password")

		s.Require().Error(errUnknown)
		s.Require().Error(errWrong)
		s.True(dErrors.HasCode(errUnknown, dErrors.CodeUnauthorized))
		s.True(dErrors.HasCode(errWrong, dErrors.CodeUnauthorized))
		s.Equal(dErrors.MessageOf(errUnknown), dErrors.MessageOf(errWrong))
	})

	s.Run("disabled accounts cannot log in", func() {
		s.addUser("Dora", "Dormant", "dora@example.com", directory.StatusInactive)

		_, _, err := s.svc.Login(ctx, "dora@example.com", testPassword)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal("account is disabled", dErrors.MessageOf(err))
	})

	s.Run("login emits an audit event", func() {
		ua := "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
		_, _, err := s.svc.Login(requestcontext.WithClientMetadata(ctx, "10.0.0.1", ua),
			"alice@example.com", testPassword)
		s.Require().NoError(err)

		events := s.sink.Events()
		s.Require().NotEmpty(events)
		last := events[len(events)-1]
		s.Equal(audit.ActionLogin, last.Action)
		s.Equal(s.alice.ID, last.ActorID)
		s.Contains(last.Notes, "Firefox")
		s.Equal(ua, last.ClientUA)
	})
}

func (s *AuthServiceSuite) TestLogout() {
	s.Run("revokes the presented token", func() {
		_, jti, err := s.tokens.GenerateAccessToken(s.alice.ID, id.RoleUser, time.Hour)
		s.Require().NoError(err)

		ctx := requestcontext.WithTokenID(context.Background(), jti)
		ctx = requestcontext.WithUserID(ctx, s.alice.ID)
		s.Require().NoError(s.svc.Logout(ctx))

		revoked, err := s.trl.IsRevoked(context.Background(), jti)
		s.Require().NoError(err)
		s.True(revoked)

		events := s.sink.Events()
		s.Require().NotEmpty(events)
		s.Equal(audit.ActionLogout, events[len(events)-1].Action)
	})

	s.Run("revocation window follows the token's remaining lifetime", func() {
		trl := &recordingTRL{}
		svc := New(s.users, s.tokens, trl, time.Hour, slog.Default())

		ctx := requestcontext.WithTokenID(context.Background(), "jti-remaining")
		ctx = requestcontext.WithTokenTTL(ctx, 25*time.Minute)
		s.Require().NoError(svc.Logout(ctx))

		s.Equal("jti-remaining", trl.jti)
		s.Equal(25*time.Minute, trl.ttl)
	})

	s.Run("falls back to the configured TTL without a recorded lifetime", func() {
		trl := &recordingTRL{}
		svc := New(s.users, s.tokens, trl, time.Hour, slog.Default())

		ctx := requestcontext.WithTokenID(context.Background(), "jti-fallback")
		s.Require().NoError(svc.Logout(ctx))

		s.Equal(time.Hour, trl.ttl)
	})

	s.Run("missing token is unauthorized", func() {
		err := s.svc.Logout(context.Background())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

// recordingTRL captures the revocation window Logout requests.
type recordingTRL struct {
	jti string
	ttl time.Duration
}

func (r *recordingTRL) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	r.jti, r.ttl = jti, ttl
	return nil
}

func (r *recordingTRL) IsRevoked(context.Context, string) (bool, error) {
	return false, nil
}

func (s *AuthServiceSuite) TestMe() {
	s.Run("returns the authenticated user", func() {
		ctx := requestcontext.WithUserID(context.Background(), s.alice.ID)
		user, err := s.svc.Me(ctx)
		s.Require().NoError(err)
		s.Equal(s.alice.ID, user.ID)
		s.Equal("alice@example.com", user.Email)
	})

	s.Run("unauthenticated context is rejected", func() {
		_, err := s.svc.Me(context.Background())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("deleted user is not found", func() {
		ctx := requestcontext.WithUserID(context.Background(), id.NewUserID())
		_, err := s.svc.Me(ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
