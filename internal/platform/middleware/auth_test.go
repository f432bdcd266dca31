package middleware_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"complio/internal/platform/middleware"
	"complio/internal/platform/middleware/mocks"
	id "complio/pkg/domain"
	"complio/pkg/requestcontext"
	"complio/pkg/testutil"
)

type AuthMiddlewareSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	validator  *mocks.MockJWTValidator
	revocation *mocks.MockTokenRevocationChecker
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.validator = mocks.NewMockJWTValidator(s.ctrl)
	s.revocation = mocks.NewMockTokenRevocationChecker(s.ctrl)
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

// protect wraps a probe handler that records the authenticated identity.
func (s *AuthMiddlewareSuite) protect() (http.Handler, *middleware.JWTClaims) {
	var seen middleware.JWTClaims
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		seen = middleware.JWTClaims{
			UserID:   requestcontext.UserID(ctx),
			Role:     requestcontext.Role(ctx),
			JTI:      requestcontext.TokenID(ctx),
			TokenTTL: requestcontext.TokenTTL(ctx),
		}
		w.WriteHeader(http.StatusOK)
	})
	mw := middleware.RequireAuth(s.validator, s.revocation, slog.Default())
	return mw(probe), &seen
}

func (s *AuthMiddlewareSuite) TestRequireAuth() {
	claims := &middleware.JWTClaims{
		UserID:   id.NewUserID(),
		Role:     id.RoleUser,
		JTI:      "jti-123",
		TokenTTL: 42 * time.Minute,
	}

	s.Run("missing authorization header is unauthorized", func() {
		handler, _ := s.protect()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("non-bearer scheme is unauthorized", func() {
		handler, _ := s.protect()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("invalid token is unauthorized", func() {
		s.validator.EXPECT().ValidateToken("bad-token").Return(nil, errors.New("parse error"))

		handler, _ := s.protect()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("revoked token is unauthorized", func() {
		s.validator.EXPECT().ValidateToken("revoked-token").Return(claims, nil)
		s.revocation.EXPECT().IsRevoked(gomock.Any(), "jti-123").Return(true, nil)

		handler, _ := s.protect()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer revoked-token")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("revocation check failure is internal", func() {
		s.validator.EXPECT().ValidateToken("some-token").Return(claims, nil)
		s.revocation.EXPECT().IsRevoked(gomock.Any(), "jti-123").Return(false, errors.New("redis down"))

		handler, _ := s.protect()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal")
	})

	s.Run("valid token injects identity into the context", func() {
		s.validator.EXPECT().ValidateToken("good-token").Return(claims, nil)
		s.revocation.EXPECT().IsRevoked(gomock.Any(), "jti-123").Return(false, nil)

		handler, seen := s.protect()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := testutil.DoRequest(handler, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(claims.UserID, seen.UserID)
		s.Equal(id.RoleUser, seen.Role)
		s.Equal("jti-123", seen.JTI)
		s.Equal(42*time.Minute, seen.TokenTTL)
	})

	s.Run("nil revocation checker skips the lookup", func() {
		s.validator.EXPECT().ValidateToken("good-token").Return(claims, nil)

		mw := middleware.RequireAuth(s.validator, nil, slog.Default())
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})
}

func (s *AuthMiddlewareSuite) TestRequireAdmin() {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireAdmin(slog.Default())(next)

	s.Run("admin role passes", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = testutil.WithUser(req, id.NewUserID().String(), id.RoleAdmin)
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("user role is forbidden", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = testutil.WithUser(req, id.NewUserID().String(), id.RoleUser)
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("missing role is forbidden", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
	})
}
