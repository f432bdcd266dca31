// Package service implements login, logout, and identity lookup on top of
// the user directory, the JWT token service, and the revocation list.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"complio/internal/audit"
	"complio/internal/auth/device"
	"complio/internal/auth/store/revocation"
	"complio/internal/directory"
	"complio/internal/jwttoken"
	dErrors "complio/pkg/domain-errors"
	"complio/pkg/platform/sentinel"
	"complio/pkg/requestcontext"
)

// Service authenticates directory users and manages token lifecycle.
type Service struct {
	users    directory.Store
	tokens   *jwttoken.JWTService
	trl      revocation.TokenRevocationList
	audit    audit.Publisher
	logger   *slog.Logger
	tokenTTL time.Duration
}

// Option configures optional collaborators.
type Option func(*Service)

// WithAuditPublisher attaches an audit sink for login and logout events.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// New constructs the auth service.
func New(users directory.Store, tokens *jwttoken.JWTService, trl revocation.TokenRevocationList, tokenTTL time.Duration, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		users:    users,
		tokens:   tokens,
		trl:      trl,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Login verifies the credentials and mints an access token. Unknown emails
// and wrong passwords produce the same error so the endpoint cannot be used
// to probe for accounts.
func (s *Service) Login(ctx context.Context, email, password string) (string, *directory.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "login failed")
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}
	if !user.IsActive() {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "account is disabled")
	}

	token, jti, err := s.tokens.GenerateAccessToken(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	clientDevice := device.ParseUserAgent(requestcontext.UserAgent(ctx))
	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.ID,
		"device", clientDevice,
		"jti", jti,
	)
	s.publish(ctx, audit.Event{
		Action:    audit.ActionLogin,
		ActorID:   user.ID,
		SubjectID: user.ID,
		Notes:     clientDevice,
	})
	return token, user, nil
}

// Logout revokes the presented token's jti for its remaining lifetime as
// recorded at validation. The full configured TTL is the fallback upper
// bound when the context carries no lifetime.
func (s *Service) Logout(ctx context.Context) error {
	jti := requestcontext.TokenID(ctx)
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no token to revoke")
	}
	ttl := requestcontext.TokenTTL(ctx)
	if ttl <= 0 {
		ttl = s.tokenTTL
	}
	if err := s.trl.RevokeToken(ctx, jti, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	actor := requestcontext.UserID(ctx)
	s.publish(ctx, audit.Event{
		Action:    audit.ActionLogout,
		ActorID:   actor,
		SubjectID: actor,
	})
	return nil
}

// Me returns the authenticated user's directory entry.
func (s *Service) Me(ctx context.Context) (*directory.User, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "user lookup failed")
	}
	return user, nil
}

func (s *Service) publish(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.ClientUA = requestcontext.UserAgent(ctx)
	if err := s.audit.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit publish failed",
			"action", event.Action,
			"error", err,
		)
	}
}
