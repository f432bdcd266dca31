package testutil

import (
	"net/http"
	"time"

	id "complio/pkg/domain"
	"complio/pkg/requestcontext"
)

// WithUser injects an authenticated identity into the request context,
// simulating what RequireAuth would do. Invalid user IDs are silently
// ignored so tests can exercise the unauthenticated path.
func WithUser(req *http.Request, userID string, role id.Role) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseUserID(userID); err == nil {
		ctx = requestcontext.WithUserID(ctx, parsed)
	}
	ctx = requestcontext.WithRole(ctx, role)
	return req.WithContext(ctx)
}

// WithTokenID injects a token jti, simulating a request carrying a bearer
// token. Used by logout tests.
func WithTokenID(req *http.Request, jti string) *http.Request {
	return req.WithContext(requestcontext.WithTokenID(req.Context(), jti))
}

// WithTime pins the request-scoped clock so expiry classification is
// deterministic.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID injects a request ID for log assertions.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
