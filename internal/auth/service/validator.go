package service

import (
	"time"

	"complio/internal/jwttoken"
	"complio/internal/platform/middleware"
	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
)

// TokenValidator adapts the JWT service to the middleware's validator port,
// translating string claims into typed identifiers.
type TokenValidator struct {
	tokens *jwttoken.JWTService
}

func NewTokenValidator(tokens *jwttoken.JWTService) *TokenValidator {
	return &TokenValidator{tokens: tokens}
}

func (v *TokenValidator) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := v.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	role, err := id.ParseRole(claims.Role)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return &middleware.JWTClaims{
		UserID:   userID,
		Role:     role,
		JTI:      claims.ID,
		TokenTTL: claims.RemainingTTL(time.Now()),
	}, nil
}
