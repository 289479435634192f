package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// accessTokenType is the value of the type claim on access tokens. Refresh
// tokens are opaque database rows, not JWTs, so only one type exists here;
// the claim stays so a refresh credential pasted into an Authorization
// header can never validate.
const accessTokenType = "access"

// Claims are the registered claims plus the token type.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
}

// JWTService issues and validates access tokens.
type JWTService interface {
	// GenerateAccessToken returns a signed access token for the user.
	GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateAccessToken verifies the token and returns the user ID it was
	// issued for. Returns ErrExpiredToken, ErrWrongTokenType, or
	// ErrInvalidToken on failure.
	ValidateAccessToken(ctx context.Context, tokenString string) (uuid.UUID, error)
}
