package service

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims carries the verified identity extracted from a token.
type TokenClaims struct {
	UserID uuid.UUID // The user this token was issued to.
	Roles  []string  // Roles embedded in access tokens; nil for refresh tokens.
	Type   string    // "access" or "refresh".
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a given user.
	// Roles travel inside the access token for stateless authorization.
	GenerateTokens(userID uuid.UUID, roles []string) (accessToken string, refreshToken string, err error)

	// ValidateToken verifies a token's signature and expiry and returns its claims.
	ValidateToken(tokenString string) (*TokenClaims, error)

	// HashToken returns the hash under which a refresh token is stored. Only
	// the hash ever touches the database.
	HashToken(token string) string

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}
