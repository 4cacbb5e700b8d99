// Package auth issues and validates the bearer tokens that identify a
// learner profile to the HTTP API.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenTypeAccess marks tokens accepted by the API.
const TokenTypeAccess = "access"

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the profile.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, profileID uuid.UUID) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns the claims if the token is valid, or an error if validation
	// fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// ProfileID is the learner profile the token was issued for.
	ProfileID uuid.UUID `json:"pid,omitempty"`

	// TokenType indicates the purpose of the token.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
