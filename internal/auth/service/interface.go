// Package service contains authentication services: the JWT token codec used
// for issuing and validating bearer tokens.
package service

import (
	"context"
	"time"

	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
)

// TokenCodec issues and validates signed bearer tokens.
type TokenCodec interface {
	// GenerateToken issues a signed token for the subject with the given
	// extra claims merged in.
	GenerateToken(subject string, claims map[string]any) (string, error)
	// ExtractUsername returns the token's subject claim.
	ExtractUsername(token string) (string, error)
	// ExtractRoles returns the token's role claims. Malformed tokens yield
	// an empty slice, not an error.
	ExtractRoles(token string) ([]string, error)
	// ExtractUserID returns the token's user ID claim. Malformed tokens
	// yield an empty string, not an error.
	ExtractUserID(token string) (string, error)
	// IsTokenValid reports whether the token's signature verifies, it has
	// not expired, and any token type claim it carries marks it as an
	// access token.
	IsTokenValid(token string) bool
	// TimeUntilExpiration returns the remaining token lifetime, never negative.
	TimeUntilExpiration(token string) time.Duration
	// ValidateToken is the unified entry point used by the authentication
	// pipeline. It validates locally and, when introspection is enabled,
	// additionally requires the authorization server to report the token
	// active. Any failure yields an error, never a panic.
	ValidateToken(ctx context.Context, token string) (*domain.TokenInfo, error)
}

// TokenIntrospector asks the authorization server whether a token is active.
// Implemented by the OAuth2 client.
type TokenIntrospector interface {
	IntrospectToken(ctx context.Context, token string) (*domain.IntrospectionResult, error)
}
