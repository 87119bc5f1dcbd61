// Package usecase contains authentication use cases: resolving identities
// from validated tokens and serving the token issuance endpoints.
package usecase

import (
	"context"

	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/oauth2"
)

// IdentityResolver turns a validated token or username into the identity
// used to build user principals.
type IdentityResolver interface {
	// ResolveFromToken extracts the identity carried by a verified token.
	ResolveFromToken(token string) (*domain.UserDetails, error)
	// ResolveUsername resolves a bare username into an identity.
	ResolveUsername(username string) (*domain.UserDetails, error)
}

// AuthUseCase serves the authentication endpoints: local token issuance and
// userinfo lookup against the authorization server.
type AuthUseCase interface {
	// IssueToken issues a signed token for the subject with the given roles.
	IssueToken(ctx context.Context, subject string, roles []string) (*IssuedToken, error)
	// UserInfo fetches the identity behind an access token from the
	// authorization server.
	UserInfo(ctx context.Context, accessToken string) (*oauth2.UserInfo, error)
}

// IssuedToken is the result of a successful token issuance.
type IssuedToken struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}
