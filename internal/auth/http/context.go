// Package http provides the request authentication pipeline and the
// authentication endpoints.
package http

import (
	"context"

	authDomain "github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// WithPrincipal stores the authenticated principal in the context.
// This is called by the authentication pipeline once a stage accepts the request.
func WithPrincipal(ctx context.Context, principal *authDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (principal, true) if one is present, or (nil, false) otherwise.
// This is typically called by handlers that need the caller's identity.
func GetPrincipal(ctx context.Context) (*authDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*authDomain.Principal)
	return principal, ok
}
