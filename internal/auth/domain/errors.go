package domain

import (
	"fmt"

	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
)

// Domain-specific authentication errors.
var (
	// ErrEmptyToken indicates a token operation was called with an empty token.
	ErrEmptyToken = apperrors.Wrap(apperrors.ErrInvalidInput, "token is empty")

	// ErrMalformedToken indicates the token could not be parsed or its
	// signature did not verify.
	ErrMalformedToken = apperrors.Wrap(apperrors.ErrUnauthorized, "malformed token")

	// ErrUserNotFound indicates the username could not be resolved to an identity.
	ErrUserNotFound = apperrors.Wrap(apperrors.ErrNotFound, "user not found")
)

// ExternalServiceError reports a failed call to the authorization server.
// It wraps ErrUnavailable so handlers map it to 503.
type ExternalServiceError struct {
	// Service is the logical upstream name (e.g. "oauth2-service").
	Service string
	// Operation is the call that failed (e.g. "introspect").
	Operation string
	// Err is the underlying transport or decode error.
	Err error
}

// Error implements the error interface.
func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap exposes ErrUnavailable and the underlying cause to errors.Is/As.
func (e *ExternalServiceError) Unwrap() []error {
	return []error{apperrors.ErrUnavailable, e.Err}
}
