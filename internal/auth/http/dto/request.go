// Package dto contains request and response payloads for the authentication
// endpoints.
package dto

import (
	"github.com/jellydator/validation"

	appvalidation "github.com/Recipe-Web-App/recipe-management-service/internal/validation"
)

// IssueTokenRequest is the payload for requesting a locally issued token.
type IssueTokenRequest struct {
	// Subject is the identity the token is issued for.
	Subject string `json:"subject"`
	// Roles are the role claims to embed in the token.
	Roles []string `json:"roles,omitempty"`
}

// Validate validates the request fields.
func (r IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Subject, validation.Required, appvalidation.NoWhitespace, validation.Length(1, 255)),
		validation.Field(&r.Roles, validation.Each(validation.Required, validation.Length(1, 64))),
	)
}
