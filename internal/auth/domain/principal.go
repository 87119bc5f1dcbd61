// Package domain contains the core authentication entities shared by the
// token codec, the OAuth2 client and the request authentication pipeline.
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// PrincipalKind distinguishes end users from calling services.
type PrincipalKind string

// Principal kinds.
const (
	PrincipalKindUser    PrincipalKind = "user"
	PrincipalKindService PrincipalKind = "service"
)

// Well-known authorities.
const (
	AuthorityUser    = "ROLE_USER"
	AuthorityAdmin   = "ROLE_ADMIN"
	AuthorityService = "ROLE_SERVICE"
)

// Principal is the authenticated identity attached to a request after the
// authentication pipeline accepts it. Exactly one principal is attached per
// request; later pipeline stages never replace it.
type Principal struct {
	// Kind reports whether this is an end user or a calling service.
	Kind PrincipalKind
	// UserID is the user's identifier. Zero for service principals and for
	// user tokens that carry no user ID claim.
	UserID uuid.UUID
	// Name is the principal's display name: the username or user ID for
	// users, "service-<name>" for services.
	Name string
	// Authorities are the granted authorities, normalized to ROLE_* form.
	Authorities []string
}

// NewUserPrincipal builds a user principal. When no authorities are given the
// principal gets AuthorityUser.
func NewUserPrincipal(userID uuid.UUID, name string, authorities []string) *Principal {
	if len(authorities) == 0 {
		authorities = []string{AuthorityUser}
	}
	return &Principal{
		Kind:        PrincipalKindUser,
		UserID:      userID,
		Name:        name,
		Authorities: authorities,
	}
}

// NewServicePrincipal builds a service principal named "service-<name>" with
// AuthorityService.
func NewServicePrincipal(name string) *Principal {
	return &Principal{
		Kind:        PrincipalKindService,
		Name:        "service-" + name,
		Authorities: []string{AuthorityService},
	}
}

// HasAuthority reports whether the principal holds the given authority.
func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// IsService reports whether the principal represents a calling service.
func (p *Principal) IsService() bool {
	return p.Kind == PrincipalKindService
}

// AuthorityFromRole converts a raw role claim value ("admin", "ROLE_ADMIN")
// into its normalized ROLE_* authority form.
func AuthorityFromRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		return ""
	}
	if strings.HasPrefix(role, "ROLE_") {
		return role
	}
	return "ROLE_" + role
}

// AuthoritiesFromRoles normalizes a list of raw role claim values, dropping
// empty entries.
func AuthoritiesFromRoles(roles []string) []string {
	authorities := make([]string, 0, len(roles))
	for _, r := range roles {
		if a := AuthorityFromRole(r); a != "" {
			authorities = append(authorities, a)
		}
	}
	return authorities
}
