package usecase

import (
	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/service"
)

// identityResolver builds identities from token claims. Usernames are taken
// at face value: the user service owns user records, this gateway only needs
// a stable identity and authority set per request.
type identityResolver struct {
	codec service.TokenCodec
}

// NewIdentityResolver creates an IdentityResolver backed by the token codec.
func NewIdentityResolver(codec service.TokenCodec) IdentityResolver {
	return &identityResolver{codec: codec}
}

// ResolveFromToken extracts username, user ID and roles from a verified token.
func (r *identityResolver) ResolveFromToken(token string) (*domain.UserDetails, error) {
	username, err := r.codec.ExtractUsername(token)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, domain.ErrUserNotFound
	}

	// Extraction errors beyond an empty token are absorbed by the codec.
	roles, err := r.codec.ExtractRoles(token)
	if err != nil {
		return nil, err
	}
	userID, err := r.codec.ExtractUserID(token)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		// Tokens issued before the user ID claim existed carry the ID as
		// the subject.
		userID = username
	}

	authorities := domain.AuthoritiesFromRoles(roles)
	if len(authorities) == 0 {
		authorities = []string{domain.AuthorityUser}
	}

	return &domain.UserDetails{
		Username:    username,
		UserID:      userID,
		Authorities: authorities,
	}, nil
}

// ResolveUsername resolves a bare username into an identity with the default
// user authority.
func (r *identityResolver) ResolveUsername(username string) (*domain.UserDetails, error) {
	if username == "" {
		return nil, domain.ErrUserNotFound
	}
	return &domain.UserDetails{
		Username:    username,
		UserID:      username,
		Authorities: []string{domain.AuthorityUser},
	}, nil
}
