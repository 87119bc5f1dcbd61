package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/oauth2"
	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/service"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
)

// authUseCase implements AuthUseCase on top of the token codec and the
// authorization server client.
type authUseCase struct {
	codec      service.TokenCodec
	oauth2     *oauth2.Client
	expiration time.Duration
	logger     *slog.Logger
}

// NewAuthUseCase creates the authentication use case. The oauth2 client may
// be nil when the OAuth2 integration is disabled; UserInfo then fails with
// ErrUnavailable.
func NewAuthUseCase(
	codec service.TokenCodec,
	client *oauth2.Client,
	expiration time.Duration,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		codec:      codec,
		oauth2:     client,
		expiration: expiration,
		logger:     logger,
	}
}

// IssueToken issues a signed token carrying the subject and roles.
func (u *authUseCase) IssueToken(ctx context.Context, subject string, roles []string) (*IssuedToken, error) {
	claims := map[string]any{}
	if len(roles) > 0 {
		claims["roles"] = roles
	}

	token, err := u.codec.GenerateToken(subject, claims)
	if err != nil {
		return nil, err
	}

	u.logger.Info("issued token",
		slog.String("subject", subject),
		slog.Int("roles", len(roles)),
	)

	return &IssuedToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(u.expiration.Seconds()),
	}, nil
}

// UserInfo fetches the identity behind an access token.
func (u *authUseCase) UserInfo(ctx context.Context, accessToken string) (*oauth2.UserInfo, error) {
	if accessToken == "" {
		return nil, domain.ErrEmptyToken
	}
	if u.oauth2 == nil {
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, "oauth2 integration is disabled")
	}
	return u.oauth2.UserInfo(ctx, accessToken)
}
