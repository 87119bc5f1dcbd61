package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
)

// JWTCodecConfig holds the settings for the HMAC token codec.
type JWTCodecConfig struct {
	// Secret is the HS256 signing key.
	Secret string
	// Expiration is the lifetime applied to issued tokens.
	Expiration time.Duration
	// IntrospectionEnabled requires ValidateToken to additionally confirm
	// the token with the authorization server.
	IntrospectionEnabled bool
}

// JWTCodec is the HS256 implementation of TokenCodec. When introspection is
// enabled, ValidateToken also requires the remote authorization server to
// report the token active.
type JWTCodec struct {
	cfg          JWTCodecConfig
	secret       []byte
	introspector TokenIntrospector
	parser       *jwt.Parser
	logger       *slog.Logger
}

// NewJWTCodec creates a token codec. The introspector may be nil when
// introspection is disabled.
func NewJWTCodec(cfg JWTCodecConfig, introspector TokenIntrospector, logger *slog.Logger) *JWTCodec {
	return &JWTCodec{
		cfg:          cfg,
		secret:       []byte(cfg.Secret),
		introspector: introspector,
		parser:       jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		logger:       logger,
	}
}

// GenerateToken issues a signed HS256 token for the subject. Extra claims are
// merged in before the registered sub/iat/exp claims, so callers cannot
// override those.
func (c *JWTCodec) GenerateToken(subject string, claims map[string]any) (string, error) {
	if subject == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "subject is empty")
	}
	if len(c.secret) == 0 {
		return "", apperrors.New("token signing key is not configured")
	}

	now := time.Now()
	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	mapClaims["sub"] = subject
	mapClaims["iat"] = now.Unix()
	mapClaims["exp"] = now.Add(c.cfg.Expiration).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// ExtractUsername returns the subject claim of a verified token.
func (c *JWTCodec) ExtractUsername(token string) (string, error) {
	claims, err := c.parseClaims(token)
	if err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}

// ExtractRoles returns the roles claim of a verified token. The claim may be
// a single string or a list; malformed or expired tokens yield an empty
// slice without an error.
func (c *JWTCodec) ExtractRoles(token string) ([]string, error) {
	if token == "" {
		return nil, domain.ErrEmptyToken
	}
	claims, err := c.parseClaims(token)
	if err != nil {
		return []string{}, nil
	}
	return rolesFromClaim(claims["roles"]), nil
}

// ExtractUserID returns the user ID claim of a verified token. Malformed or
// expired tokens yield an empty string without an error.
func (c *JWTCodec) ExtractUserID(token string) (string, error) {
	if token == "" {
		return "", domain.ErrEmptyToken
	}
	claims, err := c.parseClaims(token)
	if err != nil {
		return "", nil
	}
	userID, _ := claims["userId"].(string)
	return userID, nil
}

// IsTokenValid reports whether the token verifies locally: signature, expiry
// and, when a type claim is present, that it marks an access token.
func (c *JWTCodec) IsTokenValid(token string) bool {
	claims, err := c.parseClaims(token)
	if err != nil {
		return false
	}
	return tokenTypeOK(claims)
}

// TimeUntilExpiration returns the remaining token lifetime. Tokens without an
// exp claim, expired tokens and malformed tokens all yield zero.
func (c *JWTCodec) TimeUntilExpiration(token string) time.Duration {
	claims, err := c.parseClaims(token)
	if err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	remaining := time.Until(exp.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ValidateToken validates the token locally and, when introspection is
// enabled, additionally requires the authorization server to report it
// active. The introspection result fills in claims the local token lacks.
func (c *JWTCodec) ValidateToken(ctx context.Context, token string) (*domain.TokenInfo, error) {
	if token == "" {
		return nil, domain.ErrEmptyToken
	}

	claims, err := c.parseClaims(token)
	if err != nil {
		return nil, domain.ErrMalformedToken
	}
	if !tokenTypeOK(claims) {
		return nil, domain.ErrMalformedToken
	}
	info := tokenInfoFromClaims(claims)

	if c.cfg.IntrospectionEnabled && c.introspector != nil {
		result, err := c.introspector.IntrospectToken(ctx, token)
		if err != nil {
			c.logger.Warn("token introspection failed",
				slog.Any("error", err),
			)
			return nil, err
		}
		if !result.Active {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "token is not active")
		}
		mergeIntrospection(info, result)
	}

	return info, nil
}

// parseClaims verifies the token signature and registered claims.
func (c *JWTCodec) parseClaims(token string) (jwt.MapClaims, error) {
	if token == "" {
		return nil, domain.ErrEmptyToken
	}
	claims := jwt.MapClaims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, domain.ErrMalformedToken
	}
	return claims, nil
}

// tokenTypeOK accepts tokens without a type claim for backward compatibility
// with tokens issued before the claim existed.
func tokenTypeOK(claims jwt.MapClaims) bool {
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType == "" {
		return true
	}
	return tokenType == domain.TokenTypeAccess
}

func tokenInfoFromClaims(claims jwt.MapClaims) *domain.TokenInfo {
	info := &domain.TokenInfo{
		Roles: rolesFromClaim(claims["roles"]),
	}
	info.Subject, _ = claims["sub"].(string)
	info.UserID, _ = claims["userId"].(string)
	info.ClientID, _ = claims["client_id"].(string)
	info.TokenType, _ = claims["type"].(string)
	if scope, ok := claims["scope"].(string); ok {
		info.Scopes = domain.SplitScopes(scope)
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info
}

// mergeIntrospection fills claims the local token lacks from the remote result.
func mergeIntrospection(info *domain.TokenInfo, result *domain.IntrospectionResult) {
	if info.ClientID == "" {
		info.ClientID = result.ClientID
	}
	if info.Subject == "" {
		info.Subject = result.Subject
	}
	if info.UserID == "" {
		info.UserID = result.UserID
	}
	if len(info.Scopes) == 0 {
		info.Scopes = domain.SplitScopes(result.Scope)
	}
}

// rolesFromClaim normalizes a roles claim that may be a single string or a
// list of strings.
func rolesFromClaim(claim any) []string {
	switch v := claim.(type) {
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	case []any:
		roles := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				roles = append(roles, s)
			}
		}
		return roles
	case []string:
		return v
	default:
		return []string{}
	}
}
