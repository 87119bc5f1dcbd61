package domain

import (
	"strings"
	"time"
)

// TokenTypeAccess is the token type claim value required for OAuth2 access tokens.
const TokenTypeAccess = "access_token"

// TokenInfo is the decoded, validated view of a bearer token. It is produced
// either from local signature validation or from a remote introspection
// response.
type TokenInfo struct {
	// Subject is the token's sub claim.
	Subject string
	// UserID is the user ID claim, empty when the token carries none.
	UserID string
	// ClientID is the OAuth2 client the token was issued to.
	ClientID string
	// TokenType is the token type claim ("access_token" for OAuth2 tokens).
	TokenType string
	// Scopes are the granted OAuth2 scopes.
	Scopes []string
	// Roles are the raw role claim values.
	Roles []string
	// IssuedAt is the iat claim, zero when absent.
	IssuedAt time.Time
	// ExpiresAt is the exp claim, zero when absent.
	ExpiresAt time.Time
}

// IsServiceToken reports whether the token identifies a client-credentials
// service token: an access token bound to a client where the subject is
// either absent or equal to the client ID.
func (t *TokenInfo) IsServiceToken() bool {
	if t.TokenType != TokenTypeAccess || t.ClientID == "" {
		return false
	}
	return t.Subject == "" || t.Subject == t.ClientID
}

// IntrospectionResult is the authorization server's answer for a single
// token, as defined by RFC 7662. Inactive results are cached alongside
// active ones so repeated probes with a revoked token stay cheap.
type IntrospectionResult struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Subject   string `json:"sub,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
}

// TokenInfo converts an active introspection result into the common token
// view. Callers must check Active first.
func (r *IntrospectionResult) TokenInfo() *TokenInfo {
	info := &TokenInfo{
		Subject:   r.Subject,
		UserID:    r.UserID,
		ClientID:  r.ClientID,
		TokenType: r.TokenType,
		Scopes:    SplitScopes(r.Scope),
	}
	if info.TokenType == "" {
		info.TokenType = TokenTypeAccess
	}
	if r.IssuedAt > 0 {
		info.IssuedAt = time.Unix(r.IssuedAt, 0)
	}
	if r.ExpiresAt > 0 {
		info.ExpiresAt = time.Unix(r.ExpiresAt, 0)
	}
	return info
}

// UserDetails is the resolved identity used to build user principals.
type UserDetails struct {
	Username    string
	UserID      string
	Authorities []string
}

// SplitScopes splits a space-separated scope string, dropping empty entries.
func SplitScopes(scope string) []string {
	if scope == "" {
		return nil
	}
	return strings.Fields(scope)
}
