package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
)

// serviceName identifies the upstream in ExternalServiceError values.
const serviceName = "oauth2-service"

// tokenExpiryBuffer is subtracted from the advertised token lifetime so a
// token is refreshed before it expires mid-request downstream.
const tokenExpiryBuffer = 30 * time.Second

// TokenSource yields an access token for outbound service-to-service calls.
// Satisfied by *Client.
type TokenSource interface {
	ServiceAccessToken(ctx context.Context) (string, error)
}

// ClientConfig holds the settings for the authorization server client.
type ClientConfig struct {
	// BaseURL is the authorization server's base URL, without trailing slash.
	BaseURL string
	// TokenPath is the client-credentials token endpoint path.
	TokenPath string
	// IntrospectionPath is the token introspection endpoint path.
	IntrospectionPath string
	// UserInfoPath is the userinfo endpoint path.
	UserInfoPath string
	// ClientID and ClientSecret identify this service to the server.
	ClientID     string
	ClientSecret string
	// Scopes is the space-separated scope list requested for service tokens.
	Scopes string
	// Timeout bounds every request to the authorization server.
	Timeout time.Duration
}

// Client calls the external authorization server. It holds one cached
// service access token, refreshed lazily with single-flight so concurrent
// callers racing past expiry trigger exactly one refresh, and fronts
// introspection with an injected cache.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	cache      *IntrospectionCache
	logger     *slog.Logger

	group singleflight.Group

	mu             sync.RWMutex
	serviceToken   string
	tokenExpiresAt time.Time
}

// NewClient creates an authorization server client.
func NewClient(cfg ClientConfig, cache *IntrospectionCache, logger *slog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
		logger:     logger,
	}
}

// ServiceAccessToken returns a client-credentials access token, reusing the
// cached one until it is within tokenExpiryBuffer of expiry.
func (c *Client) ServiceAccessToken(ctx context.Context) (string, error) {
	if token, ok := c.cachedToken(); ok {
		return token, nil
	}

	v, err, _ := c.group.Do("service_token", func() (any, error) {
		// Another caller may have refreshed while we waited for the flight.
		if token, ok := c.cachedToken(); ok {
			return token, nil
		}
		return c.requestToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// IntrospectToken asks the authorization server whether the token is active.
// Cached results, active or not, are returned without a network call. A
// failed call never populates the cache.
func (c *Client) IntrospectToken(ctx context.Context, token string) (*domain.IntrospectionResult, error) {
	if token == "" {
		return nil, domain.ErrEmptyToken
	}

	if result, ok := c.cache.Get(token); ok {
		return result, nil
	}

	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", domain.TokenTypeAccess)

	result := &domain.IntrospectionResult{}
	if err := c.postForm(ctx, c.cfg.IntrospectionPath, form, true, result); err != nil {
		return nil, &domain.ExternalServiceError{Service: serviceName, Operation: "introspect", Err: err}
	}

	c.cache.Put(token, result)
	return result, nil
}

// UserInfo fetches the identity behind an access token.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	if accessToken == "" {
		return nil, domain.ErrEmptyToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+c.cfg.UserInfoPath, nil)
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: serviceName, Operation: "userinfo", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	info := &UserInfo{}
	if err := c.do(req, info); err != nil {
		return nil, &domain.ExternalServiceError{Service: serviceName, Operation: "userinfo", Err: err}
	}
	return info, nil
}

// cachedToken returns the cached service token when it is still comfortably
// within its lifetime.
func (c *Client) cachedToken() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.serviceToken == "" {
		return "", false
	}
	if time.Now().After(c.tokenExpiresAt.Add(-tokenExpiryBuffer)) {
		return "", false
	}
	return c.serviceToken, true
}

// requestToken performs the client-credentials grant and stores the result.
func (c *Client) requestToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	if c.cfg.Scopes != "" {
		form.Set("scope", c.cfg.Scopes)
	}

	tokenResp := &TokenResponse{}
	if err := c.postForm(ctx, c.cfg.TokenPath, form, false, tokenResp); err != nil {
		return "", &domain.ExternalServiceError{Service: serviceName, Operation: "token", Err: err}
	}
	if tokenResp.AccessToken == "" {
		return "", &domain.ExternalServiceError{
			Service:   serviceName,
			Operation: "token",
			Err:       fmt.Errorf("response contains no access token"),
		}
	}

	c.mu.Lock()
	c.serviceToken = tokenResp.AccessToken
	c.tokenExpiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	c.mu.Unlock()

	c.logger.Debug("acquired service access token",
		slog.Int64("expires_in", tokenResp.ExpiresIn),
	)
	return tokenResp.AccessToken, nil
}

// postForm sends a form-encoded POST and decodes the JSON response into out.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, basicAuth bool, out any) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.cfg.BaseURL+path, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if basicAuth {
		req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	}
	return c.do(req, out)
}

// do executes the request and decodes the response. Non-2xx statuses and
// empty bodies are failures.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
