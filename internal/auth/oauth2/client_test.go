package oauth2

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
)

func newTestClient(serverURL string) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := NewIntrospectionCache(time.Minute, time.Minute, 100)
	return NewClient(ClientConfig{
		BaseURL:           serverURL,
		TokenPath:         "/oauth2/token",
		IntrospectionPath: "/oauth2/introspect",
		UserInfoPath:      "/oauth2/userinfo",
		ClientID:          "recipe-service",
		ClientSecret:      "recipe-secret",
		Scopes:            "recipes.read recipes.write",
		Timeout:           5 * time.Second,
	}, cache, logger)
}

func TestServiceAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("acquires token with client credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/oauth2/token", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			assert.Equal(t, "recipe-service", r.PostForm.Get("client_id"))
			assert.Equal(t, "recipe-secret", r.PostForm.Get("client_secret"))
			assert.Equal(t, "recipes.read recipes.write", r.PostForm.Get("scope"))

			_ = json.NewEncoder(w).Encode(TokenResponse{
				AccessToken: "service-token",
				TokenType:   "Bearer",
				ExpiresIn:   3600,
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		token, err := client.ServiceAccessToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "service-token", token)
	})

	t.Run("reuses cached token until near expiry", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "service-token", ExpiresIn: 3600})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		for i := 0; i < 5; i++ {
			_, err := client.ServiceAccessToken(ctx)
			require.NoError(t, err)
		}
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("token within expiry buffer is refreshed", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			// Advertised lifetime shorter than the refresh buffer
			_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "short-token", ExpiresIn: 10})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.ServiceAccessToken(ctx)
		require.NoError(t, err)
		_, err = client.ServiceAccessToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("concurrent callers trigger one refresh", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			time.Sleep(20 * time.Millisecond)
			_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "service-token", ExpiresIn: 3600})
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				token, err := client.ServiceAccessToken(ctx)
				assert.NoError(t, err)
				assert.Equal(t, "service-token", token)
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("empty access token is a failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: ""})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.ServiceAccessToken(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	})

	t.Run("non-2xx status is a failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.ServiceAccessToken(ctx)
		require.Error(t, err)

		var extErr *domain.ExternalServiceError
		require.ErrorAs(t, err, &extErr)
		assert.Equal(t, "oauth2-service", extErr.Service)
		assert.Equal(t, "token", extErr.Operation)
	})
}

func TestIntrospectToken(t *testing.T) {
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		client := newTestClient("http://localhost:0")
		_, err := client.IntrospectToken(ctx, "")
		assert.ErrorIs(t, err, domain.ErrEmptyToken)
	})

	t.Run("posts form with basic auth", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/oauth2/introspect", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "recipe-service", user)
			assert.Equal(t, "recipe-secret", pass)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "the-token", r.PostForm.Get("token"))
			assert.Equal(t, "access_token", r.PostForm.Get("token_type_hint"))

			_ = json.NewEncoder(w).Encode(domain.IntrospectionResult{Active: true, ClientID: "web-app"})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		result, err := client.IntrospectToken(ctx, "the-token")
		require.NoError(t, err)
		assert.True(t, result.Active)
		assert.Equal(t, "web-app", result.ClientID)
	})

	t.Run("serves repeated lookups from cache", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_ = json.NewEncoder(w).Encode(domain.IntrospectionResult{Active: true})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		for i := 0; i < 3; i++ {
			_, err := client.IntrospectToken(ctx, "cached-token")
			require.NoError(t, err)
		}
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("inactive results are cached", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_ = json.NewEncoder(w).Encode(domain.IntrospectionResult{Active: false})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		for i := 0; i < 3; i++ {
			result, err := client.IntrospectToken(ctx, "revoked-token")
			require.NoError(t, err)
			assert.False(t, result.Active)
		}
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("transport failures are not cached", func(t *testing.T) {
		var calls atomic.Int64
		var failing atomic.Bool
		failing.Store(true)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if failing.Load() {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_ = json.NewEncoder(w).Encode(domain.IntrospectionResult{Active: true})
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		_, err := client.IntrospectToken(ctx, "flaky-token")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)

		// The next call retries instead of serving the failure from cache
		failing.Store(false)
		result, err := client.IntrospectToken(ctx, "flaky-token")
		require.NoError(t, err)
		assert.True(t, result.Active)
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("empty response body is a failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.IntrospectToken(ctx, "the-token")
		require.Error(t, err)
	})
}

func TestUserInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		client := newTestClient("http://localhost:0")
		_, err := client.UserInfo(ctx, "")
		assert.ErrorIs(t, err, domain.ErrEmptyToken)
	})

	t.Run("sends bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/oauth2/userinfo", r.URL.Path)
			assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

			_ = json.NewEncoder(w).Encode(UserInfo{
				Subject: "alice",
				Name:    "Alice",
				Email:   "alice@example.com",
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		info, err := client.UserInfo(ctx, "user-token")
		require.NoError(t, err)
		assert.Equal(t, "alice", info.Subject)
		assert.Equal(t, "alice@example.com", info.Email)
	})

	t.Run("unauthorized status is a failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.UserInfo(ctx, "bad-token")
		require.Error(t, err)

		var extErr *domain.ExternalServiceError
		require.ErrorAs(t, err, &extErr)
		assert.Equal(t, "userinfo", extErr.Operation)
	})
}
