package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
)

// mockTokenCodec is a testify mock of service.TokenCodec.
type mockTokenCodec struct {
	mock.Mock
}

func (m *mockTokenCodec) GenerateToken(subject string, claims map[string]any) (string, error) {
	args := m.Called(subject, claims)
	return args.String(0), args.Error(1)
}

func (m *mockTokenCodec) ExtractUsername(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *mockTokenCodec) ExtractRoles(token string) ([]string, error) {
	args := m.Called(token)
	roles, _ := args.Get(0).([]string)
	return roles, args.Error(1)
}

func (m *mockTokenCodec) ExtractUserID(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *mockTokenCodec) IsTokenValid(token string) bool {
	return m.Called(token).Bool(0)
}

func (m *mockTokenCodec) TimeUntilExpiration(token string) time.Duration {
	return m.Called(token).Get(0).(time.Duration)
}

func (m *mockTokenCodec) ValidateToken(ctx context.Context, token string) (*authDomain.TokenInfo, error) {
	args := m.Called(ctx, token)
	info, _ := args.Get(0).(*authDomain.TokenInfo)
	return info, args.Error(1)
}

// mockIdentityResolver is a testify mock of usecase.IdentityResolver.
type mockIdentityResolver struct {
	mock.Mock
}

func (m *mockIdentityResolver) ResolveFromToken(token string) (*authDomain.UserDetails, error) {
	args := m.Called(token)
	details, _ := args.Get(0).(*authDomain.UserDetails)
	return details, args.Error(1)
}

func (m *mockIdentityResolver) ResolveUsername(username string) (*authDomain.UserDetails, error) {
	args := m.Called(username)
	details, _ := args.Get(0).(*authDomain.UserDetails)
	return details, args.Error(1)
}

// newStageContext builds a gin context carrying the given request headers.
func newStageContext(t *testing.T, headers map[string]string) *gin.Context {
	t.Helper()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	for key, value := range headers {
		c.Request.Header.Set(key, value)
	}
	return c
}

func TestDevHeaderStage(t *testing.T) {
	stage := NewDevHeaderStage()
	assert.Equal(t, StageDevHeader, stage.Name)

	t.Run("valid user id header", func(t *testing.T) {
		userID := uuid.New()
		c := newStageContext(t, map[string]string{HeaderUserID: userID.String()})

		principal, err := stage.Authenticate(c)

		require.NoError(t, err)
		require.NotNil(t, principal)
		assert.Equal(t, authDomain.PrincipalKindUser, principal.Kind)
		assert.Equal(t, userID, principal.UserID)
		assert.Equal(t, userID.String(), principal.Name)
		assert.Equal(t, []string{authDomain.AuthorityUser}, principal.Authorities)
	})

	t.Run("missing header declines", func(t *testing.T) {
		principal, err := stage.Authenticate(newStageContext(t, nil))

		require.NoError(t, err)
		assert.Nil(t, principal)
	})

	t.Run("malformed user id fails", func(t *testing.T) {
		c := newStageContext(t, map[string]string{HeaderUserID: "not-a-uuid"})

		principal, err := stage.Authenticate(c)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Nil(t, principal)
	})
}

func TestServiceSecretStage(t *testing.T) {
	const secret = "shared-service-secret"
	stage := NewServiceSecretStage(secret)
	assert.Equal(t, StageServiceSecret, stage.Name)

	t.Run("matching secret with service name", func(t *testing.T) {
		c := newStageContext(t, map[string]string{
			HeaderServiceAuth: secret,
			HeaderServiceName: "meal-planner",
		})

		principal, err := stage.Authenticate(c)

		require.NoError(t, err)
		require.NotNil(t, principal)
		assert.Equal(t, authDomain.PrincipalKindService, principal.Kind)
		assert.Equal(t, "service-meal-planner", principal.Name)
		assert.Equal(t, []string{authDomain.AuthorityService}, principal.Authorities)
	})

	t.Run("missing service name defaults to unknown", func(t *testing.T) {
		c := newStageContext(t, map[string]string{HeaderServiceAuth: secret})

		principal, err := stage.Authenticate(c)

		require.NoError(t, err)
		require.NotNil(t, principal)
		assert.Equal(t, "service-unknown", principal.Name)
	})

	t.Run("missing header declines", func(t *testing.T) {
		principal, err := stage.Authenticate(newStageContext(t, nil))

		require.NoError(t, err)
		assert.Nil(t, principal)
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		c := newStageContext(t, map[string]string{HeaderServiceAuth: "wrong"})

		principal, err := stage.Authenticate(c)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Nil(t, principal)
	})

	t.Run("unconfigured secret fails", func(t *testing.T) {
		unconfigured := NewServiceSecretStage("")
		c := newStageContext(t, map[string]string{HeaderServiceAuth: "anything"})

		principal, err := unconfigured.Authenticate(c)

		require.Error(t, err)
		assert.Nil(t, principal)
	})
}

func TestServiceTokenStage(t *testing.T) {
	serviceToken := &authDomain.TokenInfo{
		ClientID:  "recipe-scraper",
		TokenType: authDomain.TokenTypeAccess,
	}

	t.Run("valid service token", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("ValidateToken", mock.Anything, "svc-token").Return(serviceToken, nil)
		stage := NewServiceTokenStage(codec)
		assert.Equal(t, StageServiceToken, stage.Name)

		c := newStageContext(t, map[string]string{"Authorization": "Bearer svc-token"})
		principal, err := stage.Authenticate(c)

		require.NoError(t, err)
		require.NotNil(t, principal)
		assert.Equal(t, authDomain.PrincipalKindService, principal.Kind)
		assert.Equal(t, "service-recipe-scraper", principal.Name)
		codec.AssertExpectations(t)
	})

	t.Run("explicit service name overrides client id", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("ValidateToken", mock.Anything, "svc-token").Return(serviceToken, nil)
		stage := NewServiceTokenStage(codec)

		c := newStageContext(t, map[string]string{
			"Authorization":   "Bearer svc-token",
			HeaderServiceName: "media-service",
		})
		principal, err := stage.Authenticate(c)

		require.NoError(t, err)
		require.NotNil(t, principal)
		assert.Equal(t, "service-media-service", principal.Name)
	})

	t.Run("user token declines to the next stage", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("ValidateToken", mock.Anything, "user-token").Return(&authDomain.TokenInfo{
			Subject:   "alice",
			ClientID:  "recipe-web",
			TokenType: authDomain.TokenTypeAccess,
		}, nil)
		stage := NewServiceTokenStage(codec)

		c := newStageContext(t, map[string]string{"Authorization": "Bearer user-token"})
		principal, err := stage.Authenticate(c)

		require.NoError(t, err)
		assert.Nil(t, principal)
	})

	t.Run("no bearer token declines", func(t *testing.T) {
		codec := &mockTokenCodec{}
		stage := NewServiceTokenStage(codec)

		principal, err := stage.Authenticate(newStageContext(t, nil))

		require.NoError(t, err)
		assert.Nil(t, principal)
		codec.AssertNotCalled(t, "ValidateToken")
	})

	t.Run("validation failure propagates", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("ValidateToken", mock.Anything, "bad-token").Return(nil, authDomain.ErrMalformedToken)
		stage := NewServiceTokenStage(codec)

		c := newStageContext(t, map[string]string{"Authorization": "Bearer bad-token"})
		principal, err := stage.Authenticate(c)

		require.ErrorIs(t, err, authDomain.ErrMalformedToken)
		assert.Nil(t, principal)
	})
}

func TestUserTokenStage(t *testing.T) {
	userID := uuid.New()
	details := &authDomain.UserDetails{
		Username:    "alice",
		UserID:      userID.String(),
		Authorities: []string{authDomain.AuthorityUser, authDomain.AuthorityAdmin},
	}

	t.Run("valid user token", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("ValidateToken", mock.Anything, "user-token").Return(&authDomain.TokenInfo{Subject: "alice"}, nil)
		resolver := &mockIdentityResolver{}
		resolver.On("ResolveFromToken", "user-token").Return(details, nil)
		stage := NewUserTokenStage(codec, resolver)
		assert.Equal(t, StageUserToken, stage.Name)

		c := newStageContext(t, map[string]string{"Authorization": "Bearer user-token"})
		principal, err := stage.Authenticate(c)

		require.NoError(t, err)
		require.NotNil(t, principal)
		assert.Equal(t, authDomain.PrincipalKindUser, principal.Kind)
		assert.Equal(t, userID, principal.UserID)
		assert.Equal(t, "alice", principal.Name)
		assert.Equal(t, details.Authorities, principal.Authorities)
	})

	t.Run("non-uuid user id claim yields zero user id", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("ValidateToken", mock.Anything, "legacy-token").Return(&authDomain.TokenInfo{Subject: "bob"}, nil)
		resolver := &mockIdentityResolver{}
		resolver.On("ResolveFromToken", "legacy-token").Return(&authDomain.UserDetails{
			Username: "bob",
			UserID:   "bob",
		}, nil)
		stage := NewUserTokenStage(codec, resolver)

		c := newStageContext(t, map[string]string{"Authorization": "Bearer legacy-token"})
		principal, err := stage.Authenticate(c)

		require.NoError(t, err)
		require.NotNil(t, principal)
		assert.Equal(t, uuid.Nil, principal.UserID)
		assert.Equal(t, "bob", principal.Name)
	})

	t.Run("no bearer token declines", func(t *testing.T) {
		stage := NewUserTokenStage(&mockTokenCodec{}, &mockIdentityResolver{})

		principal, err := stage.Authenticate(newStageContext(t, nil))

		require.NoError(t, err)
		assert.Nil(t, principal)
	})

	t.Run("validation failure propagates without resolving", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("ValidateToken", mock.Anything, "expired-token").Return(nil, authDomain.ErrMalformedToken)
		resolver := &mockIdentityResolver{}
		stage := NewUserTokenStage(codec, resolver)

		c := newStageContext(t, map[string]string{"Authorization": "Bearer expired-token"})
		principal, err := stage.Authenticate(c)

		require.ErrorIs(t, err, authDomain.ErrMalformedToken)
		assert.Nil(t, principal)
		resolver.AssertNotCalled(t, "ResolveFromToken")
	})

	t.Run("resolver failure propagates", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("ValidateToken", mock.Anything, "user-token").Return(&authDomain.TokenInfo{Subject: "alice"}, nil)
		resolver := &mockIdentityResolver{}
		resolver.On("ResolveFromToken", "user-token").Return(nil, authDomain.ErrUserNotFound)
		stage := NewUserTokenStage(codec, resolver)

		c := newStageContext(t, map[string]string{"Authorization": "Bearer user-token"})
		principal, err := stage.Authenticate(c)

		require.ErrorIs(t, err, authDomain.ErrUserNotFound)
		assert.Nil(t, principal)
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "standard casing", header: "Bearer abc123", want: "abc123"},
		{name: "lowercase scheme", header: "bearer abc123", want: "abc123"},
		{name: "mixed casing", header: "BEARER abc123", want: "abc123"},
		{name: "surrounding whitespace trimmed", header: "Bearer   abc123  ", want: "abc123"},
		{name: "missing header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic abc123", want: ""},
		{name: "scheme only", header: "Bearer", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			assert.Equal(t, tt.want, bearerToken(newStageContext(t, headers)))
		})
	}
}
