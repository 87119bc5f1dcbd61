package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
)

func newTestAuthUseCase(codec *mockTokenCodec) AuthUseCase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthUseCase(codec, nil, time.Hour, logger)
}

func TestIssueToken(t *testing.T) {
	t.Run("with roles", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("GenerateToken", "alice", map[string]any{"roles": []string{"user", "admin"}}).
			Return("signed-token", nil)

		token, err := newTestAuthUseCase(codec).IssueToken(context.Background(), "alice", []string{"user", "admin"})

		require.NoError(t, err)
		assert.Equal(t, "signed-token", token.AccessToken)
		assert.Equal(t, "Bearer", token.TokenType)
		assert.Equal(t, int64(3600), token.ExpiresIn)
		codec.AssertExpectations(t)
	})

	t.Run("without roles omits the claim", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("GenerateToken", "alice", map[string]any{}).Return("signed-token", nil)

		token, err := newTestAuthUseCase(codec).IssueToken(context.Background(), "alice", nil)

		require.NoError(t, err)
		assert.Equal(t, "signed-token", token.AccessToken)
		codec.AssertExpectations(t)
	})

	t.Run("codec failure propagates", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("GenerateToken", "", map[string]any{}).Return("", domain.ErrEmptyToken)

		token, err := newTestAuthUseCase(codec).IssueToken(context.Background(), "", nil)

		assert.ErrorIs(t, err, domain.ErrEmptyToken)
		assert.Nil(t, token)
	})
}

func TestUserInfo(t *testing.T) {
	t.Run("empty token rejected", func(t *testing.T) {
		info, err := newTestAuthUseCase(&mockTokenCodec{}).UserInfo(context.Background(), "")

		assert.ErrorIs(t, err, domain.ErrEmptyToken)
		assert.Nil(t, info)
	})

	t.Run("disabled oauth2 integration is unavailable", func(t *testing.T) {
		info, err := newTestAuthUseCase(&mockTokenCodec{}).UserInfo(context.Background(), "access-token")

		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		assert.Nil(t, info)
	})
}

// recordingMetrics captures business metric calls for assertions.
type recordingMetrics struct {
	mu         sync.Mutex
	operations map[string]string
}

func (r *recordingMetrics) RecordOperation(_ context.Context, _, operation, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.operations == nil {
		r.operations = map[string]string{}
	}
	r.operations[operation] = status
}

func (r *recordingMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}

func TestAuthUseCaseWithMetrics(t *testing.T) {
	t.Run("records success", func(t *testing.T) {
		codec := &mockTokenCodec{}
		codec.On("GenerateToken", "alice", map[string]any{}).Return("signed-token", nil)
		m := &recordingMetrics{}

		decorated := NewAuthUseCaseWithMetrics(newTestAuthUseCase(codec), m)
		_, err := decorated.IssueToken(context.Background(), "alice", nil)

		require.NoError(t, err)
		assert.Equal(t, "success", m.operations["token_issue"])
	})

	t.Run("records error", func(t *testing.T) {
		m := &recordingMetrics{}

		decorated := NewAuthUseCaseWithMetrics(newTestAuthUseCase(&mockTokenCodec{}), m)
		_, err := decorated.UserInfo(context.Background(), "")

		require.Error(t, err)
		assert.Equal(t, "error", m.operations["userinfo"])
	})
}
