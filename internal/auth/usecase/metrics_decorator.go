package usecase

import (
	"context"
	"time"

	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/oauth2"
	"github.com/Recipe-Web-App/recipe-management-service/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// IssueToken records metrics for token issuance.
func (u *authUseCaseWithMetrics) IssueToken(
	ctx context.Context,
	subject string,
	roles []string,
) (*IssuedToken, error) {
	start := time.Now()
	token, err := u.next.IssueToken(ctx, subject, roles)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "auth", "token_issue", status)
	u.metrics.RecordDuration(ctx, "auth", "token_issue", time.Since(start), status)

	return token, err
}

// UserInfo records metrics for userinfo lookups.
func (u *authUseCaseWithMetrics) UserInfo(ctx context.Context, accessToken string) (*oauth2.UserInfo, error) {
	start := time.Now()
	info, err := u.next.UserInfo(ctx, accessToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "auth", "userinfo", status)
	u.metrics.RecordDuration(ctx, "auth", "userinfo", time.Since(start), status)

	return info, err
}
