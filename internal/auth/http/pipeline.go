package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
	apperrors "github.com/Recipe-Web-App/recipe-management-service/internal/errors"
	"github.com/Recipe-Web-App/recipe-management-service/internal/httputil"
	"github.com/Recipe-Web-App/recipe-management-service/internal/metrics"
)

// Stage is a single authenticator in the pipeline. A stage inspects the
// request and either produces a principal, declines with (nil, nil), or
// fails with an error. Errors never reject the request; they only mean this
// stage produced no principal.
type Stage struct {
	// Name identifies the stage in logs and metrics.
	Name string
	// Authenticate inspects the request and returns the principal it
	// identifies, or nil when the request carries nothing for this stage.
	Authenticate func(c *gin.Context) (*authDomain.Principal, error)
}

// Pipeline runs an explicit, ordered list of authentication stages once per
// request. The first stage to produce a principal wins; later stages are not
// consulted, so precedence is fixed by construction order rather than by
// framework registration order.
//
// The pipeline itself never rejects a request: requests that no stage can
// authenticate continue without a principal, and route groups decide whether
// that is acceptable via RequirePrincipal.
type Pipeline struct {
	stages       []Stage
	skipPrefixes []string
	metrics      metrics.BusinessMetrics
	logger       *slog.Logger
}

// NewPipeline creates an authentication pipeline. skipPrefixes lists path
// prefixes that bypass all stages (health checks, API docs, the auth
// endpoints themselves).
func NewPipeline(
	stages []Stage,
	skipPrefixes []string,
	m metrics.BusinessMetrics,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		stages:       stages,
		skipPrefixes: skipPrefixes,
		metrics:      m,
		logger:       logger,
	}
}

// StageNames returns the configured stage names in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Middleware returns the gin middleware running the pipeline.
func (p *Pipeline) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if p.skip(path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		for _, stage := range p.stages {
			principal, err := stage.Authenticate(c)
			if err != nil {
				// Stage failures downgrade to "no principal from this
				// stage"; the request continues unauthenticated unless a
				// later stage accepts it.
				p.logger.Debug("authentication stage failed",
					slog.String("stage", stage.Name),
					slog.String("path", path),
					slog.Any("error", err),
				)
				p.metrics.RecordOperation(ctx, "auth", "stage_"+stage.Name, "error")
				continue
			}
			if principal == nil {
				continue
			}

			c.Request = c.Request.WithContext(WithPrincipal(ctx, principal))
			p.logger.Debug("request authenticated",
				slog.String("stage", stage.Name),
				slog.String("principal", principal.Name),
				slog.String("kind", string(principal.Kind)),
			)
			p.metrics.RecordOperation(ctx, "auth", "stage_"+stage.Name, "success")
			break
		}

		c.Next()
	}
}

// skip reports whether the path bypasses authentication. A prefix matches
// exactly or at a path segment boundary.
func (p *Pipeline) skip(path string) bool {
	for _, prefix := range p.skipPrefixes {
		trimmed := strings.TrimSuffix(prefix, "/")
		if path == trimmed || strings.HasPrefix(path, trimmed+"/") {
			return true
		}
	}
	return false
}

// RequirePrincipal rejects requests that reached the handler without an
// authenticated principal.
func RequirePrincipal(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c.Request.Context()); !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAuthority rejects authenticated requests whose principal lacks the
// given authority, and unauthenticated requests outright.
func RequireAuthority(authority string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		if !principal.HasAuthority(authority) {
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}
