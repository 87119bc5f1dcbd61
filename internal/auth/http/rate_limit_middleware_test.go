package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
)

// newRateLimitedRouter wires the middleware behind a stub that injects the
// given principal, mirroring the pipeline plus RequirePrincipal ordering.
func newRateLimitedRouter(rps float64, burst int, principal *authDomain.Principal) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	if principal != nil {
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
			c.Next()
		})
	}
	router.Use(RateLimitMiddleware(rps, burst, logger))
	router.GET("/api/v1/recipes", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doGet(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil))
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("requests within burst are allowed", func(t *testing.T) {
		principal := authDomain.NewUserPrincipal(uuid.New(), "alice", nil)
		router := newRateLimitedRouter(1, 3, principal)

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, doGet(router).Code)
		}
	})

	t.Run("requests beyond burst get 429 with retry-after", func(t *testing.T) {
		principal := authDomain.NewUserPrincipal(uuid.New(), "alice", nil)
		router := newRateLimitedRouter(0.001, 1, principal)

		assert.Equal(t, http.StatusOK, doGet(router).Code)

		w := doGet(router)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	})

	t.Run("principals are limited independently", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		router := gin.New()
		router.Use(func(c *gin.Context) {
			name := c.GetHeader("X-Test-Principal")
			principal := authDomain.NewUserPrincipal(uuid.New(), name, nil)
			c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
			c.Next()
		})
		router.Use(RateLimitMiddleware(0.001, 1, logger))
		router.GET("/api/v1/recipes", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		getAs := func(name string) int {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
			req.Header.Set("X-Test-Principal", name)
			router.ServeHTTP(w, req)
			return w.Code
		}

		assert.Equal(t, http.StatusOK, getAs("alice"))
		assert.Equal(t, http.StatusTooManyRequests, getAs("alice"))
		assert.Equal(t, http.StatusOK, getAs("bob"))
	})

	t.Run("missing principal gets 401", func(t *testing.T) {
		router := newRateLimitedRouter(1, 1, nil)

		assert.Equal(t, http.StatusUnauthorized, doGet(router).Code)
	})
}
