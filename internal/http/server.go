// Package http provides the main HTTP server, its router wiring and the
// request middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/Recipe-Web-App/recipe-management-service/internal/auth/http"
	recipeHTTP "github.com/Recipe-Web-App/recipe-management-service/internal/recipe/http"
)

// Server represents the main HTTP server.
type Server struct {
	db         *sql.DB
	host       string
	port       int
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new HTTP server. The router must be configured with
// SetupRouter before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		host:   host,
		port:   port,
		logger: logger,
	}
}

// RouterConfig carries the handlers and middleware wired into the router.
type RouterConfig struct {
	// GinMode is the Gin mode to run in ("debug", "release", "test").
	GinMode string
	// Pipeline is the request authentication pipeline.
	Pipeline *authHTTP.Pipeline
	// AuthHandler serves the authentication endpoints.
	AuthHandler *authHTTP.AuthHandler
	// RecipeHandler serves the recipe endpoints.
	RecipeHandler *recipeHTTP.RecipeHandler
	// MetricsMiddleware records HTTP metrics when non-nil.
	MetricsMiddleware gin.HandlerFunc

	// CORSEnabled and CORSAllowOrigins configure cross-origin handling.
	CORSEnabled      bool
	CORSAllowOrigins string

	// RateLimitEnabled, RateLimitRPS and RateLimitBurst configure
	// per-principal rate limiting on the recipe endpoints.
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
}

// SetupRouter builds the router: observability middleware first, then the
// authentication pipeline, then the route groups.
func (s *Server) SetupRouter(cfg RouterConfig) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}
	if cfg.Pipeline != nil {
		router.Use(cfg.Pipeline.Middleware())
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)
	router.GET("/info", s.infoHandler)

	if cfg.AuthHandler != nil {
		auth := router.Group("/api/v1/auth")
		auth.POST("/token", cfg.AuthHandler.IssueTokenHandler)
		auth.GET("/userinfo", cfg.AuthHandler.UserInfoHandler)
	}

	if cfg.RecipeHandler != nil {
		recipes := router.Group("/api/v1/recipes")
		recipes.Use(authHTTP.RequirePrincipal(s.logger))
		if cfg.RateLimitEnabled {
			recipes.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, s.logger))
		}
		recipes.POST("", cfg.RecipeHandler.CreateHandler)
		recipes.GET("", cfg.RecipeHandler.ListHandler)
		recipes.GET("/:id", cfg.RecipeHandler.GetHandler)
		recipes.PUT("/:id", cfg.RecipeHandler.UpdateHandler)
		recipes.DELETE("/:id", cfg.RecipeHandler.DeleteHandler)
	}

	s.router = router
}

// Start starts the HTTP server. SetupRouter must have been called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured")
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting http server", slog.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// GetHandler returns the router for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// each dependency individually.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// infoHandler reports basic service information.
func (s *Server) infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "recipe-management-service",
	})
}
