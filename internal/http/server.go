// Package http provides the HTTP server, router and cross-cutting middleware.
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

	accessRequestHTTP "github.com/centrala/rainfall-gate/internal/accessrequest/http"
	authHTTP "github.com/centrala/rainfall-gate/internal/auth/http"
	authUseCase "github.com/centrala/rainfall-gate/internal/auth/usecase"
	"github.com/centrala/rainfall-gate/internal/config"
	"github.com/centrala/rainfall-gate/internal/metrics"
	userHTTP "github.com/centrala/rainfall-gate/internal/user/http"
)

const readinessTimeout = 2 * time.Second

// Handlers groups what SetupRouter mounts.
type Handlers struct {
	User          *userHTTP.UserHandler
	AccessRequest *accessRequestHTTP.AccessRequestHandler
	AuditLog      *authHTTP.AuditLogHandler
	AuthGate      authUseCase.AuthGate
	AdminGate     authUseCase.AdminGate
}

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine.
//
//	GET  /health, /ready
//	/api    register, login, logout (public); me, request-access (authenticated)
//	/admin  users (list, create, delete), requests, approve, reject, audit-logs (authenticated administrators)
//
// The context bounds background work started by middleware, such as the rate
// limiter janitor.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	h Handlers,
	metricsProvider *metrics.Provider,
) error {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		httpMetrics, err := metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create http metrics middleware: %w", err)
		}
		router.Use(httpMetrics)
	}

	if corsMiddleware := newCORSMiddleware(cfg, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	var limited []gin.HandlerFunc
	if cfg.RateLimitEnabled {
		limited = append(limited, IPRateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	authenticate := authHTTP.AuthenticationMiddleware(h.AuthGate, s.logger)

	api := router.Group("/api", limited...)
	{
		api.POST("/register", h.User.RegisterHandler)
		api.POST("/login", h.User.LoginHandler)
		api.POST("/logout", h.User.LogoutHandler)

		protected := api.Group("", authenticate)
		protected.GET("/me", authHTTP.MeHandler(s.logger))
		protected.POST("/request-access", h.AccessRequest.SubmitHandler)
	}

	admin := router.Group("/admin", limited...)
	admin.Use(authenticate, authHTTP.AdminMiddleware(h.AdminGate, s.logger))
	{
		admin.GET("/users", h.User.ListHandler)
		admin.POST("/users", h.User.CreateHandler)
		admin.DELETE("/users/:id", h.User.DeleteHandler)
		admin.GET("/requests", h.AccessRequest.ListHandler)
		admin.POST("/requests/:id/approve", h.AccessRequest.ApproveHandler)
		admin.POST("/requests/:id/reject", h.AccessRequest.RejectHandler)
		admin.GET("/audit-logs", h.AuditLog.ListHandler)
	}

	s.router = router
	return nil
}

// GetHandler returns the configured router, or nil before SetupRouter.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	status, code := "ready", http.StatusOK
	if database != "ok" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": gin.H{"database": database},
	})
}
