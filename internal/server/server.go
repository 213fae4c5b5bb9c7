// Package server wires the HTTP router, middleware and handlers
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/clubsuite/elections-api/internal/config"
	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/handlers"
	"github.com/clubsuite/elections-api/internal/logger"
	"github.com/clubsuite/elections-api/internal/middleware/auth"
	"github.com/clubsuite/elections-api/internal/middleware/requestlog"
	"github.com/clubsuite/elections-api/internal/storage/postgres"
	"github.com/clubsuite/elections-api/internal/storage/rediscache"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	store      *postgres.Container
	cache      *rediscache.Cache
	service    *election.Service
}

// New creates a new server instance. cache may be nil when Redis is
// unavailable; the engine degrades to Postgres-only reads.
func New(cfg *config.Config, store *postgres.Container, cache *rediscache.Cache, service *election.Service) *Server {
	return &Server{
		config:  cfg,
		store:   store,
		cache:   cache,
		service: service,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestlog.New())

	corsConfig := cors.DefaultConfig()
	origins := strings.Split(s.config.CORS.AllowOrigins, ",")
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	electionHandler := handlers.NewElectionHandler(s.service, s.store.Events, s.store.Clubs, s.store.Votes)
	voteHandler := handlers.NewVoteHandler(s.service, s.store.Votes)
	adminHandler := handlers.NewAdminHandler(s.service, s.store.Events, s.store.Positions, s.store.Candidates, s.store.Users)

	router.GET("/ping", s.healthCheck)

	authMiddleware := auth.New(s.config.Auth.JWTSecret)
	s.setupAPIRoutes(router, authMiddleware, electionHandler, voteHandler, adminHandler)

	return router
}

// healthCheck reports the state of the storage backends
func (s *Server) healthCheck(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{"database": "healthy", "cache": "healthy"}

	if err := postgres.HealthCheck(s.store.DB()); err != nil {
		checks["database"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	if s.cache == nil {
		checks["cache"] = "disabled"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.cache.Client().Ping(ctx).Err(); err != nil {
			checks["cache"] = "unhealthy"
		}
	}

	c.JSON(status, gin.H{
		"status": checks,
	})
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	authMiddleware *auth.Middleware,
	electionHandler *handlers.ElectionHandler,
	voteHandler *handlers.VoteHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := router.Group("/api")
	api.Use(authMiddleware.Authenticate())
	{
		events := api.Group("/events")
		{
			events.GET("", electionHandler.ListEvents)
			events.GET("/:event_id", electionHandler.GetEvent)
			events.GET("/:event_id/tally", electionHandler.GetEventTally)
			events.GET("/:event_id/results", electionHandler.GetEventResults)
			events.GET("/:event_id/candidates", adminHandler.ListCandidates)

			events.POST("/:event_id/votes", voteHandler.CastVote)
			events.GET("/:event_id/votes/status", voteHandler.GetVoteStatus)
		}

		clubs := api.Group("/clubs")
		{
			clubs.GET("/:club_id/positions", adminHandler.ListClubPositions)
		}

		admin := api.Group("")
		admin.Use(authMiddleware.RequireRole(auth.RoleAdmin))
		{
			admin.POST("/events", electionHandler.CreateEvent)
			admin.DELETE("/events/:event_id", electionHandler.DeleteEvent)
			admin.POST("/events/:event_id/activate", adminHandler.ActivateEvent)
			admin.POST("/events/:event_id/close", adminHandler.CloseEvent)
			admin.POST("/events/:event_id/resolve-tie", adminHandler.ResolveTie)
			admin.POST("/events/:event_id/candidates", adminHandler.NominateCandidate)

			admin.POST("/positions", adminHandler.CreatePosition)

			admin.GET("/dashboard/summary", electionHandler.GetDashboardSummary)
		}
	}
}
