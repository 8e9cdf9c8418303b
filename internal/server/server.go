// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/skyview-tv/skyview/internal/api"
	"github.com/skyview-tv/skyview/internal/auth"
	"github.com/skyview-tv/skyview/internal/billing"
	"github.com/skyview-tv/skyview/internal/catalog"
	"github.com/skyview-tv/skyview/internal/config"
	"github.com/skyview-tv/skyview/internal/continuewatch"
	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/email"
	"github.com/skyview-tv/skyview/internal/favorites"
	"github.com/skyview-tv/skyview/internal/history"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/middleware"
	"github.com/skyview-tv/skyview/internal/recommend"
	"github.com/skyview-tv/skyview/internal/search"
	"github.com/skyview-tv/skyview/internal/xtream"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	db              *db.DB
	repos           *db.Repositories
	catalogService  *catalog.Service
	favoritesService *favorites.Service
	historyService  *history.Service
	continueService *continuewatch.Service
	searchService   *search.Service
	recommendService *recommend.Service
	authService     *auth.Service
	billingService  *billing.Service
	syncService     *xtream.SyncService
	router          *gin.Engine
	server          *http.Server
}

// New creates a new server instance and wires the service graph
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)
	resolver := catalog.NewResolver(repos)

	issuer := auth.NewTokenIssuer(cfg.Auth.Secret)
	sender := email.NewClient(cfg.Email)

	return &Server{
		config:           cfg,
		db:               database,
		repos:            repos,
		catalogService:   catalog.NewService(repos),
		favoritesService: favorites.NewService(repos, resolver),
		historyService:   history.NewService(repos, resolver),
		continueService:  continuewatch.NewService(repos, resolver),
		searchService:    search.NewService(repos),
		recommendService: recommend.NewService(repos, resolver),
		authService:      auth.NewService(repos, issuer, sender, cfg.Auth),
		billingService:   billing.NewService(repos, cfg.Stripe),
		syncService:      xtream.NewSyncService(repos, cfg.Xtream),
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupCatalogRoutes(apiGroup, s.catalogService)
	api.SetupFavoritesRoutes(apiGroup, s.favoritesService)
	api.SetupHistoryRoutes(apiGroup, s.historyService)
	api.SetupContinueWatchingRoutes(apiGroup, s.continueService)
	api.SetupSearchRoutes(apiGroup, s.searchService)
	api.SetupRecommendRoutes(apiGroup, s.recommendService)
	api.SetupAuthRoutes(apiGroup, s.authService)
	api.SetupBillingRoutes(apiGroup, s.billingService, s.authService)
	api.SetupAdminRoutes(apiGroup, s.syncService, s.authService)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("database close failed: %w", err)
	}

	logger.Log.Info().Msg("Server shutdown complete")
	return nil
}
