package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"merchsync/internal/api/handlers"
	"merchsync/internal/api/middleware"
	"merchsync/internal/cache"
	"merchsync/internal/config"
	"merchsync/internal/credentials"
	"merchsync/internal/database"
	"merchsync/internal/logger"
	"merchsync/internal/syncer"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, creds *credentials.Store, resultCache *cache.Cache, events *syncer.EventPublisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Initialize handlers
	productHandler := handlers.NewProductHandler(cfg, creds, resultCache, logger)
	orderHandler := handlers.NewOrderHandler(cfg, creds, resultCache, logger)
	customerHandler := handlers.NewCustomerHandler(cfg, creds, logger)
	credentialHandler := handlers.NewCredentialHandler(creds, logger)
	syncHandler := handlers.NewSyncHandler(cfg, db.DB, creds, events, logger)
	issueHandler := handlers.NewIssueHandler(db.DB, logger)
	optimizerHandler := handlers.NewOptimizerHandler(cfg, events, logger)

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.PUT("/:id", productHandler.Update)
		}

		// Orders
		v1.GET("/orders", orderHandler.List)

		// Customers (merged across platforms)
		v1.GET("/customers", customerHandler.List)
		v1.GET("/stats/revenue", customerHandler.Revenue)

		// Credentials
		creds := v1.Group("/credentials")
		{
			creds.GET("/status", credentialHandler.Status)
			creds.POST("", credentialHandler.Save)
		}

		// Sync
		v1.POST("/sync", syncHandler.Sync)
		v1.GET("/sync/history", syncHandler.History)

		// Issues
		issues := v1.Group("/issues")
		{
			issues.GET("", issueHandler.List)
			issues.POST("/:id/resolve", issueHandler.Resolve)
		}

		// AI Optimizer
		optimizer := v1.Group("/optimizer")
		{
			optimizer.POST("/content", optimizerHandler.OptimizeContent)
			optimizer.POST("/products/:id/apply", optimizerHandler.Apply)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}
