package web

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"histograph/config"
	"histograph/graph"
	"histograph/web/handlers"
	"histograph/web/middleware"
)

// Server is the gateway adapter: it owns the HTTP surface and translates
// requests into operations on the store handle it was constructed with.
type Server struct {
	router *gin.Engine
	store  *graph.Store
	logger *zap.Logger
	config *config.Config
}

func NewServer(store *graph.Store, logger *zap.Logger, config *config.Config) *Server {
	// Release mode unless GIN_MODE overrides it, e.g. for local debugging
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	server := &Server{
		router: router,
		store:  store,
		logger: logger,
		config: config,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	graphHandler := handlers.NewGraphHandler(s.store, s.logger)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		MutationsPerMinute: s.config.RateLimitMutationsPerMin,
		BurstSize:          s.config.RateLimitBurstSize,
	}, s.logger)

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.store.Version()})
	})

	api := s.router.Group("/api")
	{
		api.GET("/graph", graphHandler.GetGraph)
		api.GET("/graph/version/:version", graphHandler.GetGraphAtVersion)
		api.GET("/graph/g6", graphHandler.GetGraphG6)
		api.GET("/version", graphHandler.GetVersion)
		api.GET("/vertex/:id", graphHandler.GetVertex)

		mutations := api.Group("")
		mutations.Use(limiter.Middleware())
		{
			mutations.POST("/vertex", graphHandler.AddVertex)
			mutations.DELETE("/vertex/:id", graphHandler.RemoveVertex)
			mutations.POST("/edge", graphHandler.AddEdge)
			mutations.DELETE("/edge", graphHandler.RemoveEdge)
		}
	}
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
// This is the bootstrap-facing entry point; the server handle stays valid
// until Start returns.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
