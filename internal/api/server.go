package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PetruGlt/StatesOfTheWorld/internal/api/middleware"
	"github.com/PetruGlt/StatesOfTheWorld/internal/config"
	"github.com/PetruGlt/StatesOfTheWorld/internal/logging"
	"github.com/PetruGlt/StatesOfTheWorld/internal/monitoring"
	"github.com/PetruGlt/StatesOfTheWorld/internal/store"
)

// Server wraps the HTTP API and its dependencies.
type Server struct {
	router *gin.Engine
	store  *store.Store
	logger *logging.Logger
	config *config.Config
}

// NewServer creates a server over an opened store.
func NewServer(cfg *config.Config, s *store.Store, logger *logging.Logger, metrics *monitoring.Metrics) *Server {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	handlers := NewHandlers(s, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	router.GET("/api/countries", handlers.ListCountries)
	router.GET("/api/country/:name", handlers.GetCountry)
	router.GET("/api/countries/search", handlers.SearchCountries)
	router.GET("/api/countries/top/population", handlers.TopPopulation)
	router.GET("/api/countries/top/density", handlers.TopDensity)
	router.GET("/api/stats", handlers.GetStats)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return &Server{
		router: router,
		store:  s,
		logger: logger,
		config: cfg,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close releases server resources.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server")
	return s.store.Close()
}
