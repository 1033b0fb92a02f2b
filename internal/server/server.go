package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"recount/internal/api"
	"recount/internal/config"
	"recount/internal/store"
)

// Server is the HTTP server over the reconciliation engine.
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
	log    *logrus.Logger
}

// NewServer opens the store and wires the routes.
func NewServer(cfg *config.AppConfig, log *logrus.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.New(config.DBPath(cfg, dataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := &Server{
		router: gin.Default(),
		store:  st,
		api:    api.NewHandler(st, cfg, log),
		log:    log,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	group := s.router.Group("/api")
	s.api.RegisterRoutes(group)
}

// Run starts listening on addr. Blocks until the listener fails.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}
