package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/existflow/awaree/internal/studio"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// DefaultAddr keeps the API on the loopback interface
const DefaultAddr = "127.0.0.1:4178"

// Store is the persistence the server reads and writes through
type Store interface {
	Load(ctx context.Context) studio.State
	Save(ctx context.Context, before, after studio.State) error
}

// Server exposes the local studio over HTTP
type Server struct {
	store Store
	echo  *echo.Echo
	now   func() time.Time

	// serializes load-modify-save cycles
	mu sync.Mutex
}

// New creates a new server
func New(st Store) *Server {
	s := &Server{
		store: st,
		now:   time.Now,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("32M"))

	// Health check
	e.GET("/health", s.handleHealth)

	api := e.Group("/api")
	api.GET("/projects", s.handleListProjects)
	api.GET("/projects/:id", s.handleGetProject)
	api.GET("/projects/:id/report", s.handleProjectReport)
	api.GET("/events", s.handleListEvents)
	api.GET("/stats", s.handleStats)
	api.GET("/backup", s.handleBackup)
	api.POST("/import", s.handleImport)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for running ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}
