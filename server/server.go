package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/deskhours/sucktorial/internal/logger"
)

// Server is a local stand-in for the Factorial web API. It implements the
// surface the CLI consumes: the HTML sign-in flow, cookie sessions,
// attendance shifts and periods, leaves, and the GetCurrent GraphQL query.
// Use it for development and integration tests instead of the production
// vendor.
type Server struct {
	db   *sql.DB
	echo *echo.Echo

	// nextID hands out shift/period/leave ids; seeded from the store so
	// restarts never reuse one.
	nextID atomic.Int64
}

// Config selects the backing store and an optional development account
// created at startup.
type Config struct {
	Driver string // "sqlite" (default) or "postgres"
	DSN    string // file path for sqlite, connection URL for postgres

	SeedEmail      string
	SeedPassword   string
	SeedEmployeeID int64
}

// New creates a server, runs migrations, and seeds the development account.
func New(cfg Config) (*Server, error) {
	db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{db: db}

	if err := s.migrate(); err != nil {
		return nil, err
	}
	if err := s.seedIDCounter(); err != nil {
		return nil, err
	}
	if err := s.seed(cfg); err != nil {
		return nil, err
	}

	s.setupEcho()

	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Custom logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			duration := time.Since(start)

			logger.Info("HTTP",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", duration.String()))

			// Also print to console for visibility
			fmt.Printf("REQUEST: %s %s  status=%d  duration=%s\n",
				req.Method, req.RequestURI, res.Status, duration)

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// Public surface
	e.GET("/", s.handleDashboard)
	e.GET("/health", s.handleHealth)
	e.GET("/:locale/users/sign_in", s.handleSignInPage)
	e.POST("/:locale/users/sign_in", s.handleSignIn)
	e.DELETE("/sessions", s.handleSignOut)

	// Session-guarded surface
	attendance := e.Group("/attendance", s.authMiddleware)
	attendance.GET("/shifts/open_shift", s.handleOpenShift)
	attendance.POST("/shifts/clock_in", s.handleClockIn)
	attendance.POST("/shifts/clock_out", s.handleClockOut)
	attendance.GET("/shifts", s.handleListShifts)
	attendance.PATCH("/shifts/:id", s.handleUpdateShift)
	attendance.DELETE("/shifts/:id", s.handleDeleteShift)
	attendance.GET("/periods", s.handleListPeriods)

	leaves := e.Group("/leaves", s.authMiddleware)
	leaves.GET("", s.handleListLeaves)
	leaves.POST("", s.handleCreateLeave)

	graphql := e.Group("/graphql", s.authMiddleware)
	graphql.POST("", s.handleGraphQL)

	s.echo = e
}

// newID hands out the next resource id.
func (s *Server) newID() int64 {
	return s.nextID.Add(1)
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleDashboard is the post-login landing page. The CLI follows the
// sign-in redirect here, so it must answer 200.
func (s *Server) handleDashboard(c echo.Context) error {
	return c.HTML(http.StatusOK, "<!DOCTYPE html><html><body><h1>Factorial stand-in</h1></body></html>")
}
