package server

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/existflow/taskdeck/internal/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
)

// Server is the taskdeck API server
type Server struct {
	db     *sql.DB
	echo   *echo.Echo
	mailer Mailer
}

// New creates a new server
func New(dbURL string, mailer Mailer) (*Server, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if mailer == nil {
		mailer = NewMailerFromEnv()
	}

	s := &Server{
		db:     db,
		mailer: mailer,
	}

	// Run migrations
	if err := s.migrate(); err != nil {
		return nil, err
	}

	// Setup Echo
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
			logger.Info("HTTP Request",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(metricsMiddleware)

	// Health check and metrics
	e.GET("/health", s.handleHealth)
	e.GET("/metrics", metricsHandler())

	api := e.Group("/api")

	// Auth endpoints (public)
	auth := api.Group("/auth")
	auth.POST("/register", s.handleRegister)
	auth.POST("/login", s.handleLogin)
	auth.POST("/verify-email", s.handleVerifyEmail)
	auth.POST("/resend-otp", s.handleResendOTP)
	auth.GET("/me", s.handleMe, s.authMiddleware)

	// Protected entity endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/projects", s.handleListProjects)
	protected.POST("/projects", s.handleCreateProject)
	protected.PUT("/projects/:id", s.handleUpdateProject)
	protected.DELETE("/projects/:id", s.handleDeleteProject)
	protected.GET("/tasks/project/:projectId", s.handleListTasks)
	protected.POST("/tasks", s.handleCreateTask)
	protected.PUT("/tasks/:id", s.handleUpdateTask)
	protected.DELETE("/tasks/:id", s.handleDeleteTask)
	protected.PATCH("/tasks/:id/toggle", s.handleToggleTask)
	protected.GET("/tasks/activity/feed", s.handleActivityFeed)

	s.echo = e
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

// ok sends a success envelope with extra payload fields
func ok(c echo.Context, payload map[string]interface{}) error {
	body := map[string]interface{}{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}

// fail sends a failure envelope carrying a user-facing message
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
