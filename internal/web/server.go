// Package web provides the HTTP surface for trackd: a JSON API under /api
// plus a human-facing dashboard at / rendered from embedded templates.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/store"
)

// Server provides HTTP endpoints over the project/task store.
type Server struct {
	echo   *echo.Echo
	store  *store.Store
	logger *zap.Logger
	config *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(st *store.Store, logger *zap.Logger, cfg *Config) (*Server, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 9090,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:   e,
		store:  st,
		logger: logger,
		config: cfg,
	}
	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	s.echo.GET("/", s.handleDashboard)
	s.echo.StaticFS("/static", echo.MustSubFS(assetsFS, "assets/static"))

	api := s.echo.Group("/api")
	api.GET("/projects", s.handleListProjects)
	api.POST("/projects", s.handleCreateProject)
	api.GET("/projects/:id", s.handleGetProject)
	api.DELETE("/projects/:id", s.handleDeleteProject)
	api.POST("/projects/:id/tasks", s.handleCreateTask)
	api.PUT("/tasks/:id/status", s.handleUpdateTaskStatus)
	api.DELETE("/tasks/:id", s.handleDeleteTask)
	api.GET("/stats", s.handleStats)
}

// CreateProjectRequest is the request body for POST /api/projects.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateTaskRequest is the request body for POST /api/projects/:id/tasks.
type CreateTaskRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateTaskStatusRequest is the request body for PUT /api/tasks/:id/status.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// OperationResponse reports the outcome of a delete.
type OperationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.store.ListProjects(c.Request().Context())
	if err != nil {
		return s.mapStoreError(c, err)
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid create project request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	project, err := s.store.CreateProject(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return s.mapStoreError(c, err)
	}
	return c.JSON(http.StatusCreated, project)
}

func (s *Server) handleGetProject(c echo.Context) error {
	details, err := s.store.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.mapStoreError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	id := c.Param("id")
	deleted, err := s.store.DeleteProject(c.Request().Context(), id)
	if err != nil {
		return s.mapStoreError(c, err)
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound,
			fmt.Sprintf("project with ID %s not found", id))
	}
	return c.JSON(http.StatusOK, OperationResponse{
		Success: true,
		Message: fmt.Sprintf("project %s deleted successfully", id),
	})
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid create task request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	task, err := s.store.CreateTask(c.Request().Context(), c.Param("id"), req.Description, req.Category)
	if err != nil {
		return s.mapStoreError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdateTaskStatus(c echo.Context) error {
	var req UpdateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid status update request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	status, err := store.ParseStatus(req.Status)
	if err != nil {
		return s.mapStoreError(c, err)
	}

	task, err := s.store.UpdateTaskStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return s.mapStoreError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	id := c.Param("id")
	deleted, err := s.store.DeleteTask(c.Request().Context(), id)
	if err != nil {
		return s.mapStoreError(c, err)
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound,
			fmt.Sprintf("task with ID %s not found", id))
	}
	return c.JSON(http.StatusOK, OperationResponse{
		Success: true,
		Message: fmt.Sprintf("task %s deleted successfully", id),
	})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.store.Stats(c.Request().Context())
	if err != nil {
		return s.mapStoreError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// mapStoreError translates store errors into HTTP status codes: validation
// failures become 400, missing entities 404, everything else 500.
func (s *Server) mapStoreError(c echo.Context, err error) error {
	switch {
	case store.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrProjectNotFound), errors.Is(err, store.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		s.logger.Error("store operation failed",
			zap.String("path", c.Path()),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
