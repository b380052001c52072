// Package server exposes one long-lived story session over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/roach88/hackerstories/internal/engine"
	"github.com/roach88/hackerstories/internal/story"
)

// Server serves the HTTP API of a session.
type Server struct {
	session *engine.Session
	echo    *echo.Echo
	logger  *slog.Logger
}

// StoriesResponse is the body of GET /stories and DELETE /stories/:id.
type StoriesResponse struct {
	Status    string         `json:"status"`
	IsLoading bool           `json:"is_loading"`
	IsError   bool           `json:"is_error"`
	Query     string         `json:"query"`
	Total     int            `json:"total"`
	Stories   []story.Record `json:"stories"`
}

// QueryRequest is the body of PUT /query.
type QueryRequest struct {
	Query *string `json:"query"`
}

// QueryResponse is the body of GET and PUT /query.
type QueryResponse struct {
	Query     string `json:"query"`
	Persisted bool   `json:"persisted"`
}

// New creates a server over session and registers its routes.
func New(session *engine.Session, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{session: session, echo: e, logger: logger}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/healthz"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				logger.Info("request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				logger.Error("request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/healthz", s.health)
	e.GET("/stories", s.listStories)
	e.DELETE("/stories/:id", s.removeStory)
	e.GET("/query", s.getQuery)
	e.PUT("/query", s.putQuery)

	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting server", "address", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": s.session.Snapshot().Status.String(),
	})
}

func (s *Server) listStories(c echo.Context) error {
	return c.JSON(http.StatusOK, storiesResponse(s.session.View()))
}

func (s *Server) removeStory(c echo.Context) error {
	id := c.Param("id")
	if _, err := s.session.Remove(c.Request().Context(), id); err != nil {
		if errors.Is(err, engine.ErrStopped) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "session stopped")
		}
		return err
	}
	return c.JSON(http.StatusOK, storiesResponse(s.session.View()))
}

func (s *Server) getQuery(c echo.Context) error {
	return c.JSON(http.StatusOK, QueryResponse{Query: s.session.Query(), Persisted: true})
}

func (s *Server) putQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	// The query changes even when it cannot be saved.
	persisted := s.session.SetQuery(c.Request().Context(), *req.Query) == nil
	return c.JSON(http.StatusOK, QueryResponse{Query: s.session.Query(), Persisted: persisted})
}

func storiesResponse(v engine.View) StoriesResponse {
	return StoriesResponse{
		Status:    v.State.Status.String(),
		IsLoading: v.State.IsLoading(),
		IsError:   v.State.IsError(),
		Query:     v.Query,
		Total:     v.State.Len(),
		Stories:   v.Visible,
	}
}
