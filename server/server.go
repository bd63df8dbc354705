// Package server exposes the insight engine over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/nutrisense/insight"
	"github.com/hrygo/nutrisense/internal/profile"
	apiv1 "github.com/hrygo/nutrisense/server/router/api/v1"
	"github.com/hrygo/nutrisense/store"
)

// Server is the HTTP front of the insight engine.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	engine     *insight.Engine
}

// NewServer assembles the echo server, routes, and middleware.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store, engine *insight.Engine) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("insight engine is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
		engine:     engine,
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": profile.Version,
			"mode":    profile.Mode,
		})
	})

	apiService := apiv1.NewAPIV1Service(profile, store, engine, slog.Default())
	apiService.RegisterRoutes(e.Group("/api/v1"))

	return s, nil
}

// Start runs the HTTP listener until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server listening", "address", addr, "mode", s.Profile.Mode)
	if err := s.echoServer.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}
	slog.Info("server shut down")
}
