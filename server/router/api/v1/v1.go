package v1

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/nutrisense/insight"
	"github.com/hrygo/nutrisense/internal/profile"
	"github.com/hrygo/nutrisense/server/middleware"
	"github.com/hrygo/nutrisense/store"
)

// APIV1Service wires the insight engine and the store behind the HTTP API.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	Engine  *insight.Engine

	logger  *slog.Logger
	limiter *middleware.RateLimiter
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(profile *profile.Profile, store *store.Store, engine *insight.Engine, logger *slog.Logger) *APIV1Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIV1Service{
		Profile: profile,
		Store:   store,
		Engine:  engine,
		logger:  logger,
		limiter: middleware.NewRateLimiter(10, 20),
	}
}

// RegisterRoutes registers all v1 routes on the given group.
func (s *APIV1Service) RegisterRoutes(g *echo.Group) {
	g.Use(s.limiter.Middleware())

	g.POST("/insights/analyze", s.Analyze)
	g.POST("/insights/warnings", s.DetectWarnings)
	g.POST("/insights/simulate", s.Simulate)
	g.GET("/insights/actions", s.ListActions)
	g.GET("/insights/simulations", s.ListSimulations)
	g.DELETE("/insights/baseline", s.InvalidateBaseline)

	g.GET("/system/metrics/overview", s.GetMetricsOverview)
}
