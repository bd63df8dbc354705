package v1

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/nutrisense/insight"
	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/pattern"
	"github.com/hrygo/nutrisense/insight/whatif"
	apierrors "github.com/hrygo/nutrisense/server/internal/errors"
	"github.com/hrygo/nutrisense/server/internal/observability"
	"github.com/hrygo/nutrisense/store"
)

// AnalyzeRequest carries the user's history for a full analyzer run.
type AnalyzeRequest struct {
	UserID     string              `json:"userId"`
	Days       []model.DayRecord   `json:"days"`
	Profile    *model.Profile      `json:"profile"`
	Products   model.ProductIndex  `json:"products"`
	Thresholds *pattern.Thresholds `json:"thresholds,omitempty"`
}

// WarningsRequest carries history plus the recent composite scores the
// decline checks run against.
type WarningsRequest struct {
	AnalyzeRequest
	HealthScores []float64 `json:"healthScores,omitempty"`
}

// SimulateRequest carries history plus the what-if action to project.
type SimulateRequest struct {
	AnalyzeRequest
	Action whatif.ActionType  `json:"action"`
	Params map[string]float64 `json:"params,omitempty"`
}

func (r *AnalyzeRequest) validate() *apierrors.APIError {
	if r.UserID == "" {
		return apierrors.InvalidArgument("userId is required")
	}
	if len(r.Days) == 0 {
		return apierrors.InvalidArgument("days must not be empty")
	}
	return nil
}

func (r *AnalyzeRequest) input() *pattern.Input {
	return &pattern.Input{
		Days:       r.Days,
		Profile:    r.Profile,
		Products:   r.Products,
		Thresholds: r.Thresholds,
	}
}

func respondError(c echo.Context, reqCtx *observability.RequestContext, err error) error {
	observability.GlobalMetrics().RecordFailure(reqCtx.Operation)

	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			apiErr = apierrors.ContextCanceled("request canceled")
		} else {
			apiErr = apierrors.AnalysisFailed("analysis failed", err)
		}
	}
	reqCtx.Error("request failed", apiErr, slog.String(observability.LogFieldErrorCode, string(apiErr.Code)))
	return c.JSON(apiErr.HTTPStatus(), map[string]string{
		"error": apiErr.Message,
		"code":  string(apiErr.Code),
	})
}

// Analyze runs every registered analyzer over the submitted history.
// POST /api/v1/insights/analyze
func (s *APIV1Service) Analyze(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger, "analyze", "")
	observability.GlobalMetrics().RecordRequest(reqCtx.Operation)

	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, reqCtx, apierrors.InvalidArgument("malformed request body"))
	}
	reqCtx.UserID = req.UserID
	if err := req.validate(); err != nil {
		return respondError(c, reqCtx, err)
	}

	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)
	analysis, err := s.Engine.Analyze(ctx, req.input())
	if err != nil {
		return respondError(c, reqCtx, err)
	}

	if s.Profile.PersistSnapshots && s.Store != nil {
		s.persistSnapshot(c, reqCtx, &req, analysis)
	}

	observability.GlobalMetrics().RecordDuration(reqCtx.Operation, reqCtx.Duration())
	reqCtx.Info("analysis complete",
		slog.Int(observability.LogFieldDaysCount, analysis.DaysCount),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusOK, analysis)
}

// persistSnapshot stores the per-pattern scores of a completed run so later
// simulations can compare against them. Failures are logged, not surfaced.
func (s *APIV1Service) persistSnapshot(c echo.Context, reqCtx *observability.RequestContext, req *AnalyzeRequest, analysis *insight.Analysis) {
	scores := make(map[string]float64, len(analysis.Results))
	for id, r := range analysis.Results {
		if r != nil && r.Available {
			scores[id] = r.Score
		}
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		reqCtx.Error("failed to encode snapshot scores", err)
		return
	}
	if _, err := s.Store.CreateSnapshot(c.Request().Context(), &store.Snapshot{
		UID:    reqCtx.RequestID,
		UserID: req.UserID,
		Days:   analysis.DaysCount,
		Source: "computed",
		Scores: string(raw),
	}); err != nil {
		reqCtx.Error("failed to persist snapshot", err)
	}
}

// DetectWarnings runs the early-warning checks over the submitted history.
// POST /api/v1/insights/warnings
func (s *APIV1Service) DetectWarnings(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger, "warnings", "")
	observability.GlobalMetrics().RecordRequest(reqCtx.Operation)

	var req WarningsRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, reqCtx, apierrors.InvalidArgument("malformed request body"))
	}
	reqCtx.UserID = req.UserID
	if err := req.validate(); err != nil {
		return respondError(c, reqCtx, err)
	}

	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)
	report, err := s.Engine.DetectWarnings(ctx, req.UserID, req.input(), req.HealthScores)
	if err != nil {
		return respondError(c, reqCtx, err)
	}

	observability.GlobalMetrics().RecordDuration(reqCtx.Operation, reqCtx.Duration())
	reqCtx.Info("warning detection complete",
		slog.Int("warning_count", report.Count),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusOK, report)
}

// Simulate projects one what-if action against the user's baseline.
// POST /api/v1/insights/simulate
func (s *APIV1Service) Simulate(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger, "simulate", "")
	observability.GlobalMetrics().RecordRequest(reqCtx.Operation)

	var req SimulateRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, reqCtx, apierrors.InvalidArgument("malformed request body"))
	}
	reqCtx.UserID = req.UserID
	if err := req.validate(); err != nil {
		return respondError(c, reqCtx, err)
	}
	if req.Action == "" {
		return respondError(c, reqCtx, apierrors.InvalidArgument("action is required"))
	}

	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)
	sim, err := s.Engine.Simulate(ctx, req.UserID, whatif.Request{Action: req.Action, Params: req.Params}, req.input())
	if err != nil {
		return respondError(c, reqCtx, err)
	}

	if s.Profile.PersistSnapshots && s.Store != nil && sim.Available {
		s.persistSimulation(c, reqCtx, &req, sim)
	}

	observability.GlobalMetrics().RecordDuration(reqCtx.Operation, reqCtx.Duration())
	reqCtx.Info("simulation complete",
		slog.String("action", string(req.Action)),
		slog.Bool("available", sim.Available),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusOK, sim)
}

func (s *APIV1Service) persistSimulation(c echo.Context, reqCtx *observability.RequestContext, req *SimulateRequest, sim *whatif.Simulation) {
	params, err := json.Marshal(sim.Params)
	if err != nil {
		reqCtx.Error("failed to encode simulation params", err)
		return
	}
	result, err := json.Marshal(sim)
	if err != nil {
		reqCtx.Error("failed to encode simulation result", err)
		return
	}
	if _, err := s.Store.CreateSimulation(c.Request().Context(), &store.Simulation{
		UID:    sim.ID,
		UserID: req.UserID,
		Action: string(sim.Action),
		Params: string(params),
		Result: string(result),
	}); err != nil {
		reqCtx.Error("failed to persist simulation", err)
	}
}

// ActionDescriptor describes one supported what-if action.
type ActionDescriptor struct {
	Action whatif.ActionType `json:"action"`
}

// ListActions returns the supported what-if actions.
// GET /api/v1/insights/actions
func (s *APIV1Service) ListActions(c echo.Context) error {
	actions := whatif.Actions()
	descriptors := make([]ActionDescriptor, 0, len(actions))
	for _, a := range actions {
		descriptors = append(descriptors, ActionDescriptor{Action: a})
	}
	return c.JSON(http.StatusOK, map[string]any{"actions": descriptors})
}

// StoredSimulation is the API shape of a persisted simulation.
type StoredSimulation struct {
	UID       string          `json:"uid"`
	Action    string          `json:"action"`
	Params    json.RawMessage `json:"params"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ListSimulations returns a user's persisted simulations, newest first.
// GET /api/v1/insights/simulations?userId=...
func (s *APIV1Service) ListSimulations(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "userId is required"})
	}
	if s.Store == nil {
		return c.JSON(http.StatusOK, map[string]any{"simulations": []StoredSimulation{}})
	}

	limit := 20
	list, err := s.Store.ListSimulations(c.Request().Context(), &store.FindSimulation{
		UserID: &userID,
		Limit:  &limit,
	})
	if err != nil {
		slog.Error("failed to list simulations", "error", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list simulations"})
	}

	out := make([]StoredSimulation, 0, len(list))
	for _, sim := range list {
		out = append(out, StoredSimulation{
			UID:       sim.UID,
			Action:    sim.Action,
			Params:    json.RawMessage(sim.Params),
			Result:    json.RawMessage(sim.Result),
			CreatedAt: time.Unix(sim.CreatedTs, 0).UTC(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"simulations": out})
}

// InvalidateBaseline drops cached baselines for a user.
// DELETE /api/v1/insights/baseline?userId=...
func (s *APIV1Service) InvalidateBaseline(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "userId is required"})
	}
	if err := s.Engine.InvalidateBaseline(c.Request().Context(), userID+"*"); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to invalidate baseline"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
