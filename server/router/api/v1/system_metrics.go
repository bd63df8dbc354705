package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/nutrisense/server/internal/observability"
)

// MetricsOverviewResponse represents the overview response of system metrics
type MetricsOverviewResponse struct {
	TotalRequests int64                        `json:"total_requests"`
	SuccessRate   float64                      `json:"success_rate"`
	P50LatencyMs  int64                        `json:"p50_latency_ms"`
	P95LatencyMs  int64                        `json:"p95_latency_ms"`
	ErrorCount    int64                        `json:"error_count"`
	Operations    map[string]OperationOverview `json:"operations"`
}

// OperationOverview summarizes one insight operation.
type OperationOverview struct {
	Executions   int64 `json:"executions"`
	Errors       int64 `json:"errors"`
	AvgLatencyMs int64 `json:"avg_latency_ms"`
}

// GetMetricsOverview returns the system metrics overview
// GET /api/v1/system/metrics/overview
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	snap := observability.GlobalMetrics().Snapshot()

	ops := make(map[string]OperationOverview, len(snap.OperationMetrics))
	for name, om := range snap.OperationMetrics {
		ops[name] = OperationOverview{
			Executions:   om.ExecutionCount,
			Errors:       om.ErrorCount,
			AvgLatencyMs: om.AverageDuration,
		}
	}

	return c.JSON(http.StatusOK, MetricsOverviewResponse{
		TotalRequests: snap.RequestTotal,
		SuccessRate:   snap.SuccessRate(),
		P50LatencyMs:  snap.P50LatencyMs,
		P95LatencyMs:  snap.P95LatencyMs,
		ErrorCount:    snap.RequestFailed,
		Operations:    ops,
	})
}
