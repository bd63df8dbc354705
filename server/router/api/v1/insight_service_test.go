package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/nutrisense/insight"
	"github.com/hrygo/nutrisense/insight/baseline"
	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/pattern"
	"github.com/hrygo/nutrisense/internal/profile"
)

func testService(t *testing.T) *APIV1Service {
	t.Helper()
	engine := insight.New(pattern.DefaultRegistry(),
		insight.WithLogger(slog.Default()),
		insight.WithCache(baseline.NewLRUCache(100, 0)),
	)
	return NewAPIV1Service(&profile.Profile{Mode: "dev"}, nil, engine, slog.Default())
}

func fixtureRequest() AnalyzeRequest {
	days := make([]model.DayRecord, 0, 14)
	for i := 0; i < 14; i++ {
		days = append(days, model.DayRecord{
			Date: fmt.Sprintf("2026-08-%02d", i+1),
			Meals: []model.Meal{
				{Time: "08:00", Items: []model.MealItem{{ProductID: "oats", Grams: 150}}},
				{Time: "13:00", Items: []model.MealItem{{ProductID: "oats", Grams: 200}}},
				{Time: "19:00", Items: []model.MealItem{{ProductID: "oats", Grams: 150}}},
			},
			SleepHours:    7.5,
			Steps:         8500,
			WeightMorning: 80 - 0.05*float64(i),
			DayScore:      75,
		})
	}
	return AnalyzeRequest{
		UserID: "user-1",
		Days:   days,
		Profile: &model.Profile{
			Gender:   "male",
			WeightKG: 80,
		},
		Products: model.ProductIndex{
			"oats": {
				ID: "oats",
				Per100: model.Nutrients{
					Protein: 13, Complex: 56, GoodFat: 6, Fiber: 10, GI: 55,
				},
			},
		},
	}
}

func doJSON(t *testing.T, svc *APIV1Service, handler echo.HandlerFunc, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	require.NoError(t, handler(c))
	return rec
}

func TestAnalyzeReturnsFullAnalysis(t *testing.T) {
	svc := testService(t)
	rec := doJSON(t, svc, svc.Analyze, http.MethodPost, "/api/v1/insights/analyze", fixtureRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis insight.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	require.Equal(t, 14, analysis.DaysCount)
	require.Len(t, analysis.Results, svc.Engine.Registry().Len())
	require.True(t, analysis.HealthScore.Available)
}

func TestAnalyzeRejectsEmptyHistory(t *testing.T) {
	svc := testService(t)
	rec := doJSON(t, svc, svc.Analyze, http.MethodPost, "/api/v1/insights/analyze",
		AnalyzeRequest{UserID: "user-1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INVALID_ARGUMENT", body["code"])
}

func TestAnalyzeRejectsMissingUser(t *testing.T) {
	svc := testService(t)
	req := fixtureRequest()
	req.UserID = ""
	rec := doJSON(t, svc, svc.Analyze, http.MethodPost, "/api/v1/insights/analyze", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectWarningsEndpoint(t *testing.T) {
	svc := testService(t)
	req := WarningsRequest{
		AnalyzeRequest: fixtureRequest(),
		HealthScores:   []float64{80, 78, 76, 74, 72, 70, 68},
	}
	rec := doJSON(t, svc, svc.DetectWarnings, http.MethodPost, "/api/v1/insights/warnings", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, true, report["available"])
}

func TestSimulateEndpoint(t *testing.T) {
	svc := testService(t)
	req := SimulateRequest{
		AnalyzeRequest: fixtureRequest(),
		Action:         "add_protein",
		Params:         map[string]float64{"proteinGrams": 45},
	}
	rec := doJSON(t, svc, svc.Simulate, http.MethodPost, "/api/v1/insights/simulate", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var sim map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sim))
	require.Equal(t, true, sim["available"])
	require.Equal(t, "add_protein", sim["action"])
}

func TestSimulateRequiresAction(t *testing.T) {
	svc := testService(t)
	req := SimulateRequest{AnalyzeRequest: fixtureRequest()}
	rec := doJSON(t, svc, svc.Simulate, http.MethodPost, "/api/v1/insights/simulate", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListActionsEndpoint(t *testing.T) {
	svc := testService(t)
	rec := doJSON(t, svc, svc.ListActions, http.MethodGet, "/api/v1/insights/actions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Actions []ActionDescriptor `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Actions, 10)
}

func TestMetricsOverviewEndpoint(t *testing.T) {
	svc := testService(t)
	rec := doJSON(t, svc, svc.GetMetricsOverview, http.MethodGet, "/api/v1/system/metrics/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body MetricsOverviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.GreaterOrEqual(t, body.SuccessRate, 0.0)
}
