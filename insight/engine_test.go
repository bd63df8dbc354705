package insight

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/nutrisense/insight/baseline"
	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/pattern"
	"github.com/hrygo/nutrisense/insight/warning"
	"github.com/hrygo/nutrisense/insight/whatif"
)

func testIndex() model.ProductIndex {
	return model.ProductIndex{
		"oats": {
			ID: "oats", Name: "Rolled oats", Category: "grains",
			Per100: model.Nutrients{Protein: 13, Complex: 56, GoodFat: 6, Fiber: 10, GI: 55},
		},
		"chicken": {
			ID: "chicken", Name: "Chicken breast", Category: "meat",
			Per100: model.Nutrients{Protein: 31, BadFat: 3.6, PotassiumMG: 256, SodiumMG: 74},
		},
	}
}

func fixtureInput(days int) *pattern.Input {
	history := make([]model.DayRecord, days)
	for i := range history {
		history[i] = model.DayRecord{
			Date: fmt.Sprintf("2025-03-%02d", i+1),
			Meals: []model.Meal{
				{Time: "08:00", Items: []model.MealItem{{ProductID: "oats", Grams: 150}}},
				{Time: "13:00", Items: []model.MealItem{{ProductID: "chicken", Grams: 200}}},
				{Time: "19:00", Items: []model.MealItem{{ProductID: "oats", Grams: 100}}},
			},
			SleepHours:    7.5,
			Steps:         8500,
			WeightMorning: 80 - float64(i)*0.05,
			DayScore:      75,
		}
	}
	return &pattern.Input{
		Days:     history,
		Profile:  &model.Profile{Gender: "male", WeightKG: 80, OptimumKcal: 2200},
		Products: testIndex(),
	}
}

func TestAnalyzeAllCoversEveryPattern(t *testing.T) {
	e := New(nil)
	results, err := e.AnalyzeAll(context.Background(), fixtureInput(14))
	require.NoError(t, err)
	require.Len(t, results, e.Registry().Len())

	for id, res := range results {
		require.NotNil(t, res, id)
		require.Equal(t, id, res.Pattern)
		if res.Available {
			require.GreaterOrEqual(t, res.Score, 0.0, id)
			require.LessOrEqual(t, res.Score, 100.0, id)
			require.Greater(t, res.Confidence, 0.0, id)
			require.LessOrEqual(t, res.Confidence, 1.0, id)
		} else {
			require.NotEmpty(t, res.Reason, id)
		}
	}
}

func TestAnalyzeAllCancellation(t *testing.T) {
	e := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.AnalyzeAll(ctx, fixtureInput(14))
	require.ErrorIs(t, err, context.Canceled)
}

type panicAnalyzer struct{}

func (panicAnalyzer) ID() string                 { return "panicky" }
func (panicAnalyzer) Category() pattern.Category { return pattern.CategoryNutrition }
func (panicAnalyzer) Analyze(context.Context, *pattern.Input) (*pattern.Result, error) {
	panic("boom")
}

func TestAnalyzeAllContainsPanics(t *testing.T) {
	reg := pattern.NewRegistry()
	require.NoError(t, reg.Register(panicAnalyzer{}))

	e := New(reg)
	results, err := e.AnalyzeAll(context.Background(), fixtureInput(14))
	require.NoError(t, err)

	res := results["panicky"]
	require.NotNil(t, res)
	require.False(t, res.Available)
	require.Equal(t, pattern.ReasonAnalyzerError, res.Reason)
}

func TestAnalyzeProducesCompositeOutputs(t *testing.T) {
	e := New(nil)
	a, err := e.Analyze(context.Background(), fixtureInput(14))
	require.NoError(t, err)

	require.True(t, a.HealthScore.Available)
	require.GreaterOrEqual(t, a.HealthScore.Total, 0.0)
	require.LessOrEqual(t, a.HealthScore.Total, 100.0)

	require.True(t, a.Forecast.Available)
	require.Less(t, a.Forecast.WeeklyChangeKG, 0.0)

	require.GreaterOrEqual(t, a.Confidence.Value, 0.5)
	require.LessOrEqual(t, a.Confidence.Value, 1.0)
	require.Equal(t, 14, a.DaysCount)
}

func TestDetectWarningsEndToEnd(t *testing.T) {
	e := New(nil, WithCache(baseline.NewLRUCache(10, time.Minute)))
	in := fixtureInput(14)

	rep, err := e.DetectWarnings(context.Background(), "user:1:baseline", in, nil)
	require.NoError(t, err)
	require.True(t, rep.Available)
	// Warnings stay severity-sorted whatever fires.
	rank := map[warning.Severity]int{
		warning.SeverityHigh:   0,
		warning.SeverityMedium: 1,
		warning.SeverityLow:    2,
	}
	for i := 1; i < len(rep.Warnings); i++ {
		require.LessOrEqual(t, rank[rep.Warnings[i-1].Severity], rank[rep.Warnings[i].Severity])
	}
}

func TestSimulateEndToEnd(t *testing.T) {
	e := New(nil, WithCache(baseline.NewLRUCache(10, time.Minute)))
	in := fixtureInput(14)

	sim, err := e.Simulate(context.Background(), "user:1:baseline", whatif.Request{
		Action: whatif.ActionAddProtein,
		Params: map[string]float64{"proteinGrams": 45},
	}, in)
	require.NoError(t, err)
	require.True(t, sim.Available)
	require.NotEmpty(t, sim.Impacts)
	require.GreaterOrEqual(t, sim.Confidence, 0.5)
	require.LessOrEqual(t, sim.Confidence, 1.0)
}

func TestSimulateThinHistory(t *testing.T) {
	e := New(nil)
	sim, err := e.Simulate(context.Background(), "", whatif.Request{Action: whatif.ActionAddFiber}, fixtureInput(3))
	require.NoError(t, err)
	require.False(t, sim.Available)
	require.Equal(t, "insufficient_history", sim.Reason)
}
