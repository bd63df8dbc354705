package health

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/pattern"
)

func TestGoalModeFor(t *testing.T) {
	require.Equal(t, GoalMaintenance, GoalModeFor(nil))
	require.Equal(t, GoalDeficit, GoalModeFor(&model.Profile{DeficitPctTarget: -15}))
	require.Equal(t, GoalBulk, GoalModeFor(&model.Profile{DeficitPctTarget: 12}))
	require.Equal(t, GoalMaintenance, GoalModeFor(&model.Profile{DeficitPctTarget: 5}))
}

func TestReliability(t *testing.T) {
	require.Equal(t, 0.8, Reliability(&pattern.Result{Confidence: 0.8}))
	// Percent-scale confidence gets normalized.
	require.Equal(t, 0.8, Reliability(&pattern.Result{Confidence: 80}))
	// Floor.
	require.Equal(t, 0.15, Reliability(&pattern.Result{Confidence: 0.01}))
	// Preliminary results cap at 0.55.
	require.Equal(t, 0.55, Reliability(&pattern.Result{Confidence: 0.9, Preliminary: true}))
	// Sparse coverage scales the factor down, floored at a quarter.
	r := &pattern.Result{Confidence: 0.8, DataPoints: 1, RequiredDataPoints: 100}
	require.Equal(t, 0.2, Reliability(r))
}

func TestCalculateSingleCategory(t *testing.T) {
	reg := pattern.DefaultRegistry()
	results := map[string]*pattern.Result{
		pattern.PatternNutritionQuality: {Pattern: pattern.PatternNutritionQuality, Available: true, Score: 80, Confidence: 1},
		pattern.PatternFiberRegularity:  {Pattern: pattern.PatternFiberRegularity, Available: true, Score: 60, Confidence: 1},
	}
	s := Calculate(results, reg, GoalMaintenance)
	require.True(t, s.Available)
	// Equal reliability: plain average of the one populated category.
	require.Equal(t, 70.0, s.Total)
	require.Len(t, s.Categories, 1)
	require.Equal(t, pattern.CategoryNutrition, s.Categories[0].Category)
	require.Equal(t, 2, s.Categories[0].Patterns)
}

func TestCalculateSkipsUnavailable(t *testing.T) {
	reg := pattern.DefaultRegistry()
	results := map[string]*pattern.Result{
		pattern.PatternNutritionQuality: {Available: true, Score: 90, Confidence: 1},
		pattern.PatternMealTiming:       {Available: false},
	}
	s := Calculate(results, reg, GoalDeficit)
	require.True(t, s.Available)
	require.Equal(t, 90.0, s.Total)
	require.Len(t, s.Categories, 1)
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil, pattern.DefaultRegistry(), GoalMaintenance)
	require.False(t, s.Available)
}

func TestCalculateWeightsReliability(t *testing.T) {
	reg := pattern.DefaultRegistry()
	// A shaky high score should pull the category less than a solid low one.
	results := map[string]*pattern.Result{
		pattern.PatternNutritionQuality: {Available: true, Score: 100, Confidence: 0.15},
		pattern.PatternFiberRegularity:  {Available: true, Score: 40, Confidence: 1},
	}
	s := Calculate(results, reg, GoalMaintenance)
	require.True(t, s.Available)
	require.Less(t, s.Total, 70.0)
}

func weighDays(weights []float64) []model.DayRecord {
	days := make([]model.DayRecord, len(weights))
	for i, w := range weights {
		days[i] = model.DayRecord{
			Date:          fmt.Sprintf("2025-03-%02d", i+1),
			WeightMorning: w,
		}
	}
	return days
}

func TestPredictWeightNeedsThreeEntries(t *testing.T) {
	f := PredictWeight(weighDays([]float64{80, 79.8}), nil)
	require.False(t, f.Available)
	require.Equal(t, "min_weight_entries", f.Reason)
}

func TestPredictWeightLinearLoss(t *testing.T) {
	// 100 g/day loss for a week.
	f := PredictWeight(weighDays([]float64{80, 79.9, 79.8, 79.7, 79.6, 79.5, 79.4}), nil)
	require.True(t, f.Available)
	require.InDelta(t, -0.7, f.WeeklyChangeKG, 0.01)
	require.InDelta(t, 78.7, f.ProjectedWeight, 0.05)
	require.Equal(t, 79.4, f.CurrentWeight)
}

func TestPredictWeightExcludesEarlyCycleDays(t *testing.T) {
	days := weighDays([]float64{80, 79.9, 79.8, 79.7, 82.5, 82.6, 79.3})
	// Water-retention spike flagged as cycle days 1-2.
	days[4].CycleDay = 1
	days[5].CycleDay = 2
	f := PredictWeight(days, nil)
	require.True(t, f.Available)
	// Clean trend ignores the spike and stays near -0.1 kg/day.
	require.InDelta(t, -0.7, f.WeeklyChangeKG, 0.15)
}

func TestPredictWeightWeeksToGoal(t *testing.T) {
	f := PredictWeight(
		weighDays([]float64{80, 79.9, 79.8, 79.7, 79.6, 79.5, 79.4}),
		&model.Profile{WeightGoal: 78},
	)
	require.True(t, f.Available)
	// 1.4 kg to go at 0.7 kg/week.
	require.InDelta(t, 2.0, f.WeeksToGoal, 0.1)
}
