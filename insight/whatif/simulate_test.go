package whatif

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/nutrisense/insight/baseline"
	"github.com/hrygo/nutrisense/insight/pattern"
)

func testSnapshot() *baseline.Snapshot {
	return &baseline.Snapshot{
		ID:     "snap",
		Days:   14,
		Source: baseline.SourceComputed,
		Scores: map[string]float64{
			pattern.PatternProteinSatiety:   50,
			pattern.PatternNutritionQuality: 60,
			pattern.PatternMealTiming:       55,
			pattern.PatternTrainingRecovery: 70,
			pattern.PatternLateEating:       40,
			pattern.PatternSleepWeight:      50,
			pattern.PatternSleepQuality:     45,
			pattern.PatternGlycemicLoad:     95,
		},
	}
}

func TestSimulateAddProtein(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	res, err := sim.Simulate(context.Background(), Request{
		Action: ActionAddProtein,
		Params: map[string]float64{"proteinGrams": 45},
	}, testSnapshot())
	require.NoError(t, err)
	require.True(t, res.Available)
	require.Equal(t, 1.5, res.Coefficient)

	var satiety *Impact
	for i := range res.Impacts {
		if res.Impacts[i].Pattern == pattern.PatternProteinSatiety {
			satiety = &res.Impacts[i]
		}
	}
	require.NotNil(t, satiety)
	// 12 * 1.5 = 18 on a baseline of 50.
	require.Equal(t, 50.0, satiety.Baseline)
	require.Equal(t, 68.0, satiety.Predicted)
	require.Equal(t, 18.0, satiety.Delta)
	require.Equal(t, SignificanceHigh, satiety.Significance)
	require.False(t, satiety.Secondary)
}

func TestSimulateUnknownAction(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	res, err := sim.Simulate(context.Background(), Request{Action: "teleport"}, testSnapshot())
	require.NoError(t, err)
	require.False(t, res.Available)
	require.Equal(t, "unknown_action", res.Reason)
}

func TestSimulateInsufficientHistory(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	snap := testSnapshot()
	snap.Days = 4
	res, err := sim.Simulate(context.Background(), Request{Action: ActionAddProtein}, snap)
	require.NoError(t, err)
	require.False(t, res.Available)
	require.Equal(t, "insufficient_history", res.Reason)
}

func TestSimulateCoefficientClamp(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())

	res, err := sim.Simulate(context.Background(), Request{
		Action: ActionAddProtein,
		Params: map[string]float64{"proteinGrams": 300},
	}, testSnapshot())
	require.NoError(t, err)
	require.Equal(t, 2.0, res.Coefficient)

	res, err = sim.Simulate(context.Background(), Request{
		Action: ActionAddProtein,
		Params: map[string]float64{"proteinGrams": 1},
	}, testSnapshot())
	require.NoError(t, err)
	require.Equal(t, 0.5, res.Coefficient)
}

func TestSimulatePredictionCeiling(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	res, err := sim.Simulate(context.Background(), Request{Action: ActionReduceCarbs}, testSnapshot())
	require.NoError(t, err)

	for _, imp := range res.Impacts {
		require.LessOrEqual(t, imp.Predicted, 100.0)
		require.GreaterOrEqual(t, imp.Predicted, 0.0)
		if imp.Pattern == pattern.PatternGlycemicLoad {
			// Baseline 95 leaves only 5 points of headroom.
			require.Equal(t, 100.0, imp.Predicted)
			require.Equal(t, 5.0, imp.Delta)
		}
	}
}

func TestSimulateImpactOrderingAndSideBenefits(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	res, err := sim.Simulate(context.Background(), Request{Action: ActionAddProtein}, testSnapshot())
	require.NoError(t, err)

	for i := 1; i < len(res.Impacts); i++ {
		require.GreaterOrEqual(t,
			math.Abs(res.Impacts[i-1].Delta),
			math.Abs(res.Impacts[i].Delta),
			"impacts must be sorted by |delta|")
	}
	for _, sb := range res.SideBenefits {
		require.True(t, sb.Secondary)
		require.Greater(t, sb.Delta, 0.0)
	}
}

func TestSimulateSecondaryHalved(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	res, err := sim.Simulate(context.Background(), Request{Action: ActionAddProtein}, testSnapshot())
	require.NoError(t, err)

	for _, imp := range res.Impacts {
		if imp.Pattern == pattern.PatternMealTiming {
			// Secondary 6 * 1.0 * 0.5 = 3.
			require.Equal(t, 3.0, imp.Delta)
			require.Equal(t, SignificanceLow, imp.Significance)
		}
	}
}

func TestSimulateDeterministicApartFromID(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	req := Request{Action: ActionSkipLateMeal}
	snap := testSnapshot()

	a, err := sim.Simulate(context.Background(), req, snap)
	require.NoError(t, err)
	b, err := sim.Simulate(context.Background(), req, snap)
	require.NoError(t, err)

	require.NotEqual(t, a.ID, b.ID)
	a.ID, b.ID = "", ""
	require.Equal(t, a, b)
}

func TestSimulateHealthScoreChangePositive(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	res, err := sim.Simulate(context.Background(), Request{Action: ActionIncreaseSleep}, testSnapshot())
	require.NoError(t, err)
	require.Greater(t, res.HealthScoreChange.Delta, 0.0)
	require.Greater(t, res.HealthScoreChange.Percent, 0.0)
	require.NotEmpty(t, res.Tips)
}

func TestSimulateSkipsPatternsWithoutBaseline(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	snap := &baseline.Snapshot{
		ID:     "snap",
		Days:   14,
		Source: baseline.SourceComputed,
		Scores: map[string]float64{
			pattern.PatternSleepWeight:  50,
			pattern.PatternSleepQuality: 45,
		},
	}
	res, err := sim.Simulate(context.Background(), Request{Action: ActionIncreaseSleep}, snap)
	require.NoError(t, err)
	require.True(t, res.Available)

	// increase_sleep also touches training_recovery and nutrition_quality,
	// but neither has a baseline so neither may be projected.
	require.Len(t, res.Impacts, 2)
	for _, imp := range res.Impacts {
		require.Contains(t, []string{pattern.PatternSleepWeight, pattern.PatternSleepQuality}, imp.Pattern)
	}
	require.NotContains(t, res.BaselineScores, pattern.PatternTrainingRecovery)
	require.NotContains(t, res.PredictedScores, pattern.PatternNutritionQuality)
}

func TestSimulateScoreMapsAndDescriptions(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	res, err := sim.Simulate(context.Background(), Request{
		Action: ActionAddProtein,
		Params: map[string]float64{"proteinGrams": 45},
	}, testSnapshot())
	require.NoError(t, err)

	require.Equal(t, 50.0, res.BaselineScores[pattern.PatternProteinSatiety])
	require.Equal(t, 68.0, res.PredictedScores[pattern.PatternProteinSatiety])
	for _, imp := range res.Impacts {
		require.NotEmpty(t, imp.Description, imp.Pattern)
		require.Equal(t, imp.Baseline, res.BaselineScores[imp.Pattern])
		require.Equal(t, imp.Predicted, res.PredictedScores[imp.Pattern])
	}
}

func TestSimulateAllActionsRun(t *testing.T) {
	sim := NewSimulator(pattern.DefaultRegistry())
	for _, action := range Actions() {
		res, err := sim.Simulate(context.Background(), Request{Action: action}, testSnapshot())
		require.NoError(t, err, string(action))
		require.True(t, res.Available, string(action))
		require.NotEmpty(t, res.Impacts, string(action))
		require.NotEmpty(t, res.Tips, string(action))
	}
}

func TestSimulateHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSimulator(pattern.DefaultRegistry()).Simulate(ctx, Request{Action: ActionAddProtein}, testSnapshot())
	require.ErrorIs(t, err, context.Canceled)
}
