package pattern

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/nutrisense/insight/model"
)

func testProducts() model.ProductIndex {
	return model.ProductIndex{
		"salty": {
			ID:       "salty",
			Name:     "Cured meat plate",
			Category: "meat",
			Per100:   model.Nutrients{Protein: 20, SodiumMG: 2500, PotassiumMG: 2000},
		},
		"oats": {
			ID:       "oats",
			Name:     "Rolled oats",
			Category: "grains",
			Per100:   model.Nutrients{Protein: 13, Complex: 56, GoodFat: 6, Fiber: 10, GI: 55},
		},
		"soda": {
			ID:        "soda",
			Name:      "Cola",
			Category:  "drinks",
			NovaGroup: 4,
			Per100:    model.Nutrients{Simple: 10, AddedSugar: 10, GI: 63},
		},
	}
}

func mealOf(t string, productID string, grams float64) model.Meal {
	return model.Meal{Time: t, Items: []model.MealItem{{ProductID: productID, Grams: grams}}}
}

func daysOf(n int, meals ...model.Meal) []model.DayRecord {
	days := make([]model.DayRecord, n)
	for i := range days {
		days[i] = model.DayRecord{
			Date:  fmt.Sprintf("2025-03-%02d", i+1),
			Meals: meals,
		}
	}
	return days
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	require.Equal(t, 36, r.Len())

	ids := r.IDs()
	seen := map[string]bool{}
	for _, id := range ids {
		require.False(t, seen[id], "duplicate analyzer id %q", id)
		seen[id] = true
		a, ok := r.Get(id)
		require.True(t, ok)
		require.Equal(t, id, a.ID())
	}
	require.Equal(t, CategoryTiming, r.CategoryOf(PatternMealTiming))
	require.Equal(t, CategoryMetabolism, r.CategoryOf(PatternHeartHealth))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	a := newAnalyzer("x", CategoryNutrition, func(context.Context, *Input) (*Result, error) {
		return &Result{Available: true}, nil
	})
	require.NoError(t, r.Register(a))
	require.Error(t, r.Register(a))
}

func TestNormalizeScore(t *testing.T) {
	require.Equal(t, 0.5, NormalizeScore(math.NaN()))
	require.Equal(t, 0.5, NormalizeScore(math.Inf(1)))
	require.Equal(t, 0.7, NormalizeScore(70))
	require.Equal(t, 0.7, NormalizeScore(0.7))
	require.Equal(t, 1.0, NormalizeScore(150))
	require.Equal(t, 0.0, NormalizeScore(-3))
}

func TestHeartHealthElevatedSodium(t *testing.T) {
	in := &Input{
		Days:     daysOf(7, mealOf("12:00", "salty", 100)),
		Products: testProducts(),
	}
	res, err := analyzeHeartHealth(context.Background(), in)
	require.NoError(t, err)
	require.True(t, res.Available)
	require.Equal(t, 70.0, res.Score)
	require.InDelta(t, 1.25, res.Metrics["naKRatio"], 1e-9)
	require.Contains(t, res.Insight, "Elevated sodium")
}

func TestHeartHealthNeedsSevenDays(t *testing.T) {
	in := &Input{
		Days:     daysOf(4, mealOf("12:00", "salty", 100)),
		Products: testProducts(),
	}
	res, err := analyzeHeartHealth(context.Background(), in)
	require.NoError(t, err)
	require.False(t, res.Available)
	require.Equal(t, ReasonMinDays, res.Reason)
	require.Equal(t, 7, res.MinDaysRequired)
	require.Equal(t, 4, res.DaysProvided)
}

func TestLateEatingPenalizesEveningMeals(t *testing.T) {
	days := daysOf(5,
		mealOf("08:00", "oats", 100),
		mealOf("13:00", "oats", 100),
		mealOf("22:30", "soda", 330),
	)
	in := &Input{Days: days, Products: testProducts()}
	res, err := analyzeLateEating(context.Background(), in)
	require.NoError(t, err)
	require.True(t, res.Available)
	// One of three meals is late: 33.3% -> 100 - 66.7.
	require.InDelta(t, 33.3, res.Metrics["latePct"], 0.1)
	require.InDelta(t, 33.3, res.Score, 0.2)
}

func TestWaveOverlapCleanWindows(t *testing.T) {
	days := daysOf(7,
		mealOf("08:00", "oats", 100),
		mealOf("12:00", "oats", 100),
		mealOf("18:00", "oats", 100),
	)
	in := &Input{Days: days, Products: testProducts()}
	res, err := analyzeWaveOverlap(context.Background(), in)
	require.NoError(t, err)
	require.True(t, res.Available)
	require.Equal(t, 100.0, res.Score)
	require.Equal(t, 0.0, res.Metrics["overlapCount"])
}

func TestWaveOverlapDetectsTightGaps(t *testing.T) {
	days := daysOf(7,
		mealOf("12:00", "oats", 100),
		mealOf("13:30", "oats", 100), // 90 min into a 180 min wave
	)
	in := &Input{Days: days, Products: testProducts()}
	res, err := analyzeWaveOverlap(context.Background(), in)
	require.NoError(t, err)
	require.True(t, res.Available)
	require.Equal(t, 50.0, res.Score)
	require.InDelta(t, 50.0, res.Metrics["avgOverlapPct"], 1e-9)
}

func TestStressEatingUnavailableWithoutStressData(t *testing.T) {
	in := &Input{Days: daysOf(10, mealOf("12:00", "oats", 100)), Products: testProducts()}
	res, err := analyzeStressEating(context.Background(), in)
	require.NoError(t, err)
	require.False(t, res.Available)
	require.Equal(t, ReasonNoStress, res.Reason)
	require.Equal(t, 0.2, res.Confidence)
}

func TestStressEatingPositiveCorrelation(t *testing.T) {
	days := daysOf(10, mealOf("12:00", "oats", 100))
	for i := range days {
		days[i].StressAvg = float64(i + 1)
		days[i].EatenKcal = 1800 + float64(i)*120
	}
	in := &Input{Days: days, Products: testProducts()}
	res, err := analyzeStressEating(context.Background(), in)
	require.NoError(t, err)
	require.True(t, res.Available)
	// Perfect positive correlation drives the score to the floor.
	require.Equal(t, 0.0, res.Score)
	require.InDelta(t, 1.0, res.Metrics["correlation"], 1e-9)
}

func TestCycleImpactNotApplicable(t *testing.T) {
	in := &Input{
		Days:    daysOf(30, mealOf("12:00", "oats", 100)),
		Profile: &model.Profile{Gender: "male"},
	}
	res, err := analyzeCycleImpact(context.Background(), in)
	require.NoError(t, err)
	require.False(t, res.Available)
	require.Equal(t, ReasonNotApplicable, res.Reason)
	require.Equal(t, 0.0, res.Confidence)
}

func TestStepsWeightPreliminaryWithoutWeightPairs(t *testing.T) {
	days := daysOf(10, mealOf("12:00", "oats", 100))
	for i := range days {
		days[i].Steps = 9000
	}
	in := &Input{Days: days, Products: testProducts()}
	res, err := analyzeStepsWeight(context.Background(), in)
	require.NoError(t, err)
	require.True(t, res.Available)
	require.True(t, res.Preliminary)
	require.Equal(t, 70.0, res.Score)
	require.Equal(t, 0.25, res.Confidence)
}

func TestNutritionQualityRewardsProteinAndFiber(t *testing.T) {
	days := daysOf(7, mealOf("08:00", "oats", 200))
	in := &Input{Days: days, Products: testProducts()}
	res, err := analyzeNutritionQuality(context.Background(), in)
	require.NoError(t, err)
	require.True(t, res.Available)
	// 200 g oats: 26 g protein, 112 g complex carbs, 12 g fat.
	// kcal = 634, protein 12.3% -> +0, fiber 31.5/1000 -> +20,
	// simple 0% -> +15, goodFat 100% -> +15, 1 category, 1 product.
	require.Equal(t, 50.0, res.Score)
	require.Equal(t, 0.8, res.Confidence)
}

func TestAnalyzerHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, ok := DefaultRegistry().Get(PatternHeartHealth)
	require.True(t, ok)
	_, err := a.Analyze(ctx, &Input{Days: daysOf(7, mealOf("12:00", "salty", 100)), Products: testProducts()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestUnavailableResultShape(t *testing.T) {
	r := Unavailable("x", ReasonMinDays, 7, 2)
	require.False(t, r.Available)
	require.Equal(t, "x", r.Pattern)
	require.Equal(t, 7, r.MinDaysRequired)
	require.Equal(t, 2, r.DaysProvided)
}
