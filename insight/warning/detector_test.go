package warning

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/pattern"
)

func plainDays(n int) []model.DayRecord {
	days := make([]model.DayRecord, n)
	for i := range days {
		days[i] = model.DayRecord{
			Date:       fmt.Sprintf("2025-03-%02d", i+1),
			SleepHours: 8,
			EatenKcal:  2000,
		}
	}
	return days
}

func TestDetectInsufficientData(t *testing.T) {
	d := NewDetector(nil)
	rep, err := d.Detect(context.Background(), &Input{Days: plainDays(5)})
	require.NoError(t, err)
	require.False(t, rep.Available)
	require.Equal(t, "insufficient_data", rep.Reason)
	require.Equal(t, 7, rep.MinDaysRequired)
	require.Empty(t, rep.Warnings)
}

func TestDetectNoSignals(t *testing.T) {
	d := NewDetector(nil)
	rep, err := d.Detect(context.Background(), &Input{
		Days:    plainDays(10),
		Profile: &model.Profile{OptimumKcal: 2000},
	})
	require.NoError(t, err)
	require.True(t, rep.Available)
	require.Zero(t, rep.Count)
	require.Equal(t, "No early-warning signals", rep.Summary)
}

func TestIsConsecutiveDecline(t *testing.T) {
	require.True(t, isConsecutiveDecline([]float64{80, 70, 60}, 3))
	require.True(t, isConsecutiveDecline([]float64{90, 80, 70, 60}, 3))
	require.False(t, isConsecutiveDecline([]float64{80, 80, 60}, 3))
	require.False(t, isConsecutiveDecline([]float64{60, 70, 80}, 3))
	require.False(t, isConsecutiveDecline([]float64{80, 70}, 3))
}

func TestHealthScoreDecline(t *testing.T) {
	d := NewDetector(nil)
	in := &Input{
		Days:         plainDays(10),
		Profile:      &model.Profile{OptimumKcal: 2000},
		HealthScores: []float64{80, 81, 79, 65, 64, 66},
	}
	rep, err := d.Detect(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 1, rep.Count)
	w := rep.Warnings[0]
	require.Equal(t, TypeHealthScoreDecline, w.Type)
	require.Equal(t, SeverityMedium, w.Severity)
	require.InDelta(t, 15, w.Metrics["drop"], 0.01)

	// Double the delta escalates to high.
	in.HealthScores = []float64{85, 85, 85, 60, 60, 60}
	rep, err = d.Detect(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, SeverityHigh, rep.Warnings[0].Severity)
}

func TestPatternDegradation(t *testing.T) {
	d := NewDetector(nil)
	in := &Input{
		Days:    plainDays(10),
		Profile: &model.Profile{OptimumKcal: 2000},
		CurrentPatterns: map[string]*pattern.Result{
			pattern.PatternMealTiming: {Available: true, Score: 56},
		},
		PreviousScores: map[string]float64{
			pattern.PatternMealTiming: 80,
		},
	}
	rep, err := d.Detect(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 1, rep.Count)
	w := rep.Warnings[0]
	require.Equal(t, TypeCriticalPatternDegradation, w.Type)
	// 56 from 80 is a 30% slide.
	require.Equal(t, SeverityHigh, w.Severity)
	require.InDelta(t, -0.3, w.Metrics["relativeChange"], 0.01)
}

func TestLowScoreScan(t *testing.T) {
	d := NewDetector(nil)
	in := &Input{
		Days:    plainDays(10),
		Profile: &model.Profile{OptimumKcal: 2000},
		CurrentPatterns: map[string]*pattern.Result{
			pattern.PatternMealTiming:       {Available: true, Score: 30}, // critical, high
			pattern.PatternHydration:        {Available: true, Score: 42}, // critical, watch line
			pattern.PatternMoodTrajectory:   {Available: true, Score: 40}, // non-critical, medium
			pattern.PatternNutritionQuality: {Available: true, Score: 80},
		},
	}
	rep, err := d.Detect(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 3, rep.Count)
	require.Equal(t, 1, rep.HighSeverityCount)
	require.Equal(t, 2, rep.MediumSeverityCount)
	// Sorted high first.
	require.Equal(t, SeverityHigh, rep.Warnings[0].Severity)
	require.Equal(t, pattern.PatternMealTiming, rep.Warnings[0].Pattern)
}

func TestStatusScoreDecline(t *testing.T) {
	d := NewDetector(nil)
	days := plainDays(10)
	for i, score := range []float64{0, 0, 0, 0, 82, 81, 80, 72, 66, 60} {
		days[i].DayScore = score
	}
	rep, err := d.Detect(context.Background(), &Input{
		Days:    days,
		Profile: &model.Profile{OptimumKcal: 2000},
	})
	require.NoError(t, err)
	require.Equal(t, 1, rep.Count)
	w := rep.Warnings[0]
	require.Equal(t, TypeStatusScoreDecline, w.Type)
	// Only the declining 3-day window counts: 72 -> 60.
	require.Equal(t, SeverityLow, w.Severity)
	require.InDelta(t, 12, w.Metrics["totalDrop"], 0.01)
	require.InDelta(t, 6, w.Metrics["avgDailyDrop"], 0.01)
}

func TestStatusScoreDeclineIgnoresEarlierHighs(t *testing.T) {
	d := NewDetector(nil)
	days := plainDays(10)
	// A high day early in the week must not inflate the window drop:
	// the last three days slide 80 -> 76 -> 72, only 8 points.
	for i, score := range []float64{0, 0, 0, 0, 95, 82, 81, 80, 76, 72} {
		days[i].DayScore = score
	}
	rep, err := d.Detect(context.Background(), &Input{
		Days:    days,
		Profile: &model.Profile{OptimumKcal: 2000},
	})
	require.NoError(t, err)
	require.Equal(t, 0, rep.Count)
}

func TestSleepDebtMediumSeverity(t *testing.T) {
	d := NewDetector(nil)
	days := plainDays(10)
	for i, h := range []float64{6.2, 6, 6.5} {
		// Most recent three nights, oldest of the trio first.
		days[len(days)-3+i].SleepHours = h
	}
	rep, err := d.Detect(context.Background(), &Input{
		Days:    days,
		Profile: &model.Profile{SleepHoursTarget: 8, OptimumKcal: 2000},
	})
	require.NoError(t, err)
	require.Equal(t, 1, rep.Count)
	w := rep.Warnings[0]
	require.Equal(t, TypeSleepDebt, w.Type)
	// Deficit vs the 8 h target: 1.5 + 2 + 1.8 = 5.3, under the 6 h high bar.
	require.Equal(t, SeverityMedium, w.Severity)
	require.InDelta(t, 5.3, w.Metrics["totalDeficit"], 0.01)
}

func TestSleepDebtResetByOneGoodNight(t *testing.T) {
	d := NewDetector(nil)
	days := plainDays(10)
	for i, h := range []float64{6, 7.5, 6.2} {
		days[len(days)-3+i].SleepHours = h
	}
	rep, err := d.Detect(context.Background(), &Input{
		Days:    days,
		Profile: &model.Profile{SleepHoursTarget: 8, OptimumKcal: 2000},
	})
	require.NoError(t, err)
	require.Zero(t, rep.Count)
}

func TestCaloricDebt(t *testing.T) {
	d := NewDetector(nil)
	days := plainDays(10)
	days[8].EatenKcal = 1200
	days[9].EatenKcal = 1000
	rep, err := d.Detect(context.Background(), &Input{
		Days:    days,
		Profile: &model.Profile{OptimumKcal: 2200},
	})
	require.NoError(t, err)
	require.Equal(t, 1, rep.Count)
	w := rep.Warnings[0]
	require.Equal(t, TypeCaloricDebt, w.Type)
	// Debt 1000 + 1200 = 2200: above 1500, below the 2500 high bar.
	require.Equal(t, SeverityMedium, w.Severity)
	require.InDelta(t, 1100, w.Metrics["avgDebt"], 0.01)
}

func TestSeverityBoundariesAreTunable(t *testing.T) {
	cfg := DefaultThresholds()
	cfg.SleepDebtHighHours = 5
	cfg.CaloricDebtHighKcal = 2000
	d := NewDetector(cfg)

	days := plainDays(10)
	for i, h := range []float64{6.2, 6, 6.5} {
		days[len(days)-3+i].SleepHours = h
	}
	days[8].EatenKcal = 1200
	days[9].EatenKcal = 1000

	rep, err := d.Detect(context.Background(), &Input{
		Days:    days,
		Profile: &model.Profile{SleepHoursTarget: 8, OptimumKcal: 2200},
	})
	require.NoError(t, err)
	require.Equal(t, 2, rep.Count)
	// With the boundaries lowered, the 5.3 h deficit and the 2200 kcal
	// debt both escalate to high.
	for _, w := range rep.Warnings {
		require.Equal(t, SeverityHigh, w.Severity)
	}
}

func TestDetectHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDetector(nil).Detect(ctx, &Input{Days: plainDays(10)})
	require.ErrorIs(t, err, context.Canceled)
}
