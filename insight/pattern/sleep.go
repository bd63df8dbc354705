package pattern

import (
	"context"
	"math"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/stats"
)

// Pattern ids, sleep group.
const (
	PatternSleepWeight  = "sleep_weight"
	PatternSleepHunger  = "sleep_hunger"
	PatternSleepQuality = "sleep_quality"
)

func sleepAnalyzers() []Analyzer {
	return []Analyzer{
		newAnalyzer(PatternSleepWeight, CategoryRecovery, analyzeSleepWeight),
		newAnalyzer(PatternSleepHunger, CategoryRecovery, analyzeSleepHunger),
		newAnalyzer(PatternSleepQuality, CategoryRecovery, analyzeSleepQuality),
	}
}

// analyzeSleepWeight correlates sleep duration with the next morning's
// weight change. A negative correlation (more sleep, less weight) scores high.
func analyzeSleepWeight(_ context.Context, in *Input) (*Result, error) {
	const minPairs = 7
	cfg := in.Config()

	var sleeps, deltas []float64
	for i := 0; i+1 < len(in.Days); i++ {
		sleep := in.Days[i].Sleep()
		w0 := in.Days[i].WeightMorning
		w1 := in.Days[i+1].WeightMorning
		if sleep <= 0 || w0 <= 0 || w1 <= 0 {
			continue
		}
		sleeps = append(sleeps, sleep)
		deltas = append(deltas, w1-w0)
	}
	if len(sleeps) < minPairs {
		return Unavailable(PatternSleepWeight, ReasonNoSignal, minPairs, len(sleeps)), nil
	}

	corr := stats.Pearson(sleeps, deltas)
	score := stats.Clamp(math.Round(50+corr*-50), 0, 100)

	var insight string
	switch {
	case math.Abs(corr) < cfg.MinCorrelationDisplay:
		insight = "➖ No clear link between sleep and weight yet"
	case corr < 0:
		insight = "✅ Longer sleep tracks with better weight trend"
	default:
		insight = "🟠 Short sleep tracks with weight gain"
	}

	return &Result{
		Pattern:            PatternSleepWeight,
		Available:          true,
		Score:              score,
		Confidence:         confidenceByDays(len(sleeps), 0.5, 0.8, 10),
		Insight:            insight,
		DataPoints:         len(sleeps),
		RequiredDataPoints: minPairs,
		Metrics: map[string]float64{
			"correlation": stats.Round2(corr),
			"avgSleepH":   stats.Round1(stats.Average(sleeps)),
		},
	}, nil
}

// analyzeSleepHunger correlates sleep deficit with same-day calorie intake.
func analyzeSleepHunger(_ context.Context, in *Input) (*Result, error) {
	const minPairs = 7
	cfg := in.Config()
	target := in.Profile.SleepTarget()

	var deficits, kcals []float64
	for _, d := range in.Days {
		sleep := d.Sleep()
		kcal := model.DayKcal(d, in.Products)
		if sleep <= 0 || kcal <= 0 {
			continue
		}
		deficits = append(deficits, math.Max(0, target-sleep))
		kcals = append(kcals, kcal)
	}
	if len(deficits) < minPairs {
		return Unavailable(PatternSleepHunger, ReasonNoSignal, minPairs, len(deficits)), nil
	}

	corr := stats.Pearson(deficits, kcals)
	score := stats.Clamp(math.Round(50-corr*50), 0, 100)

	var insight string
	switch {
	case math.Abs(corr) < cfg.MinCorrelationDisplay:
		insight = "➖ Sleep deficit does not visibly drive appetite"
	case corr > 0:
		insight = "🟠 Short nights are followed by bigger eating days"
	default:
		insight = "✅ Appetite holds steady even after short sleep"
	}

	return &Result{
		Pattern:            PatternSleepHunger,
		Available:          true,
		Score:              score,
		Confidence:         confidenceByDays(len(deficits), 0.5, 0.8, 10),
		Insight:            insight,
		DataPoints:         len(deficits),
		RequiredDataPoints: minPairs,
		Metrics: map[string]float64{
			"correlation":  stats.Round2(corr),
			"avgDeficitH":  stats.Round1(stats.Average(deficits)),
			"sleepTargetH": target,
		},
	}, nil
}

// analyzeSleepQuality looks for time-lagged effects of subjective sleep
// quality on the following day's weight, intake, and steps, and reports the
// strongest link.
func analyzeSleepQuality(_ context.Context, in *Input) (*Result, error) {
	const minDays = 8
	const minPairs = 7
	cfg := in.Config()
	if len(in.Days) < minDays {
		return Unavailable(PatternSleepQuality, ReasonMinDays, minDays, len(in.Days)), nil
	}

	type lagged struct {
		name string
		xs   []float64
		ys   []float64
	}
	metricsSets := map[string]*lagged{
		"weight": {name: "weight"},
		"kcal":   {name: "kcal"},
		"steps":  {name: "steps"},
	}
	for i := 0; i+1 < len(in.Days); i++ {
		q := in.Days[i].SleepQuality
		if q <= 0 {
			continue
		}
		next := in.Days[i+1]
		if next.WeightMorning > 0 {
			m := metricsSets["weight"]
			m.xs = append(m.xs, q)
			m.ys = append(m.ys, next.WeightMorning)
		}
		if kcal := model.DayKcal(next, in.Products); kcal > 0 {
			m := metricsSets["kcal"]
			m.xs = append(m.xs, q)
			m.ys = append(m.ys, kcal)
		}
		if next.Steps > 0 {
			m := metricsSets["steps"]
			m.xs = append(m.xs, q)
			m.ys = append(m.ys, next.Steps)
		}
	}

	maxAbs := 0.0
	points := 0
	keyMetric := ""
	corrs := map[string]float64{}
	for name, m := range metricsSets {
		if len(m.xs) < minPairs {
			continue
		}
		points += len(m.xs)
		r := stats.Pearson(m.xs, m.ys)
		corrs["corr_"+name] = stats.Round2(r)
		if math.Abs(r) > maxAbs {
			maxAbs = math.Abs(r)
			keyMetric = name
		}
	}

	if keyMetric == "" || maxAbs < cfg.MinCorrelationDisplay {
		corrs["maxAbsCorrelation"] = stats.Round2(maxAbs)
		return &Result{
			Pattern:    PatternSleepQuality,
			Available:  true,
			Score:      50,
			Confidence: 0.3,
			Insight:    "➖ Sleep quality shows no strong next-day effect yet",
			DataPoints: points,
			Metrics:    corrs,
		}, nil
	}

	var score float64
	switch {
	case maxAbs >= 0.5:
		score = 90
	case maxAbs >= 0.4:
		score = 75
	default:
		score = 60
	}

	base := 0.5
	if points < 14 {
		base = 0.25
	}
	corrs["maxAbsCorrelation"] = stats.Round2(maxAbs)

	insight := "🛌 Sleep quality strongly carries into the next day (" + keyMetric + ")"
	return &Result{
		Pattern:    PatternSleepQuality,
		Available:  true,
		Score:      score,
		Confidence: stats.Clamp(base*(1+maxAbs), 0, 1),
		Insight:    insight,
		DataPoints: points,
		Metrics:    corrs,
	}, nil
}
