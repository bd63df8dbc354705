package pattern

import (
	"context"
	"fmt"
	"math"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/stats"
)

// Pattern ids, lifestyle group.
const (
	PatternProteinSatiety       = "protein_satiety"
	PatternStressEating         = "stress_eating"
	PatternWellbeingCorrelation = "wellbeing_correlation"
	PatternCycleImpact          = "cycle_impact"
	PatternHydration            = "hydration"
	PatternBodyComposition      = "body_composition"
	PatternMoodTrajectory       = "mood_trajectory"
)

func lifestyleAnalyzers() []Analyzer {
	return []Analyzer{
		newAnalyzer(PatternProteinSatiety, CategoryNutrition, analyzeProteinSatiety),
		newAnalyzer(PatternStressEating, CategoryRecovery, analyzeStressEating),
		newAnalyzer(PatternWellbeingCorrelation, CategoryRecovery, analyzeWellbeingCorrelation),
		newAnalyzer(PatternCycleImpact, CategoryRecovery, analyzeCycleImpact),
		newAnalyzer(PatternHydration, CategoryNutrition, analyzeHydration),
		newAnalyzer(PatternBodyComposition, CategoryMetabolism, analyzeBodyComposition),
		newAnalyzer(PatternMoodTrajectory, CategoryRecovery, analyzeMoodTrajectory),
	}
}

// analyzeProteinSatiety scores the average protein share of daily calories
// and reports its correlation with total intake.
func analyzeProteinSatiety(_ context.Context, in *Input) (*Result, error) {
	const minPairs = 7

	var proteinPcts, kcals []float64
	for _, d := range in.Days {
		n := model.DayNutrients(d, in.Products)
		kcal := n.Kcal()
		if kcal <= 0 {
			continue
		}
		proteinPcts = append(proteinPcts, n.Protein*3/kcal*100)
		kcals = append(kcals, kcal)
	}
	if len(proteinPcts) < minPairs {
		r := Unavailable(PatternProteinSatiety, ReasonNoSignal, minPairs, len(proteinPcts))
		r.Confidence = 0.2
		return r, nil
	}

	avgPct := stats.Average(proteinPcts)
	corr := stats.Pearson(proteinPcts, kcals)

	score := 60.0
	insight := "🟡 Protein share below the satiety zone"
	switch {
	case avgPct >= 25:
		score = 100
		insight = "✅ High protein share — strong satiety support"
	case avgPct >= 20:
		score = 80
		insight = "🟢 Solid protein share"
	}

	conf := 0.5
	if len(proteinPcts) >= 10 {
		conf = 0.8
	}

	return &Result{
		Pattern:    PatternProteinSatiety,
		Available:  true,
		Score:      score,
		Confidence: conf,
		Insight:    insight,
		DataPoints: len(proteinPcts),
		Metrics: map[string]float64{
			"avgProteinPct":   stats.Round1(avgPct),
			"kcalCorrelation": stats.Round2(corr),
		},
	}, nil
}

// analyzeStressEating correlates daily stress averages with calorie intake.
func analyzeStressEating(_ context.Context, in *Input) (*Result, error) {
	const minPairs = 7

	var stress, kcals []float64
	for _, d := range in.Days {
		if d.StressAvg <= 0 {
			continue
		}
		kcal := model.DayKcal(d, in.Products)
		if kcal <= 0 {
			continue
		}
		stress = append(stress, d.StressAvg)
		kcals = append(kcals, kcal)
	}
	if len(stress) < minPairs {
		r := Unavailable(PatternStressEating, ReasonNoStress, minPairs, len(stress))
		r.Confidence = 0.2
		return r, nil
	}

	corr := stats.Pearson(stress, kcals)
	score := stats.Clamp(math.Round(50-corr*50), 0, 100)

	base := 0.5
	if len(stress) < 14 {
		base = 0.25
	}
	conf := base
	if math.Abs(corr) >= in.Config().MinCorrelationDisplay {
		conf = stats.Clamp(base*(1+math.Abs(corr)), 0, 1)
	}

	var insight string
	switch {
	case corr >= 0.35:
		insight = "🟠 Stressful days pull intake up with them"
	case corr <= -0.35:
		insight = "🟡 Stress suppresses your appetite"
	default:
		insight = "✅ No clear link between stress and intake"
	}

	return &Result{
		Pattern:    PatternStressEating,
		Available:  true,
		Score:      score,
		Confidence: conf,
		Insight:    insight,
		DataPoints: len(stress),
		Metrics: map[string]float64{
			"correlation": stats.Round2(corr),
		},
	}, nil
}

// analyzeWellbeingCorrelation hunts for the lifestyle factor most strongly
// correlated with the daily wellbeing average.
func analyzeWellbeingCorrelation(_ context.Context, in *Input) (*Result, error) {
	const minPairs = 7

	factors := map[string]func(model.DayRecord) (float64, bool){
		"sleepQuality": func(d model.DayRecord) (float64, bool) { return d.SleepQuality, d.SleepQuality > 0 },
		"sleepHours":   func(d model.DayRecord) (float64, bool) { return d.Sleep(), d.Sleep() > 0 },
		"steps":        func(d model.DayRecord) (float64, bool) { return float64(d.Steps), d.Steps > 0 },
		"protein": func(d model.DayRecord) (float64, bool) {
			p := model.DayNutrients(d, in.Products).Protein
			return p, p > 0
		},
		"kcal": func(d model.DayRecord) (float64, bool) {
			k := model.DayKcal(d, in.Products)
			return k, k > 0
		},
	}

	correlations := map[string]float64{}
	points := 0
	for name, extract := range factors {
		var xs, ys []float64
		for _, d := range in.Days {
			if d.WellbeingAvg <= 0 {
				continue
			}
			v, ok := extract(d)
			if !ok {
				continue
			}
			xs = append(xs, v)
			ys = append(ys, d.WellbeingAvg)
		}
		if len(xs) < minPairs {
			continue
		}
		correlations[name] = stats.Pearson(xs, ys)
		if len(xs) > points {
			points = len(xs)
		}
	}
	if len(correlations) == 0 {
		r := Unavailable(PatternWellbeingCorrelation, ReasonNoSignal, minPairs, len(in.Days))
		r.Confidence = 0.2
		return r, nil
	}

	keyFactor, maxAbs := "", 0.0
	metrics := map[string]float64{}
	for name, corr := range correlations {
		metrics["corr_"+name] = stats.Round2(corr)
		if math.Abs(corr) > maxAbs {
			maxAbs = math.Abs(corr)
			keyFactor = name
		}
	}

	if maxAbs < in.Config().MinCorrelationDisplay {
		return &Result{
			Pattern:    PatternWellbeingCorrelation,
			Available:  true,
			Score:      50,
			Confidence: 0.3,
			Insight:    "🟡 No single factor dominates your wellbeing yet",
			DataPoints: points,
			Metrics:    metrics,
		}, nil
	}

	score := 60.0
	switch {
	case maxAbs >= 0.5:
		score = 90
	case maxAbs >= 0.4:
		score = 75
	}

	base := 0.5
	if points < 14 {
		base = 0.25
	}

	metrics["maxAbsCorrelation"] = stats.Round2(maxAbs)
	return &Result{
		Pattern:    PatternWellbeingCorrelation,
		Available:  true,
		Score:      score,
		Confidence: stats.Clamp(base*(1+maxAbs), 0, 1),
		Insight:    fmt.Sprintf("🔍 %s tracks your wellbeing most closely", keyFactor),
		DataPoints: points,
		Metrics:    metrics,
	}, nil
}

// analyzeCycleImpact compares the follicular and luteal halves of the
// menstrual cycle for intake and mood shifts.
func analyzeCycleImpact(_ context.Context, in *Input) (*Result, error) {
	const minCycleDays = 14

	if in.Profile == nil || !in.Profile.IsFemale() || !in.Profile.CycleTrackingEnabled {
		r := Unavailable(PatternCycleImpact, ReasonNotApplicable, 0, 0)
		r.Confidence = 0
		return r, nil
	}

	var cycleDays []model.DayRecord
	maxCycleDay := 0
	for _, d := range in.Days {
		if d.CycleDay > 0 {
			cycleDays = append(cycleDays, d)
			if d.CycleDay > maxCycleDay {
				maxCycleDay = d.CycleDay
			}
		}
	}
	if len(cycleDays) < minCycleDays {
		r := Unavailable(PatternCycleImpact, ReasonNoSignal, minCycleDays, len(cycleDays))
		r.Confidence = 0.2
		return r, nil
	}

	ovulationDay := 14
	if maxCycleDay < 28 {
		ovulationDay = int(math.Round(float64(maxCycleDay) / 2))
	}

	var follKcal, lutKcal, follMood, lutMood []float64
	for _, d := range cycleDays {
		kcal := model.DayKcal(d, in.Products)
		luteal := d.CycleDay > ovulationDay
		if kcal > 0 {
			if luteal {
				lutKcal = append(lutKcal, kcal)
			} else {
				follKcal = append(follKcal, kcal)
			}
		}
		if d.Mood > 0 {
			if luteal {
				lutMood = append(lutMood, d.Mood)
			} else {
				follMood = append(follMood, d.Mood)
			}
		}
	}
	if len(follKcal) < 5 || len(lutKcal) < 5 {
		r := Unavailable(PatternCycleImpact, ReasonNoSignal, 10, len(follKcal)+len(lutKcal))
		r.Confidence = 0.3
		return r, nil
	}

	kcalDiff := stats.Average(lutKcal) - stats.Average(follKcal)
	moodDiff := 0.0
	if len(follMood) > 0 && len(lutMood) > 0 {
		moodDiff = stats.Average(lutMood) - stats.Average(follMood)
	}

	score := 70.0
	insight := "🌙 Luteal phase shifts your intake or mood — plan for it"
	if math.Abs(kcalDiff) < 200 && math.Abs(moodDiff) < 0.5 {
		score = 90
		insight = "✅ Stable intake and mood across the cycle"
	}

	conf := 0.6
	if len(cycleDays) >= 21 {
		conf = 0.8
	}

	return &Result{
		Pattern:    PatternCycleImpact,
		Available:  true,
		Score:      score,
		Confidence: conf,
		Insight:    insight,
		DataPoints: len(cycleDays),
		Metrics: map[string]float64{
			"kcalDiff":     stats.Round1(kcalDiff),
			"moodDiff":     stats.Round1(moodDiff),
			"ovulationDay": float64(ovulationDay),
		},
	}, nil
}

// analyzeHydration scores water intake against a 30 ml/kg goal.
func analyzeHydration(_ context.Context, in *Input) (*Result, error) {
	const minDays = 3

	var achievements []float64
	var goal float64
	for _, d := range in.Days {
		if d.WaterML <= 0 {
			continue
		}
		weight := d.WeightMorning
		if weight <= 0 {
			weight = d.WeightEvening
		}
		if weight <= 0 {
			weight = in.Profile.Weight()
		}
		goal = weight * 30
		achievements = append(achievements, d.WaterML/goal*100)
	}
	if len(achievements) < minDays {
		r := Unavailable(PatternHydration, ReasonNoSignal, minDays, len(achievements))
		r.Confidence = 0.2
		return r, nil
	}

	avg := stats.Average(achievements)
	score := 50.0
	insight := "🟠 Water intake below 70% of goal"
	switch {
	case avg >= 90:
		score = 100
		insight = "💧 Hydration goal met"
	case avg >= 70:
		score = 75
		insight = "🟡 Close to the hydration goal"
	}

	// EMA trend over the achievement series.
	ema := stats.EMA(achievements, 7)
	var pts []stats.Point
	for i, v := range ema {
		pts = append(pts, stats.Point{X: float64(i), Y: v})
	}
	slope := stats.LinearSlope(pts)

	return &Result{
		Pattern:    PatternHydration,
		Available:  true,
		Score:      score,
		Confidence: confidenceByDays(len(achievements), 0.5, 0.8, 7),
		Insight:    insight,
		DataPoints: len(achievements),
		Metrics: map[string]float64{
			"avgAchievementPct": stats.Round1(avg),
			"goalMl":            stats.Round1(goal),
			"trendSlope":        stats.Round2(slope),
		},
	}, nil
}

// analyzeBodyComposition tracks the waist-to-hip ratio from tape
// measurements.
func analyzeBodyComposition(_ context.Context, in *Input) (*Result, error) {
	const minDays = 10

	var ratios []float64
	var pts []stats.Point
	for i, d := range in.Days {
		waist, hip := d.Measurements["waist"], d.Measurements["hip"]
		if waist <= 0 || hip <= 0 {
			continue
		}
		ratio := waist / hip
		ratios = append(ratios, ratio)
		pts = append(pts, stats.Point{X: float64(i), Y: ratio})
	}
	if len(ratios) < minDays {
		return Unavailable(PatternBodyComposition, ReasonNoSignal, minDays, len(ratios)), nil
	}

	threshold := 0.9
	if in.Profile.IsFemale() {
		threshold = 0.85
	}
	avg := stats.Average(ratios)

	score := 60.0
	insight := "🟠 Waist-to-hip ratio above the healthy threshold"
	if avg < threshold {
		score = 90
		insight = "✅ Waist-to-hip ratio in the healthy range"
	}

	slope := stats.LinearSlope(pts)
	trend := "stable"
	switch {
	case slope > 0.001:
		trend = "rising"
	case slope < -0.001:
		trend = "falling"
	}

	conf := 0.5
	switch {
	case len(ratios) >= 30:
		conf = 0.9
	case len(ratios) >= 20:
		conf = 0.7
	}

	return &Result{
		Pattern:    PatternBodyComposition,
		Available:  true,
		Score:      score,
		Confidence: conf,
		Insight:    fmt.Sprintf("%s (WHR %s)", insight, trend),
		DataPoints: len(ratios),
		Metrics: map[string]float64{
			"avgWHR":     stats.Round2(avg),
			"threshold":  threshold,
			"trendSlope": slope,
		},
	}, nil
}

// analyzeMoodTrajectory correlates per-meal mood ratings with the meal's
// simple-carb and protein shares.
func analyzeMoodTrajectory(_ context.Context, in *Input) (*Result, error) {
	const minMeals = 7

	var moods, simplePcts, proteinPcts []float64
	for _, d := range in.Days {
		for _, m := range d.Meals {
			if m.Mood <= 0 {
				continue
			}
			n := model.MealNutrients(m, in.Products)
			kcal := n.Kcal()
			if kcal <= 0 {
				continue
			}
			moods = append(moods, m.Mood)
			simplePcts = append(simplePcts, n.Simple*4/kcal*100)
			proteinPcts = append(proteinPcts, n.Protein*3/kcal*100)
		}
	}
	if len(moods) < minMeals {
		return Unavailable(PatternMoodTrajectory, ReasonMinMeals, minMeals, len(moods)), nil
	}

	simpleCorr := stats.Pearson(simplePcts, moods)
	proteinCorr := stats.Pearson(proteinPcts, moods)

	score := 60.0
	insight := "🟡 No strong food-mood pattern yet"
	switch {
	case simpleCorr < -0.35:
		score = 40
		insight = "🟠 Sugar-heavy meals drag your mood down"
	case proteinCorr > 0.35:
		score = 80
		insight = "✅ Protein-rich meals lift your mood"
	}

	conf := 0.5
	if len(moods) >= 14 {
		conf = 0.8
	}

	return &Result{
		Pattern:    PatternMoodTrajectory,
		Available:  true,
		Score:      score,
		Confidence: conf,
		Insight:    insight,
		DataPoints: len(moods),
		Metrics: map[string]float64{
			"simpleCorr":  stats.Round2(simpleCorr),
			"proteinCorr": stats.Round2(proteinCorr),
		},
	}, nil
}
