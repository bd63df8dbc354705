package pattern

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/stats"
)

// Pattern ids, meal-timing group.
const (
	PatternMealTiming     = "meal_timing"
	PatternWaveOverlap    = "wave_overlap"
	PatternLateEating     = "late_eating"
	PatternCircadian      = "circadian"
	PatternNutrientTiming = "nutrient_timing"
	PatternWeekendEffect  = "weekend_effect"
)

func timingAnalyzers() []Analyzer {
	return []Analyzer{
		newAnalyzer(PatternMealTiming, CategoryTiming, analyzeMealTiming),
		newAnalyzer(PatternWaveOverlap, CategoryTiming, analyzeWaveOverlap),
		newAnalyzer(PatternLateEating, CategoryTiming, analyzeLateEating),
		newAnalyzer(PatternCircadian, CategoryTiming, analyzeCircadian),
		newAnalyzer(PatternNutrientTiming, CategoryTiming, analyzeNutrientTiming),
		newAnalyzer(PatternWeekendEffect, CategoryTiming, analyzeWeekendEffect),
	}
}

// insulinWaveMin returns the insulin wave length in minutes, default 3h.
func insulinWaveMin(p *model.Profile) float64 {
	if p != nil && p.InsulinWaveHours > 0 {
		return p.InsulinWaveHours * 60
	}
	return 180
}

// mealGaps collects the minute gaps between consecutive, time-sorted meals
// of each day and the overlap percentages where a gap undercuts the wave.
func mealGaps(days []model.DayRecord, waveMin float64) (gaps, overlaps []float64) {
	for _, d := range days {
		var times []float64
		for _, m := range d.Meals {
			if t, ok := model.ParseClock(m.Time); ok {
				times = append(times, t*60)
			}
		}
		sort.Float64s(times)
		for i := 1; i < len(times); i++ {
			gap := times[i] - times[i-1]
			gaps = append(gaps, gap)
			if gap < waveMin {
				overlaps = append(overlaps, (waveMin-gap)/waveMin*100)
			}
		}
	}
	return gaps, overlaps
}

// analyzeMealTiming scores meal spacing against the insulin-wave-derived
// ideal gap.
func analyzeMealTiming(_ context.Context, in *Input) (*Result, error) {
	cfg := in.Config()
	waveMin := insulinWaveMin(in.Profile)
	idealGap := waveMin
	if cfg.IdealMealGapMin > 0 {
		idealGap = cfg.IdealMealGapMin
	}

	gaps, overlaps := mealGaps(in.Days, waveMin)
	if len(gaps) == 0 {
		return Unavailable(PatternMealTiming, ReasonNoMeals, 1, len(in.Days)), nil
	}

	avgGap := stats.Average(gaps)
	score := stats.Clamp(avgGap/idealGap*100, 0, 100)

	var insight string
	switch {
	case avgGap < 0.7*idealGap:
		insight = "🟠 Meals land too close together — insulin waves overlap"
	case avgGap > 1.3*idealGap:
		insight = "🟡 Long stretches between meals"
	default:
		insight = "✅ Meal spacing matches the insulin wave"
	}

	return &Result{
		Pattern:    PatternMealTiming,
		Available:  true,
		Score:      score,
		Confidence: confidenceByDays(len(in.Days), 0.5, 0.8, 7),
		Insight:    insight,
		DataPoints: len(gaps),
		Metrics: map[string]float64{
			"avgGapMin":    stats.Round1(avgGap),
			"idealGapMin":  idealGap,
			"overlapCount": float64(len(overlaps)),
		},
	}, nil
}

// analyzeWaveOverlap scores how much consecutive meals cut into each
// other's insulin wave.
func analyzeWaveOverlap(_ context.Context, in *Input) (*Result, error) {
	waveMin := insulinWaveMin(in.Profile)
	gaps, overlaps := mealGaps(in.Days, waveMin)
	if len(gaps) == 0 {
		return Unavailable(PatternWaveOverlap, ReasonNoMeals, 1, len(in.Days)), nil
	}

	if len(overlaps) == 0 {
		return &Result{
			Pattern:    PatternWaveOverlap,
			Available:  true,
			Score:      100,
			Confidence: confidenceByDays(len(in.Days), 0.5, 0.8, 7),
			Insight:    "🎉 No insulin-wave overlaps — clean fat-burning windows",
			DataPoints: len(gaps),
			Metrics:    map[string]float64{"overlapCount": 0, "avgOverlapPct": 0},
		}, nil
	}

	avgOverlap := stats.Average(overlaps)
	score := math.Max(0, 100-avgOverlap)

	return &Result{
		Pattern:    PatternWaveOverlap,
		Available:  true,
		Score:      score,
		Confidence: confidenceByDays(len(in.Days), 0.5, 0.8, 7),
		Insight:    "🟠 Meals overlap the previous insulin wave",
		DataPoints: len(gaps),
		Metrics: map[string]float64{
			"overlapCount":  float64(len(overlaps)),
			"avgOverlapPct": stats.Round1(avgOverlap),
		},
	}, nil
}

// analyzeLateEating scores the share of meals after the late-eating hour.
func analyzeLateEating(_ context.Context, in *Input) (*Result, error) {
	cfg := in.Config()
	lateHour := cfg.LateEatingHour
	if lateHour <= 0 {
		lateHour = 21
	}

	total, late := 0, 0
	for _, d := range in.Days {
		for _, m := range d.Meals {
			h := m.Hour()
			if h < 0 {
				continue
			}
			total++
			if h >= lateHour {
				late++
			}
		}
	}
	if total == 0 {
		return Unavailable(PatternLateEating, ReasonNoMeals, 1, len(in.Days)), nil
	}

	latePct := float64(late) / float64(total) * 100
	score := math.Max(0, 100-latePct*2)

	var insight string
	switch {
	case late == 0:
		insight = "✅ No meals past the cutoff"
	case latePct <= 15:
		insight = "🟡 Occasional late meals"
	default:
		insight = "🟠 Late eating is a habit — it costs sleep and weight"
	}

	return &Result{
		Pattern:    PatternLateEating,
		Available:  true,
		Score:      score,
		Confidence: confidenceByDays(len(in.Days), 0.5, 0.8, 7),
		Insight:    insight,
		DataPoints: total,
		Metrics: map[string]float64{
			"latePct":   stats.Round1(latePct),
			"lateCount": float64(late),
			"lateHour":  float64(lateHour),
		},
	}, nil
}

// analyzeCircadian scores calorie distribution across the day, weighting
// morning intake above evening and night intake.
func analyzeCircadian(_ context.Context, in *Input) (*Result, error) {
	const minDays = 3

	var dayScores, eveningPcts []float64
	for _, d := range in.Days {
		var morning, afternoon, evening, night, total float64
		for _, m := range d.Meals {
			kcal := model.MealNutrients(m, in.Products).Kcal()
			if kcal <= 0 {
				continue
			}
			total += kcal
			switch h := m.Hour(); {
			case h >= 6 && h < 12:
				morning += kcal
			case h >= 12 && h < 18:
				afternoon += kcal
			case h >= 18 && h < 22:
				evening += kcal
			default:
				night += kcal
			}
		}
		if total <= 0 {
			continue
		}
		weighted := morning/total*1.1 + afternoon/total*1.0 + evening/total*0.9 + night/total*0.7
		dayScores = append(dayScores, stats.Clamp(weighted*100, 0, 100))
		eveningPcts = append(eveningPcts, (evening+night)/total*100)
	}
	if len(dayScores) < minDays {
		return Unavailable(PatternCircadian, ReasonNoSignal, minDays, len(dayScores)), nil
	}

	score := stats.Average(dayScores)
	eveningPct := stats.Average(eveningPcts)

	var insight string
	switch {
	case score >= 95:
		insight = "✅ Front-loaded eating — ideal circadian alignment"
	case score >= 85:
		insight = "🟡 Good circadian distribution"
	case eveningPct > 40:
		insight = "🟠 Calories skew to the evening"
	default:
		insight = "🟡 Moderate circadian alignment"
	}

	return &Result{
		Pattern:    PatternCircadian,
		Available:  true,
		Score:      score,
		Confidence: confidenceByDays(len(dayScores), 0.5, 0.8, 7),
		Insight:    insight,
		DataPoints: len(dayScores),
		Metrics: map[string]float64{
			"avgEveningPct": stats.Round1(eveningPct),
		},
	}, nil
}

// analyzeNutrientTiming scores macro placement: morning protein, post-workout
// carbohydrate, evening fat share, and morning/evening protein balance.
func analyzeNutrientTiming(_ context.Context, in *Input) (*Result, error) {
	const minDays = 3
	cfg := in.Config()
	minMorningProtein := cfg.MorningProteinG
	if minMorningProtein <= 0 {
		minMorningProtein = 20
	}
	optMorningProtein := minMorningProtein * 1.5

	var dayScores []float64
	for _, d := range in.Days {
		if len(d.Meals) == 0 {
			continue
		}
		var morningProtein, eveningProtein, eveningFatKcal, eveningKcal, postWorkoutCarbs float64
		trainingHour := in.Profile.TrainingHour
		for _, tr := range d.Trainings {
			if tr.Hour > 0 {
				trainingHour = tr.Hour
			}
		}
		for _, m := range d.Meals {
			n := model.MealNutrients(m, in.Products)
			h := m.Hour()
			if h >= 6 && h < 12 {
				morningProtein += n.Protein
			}
			if h >= 18 {
				eveningProtein += n.Protein
				eveningFatKcal += n.Fat() * 9
				eveningKcal += n.Kcal()
			}
			if trainingHour > 0 && h >= trainingHour && h <= trainingHour+2 {
				postWorkoutCarbs += n.Carbs()
			}
		}

		score := 50.0
		if morningProtein >= minMorningProtein {
			score += 10
			if morningProtein >= optMorningProtein {
				score += 5
			}
		}
		if len(d.Trainings) > 0 && postWorkoutCarbs >= 30 {
			score += 15
		}
		if eveningKcal > 0 && eveningFatKcal/eveningKcal*100 < 30 {
			score += 10
		}
		if morningProtein > 0 && eveningProtein > 0 {
			balance := math.Min(morningProtein, eveningProtein) / math.Max(morningProtein, eveningProtein)
			if balance > 0.6 {
				score += 10
			}
		}
		dayScores = append(dayScores, math.Min(100, score))
	}
	if len(dayScores) < minDays {
		return Unavailable(PatternNutrientTiming, ReasonNoSignal, minDays, len(dayScores)), nil
	}

	return &Result{
		Pattern:    PatternNutrientTiming,
		Available:  true,
		Score:      stats.Average(dayScores),
		Confidence: confidenceByDays(len(dayScores), 0.5, 0.8, 7),
		Insight:    "⏱️ Macro timing scored across morning protein, post-workout carbs, and evening fat",
		DataPoints: len(dayScores),
		Metrics: map[string]float64{
			"minMorningProteinG": minMorningProtein,
		},
	}, nil
}

// analyzeWeekendEffect compares Friday-to-Sunday intake, sleep, and steps
// against the Monday-to-Thursday baseline.
func analyzeWeekendEffect(_ context.Context, in *Input) (*Result, error) {
	const (
		minWeekdays = 4
		minWeekends = 3
	)

	var wdKcal, weKcal, wdSleep, weSleep, wdSteps, weSteps []float64
	for _, d := range in.Days {
		t, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		kcal := model.DayKcal(d, in.Products)
		if kcal <= 0 {
			continue
		}
		weekend := t.Weekday() == time.Friday || t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
		if weekend {
			weKcal = append(weKcal, kcal)
			if s := d.Sleep(); s > 0 {
				weSleep = append(weSleep, s)
			}
			if d.Steps > 0 {
				weSteps = append(weSteps, float64(d.Steps))
			}
		} else {
			wdKcal = append(wdKcal, kcal)
			if s := d.Sleep(); s > 0 {
				wdSleep = append(wdSleep, s)
			}
			if d.Steps > 0 {
				wdSteps = append(wdSteps, float64(d.Steps))
			}
		}
	}
	if len(wdKcal) < minWeekdays || len(weKcal) < minWeekends {
		return Unavailable(PatternWeekendEffect, ReasonNoSignal, minWeekdays+minWeekends, len(wdKcal)+len(weKcal)), nil
	}

	wdAvg := stats.Average(wdKcal)
	weAvg := stats.Average(weKcal)
	kcalDiffPct := 0.0
	if wdAvg > 0 {
		kcalDiffPct = (weAvg - wdAvg) / wdAvg * 100
	}

	score := 90.0
	insight := "✅ Weekends match weekdays — stable routine"
	switch {
	case kcalDiffPct > 30:
		score = 50
		insight = "⚠️ Weekend intake jumps more than 30% above weekdays"
	case kcalDiffPct > 10:
		score = 70
		insight = "🟡 Weekends run noticeably above weekdays"
	}

	conf := 0.6
	if len(wdKcal) >= 8 && len(weKcal) >= 6 {
		conf = 0.8
	}

	metrics := map[string]float64{
		"kcalDiffPct":  stats.Round1(kcalDiffPct),
		"weekdayKcal":  stats.Round1(wdAvg),
		"weekendKcal":  stats.Round1(weAvg),
		"weekdayCount": float64(len(wdKcal)),
		"weekendCount": float64(len(weKcal)),
	}
	if len(wdSleep) > 0 && len(weSleep) > 0 {
		metrics["sleepDiffH"] = stats.Round1(stats.Average(weSleep) - stats.Average(wdSleep))
	}
	if len(wdSteps) > 0 && len(weSteps) > 0 {
		if avg := stats.Average(wdSteps); avg > 0 {
			metrics["stepsDiffPct"] = stats.Round1((stats.Average(weSteps) - avg) / avg * 100)
		}
	}

	return &Result{
		Pattern:    PatternWeekendEffect,
		Available:  true,
		Score:      score,
		Confidence: conf,
		Insight:    insight,
		DataPoints: len(wdKcal) + len(weKcal),
		Metrics:    metrics,
	}, nil
}
