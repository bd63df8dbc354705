package pattern

import (
	"context"
	"math"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/stats"
)

// Pattern ids, activity group.
const (
	PatternTrainingKcal     = "training_kcal"
	PatternStepsWeight      = "steps_weight"
	PatternNeatActivity     = "neat_activity"
	PatternTrainingRecovery = "training_recovery"
)

func activityAnalyzers() []Analyzer {
	return []Analyzer{
		newAnalyzer(PatternTrainingKcal, CategoryActivity, analyzeTrainingKcal),
		newAnalyzer(PatternStepsWeight, CategoryActivity, analyzeStepsWeight),
		newAnalyzer(PatternNeatActivity, CategoryActivity, analyzeNeatActivity),
		newAnalyzer(PatternTrainingRecovery, CategoryActivity, analyzeTrainingRecovery),
	}
}

// analyzeTrainingKcal compares intake on training days against rest days.
func analyzeTrainingKcal(_ context.Context, in *Input) (*Result, error) {
	const minEach = 3

	var trainKcal, restKcal []float64
	for _, d := range in.Days {
		kcal := model.DayKcal(d, in.Products)
		if kcal <= 0 {
			continue
		}
		if len(d.Trainings) > 0 {
			trainKcal = append(trainKcal, kcal)
		} else {
			restKcal = append(restKcal, kcal)
		}
	}
	if len(trainKcal) < minEach || len(restKcal) < minEach {
		r := Unavailable(PatternTrainingKcal, ReasonNoTraining, minEach*2, len(trainKcal)+len(restKcal))
		r.Confidence = 0.2
		return r, nil
	}

	trainAvg := stats.Average(trainKcal)
	restAvg := stats.Average(restKcal)
	diffPct := 0.0
	if restAvg > 0 {
		diffPct = math.Abs(trainAvg-restAvg) / restAvg * 100
	}

	score := 100.0
	insight := "✅ Intake tracks your training load"
	switch {
	case diffPct > 15:
		score = 60
		insight = "🟠 Training and rest days get the same plate — intake ignores load"
	case diffPct > 5:
		score = 80
		insight = "🟡 Intake barely responds to training days"
	}
	// A large gap in the right direction is the goal, so the insight
	// flips when training days actually run higher.
	if diffPct > 15 && trainAvg > restAvg {
		score = 60
		insight = "🟠 Training days overshoot — intake jumps more than the work"
	}

	conf := 0.5
	if len(trainKcal) >= 5 && len(restKcal) >= 5 {
		conf = 0.8
	}

	return &Result{
		Pattern:    PatternTrainingKcal,
		Available:  true,
		Score:      score,
		Confidence: conf,
		Insight:    insight,
		DataPoints: len(trainKcal) + len(restKcal),
		Metrics: map[string]float64{
			"trainingDayKcal": stats.Round1(trainAvg),
			"restDayKcal":     stats.Round1(restAvg),
			"diffPct":         stats.Round1(diffPct),
		},
	}, nil
}

// analyzeStepsWeight correlates daily steps with the next morning's weight
// change. With too few weight pairs it falls back to a preliminary
// steps-only score.
func analyzeStepsWeight(_ context.Context, in *Input) (*Result, error) {
	robustPairs := 4
	if len(in.Days) >= 14 {
		robustPairs = 7
	}

	var steps, deltas, allSteps []float64
	for i, d := range in.Days {
		if d.Steps > 0 {
			allSteps = append(allSteps, float64(d.Steps))
		}
		if i+1 >= len(in.Days) {
			continue
		}
		next := in.Days[i+1]
		if d.Steps > 0 && d.WeightMorning > 0 && next.WeightMorning > 0 {
			steps = append(steps, float64(d.Steps))
			deltas = append(deltas, next.WeightMorning-d.WeightMorning)
		}
	}

	if len(steps) < robustPairs {
		if len(allSteps) == 0 {
			return Unavailable(PatternStepsWeight, ReasonNoSteps, robustPairs, 0), nil
		}
		// Not enough weight pairs yet, grade raw activity instead.
		avgSteps := stats.Average(allSteps)
		score := 50.0
		switch {
		case avgSteps >= 8000:
			score = 70
		case avgSteps >= 5000:
			score = 60
		}
		return &Result{
			Pattern:     PatternStepsWeight,
			Available:   true,
			Score:       score,
			Confidence:  0.25,
			Preliminary: true,
			Insight:     "🚶 Preliminary — keep logging morning weight to unlock the correlation",
			DataPoints:  len(allSteps),
			Metrics: map[string]float64{
				"avgSteps": stats.Round1(avgSteps),
			},
		}, nil
	}

	corr := stats.Pearson(steps, deltas)
	score := stats.Clamp(math.Round(50+corr*-50), 0, 100)

	conf := 0.5
	if len(steps) >= 10 {
		conf = 0.8
	}

	var insight string
	switch {
	case corr <= -0.35:
		insight = "✅ More steps, lighter mornings — activity is working"
	case corr >= 0.35:
		insight = "🟡 Steps and weight move together — check compensation eating"
	default:
		insight = "🟡 Weak steps-weight link so far"
	}

	return &Result{
		Pattern:    PatternStepsWeight,
		Available:  true,
		Score:      score,
		Confidence: conf,
		Insight:    insight,
		DataPoints: len(steps),
		Metrics: map[string]float64{
			"correlation": stats.Round2(corr),
			"avgSteps":    stats.Round1(stats.Average(steps)),
		},
	}, nil
}

// analyzeNeatActivity scores non-exercise activity minutes.
func analyzeNeatActivity(_ context.Context, in *Input) (*Result, error) {
	const minDays = 3

	var minutes []float64
	var pts []stats.Point
	for i, d := range in.Days {
		mins := d.HouseholdMin
		if mins <= 0 {
			for _, t := range d.Trainings {
				mins += t.DurationMin
			}
		}
		if mins <= 0 {
			continue
		}
		minutes = append(minutes, mins)
		pts = append(pts, stats.Point{X: float64(i), Y: mins})
	}
	if len(minutes) < minDays {
		return Unavailable(PatternNeatActivity, ReasonNoHousehold, minDays, len(minutes)), nil
	}

	avg := stats.Average(minutes)
	score := 40.0
	insight := "🟠 Very little daily movement outside workouts"
	switch {
	case avg >= 60:
		score = 100
		insight = "✅ An hour or more of daily movement"
	case avg >= 40:
		score = 80
		insight = "🟢 Solid everyday activity"
	case avg >= 20:
		score = 60
		insight = "🟡 Some everyday movement, room to grow"
	}

	slope := stats.LinearSlope(pts)
	switch {
	case slope > 1:
		score += 5
	case slope < -1:
		score -= 5
	}
	score = stats.Clamp(score, 0, 100)

	return &Result{
		Pattern:    PatternNeatActivity,
		Available:  true,
		Score:      score,
		Confidence: confidenceByDays(len(minutes), 0.5, 0.8, 7),
		Insight:    insight,
		DataPoints: len(minutes),
		Metrics: map[string]float64{
			"avgActiveMin": stats.Round1(avg),
			"trendSlope":   stats.Round2(slope),
		},
	}, nil
}

// analyzeTrainingRecovery flags overtraining risk from zone intensity,
// consecutive training days, and next-day recovery markers.
func analyzeTrainingRecovery(_ context.Context, in *Input) (*Result, error) {
	const (
		minDays     = 5
		minZoneDays = 3
	)

	if len(in.Days) < minDays {
		return Unavailable(PatternTrainingRecovery, ReasonMinDays, minDays, len(in.Days)), nil
	}

	zoneDays := 0
	var highIntensityPcts []float64
	maxConsecutive, consecutive := 0, 0
	var recoveryScores []float64

	for i, d := range in.Days {
		trained := len(d.Trainings) > 0
		if trained {
			consecutive++
			if consecutive > maxConsecutive {
				maxConsecutive = consecutive
			}
		} else {
			consecutive = 0
		}

		dayHasZones := false
		for _, t := range d.Trainings {
			if len(t.ZoneMinutes) < 4 {
				continue
			}
			total := t.ZoneMinutes[0] + t.ZoneMinutes[1] + t.ZoneMinutes[2] + t.ZoneMinutes[3]
			if total > 0 {
				highIntensityPcts = append(highIntensityPcts, t.ZoneMinutes[3]/total*100)
				dayHasZones = true
			}
		}
		if dayHasZones {
			zoneDays++
		}

		// Recovery marker is read from the day after a training day.
		if trained && i+1 < len(in.Days) {
			next := in.Days[i+1]
			sleepScore := next.Sleep() * 7
			if next.Sleep() >= 7 {
				sleepScore = 50
			}
			if next.Sleep() > 0 || next.Mood > 0 {
				recoveryScores = append(recoveryScores, sleepScore+next.Mood*10)
			}
		}
	}
	if zoneDays < minZoneDays {
		return Unavailable(PatternTrainingRecovery, ReasonNoTraining, minZoneDays, zoneDays), nil
	}

	avgHighIntensity := stats.Average(highIntensityPcts)
	avgRecovery := 100.0
	if len(recoveryScores) > 0 {
		avgRecovery = stats.Average(recoveryScores)
	}

	score := 85.0
	insight := "✅ Training load and recovery look balanced"
	switch {
	case maxConsecutive >= 3 && avgRecovery < 60:
		score = 40
		insight = "🚨 Overtraining risk — consecutive hard days with poor recovery"
	case maxConsecutive >= 3:
		score = 60
		insight = "🟠 Three or more training days in a row — schedule a rest day"
	case avgRecovery < 60:
		score = 70
		insight = "🟡 Recovery markers lag after training days"
	}

	conf := 0.65
	if zoneDays >= 5 {
		conf = 0.80
	}

	return &Result{
		Pattern:    PatternTrainingRecovery,
		Available:  true,
		Score:      score,
		Confidence: conf,
		Insight:    insight,
		DataPoints: zoneDays,
		Metrics: map[string]float64{
			"avgHighIntensityPct": stats.Round1(avgHighIntensity),
			"maxConsecutiveDays":  float64(maxConsecutive),
			"avgRecoveryScore":    stats.Round1(avgRecovery),
		},
	}, nil
}
