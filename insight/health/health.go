// Package health folds a set of pattern results into a single goal-aware
// 0-100 health score and projects body weight from morning weigh-ins.
package health

import (
	"math"
	"sort"
	"time"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/pattern"
	"github.com/hrygo/nutrisense/insight/stats"
)

// GoalMode selects the category weighting profile.
type GoalMode string

const (
	GoalDeficit     GoalMode = "deficit"
	GoalBulk        GoalMode = "bulk"
	GoalMaintenance GoalMode = "maintenance"
)

// GoalModeFor derives the weighting mode from the profile's calorie
// target: a 10% or deeper deficit weighs timing heavier, a 10% surplus
// weighs nutrition heavier.
func GoalModeFor(p *model.Profile) GoalMode {
	if p == nil {
		return GoalMaintenance
	}
	switch {
	case p.DeficitPctTarget <= -10:
		return GoalDeficit
	case p.DeficitPctTarget >= 10:
		return GoalBulk
	default:
		return GoalMaintenance
	}
}

func categoryWeights(mode GoalMode) map[pattern.Category]float64 {
	switch mode {
	case GoalDeficit:
		return map[pattern.Category]float64{
			pattern.CategoryNutrition:  0.25,
			pattern.CategoryTiming:     0.30,
			pattern.CategoryActivity:   0.20,
			pattern.CategoryRecovery:   0.15,
			pattern.CategoryMetabolism: 0.10,
		}
	case GoalBulk:
		return map[pattern.Category]float64{
			pattern.CategoryNutrition:  0.40,
			pattern.CategoryTiming:     0.20,
			pattern.CategoryActivity:   0.25,
			pattern.CategoryRecovery:   0.10,
			pattern.CategoryMetabolism: 0.05,
		}
	default:
		return map[pattern.Category]float64{
			pattern.CategoryNutrition:  0.35,
			pattern.CategoryTiming:     0.25,
			pattern.CategoryActivity:   0.20,
			pattern.CategoryRecovery:   0.15,
			pattern.CategoryMetabolism: 0.05,
		}
	}
}

// Reliability converts a result's confidence and sample coverage into a
// weighting factor in [0.1, 1].
func Reliability(r *pattern.Result) float64 {
	conf := r.Confidence
	if math.IsNaN(conf) || math.IsInf(conf, 0) {
		conf = 0.5
	}
	if conf > 1 && conf <= 100 {
		conf /= 100
	}
	rel := stats.Clamp(conf, 0.15, 1)
	if r.Preliminary {
		rel = math.Min(rel, 0.55)
	}
	if r.RequiredDataPoints > 0 {
		ratio := float64(r.DataPoints) / float64(r.RequiredDataPoints)
		rel *= stats.Clamp(ratio, 0.25, 1)
	}
	return stats.Clamp(rel, 0.1, 1)
}

// CategoryBreakdown is the per-category slice of the health score.
type CategoryBreakdown struct {
	Category    pattern.Category `json:"category"`
	Score       float64          `json:"score"`
	Reliability float64          `json:"reliability"`
	Weight      float64          `json:"weight"`
	Patterns    int              `json:"patterns"`
}

// Score is the aggregated health score.
type Score struct {
	Available  bool                `json:"available"`
	Total      float64             `json:"total"`
	Mode       GoalMode            `json:"mode"`
	Categories []CategoryBreakdown `json:"categories"`
}

// Calculate aggregates available pattern results into the goal-weighted
// health score. Categories without any available result are excluded and
// the remaining weights renormalized.
func Calculate(results map[string]*pattern.Result, reg *pattern.Registry, mode GoalMode) Score {
	weights := categoryWeights(mode)

	type acc struct {
		scoreSum, relSum float64
		n                int
	}
	byCat := map[pattern.Category]*acc{}
	for id, r := range results {
		if r == nil || !r.Available {
			continue
		}
		cat := reg.CategoryOf(id)
		a := byCat[cat]
		if a == nil {
			a = &acc{}
			byCat[cat] = a
		}
		rel := Reliability(r)
		a.scoreSum += r.Score * rel
		a.relSum += rel
		a.n++
	}
	if len(byCat) == 0 {
		return Score{Available: false, Mode: mode}
	}

	var total, weightSum float64
	var breakdown []CategoryBreakdown
	for cat, a := range byCat {
		if a.relSum <= 0 {
			continue
		}
		catScore := a.scoreSum / a.relSum
		catReliability := a.relSum / float64(a.n)
		effWeight := weights[cat] * (0.4 + 0.6*catReliability)
		total += catScore * effWeight
		weightSum += effWeight
		breakdown = append(breakdown, CategoryBreakdown{
			Category:    cat,
			Score:       stats.Round1(catScore),
			Reliability: stats.Round2(catReliability),
			Weight:      stats.Round2(effWeight),
			Patterns:    a.n,
		})
	}
	if weightSum <= 0 {
		return Score{Available: false, Mode: mode}
	}
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].Category < breakdown[j].Category })

	return Score{
		Available:  true,
		Total:      math.Round(total / weightSum),
		Mode:       mode,
		Categories: breakdown,
	}
}

// WeightForecast projects body weight from the morning weigh-in trend.
type WeightForecast struct {
	Available       bool    `json:"available"`
	Reason          string  `json:"reason,omitempty"`
	CurrentWeight   float64 `json:"currentWeight,omitempty"`
	WeeklyChangeKG  float64 `json:"weeklyChangeKg,omitempty"`
	ProjectedWeight float64 `json:"projectedWeight,omitempty"`
	WeeksToGoal     float64 `json:"weeksToGoal,omitempty"`
	Insight         string  `json:"insight,omitempty"`
	DataPoints      int     `json:"dataPoints"`
}

// PredictWeight fits a linear trend through morning weigh-ins. Days in the
// first week of the menstrual cycle are excluded from the trend when
// enough clean points remain, since water retention skews them.
func PredictWeight(days []model.DayRecord, profile *model.Profile) WeightForecast {
	type sample struct {
		t       time.Time
		weight  float64
		inCycle bool
	}
	var samples []sample
	for _, d := range days {
		if d.WeightMorning <= 0 {
			continue
		}
		t, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		samples = append(samples, sample{
			t:       t,
			weight:  d.WeightMorning,
			inCycle: d.CycleDay >= 1 && d.CycleDay <= 7,
		})
	}
	if len(samples) < 3 {
		return WeightForecast{Available: false, Reason: "min_weight_entries", DataPoints: len(samples)}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].t.Before(samples[j].t) })

	start := samples[0].t
	var raw, clean []stats.Point
	for _, s := range samples {
		p := stats.Point{X: s.t.Sub(start).Hours() / 24, Y: s.weight}
		raw = append(raw, p)
		if !s.inCycle {
			clean = append(clean, p)
		}
	}

	trend := stats.LinearSlope(raw)
	if len(clean) >= 3 {
		trend = stats.LinearSlope(clean)
	}

	current := samples[len(samples)-1].weight
	weekly := trend * 7
	forecast := WeightForecast{
		Available:       true,
		CurrentWeight:   current,
		WeeklyChangeKG:  stats.Round2(weekly),
		ProjectedWeight: stats.Round1(current + weekly),
		DataPoints:      len(samples),
	}

	if profile != nil && profile.WeightGoal > 0 && weekly != 0 {
		remaining := profile.WeightGoal - current
		if remaining/weekly > 0 {
			forecast.WeeksToGoal = stats.Round1(remaining / weekly)
		}
	}

	switch {
	case weekly <= -0.3:
		forecast.Insight = "📉 Losing weight at a steady clip"
	case weekly >= 0.3:
		forecast.Insight = "📈 Weight is trending up"
	default:
		forecast.Insight = "➡️ Weight is holding steady"
	}
	return forecast
}
