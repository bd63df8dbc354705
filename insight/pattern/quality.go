package pattern

import (
	"context"
	"math"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/stats"
)

// Pattern ids, diet-quality group.
const (
	PatternNutritionQuality    = "nutrition_quality"
	PatternFiberRegularity     = "fiber_regularity"
	PatternProteinDistribution = "protein_distribution"
	PatternTrainingTypeMatch   = "training_type_match"
)

func qualityAnalyzers() []Analyzer {
	return []Analyzer{
		newAnalyzer(PatternNutritionQuality, CategoryNutrition, analyzeNutritionQuality),
		newAnalyzer(PatternFiberRegularity, CategoryNutrition, analyzeFiberRegularity),
		newAnalyzer(PatternProteinDistribution, CategoryNutrition, analyzeProteinDistribution),
		newAnalyzer(PatternTrainingTypeMatch, CategoryActivity, analyzeTrainingTypeMatch),
	}
}

// analyzeNutritionQuality builds an additive per-day quality score from
// protein share, fiber density, simple-carb share, fat quality, and food
// variety.
func analyzeNutritionQuality(_ context.Context, in *Input) (*Result, error) {
	const minDays = 3

	var dayScores []float64
	for _, d := range in.Days {
		n := model.DayNutrients(d, in.Products)
		kcal := n.Kcal()
		if kcal <= 0 {
			continue
		}

		score := 0.0

		switch proteinPct := n.Protein * 3 / kcal * 100; {
		case proteinPct >= 25:
			score += 20
		case proteinPct >= 20:
			score += 15
		case proteinPct >= 15:
			score += 8
		}

		switch fiberPer1000 := n.Fiber / kcal * 1000; {
		case fiberPer1000 >= 14:
			score += 20
		case fiberPer1000 >= 10:
			score += 12
		case fiberPer1000 >= 7:
			score += 6
		}

		carbs := n.Carbs()
		if carbs > 0 {
			switch simplePct := n.Simple / carbs * 100; {
			case simplePct <= 30:
				score += 15
			case simplePct <= 45:
				score += 8
			}
		}

		fat := n.Fat()
		if fat > 0 {
			switch goodFatPct := n.GoodFat / fat * 100; {
			case goodFatPct >= 60:
				score += 15
			case goodFatPct >= 40:
				score += 8
			}
		}

		categories := map[string]struct{}{}
		products := map[string]struct{}{}
		for _, m := range d.Meals {
			for _, it := range m.Items {
				p, ok := in.Products.Lookup(it.ProductID)
				if !ok {
					continue
				}
				products[p.ID] = struct{}{}
				if p.Category != "" {
					categories[p.Category] = struct{}{}
				}
			}
		}
		switch {
		case len(categories) >= 12:
			score += 15
		case len(categories) >= 8:
			score += 10
		case len(categories) >= 5:
			score += 5
		}
		switch {
		case len(products) >= 12:
			score += 10
		case len(products) >= 8:
			score += 6
		case len(products) >= 5:
			score += 3
		}

		dayScores = append(dayScores, math.Min(100, score))
	}
	if len(dayScores) < minDays {
		return Unavailable(PatternNutritionQuality, ReasonMinDays, minDays, len(dayScores)), nil
	}

	avg := stats.Average(dayScores)
	insight := pickBand(avg, []insightBand{
		{80, "🌟 High-quality, varied diet"},
		{60, "🟢 Good diet quality"},
		{40, "🟡 Diet quality is middling — push protein, fiber, and variety"},
		{0, "🟠 Diet quality needs work"},
	})

	return &Result{
		Pattern:    PatternNutritionQuality,
		Available:  true,
		Score:      avg,
		Confidence: confidenceByDays(len(dayScores), 0.5, 0.8, 7),
		Insight:    insight,
		DataPoints: len(dayScores),
	}, nil
}

// analyzeFiberRegularity scores fiber density and its day-to-day
// consistency.
func analyzeFiberRegularity(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7

	var fiberPer1000 []float64
	for _, d := range in.Days {
		n := model.DayNutrients(d, in.Products)
		kcal := n.Kcal()
		if kcal <= 0 {
			continue
		}
		fiberPer1000 = append(fiberPer1000, n.Fiber/kcal*1000)
	}
	if len(fiberPer1000) < minDays {
		return Unavailable(PatternFiberRegularity, ReasonMinDays, minDays, len(fiberPer1000)), nil
	}

	avg := stats.Average(fiberPer1000)
	score := 40.0
	insight := "🟠 Fiber intake well below 14 g per 1000 kcal"
	switch {
	case avg >= 14:
		score = 100
		insight = "✅ Fiber density on target"
	case avg >= 10:
		score = 70
		insight = "🟡 Decent fiber, short of the 14 g/1000 kcal target"
	}

	consistency := 0.0
	if avg > 0 {
		consistency = stats.Clamp(100-stats.StdDev(fiberPer1000)/avg*100, 0, 100)
	}

	conf := 0.5
	if len(fiberPer1000) >= 10 {
		conf = 0.8
	}

	return &Result{
		Pattern:    PatternFiberRegularity,
		Available:  true,
		Score:      score,
		Confidence: conf,
		Insight:    insight,
		DataPoints: len(fiberPer1000),
		Metrics: map[string]float64{
			"avgFiberPer1000": stats.Round1(avg),
			"consistency":     stats.Round1(consistency),
		},
	}, nil
}

// analyzeProteinDistribution checks whether protein lands in the 20-40 g
// per-meal anabolic zone and covers the bodyweight-based daily target.
func analyzeProteinDistribution(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	cfg := in.Config()
	perMealTarget := cfg.ProteinPerMealG
	if perMealTarget <= 0 {
		perMealTarget = 30
	}
	zoneLo, zoneHi := perMealTarget-10, perMealTarget+10

	totalMeals, inZone, subthreshold, excess := 0, 0, 0, 0
	var dailyProtein, spreads []float64
	validDays := 0
	for _, d := range in.Days {
		if len(d.Meals) == 0 {
			continue
		}
		var perMeal []float64
		dayTotal := 0.0
		for _, m := range d.Meals {
			p := model.MealNutrients(m, in.Products).Protein
			perMeal = append(perMeal, p)
			dayTotal += p
			totalMeals++
			switch {
			case p < 10:
				subthreshold++
			case p > 50:
				excess++
			case p >= zoneLo && p <= zoneHi:
				inZone++
			}
		}
		validDays++
		dailyProtein = append(dailyProtein, dayTotal)
		if len(perMeal) > 1 {
			lo, hi := perMeal[0], perMeal[0]
			for _, p := range perMeal[1:] {
				lo = math.Min(lo, p)
				hi = math.Max(hi, p)
			}
			spreads = append(spreads, hi-lo)
		}
	}
	if validDays < minDays {
		return Unavailable(PatternProteinDistribution, ReasonMinDays, minDays, validDays), nil
	}
	if float64(totalMeals)/float64(validDays) < 2 {
		return Unavailable(PatternProteinDistribution, ReasonMinMeals, minDays, validDays), nil
	}

	distributionScore := float64(inZone) / float64(totalMeals) * 100

	targetProtein := in.Profile.Weight() * 1.6
	targetPct := math.Min(100, stats.Average(dailyProtein)/targetProtein*100)

	evenBonus := 0.0
	if len(spreads) > 0 {
		if avgSpread := stats.Average(spreads); avgSpread > 0 && avgSpread < 20 {
			evenBonus = 10
		}
	}

	score := stats.Clamp(math.Round(distributionScore*0.7+targetPct*0.3+evenBonus), 0, 100)

	insight := pickBand(score, []insightBand{
		{60, "✅ Protein lands in the anabolic zone meal after meal"},
		{35, "🟡 Protein coverage is uneven across meals"},
		{0, "🔴 Protein is scattered — too many subthreshold meals"},
	})

	base := 0.7
	if validDays >= 14 {
		base = 0.8
	}

	return &Result{
		Pattern:    PatternProteinDistribution,
		Available:  true,
		Score:      score,
		Confidence: stats.SmallSamplePenalty(base, validDays, minDays),
		Insight:    insight,
		DataPoints: totalMeals,
		Metrics: map[string]float64{
			"inZonePct":       stats.Round1(distributionScore),
			"subthresholdCnt": float64(subthreshold),
			"excessCnt":       float64(excess),
			"targetPct":       stats.Round1(targetPct),
			"avgDailyProtein": stats.Round1(stats.Average(dailyProtein)),
		},
	}, nil
}

// rangeDeviation returns the relative distance of v outside [lo, hi],
// zero when inside.
func rangeDeviation(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return (lo - v) / lo
	case v > hi:
		return (v - hi) / hi
	default:
		return 0
	}
}

// analyzeTrainingTypeMatch checks macro targets against the dominant
// training type, post-workout fueling, and recovery micronutrients.
func analyzeTrainingTypeMatch(_ context.Context, in *Input) (*Result, error) {
	const (
		minDays      = 5
		minTrainings = 3
	)

	if len(in.Days) < minDays {
		return Unavailable(PatternTrainingTypeMatch, ReasonMinDays, minDays, len(in.Days)), nil
	}

	typeCounts := map[string]int{}
	trainings := 0
	for _, d := range in.Days {
		for _, t := range d.Trainings {
			typeCounts[t.Type]++
			trainings++
		}
	}
	if trainings < minTrainings {
		return Unavailable(PatternTrainingTypeMatch, ReasonNoTraining, minTrainings, trainings), nil
	}

	dominant, dominantCount := "hobby", 0
	for typ, n := range typeCounts {
		if n > dominantCount {
			dominant, dominantCount = typ, n
		}
	}

	// g/kg targets by dominant training type.
	protLo, protHi := 1.0, 1.2
	carbsLo, carbsHi := 3.0, 5.0
	switch dominant {
	case "strength":
		protLo, protHi = 1.6, 2.2
		carbsLo, carbsHi = 3, 5
	case "cardio":
		protLo, protHi = 1.2, 1.4
		carbsLo, carbsHi = 5, 7
	}

	weight := in.Profile.Weight()
	var protPerKg, carbsPerKg, magnesium, vitC []float64
	for _, d := range in.Days {
		n := model.DayNutrients(d, in.Products)
		if n.Kcal() <= 0 {
			continue
		}
		protPerKg = append(protPerKg, n.Protein/weight)
		carbsPerKg = append(carbsPerKg, n.Carbs()/weight)
		magnesium = append(magnesium, n.MagnesiumMG)
		vitC = append(vitC, n.VitCMG)
	}
	if len(protPerKg) == 0 {
		return Unavailable(PatternTrainingTypeMatch, ReasonNoMeals, minDays, 0), nil
	}

	avgProt := stats.Average(protPerKg)
	avgCarbs := stats.Average(carbsPerKg)
	protDev := rangeDeviation(avgProt, protLo, protHi)
	carbsDev := rangeDeviation(avgCarbs, carbsLo, carbsHi)
	macroMatch := math.Max(0, 100-math.Round(protDev*100*0.5+carbsDev*100*0.5))

	postWorkout := 75.0
	switch dominant {
	case "strength":
		if avgProt >= 1.6 {
			postWorkout = 90
		} else {
			postWorkout = 60
		}
	case "cardio":
		if avgCarbs >= 5 {
			postWorkout = 90
		} else {
			postWorkout = 60
		}
	}

	recovery := math.Min(100, math.Round(
		math.Min(1, stats.Average(magnesium)/400)*50+
			math.Min(1, stats.Average(vitC)/90)*50))

	score := math.Round(macroMatch*0.5 + postWorkout*0.3 + recovery*0.2)

	base := 0.7
	if trainings >= 10 {
		base = 0.8
	}

	insight := pickBand(score, []insightBand{
		{80, "✅ Fueling matches your " + dominant + " training"},
		{60, "🟡 Fueling partly matches your " + dominant + " training"},
		{0, "🟠 Macros don't match your " + dominant + " training demands"},
	})

	return &Result{
		Pattern:    PatternTrainingTypeMatch,
		Available:  true,
		Score:      score,
		Confidence: stats.SmallSamplePenalty(base, len(in.Days), minDays),
		Insight:    insight,
		DataPoints: trainings,
		Metrics: map[string]float64{
			"avgProteinPerKg": stats.Round2(avgProt),
			"avgCarbsPerKg":   stats.Round2(avgCarbs),
			"macroMatch":      macroMatch,
			"recoveryScore":   recovery,
		},
	}, nil
}
