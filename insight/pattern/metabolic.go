package pattern

import (
	"context"
	"math"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/stats"
)

// Pattern ids, metabolic/nutrient-balance group.
const (
	PatternHeartHealth       = "heart_health"
	PatternOmegaBalance      = "omega_balance"
	PatternGlycemicLoad      = "glycemic_load"
	PatternElectrolytes      = "electrolyte_homeostasis"
	PatternAddedSugar        = "added_sugar_dependency"
	PatternNovaQuality       = "nova_quality"
	PatternNutrientDensity   = "nutrient_density"
	PatternAntioxidants      = "antioxidant_defense"
)

func metabolicAnalyzers() []Analyzer {
	return []Analyzer{
		newAnalyzer(PatternHeartHealth, CategoryMetabolism, analyzeHeartHealth),
		newAnalyzer(PatternOmegaBalance, CategoryNutrition, analyzeOmegaBalance),
		newAnalyzer(PatternGlycemicLoad, CategoryMetabolism, analyzeGlycemicLoad),
		newAnalyzer(PatternElectrolytes, CategoryRecovery, analyzeElectrolytes),
		newAnalyzer(PatternAddedSugar, CategoryMetabolism, analyzeAddedSugar),
		newAnalyzer(PatternNovaQuality, CategoryNutrition, analyzeNovaQuality),
		newAnalyzer(PatternNutrientDensity, CategoryNutrition, analyzeNutrientDensity),
		newAnalyzer(PatternAntioxidants, CategoryRecovery, analyzeAntioxidants),
	}
}

// analyzeHeartHealth scores the sodium:potassium balance and dietary
// cholesterol load.
func analyzeHeartHealth(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	if len(in.Days) < minDays {
		return Unavailable(PatternHeartHealth, ReasonMinDays, minDays, len(in.Days)), nil
	}

	var naDays, kDays, cholDays []float64
	for _, d := range in.Days {
		if len(d.Meals) == 0 {
			continue
		}
		n := model.DayNutrients(d, in.Products)
		if n.SodiumMG > 0 {
			naDays = append(naDays, n.SodiumMG)
		}
		if n.PotassiumMG > 0 {
			kDays = append(kDays, n.PotassiumMG)
		}
		if n.CholesterolMG > 0 {
			cholDays = append(cholDays, n.CholesterolMG)
		}
	}
	if len(naDays) < 5 || len(kDays) < 5 {
		return Unavailable(PatternHeartHealth, ReasonNoSignal, minDays, len(in.Days)), nil
	}

	avgNa := stats.Average(naDays)
	avgK := stats.Average(kDays)
	avgChol := stats.Average(cholDays)
	naKRatio := avgNa / avgK

	score := 100.0
	if avgNa > 2300 {
		score -= 20
	}
	if avgNa > 3000 {
		score -= 20
	}
	if naKRatio > 1.5 {
		score -= 25
	} else if naKRatio > 1.0 {
		score -= 10
	}
	if avgChol > 300 {
		score -= 15
	}
	score = stats.Clamp(score, 0, 100)

	var insight string
	switch {
	case naKRatio < 1.0 && avgNa < 2000:
		insight = "✅ Sodium:potassium balance is optimal"
	case naKRatio > 1.5:
		insight = "🔴 High sodium:potassium ratio — cardiovascular risk territory"
	case avgNa > 2300:
		insight = "🟠 Elevated sodium intake, shift toward potassium-rich foods"
	default:
		insight = "🟡 Sodium:potassium balance is moderate"
	}

	return &Result{
		Pattern:            PatternHeartHealth,
		Available:          true,
		Score:              score,
		Confidence:         confidenceByDays(len(in.Days), 0.65, 0.80, 14),
		Insight:            insight,
		DataPoints:         len(naDays),
		RequiredDataPoints: minDays,
		Metrics: map[string]float64{
			"avgSodiumMg":      stats.Round1(avgNa),
			"avgPotassiumMg":   stats.Round1(avgK),
			"naKRatio":         stats.Round2(naKRatio),
			"avgCholesterolMg": stats.Round1(avgChol),
		},
	}, nil
}

// analyzeOmegaBalance scores the omega-6:omega-3 ratio together with an
// inflammatory-load proxy built from sugar, trans fat, and fiber.
func analyzeOmegaBalance(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	if len(in.Days) < minDays {
		return Unavailable(PatternOmegaBalance, ReasonMinDays, minDays, len(in.Days)), nil
	}

	var omega3, omega6, load float64
	for _, n := range dayTotals(in.Days, in.Products) {
		omega3 += n.Omega3
		omega6 += n.Omega6
		load += n.Simple*0.5 + n.Trans*2 - (n.Fiber*0.3 + n.Omega3*1.5)
	}
	if omega3 < 0.1 || omega6 < 0.1 {
		return Unavailable(PatternOmegaBalance, ReasonNoSignal, minDays, len(in.Days)), nil
	}

	ratio := omega6 / omega3
	var score float64
	switch {
	case ratio > 10:
		score = 40
	case ratio > 6:
		score = 60
	case ratio > 4:
		score = 75
	default:
		score = 95
	}
	if load > 50 {
		score -= 10
	}
	score = stats.Clamp(score, 0, 100)

	var insight string
	switch {
	case ratio <= 4:
		insight = "✅ Omega-6:omega-3 ratio is in the anti-inflammatory range"
	case ratio <= 6:
		insight = "🟡 Omega balance is acceptable, add fatty fish or flax"
	case ratio <= 10:
		insight = "🟠 Omega-6 dominates — inflammation pressure is building"
	default:
		insight = "🔴 Strongly pro-inflammatory omega profile"
	}

	return &Result{
		Pattern:    PatternOmegaBalance,
		Available:  true,
		Score:      score,
		Confidence: confidenceByDays(len(in.Days), 0.60, 0.75, 14),
		Insight:    insight,
		Metrics: map[string]float64{
			"omega3TotalG":     stats.Round1(omega3),
			"omega6TotalG":     stats.Round1(omega6),
			"omegaRatio":       stats.Round2(ratio),
			"inflammatoryLoad": stats.Round1(load),
		},
	}, nil
}

// analyzeGlycemicLoad estimates daily glycemic load from per-item GI and
// carbohydrate content, with an extra penalty for evening-heavy load.
func analyzeGlycemicLoad(_ context.Context, in *Input) (*Result, error) {
	const minDays = 5
	cfg := in.Config()
	if len(in.Days) < minDays {
		return Unavailable(PatternGlycemicLoad, ReasonMinDays, minDays, len(in.Days)), nil
	}
	withMeals := daysWithMeals(in.Days)
	if len(withMeals) == 0 {
		return Unavailable(PatternGlycemicLoad, ReasonNoMeals, minDays, len(in.Days)), nil
	}
	totalMeals := 0
	for _, d := range withMeals {
		totalMeals += len(d.Meals)
	}
	if float64(totalMeals)/float64(len(withMeals)) < float64(cfg.MinMealsPerDay) {
		return Unavailable(PatternGlycemicLoad, ReasonMinMeals, minDays, len(in.Days)), nil
	}

	var dailyGL, eveningRatios []float64
	var highMeals, mediumMeals, lowMeals float64
	for _, d := range withMeals {
		var dayGL, eveningGL float64
		for _, meal := range d.Meals {
			var mealGL float64
			for _, item := range meal.Items {
				p, ok := in.Products.Lookup(item.ProductID)
				if !ok {
					continue
				}
				mealGL += p.Per100.GI * p.Per100.Carbs() * item.Grams / 10000
			}
			switch {
			case mealGL > 20:
				highMeals++
			case mealGL >= 10:
				mediumMeals++
			default:
				lowMeals++
			}
			if meal.Hour() >= 18 {
				eveningGL += mealGL
			}
			dayGL += mealGL
		}
		if dayGL > 0 {
			dailyGL = append(dailyGL, dayGL)
			eveningRatios = append(eveningRatios, eveningGL/dayGL)
		}
	}
	if len(dailyGL) == 0 {
		return Unavailable(PatternGlycemicLoad, ReasonNoSignal, minDays, len(in.Days)), nil
	}

	avgDailyGL := stats.Average(dailyGL)
	avgEveningRatio := stats.Average(eveningRatios)

	glPenalty := math.Max(0, avgDailyGL-80) * 0.5
	eveningPenalty := 0.0
	if avgEveningRatio > 0.5 {
		eveningPenalty = 15
	}
	score := stats.Clamp(100-glPenalty-eveningPenalty, 0, 100)

	dailyClass := 0.0 // 0 low, 1 medium, 2 high
	switch {
	case avgDailyGL > 120:
		dailyClass = 2
	case avgDailyGL >= 80:
		dailyClass = 1
	}

	var insight string
	switch {
	case dailyClass == 2:
		insight = "🔴 Daily glycemic load is high — blunt it with fiber and protein"
	case dailyClass == 1:
		insight = "🟠 Glycemic load is creeping up"
	case avgEveningRatio > 0.5:
		insight = "🟡 Most of the glycemic load lands in the evening"
	default:
		insight = "✅ Glycemic load is well controlled"
	}

	base := confidenceByDays(len(dailyGL), 0.7, 0.8, 10)
	return &Result{
		Pattern:            PatternGlycemicLoad,
		Available:          true,
		Score:              score,
		Confidence:         stats.SmallSamplePenalty(base, len(dailyGL), minDays),
		Insight:            insight,
		DataPoints:         len(dailyGL),
		RequiredDataPoints: minDays,
		Metrics: map[string]float64{
			"avgDailyGL":      stats.Round1(avgDailyGL),
			"avgEveningRatio": stats.Round2(avgEveningRatio),
			"highGLMeals":     highMeals,
			"mediumGLMeals":   mediumMeals,
			"lowGLMeals":      lowMeals,
			"dailyClass":      dailyClass,
		},
	}, nil
}

// analyzeElectrolytes scores sodium, potassium, magnesium, and calcium
// sufficiency, with sweat-heavy training days raising demand.
func analyzeElectrolytes(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	if len(in.Days) < minDays {
		return Unavailable(PatternElectrolytes, ReasonMinDays, minDays, len(in.Days)), nil
	}

	var na, k, mg, ca []float64
	highDemandDays := 0
	for _, d := range in.Days {
		if len(d.Meals) == 0 {
			continue
		}
		n := model.DayNutrients(d, in.Products)
		if n.SodiumMG+n.PotassiumMG+n.MagnesiumMG+n.CalciumMG <= 0 {
			continue
		}
		na = append(na, n.SodiumMG)
		k = append(k, n.PotassiumMG)
		mg = append(mg, n.MagnesiumMG)
		ca = append(ca, n.CalciumMG)
		for _, tr := range d.Trainings {
			if tr.SweatRateML > 800 {
				highDemandDays++
				break
			}
		}
	}
	if len(na) < 5 {
		return Unavailable(PatternElectrolytes, ReasonNoSignal, minDays, len(in.Days)), nil
	}

	avgNa := stats.Average(na)
	avgK := stats.Average(k)
	avgMg := stats.Average(mg)
	avgCa := stats.Average(ca)

	ratio := 0.0
	if avgK > 0 {
		ratio = avgNa / avgK
	}
	var naKScore float64
	switch {
	case ratio <= 1:
		naKScore = 100
	case ratio <= 1.5:
		naKScore = 85
	case ratio <= 2:
		naKScore = 65
	case ratio <= 3:
		naKScore = 40
	default:
		naKScore = 20
	}
	mgScore := math.Min(100, avgMg/400*100)
	caScore := math.Min(100, avgCa/1000*100)
	kScore := math.Min(100, avgK/3500*100)

	raw := naKScore*0.5 + mgScore*0.2 + caScore*0.15 + kScore*0.15
	switch {
	case highDemandDays >= 3:
		raw -= 12
	case highDemandDays > 0:
		raw -= 6
	}
	if ratio <= 1 && mgScore >= 80 {
		raw += 5
	}
	score := stats.Clamp(raw, 0, 100)

	hyponatremiaFlag := 0.0
	if highDemandDays > 0 && avgNa < 1500 {
		hyponatremiaFlag = 1
	}
	mgLowFlag := 0.0
	if avgMg < 300 {
		mgLowFlag = 1
	}

	insight := pickBand(score, []insightBand{
		{80, "✅ Electrolyte intake covers demand"},
		{60, "🟡 Electrolyte coverage is borderline"},
		{0, "🔴 Electrolyte shortfall — prioritize potassium and magnesium"},
	})
	if ratio > 1.5 {
		insight += "; sodium outweighs potassium"
	}

	base := confidenceByDays(len(in.Days), 0.7, 0.8, 14)
	return &Result{
		Pattern:            PatternElectrolytes,
		Available:          true,
		Score:              score,
		Confidence:         stats.SmallSamplePenalty(base, len(na), minDays),
		Insight:            insight,
		DataPoints:         len(na),
		RequiredDataPoints: minDays,
		Metrics: map[string]float64{
			"avgSodiumMg":      stats.Round1(avgNa),
			"avgPotassiumMg":   stats.Round1(avgK),
			"avgMagnesiumMg":   stats.Round1(avgMg),
			"avgCalciumMg":     stats.Round1(avgCa),
			"naKRatio":         stats.Round2(ratio),
			"highDemandDays":   float64(highDemandDays),
			"hyponatremiaRisk": hyponatremiaFlag,
			"magnesiumLow":     mgLowFlag,
		},
	}, nil
}

// analyzeAddedSugar estimates added sugar per day, attributing simple
// carbohydrate by processing level when no declared value exists.
func analyzeAddedSugar(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	if len(in.Days) < minDays {
		return Unavailable(PatternAddedSugar, ReasonMinDays, minDays, len(in.Days)), nil
	}

	var daily []float64
	var confSum, confN float64
	for _, d := range in.Days {
		if len(d.Meals) == 0 {
			continue
		}
		var dayG float64
		for _, meal := range d.Meals {
			for _, item := range meal.Items {
				p, ok := in.Products.Lookup(item.ProductID)
				if !ok || item.Grams <= 0 {
					continue
				}
				scale := item.Grams / 100
				switch {
				case p.Per100.AddedSugar > 0:
					dayG += p.Per100.AddedSugar * scale
					confSum += 1.0
				case p.NovaGroup == 4:
					dayG += p.Per100.Simple * 0.70 * scale
					confSum += 0.70
				default:
					dayG += p.Per100.Simple * 0.30 * scale
					confSum += 0.50
				}
				confN++
			}
		}
		daily = append(daily, dayG)
	}
	if len(daily) < 5 {
		return Unavailable(PatternAddedSugar, ReasonNoSignal, minDays, len(in.Days)), nil
	}

	avg := stats.Average(daily)
	maxStreak, streak := 0, 0
	for _, g := range daily {
		if g > 25 {
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
		}
	}

	streakPenalty := 0.0
	dependencyRisk := 0.0
	switch {
	case maxStreak >= 5:
		streakPenalty = 20
		dependencyRisk = 1
	case maxStreak >= 3:
		streakPenalty = 10
	}
	sugarPenalty := math.Max(0, avg-25) * 1.5

	estimateConf := 0.5
	if confN > 0 {
		estimateConf = confSum / confN
	}
	score := math.Round(math.Max(0, 100-sugarPenalty-streakPenalty) * estimateConf)

	var insight string
	switch {
	case dependencyRisk == 1:
		insight = "🔴 Sustained added-sugar streak — dependency risk"
	case avg > 25:
		insight = "🟠 Added sugar above the 25g guideline"
	case maxStreak >= 3:
		insight = "🟡 Repeated high-sugar days, watch the streak"
	default:
		insight = "✅ Added sugar stays within guideline"
	}

	return &Result{
		Pattern:            PatternAddedSugar,
		Available:          true,
		Score:              stats.Clamp(score, 0, 100),
		Confidence:         stats.SmallSamplePenalty(0.7, len(daily), minDays),
		Insight:            insight,
		DataPoints:         len(daily),
		RequiredDataPoints: minDays,
		Metrics: map[string]float64{
			"avgDailySugarG": stats.Round1(avg),
			"maxStreakDays":  float64(maxStreak),
			"dependencyRisk": dependencyRisk,
			"estimateConf":   stats.Round2(estimateConf),
		},
	}, nil
}

// analyzeNovaQuality scores the calorie share coming from ultra-processed
// (NOVA group 4) versus unprocessed (group 1) foods.
func analyzeNovaQuality(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	if len(in.Days) < minDays {
		return Unavailable(PatternNovaQuality, ReasonMinDays, minDays, len(in.Days)), nil
	}

	kcalByGroup := map[int]float64{}
	var totalKcal float64
	for _, d := range in.Days {
		for _, meal := range d.Meals {
			for _, item := range meal.Items {
				p, ok := in.Products.Lookup(item.ProductID)
				if !ok || item.Grams <= 0 {
					continue
				}
				kcal := p.Per100.Kcal() * item.Grams / 100
				group := p.NovaGroup
				if group == 0 {
					group = 3
				}
				kcalByGroup[group] += kcal
				totalKcal += kcal
			}
		}
	}
	if totalKcal < 100 {
		return Unavailable(PatternNovaQuality, ReasonInsufficientEnergy, minDays, len(in.Days)), nil
	}

	ultraPct := kcalByGroup[4] / totalKcal * 100
	livingPct := kcalByGroup[1] / totalKcal * 100
	score := stats.Clamp(100-ultraPct*0.8+math.Min(livingPct*0.5, 10), 0, 100)

	var insight string
	switch {
	case ultraPct > 50:
		insight = "🔴 Over half of calories come from ultra-processed food"
	case ultraPct > 25:
		insight = "🟠 Ultra-processed share is high"
	case ultraPct > 10:
		insight = "🟡 Some ultra-processed calories in the mix"
	default:
		insight = "✅ Diet is built on minimally processed food"
	}

	return &Result{
		Pattern:    PatternNovaQuality,
		Available:  true,
		Score:      score,
		Confidence: confidenceByDays(len(in.Days), 0.70, 0.85, 14),
		Insight:    insight,
		Metrics: map[string]float64{
			"ultraProcessedPct": stats.Round1(ultraPct),
			"unprocessedPct":    stats.Round1(livingPct),
			"totalKcal":         stats.Round1(totalKcal),
		},
	}, nil
}

// analyzeNutrientDensity scores nutrients delivered per 1000 kcal against
// density targets, penalizing sugar- and sodium-dense eating.
func analyzeNutrientDensity(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	if len(in.Days) < minDays {
		return Unavailable(PatternNutrientDensity, ReasonMinDays, minDays, len(in.Days)), nil
	}

	totals := dayTotals(in.Days, in.Products)
	var kcal float64
	var sum model.Nutrients
	for _, n := range totals {
		kcal += n.Kcal()
		sum.Protein += n.Protein
		sum.Fiber += n.Fiber
		sum.Simple += n.Simple
		sum.VitCMG += n.VitCMG
		sum.IronMG += n.IronMG
		sum.MagnesiumMG += n.MagnesiumMG
		sum.PotassiumMG += n.PotassiumMG
		sum.CalciumMG += n.CalciumMG
		sum.SodiumMG += n.SodiumMG
	}
	if kcal < 500 {
		return Unavailable(PatternNutrientDensity, ReasonInsufficientEnergy, minDays, len(in.Days)), nil
	}

	per1000 := func(v float64) float64 { return v / kcal * 1000 }
	component := func(actual, target, weight float64) float64 {
		return math.Min(1, actual/target) * weight
	}

	score := component(per1000(sum.Protein), 35, 20) +
		component(per1000(sum.Fiber), 14, 20) +
		component(per1000(sum.VitCMG), 45, 15) +
		component(per1000(sum.IronMG), 6, 10) +
		component(per1000(sum.MagnesiumMG), 200, 10) +
		component(per1000(sum.PotassiumMG), 1750, 15) +
		component(per1000(sum.CalciumMG), 500, 10)

	if s := per1000(sum.Simple); s > 25 {
		score -= math.Min(15, (s-25)*0.4)
	}
	if na := per1000(sum.SodiumMG); na > 1000 {
		score -= math.Min(15, (na-1000)*0.01)
	}
	score = stats.Clamp(score, 0, 100)

	insight := pickBand(score, []insightBand{
		{80, "✅ Every calorie pulls nutritional weight"},
		{60, "🟡 Nutrient density is adequate but improvable"},
		{40, "🟠 Calories outpace nutrients"},
		{0, "🔴 Low nutrient density — mostly empty calories"},
	})

	base := confidenceByDays(len(in.Days), 0.7, 0.8, 14)
	return &Result{
		Pattern:            PatternNutrientDensity,
		Available:          true,
		Score:              score,
		Confidence:         stats.SmallSamplePenalty(base, len(totals), minDays),
		Insight:            insight,
		DataPoints:         len(totals),
		RequiredDataPoints: minDays,
		Metrics: map[string]float64{
			"proteinPer1000":   stats.Round1(per1000(sum.Protein)),
			"fiberPer1000":     stats.Round1(per1000(sum.Fiber)),
			"potassiumPer1000": stats.Round1(per1000(sum.PotassiumMG)),
			"sodiumPer1000":    stats.Round1(per1000(sum.SodiumMG)),
		},
	}, nil
}

// analyzeAntioxidants builds an antioxidant index from vitamins A/C/E,
// selenium, and zinc, adjusted for training-driven oxidative demand.
func analyzeAntioxidants(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	if len(in.Days) < minDays {
		return Unavailable(PatternAntioxidants, ReasonMinDays, minDays, len(in.Days)), nil
	}

	var indexes, vitCPcts, vitEPcts []float64
	highDemandDays, trainingDays := 0, 0
	var nova4Carbs, totalCarbs float64
	for _, d := range in.Days {
		if len(d.Meals) == 0 {
			continue
		}
		n := model.DayNutrients(d, in.Products)
		if n.Kcal() <= 0 {
			continue
		}
		idx := math.Min(1, n.VitAMCG/900)*20 +
			math.Min(1, n.VitCMG/90)*30 +
			math.Min(1, n.VitEMG/15)*20 +
			math.Min(1, n.SeleniumMCG/55)*15 +
			math.Min(1, n.ZincMG/11)*15
		indexes = append(indexes, idx)
		vitCPcts = append(vitCPcts, n.VitCMG/90*100)
		vitEPcts = append(vitEPcts, n.VitEMG/15*100)

		if len(d.Trainings) > 0 {
			trainingDays++
			for _, tr := range d.Trainings {
				if len(tr.ZoneMinutes) >= 5 && tr.ZoneMinutes[3]+tr.ZoneMinutes[4] > 20 {
					highDemandDays++
					break
				}
			}
		}
		for _, meal := range d.Meals {
			for _, item := range meal.Items {
				p, ok := in.Products.Lookup(item.ProductID)
				if !ok {
					continue
				}
				c := p.Per100.Carbs() * item.Grams / 100
				totalCarbs += c
				if p.NovaGroup == 4 {
					nova4Carbs += c
				}
			}
		}
	}
	if len(indexes) < 5 {
		return Unavailable(PatternAntioxidants, ReasonNoSignal, minDays, len(in.Days)), nil
	}

	avgIndex := stats.Average(indexes)
	adjusted := avgIndex
	if highDemandDays*2 > len(indexes) {
		adjusted *= 0.85
	}
	score := stats.Clamp(adjusted, 0, 100)

	avgVitC := stats.Average(vitCPcts)
	avgVitE := stats.Average(vitEPcts)
	nova4CarbShare := 0.0
	if totalCarbs > 0 {
		nova4CarbShare = nova4Carbs / totalCarbs * 100
	}
	defenseGap := 0.0
	if score < 60 {
		defenseGap = 1
	}
	vitCRisk := 0.0
	if highDemandDays > 0 && avgVitC < 50 {
		vitCRisk = 1
	}
	doubleStress := 0.0
	if avgVitE < 50 && nova4CarbShare > 30 {
		doubleStress = 1
	}

	insight := pickBand(score, []insightBand{
		{75, "✅ Antioxidant defense is well stocked"},
		{60, "🟡 Antioxidant coverage is adequate"},
		{0, "🟠 Antioxidant defense gap — add colorful produce"},
	})

	base := confidenceByDays(len(in.Days), 0.7, 0.8, 14)
	return &Result{
		Pattern:            PatternAntioxidants,
		Available:          true,
		Score:              score,
		Confidence:         stats.SmallSamplePenalty(base, len(indexes), minDays),
		Insight:            insight,
		DataPoints:         len(indexes),
		RequiredDataPoints: minDays,
		Metrics: map[string]float64{
			"avgIndex":       stats.Round1(avgIndex),
			"highDemandDays": float64(highDemandDays),
			"trainingDays":   float64(trainingDays),
			"defenseGap":     defenseGap,
			"vitCRisk":       vitCRisk,
			"doubleStress":   doubleStress,
		},
	}, nil
}
