package pattern

import (
	"context"
	"math"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/stats"
)

// Pattern ids, micronutrient group.
const (
	PatternMicronutrientRadar = "micronutrient_radar"
	PatternVitaminDefense     = "vitamin_defense"
	PatternBComplexAnemia     = "b_complex_anemia"
	PatternBoneHealth         = "bone_health"
)

func micronutrientAnalyzers() []Analyzer {
	return []Analyzer{
		newAnalyzer(PatternMicronutrientRadar, CategoryNutrition, analyzeMicronutrientRadar),
		newAnalyzer(PatternVitaminDefense, CategoryNutrition, analyzeVitaminDefense),
		newAnalyzer(PatternBComplexAnemia, CategoryMetabolism, analyzeBComplexAnemia),
		newAnalyzer(PatternBoneHealth, CategoryRecovery, analyzeBoneHealth),
	}
}

// analyzeMicronutrientRadar tracks iron, magnesium, zinc, and calcium
// against reference intakes, cross-referencing low-energy and poor-sleep days.
func analyzeMicronutrientRadar(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	if len(in.Days) < minDays {
		return Unavailable(PatternMicronutrientRadar, ReasonMinDays, minDays, len(in.Days)), nil
	}

	dri := map[string]float64{"iron": 18, "magnesium": 400, "zinc": 11, "calcium": 1000}
	pcts := map[string][]float64{}
	lowEnergyDays, poorSleepDays, tracked := 0, 0, 0
	for _, d := range in.Days {
		if len(d.Meals) == 0 {
			continue
		}
		n := model.DayNutrients(d, in.Products)
		if n.Kcal() <= 0 {
			continue
		}
		tracked++
		pcts["iron"] = append(pcts["iron"], n.IronMG/dri["iron"]*100)
		pcts["magnesium"] = append(pcts["magnesium"], n.MagnesiumMG/dri["magnesium"]*100)
		pcts["zinc"] = append(pcts["zinc"], n.ZincMG/dri["zinc"]*100)
		pcts["calcium"] = append(pcts["calcium"], n.CalciumMG/dri["calcium"]*100)
		if d.Energy > 0 && d.Energy < 3 {
			lowEnergyDays++
		}
		if d.SleepQuality > 0 && d.SleepQuality < 3 {
			poorSleepDays++
		}
	}
	if tracked < 5 {
		return Unavailable(PatternMicronutrientRadar, ReasonNoSignal, minDays, len(in.Days)), nil
	}

	score := 100.0
	deficits := 0.0
	metrics := map[string]float64{}
	for name, series := range pcts {
		avg := stats.Average(series)
		metrics["avg_"+name+"_pct"] = stats.Round1(avg)
		if avg < 70 {
			deficits++
			score -= (100 - avg) * 0.5
		}
	}
	score = stats.Clamp(score, 0, 100)

	var insight string
	switch {
	case deficits == 0:
		insight = "✅ Core minerals covered across the board"
	case deficits <= 2:
		insight = "🟡 Mineral shortfall detected"
	default:
		insight = "🔴 Multiple mineral deficits"
	}
	if tracked > 0 && (float64(lowEnergyDays)/float64(tracked) > 0.4 || float64(poorSleepDays)/float64(tracked) > 0.4) {
		insight += "; low energy/sleep days co-occur with the shortfall"
	}

	metrics["deficitCount"] = deficits
	metrics["lowEnergyDays"] = float64(lowEnergyDays)
	metrics["poorSleepDays"] = float64(poorSleepDays)

	return &Result{
		Pattern:            PatternMicronutrientRadar,
		Available:          true,
		Score:              score,
		Confidence:         confidenceByDays(len(in.Days), 0.60, 0.75, 14),
		Insight:            insight,
		DataPoints:         tracked,
		RequiredDataPoints: minDays,
		Metrics:            metrics,
	}, nil
}

// vitaminDRI returns the gendered daily reference intakes for vitamins.
func vitaminDRI(female bool) map[string]float64 {
	dri := map[string]float64{
		"a": 900, "c": 90, "d": 15, "e": 15, "k": 120,
		"b1": 1.2, "b2": 1.3, "b3": 16, "b6": 1.3, "b9": 400, "b12": 2.4,
	}
	if female {
		dri["a"] = 700
		dri["c"] = 75
		dri["k"] = 90
	}
	return dri
}

// analyzeVitaminDefense checks eleven vitamins against gendered reference
// intakes and counts deficits, grouped into functional clusters.
func analyzeVitaminDefense(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	if len(in.Days) < minDays {
		return Unavailable(PatternVitaminDefense, ReasonMinDays, minDays, len(in.Days)), nil
	}

	totalProducts, validDays := 0, 0
	sums := map[string]float64{}
	for _, d := range in.Days {
		if len(d.Meals) == 0 {
			continue
		}
		n := model.DayNutrients(d, in.Products)
		if n.Kcal() <= 0 {
			continue
		}
		validDays++
		for _, meal := range d.Meals {
			totalProducts += len(meal.Items)
		}
		sums["a"] += n.VitAMCG
		sums["c"] += n.VitCMG
		sums["d"] += n.VitDMCG
		sums["e"] += n.VitEMG
		sums["k"] += n.VitKMCG
		sums["b1"] += n.VitB1MG
		sums["b2"] += n.VitB2MG
		sums["b3"] += n.VitB3MG
		sums["b6"] += n.VitB6MG
		sums["b9"] += n.VitB9MCG
		sums["b12"] += n.VitB12MCG
	}
	if validDays < 5 {
		return Unavailable(PatternVitaminDefense, ReasonNoSignal, minDays, len(in.Days)), nil
	}
	if float64(totalProducts)/float64(validDays) < 3 {
		return Unavailable(PatternVitaminDefense, ReasonMinProducts, minDays, len(in.Days)), nil
	}

	dri := vitaminDRI(in.Profile.IsFemale())
	clusters := map[string][]string{
		"antioxidant": {"a", "c", "e"},
		"bone":        {"d", "k"},
		"energy":      {"b1", "b2", "b3", "b6"},
		"blood":       {"b9", "b12"},
	}

	pct := map[string]float64{}
	deficits := 0.0
	for vit, target := range dri {
		avg := sums[vit] / float64(validDays)
		pct[vit] = avg / target * 100
		if pct[vit] < 70 {
			deficits++
		}
	}

	metrics := map[string]float64{"deficitCount": deficits}
	for name, members := range clusters {
		var vals []float64
		for _, m := range members {
			vals = append(vals, pct[m])
		}
		metrics["cluster_"+name+"_pct"] = stats.Round1(stats.Average(vals))
	}

	score := stats.Clamp(100-deficits*8, 0, 100)

	var insight string
	switch {
	case deficits == 0:
		insight = "🌟 Full vitamin coverage"
	case deficits <= 2:
		insight = "⚠️ A couple of vitamins run below target"
	case deficits >= 5:
		insight = "🚨 Broad vitamin shortfall"
	default:
		insight = "🟡 Several vitamins below target"
	}

	base := confidenceByDays(validDays, 0.70, 0.80, 14)
	return &Result{
		Pattern:            PatternVitaminDefense,
		Available:          true,
		Score:              score,
		Confidence:         stats.SmallSamplePenalty(base, validDays, 10),
		Insight:            insight,
		DataPoints:         validDays,
		RequiredDataPoints: 10,
		Metrics:            metrics,
	}, nil
}

// analyzeBComplexAnemia combines B-vitamin status with iron to flag
// anemia-adjacent risk.
func analyzeBComplexAnemia(_ context.Context, in *Input) (*Result, error) {
	const minDays = 7
	if len(in.Days) < minDays {
		return Unavailable(PatternBComplexAnemia, ReasonMinDays, minDays, len(in.Days)), nil
	}

	ironDRI := 8.0
	if in.Profile.IsFemale() {
		ironDRI = 18
	}
	dri := vitaminDRI(in.Profile.IsFemale())

	validDays := 0
	sums := map[string]float64{}
	for _, d := range in.Days {
		if len(d.Meals) == 0 {
			continue
		}
		n := model.DayNutrients(d, in.Products)
		if n.Kcal() <= 0 {
			continue
		}
		validDays++
		sums["b1"] += n.VitB1MG
		sums["b2"] += n.VitB2MG
		sums["b3"] += n.VitB3MG
		sums["b6"] += n.VitB6MG
		sums["b9"] += n.VitB9MCG
		sums["b12"] += n.VitB12MCG
		sums["iron"] += n.IronMG
	}
	if validDays < 5 {
		return Unavailable(PatternBComplexAnemia, ReasonNoSignal, minDays, len(in.Days)), nil
	}

	pct := func(key string, target float64) float64 {
		return sums[key] / float64(validDays) / target * 100
	}
	energyB := (pct("b1", dri["b1"]) + pct("b2", dri["b2"]) + pct("b3", dri["b3"]) + pct("b6", dri["b6"])) / 4
	bloodB := (pct("b9", dri["b9"]) + pct("b12", dri["b12"])) / 2
	ironPct := pct("iron", ironDRI)

	risk := 0.0
	if ironPct < 70 {
		risk += 30
	}
	if pct("b12", dri["b12"]) < 70 {
		risk += 30
	}
	if pct("b9", dri["b9"]) < 70 {
		risk += 25
	}
	if ironPct < 70 && pct("b12", dri["b12"]) < 70 && pct("b9", dri["b9"]) < 70 {
		risk = 100
	}

	score := stats.Clamp(math.Round(math.Min(100, energyB)*0.4+math.Min(100, bloodB)*0.3+(100-risk)*0.3), 0, 100)

	var insight string
	switch {
	case risk >= 70:
		insight = "❌ High anemia-adjacent risk: iron and blood-forming vitamins are short"
	case risk >= 30:
		insight = "⚠️ Partial shortfall in iron or B9/B12"
	default:
		insight = "✅ B-complex and iron status look solid"
	}

	base := 0.65
	if score >= 70 {
		base = 0.75
	}
	return &Result{
		Pattern:            PatternBComplexAnemia,
		Available:          true,
		Score:              score,
		Confidence:         stats.SmallSamplePenalty(base, validDays, minDays),
		Insight:            insight,
		DataPoints:         validDays,
		RequiredDataPoints: minDays,
		Metrics: map[string]float64{
			"energyBPct": stats.Round1(energyB),
			"bloodBPct":  stats.Round1(bloodB),
			"ironPct":    stats.Round1(ironPct),
			"anemiaRisk": risk,
		},
	}, nil
}

// analyzeBoneHealth scores calcium, vitamin D/K, and phosphorus sufficiency,
// with age/sex risk adjustment and a strength-training bonus.
func analyzeBoneHealth(_ context.Context, in *Input) (*Result, error) {
	const minDays = 14
	if len(in.Days) < minDays {
		return Unavailable(PatternBoneHealth, ReasonMinDays, minDays, len(in.Days)), nil
	}

	var ca, d3, k2, ph []float64
	strengthDays := 0
	for _, day := range in.Days {
		if len(day.Meals) == 0 {
			continue
		}
		n := model.DayNutrients(day, in.Products)
		if n.Kcal() <= 0 {
			continue
		}
		ca = append(ca, n.CalciumMG)
		d3 = append(d3, n.VitDMCG)
		k2 = append(k2, n.VitKMCG)
		ph = append(ph, n.PhosphorusMG)
		for _, tr := range day.Trainings {
			if tr.Type == "strength" {
				strengthDays++
				break
			}
		}
	}
	if len(ca) < 5 {
		return Unavailable(PatternBoneHealth, ReasonNoSignal, minDays, len(in.Days)), nil
	}

	vitKTarget := 120.0
	if in.Profile.IsFemale() {
		vitKTarget = 90
	}

	riskPenalty := 0.0
	if in.Profile.IsFemale() {
		switch {
		case in.Profile.Age > 55:
			riskPenalty = 12
		case in.Profile.Age > 45:
			riskPenalty = 6
		}
	}
	targetMultiplier := 1.0
	if riskPenalty > 0 {
		targetMultiplier = 1.2
	}

	avgCa := stats.Average(ca)
	avgD := stats.Average(d3)
	avgK := stats.Average(k2)
	avgP := stats.Average(ph)

	score := math.Min(1, avgCa/(1000*targetMultiplier))*35 +
		math.Min(1, avgD/15)*25 +
		math.Min(1, avgK/(vitKTarget*targetMultiplier))*15 +
		math.Min(1, avgP/700)*10

	caPRatio := 0.0
	if avgP > 0 {
		caPRatio = avgCa / avgP
	}
	switch {
	case caPRatio >= 1.0 && caPRatio <= 2.0:
		score += 10
	case caPRatio > 0 && caPRatio < 0.5:
		score -= 15
	case caPRatio > 3.0:
		score -= 5
	}

	switch {
	case strengthDays >= 6:
		score += 10
	case strengthDays >= 4:
		score += 5
	}
	score = stats.Clamp(score-riskPenalty, 0, 100)

	insight := pickBand(score, []insightBand{
		{80, "✅ Bone-supporting intake and loading are on point"},
		{60, "🟡 Bone nutrition is passable, mind calcium and vitamin D"},
		{0, "🔴 Bone health support is thin"},
	})

	return &Result{
		Pattern:            PatternBoneHealth,
		Available:          true,
		Score:              score,
		Confidence:         stats.SmallSamplePenalty(0.7, len(ca), minDays),
		Insight:            insight,
		DataPoints:         len(ca),
		RequiredDataPoints: minDays,
		Metrics: map[string]float64{
			"avgCalciumMg":    stats.Round1(avgCa),
			"avgVitDMcg":      stats.Round1(avgD),
			"avgVitKMcg":      stats.Round1(avgK),
			"avgPhosphorusMg": stats.Round1(avgP),
			"caPRatio":        stats.Round2(caPRatio),
			"strengthDays":    float64(strengthDays),
		},
	}, nil
}
