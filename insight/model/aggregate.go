package model

import (
	"strconv"
	"strings"
)

// MealNutrients accumulates the nutrient totals of a single meal.
// Items whose product id is absent from the index are skipped.
func MealNutrients(meal Meal, idx ProductIndex) Nutrients {
	var total Nutrients
	for _, item := range meal.Items {
		p, ok := idx.Lookup(item.ProductID)
		if !ok || item.Grams <= 0 {
			continue
		}
		scale := item.Grams / 100
		n := p.Per100
		total.Protein += n.Protein * scale
		total.Simple += n.Simple * scale
		total.Complex += n.Complex * scale
		total.BadFat += n.BadFat * scale
		total.GoodFat += n.GoodFat * scale
		total.Trans += n.Trans * scale
		total.Fiber += n.Fiber * scale
		total.SodiumMG += n.SodiumMG * scale
		total.PotassiumMG += n.PotassiumMG * scale
		total.MagnesiumMG += n.MagnesiumMG * scale
		total.CalciumMG += n.CalciumMG * scale
		total.PhosphorusMG += n.PhosphorusMG * scale
		total.IronMG += n.IronMG * scale
		total.ZincMG += n.ZincMG * scale
		total.SeleniumMCG += n.SeleniumMCG * scale
		total.CholesterolMG += n.CholesterolMG * scale
		total.Omega3 += n.Omega3 * scale
		total.Omega6 += n.Omega6 * scale
		total.AddedSugar += n.AddedSugar * scale
		total.VitAMCG += n.VitAMCG * scale
		total.VitCMG += n.VitCMG * scale
		total.VitDMCG += n.VitDMCG * scale
		total.VitEMG += n.VitEMG * scale
		total.VitKMCG += n.VitKMCG * scale
		total.VitB1MG += n.VitB1MG * scale
		total.VitB2MG += n.VitB2MG * scale
		total.VitB3MG += n.VitB3MG * scale
		total.VitB6MG += n.VitB6MG * scale
		total.VitB9MCG += n.VitB9MCG * scale
		total.VitB12MCG += n.VitB12MCG * scale
	}
	return total
}

// DayNutrients accumulates nutrient totals across all meals of a day.
func DayNutrients(day DayRecord, idx ProductIndex) Nutrients {
	var total Nutrients
	for _, meal := range day.Meals {
		n := MealNutrients(meal, idx)
		total.Protein += n.Protein
		total.Simple += n.Simple
		total.Complex += n.Complex
		total.BadFat += n.BadFat
		total.GoodFat += n.GoodFat
		total.Trans += n.Trans
		total.Fiber += n.Fiber
		total.SodiumMG += n.SodiumMG
		total.PotassiumMG += n.PotassiumMG
		total.MagnesiumMG += n.MagnesiumMG
		total.CalciumMG += n.CalciumMG
		total.PhosphorusMG += n.PhosphorusMG
		total.IronMG += n.IronMG
		total.ZincMG += n.ZincMG
		total.SeleniumMCG += n.SeleniumMCG
		total.CholesterolMG += n.CholesterolMG
		total.Omega3 += n.Omega3
		total.Omega6 += n.Omega6
		total.AddedSugar += n.AddedSugar
		total.VitAMCG += n.VitAMCG
		total.VitCMG += n.VitCMG
		total.VitDMCG += n.VitDMCG
		total.VitEMG += n.VitEMG
		total.VitKMCG += n.VitKMCG
		total.VitB1MG += n.VitB1MG
		total.VitB2MG += n.VitB2MG
		total.VitB3MG += n.VitB3MG
		total.VitB6MG += n.VitB6MG
		total.VitB9MCG += n.VitB9MCG
		total.VitB12MCG += n.VitB12MCG
	}
	return total
}

// DayKcal returns the day's eaten calories: the logged total when present,
// otherwise derived from meals and the product index.
func DayKcal(day DayRecord, idx ProductIndex) float64 {
	if day.EatenKcal > 0 {
		return day.EatenKcal
	}
	return DayNutrients(day, idx).Kcal()
}

// Sleep returns the day's sleep duration in hours. When only start and end
// times are logged the duration is derived, wrapping across midnight.
func (d DayRecord) Sleep() float64 {
	if d.SleepHours > 0 {
		return d.SleepHours
	}
	if d.SleepStart == "" || d.SleepEnd == "" {
		return 0
	}
	start, ok1 := ParseClock(d.SleepStart)
	end, ok2 := ParseClock(d.SleepEnd)
	if !ok1 || !ok2 {
		return 0
	}
	hours := end - start
	if hours < 0 {
		hours += 24
	}
	return hours
}

// ParseClock parses "HH:MM" into fractional hours.
func ParseClock(s string) (float64, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) == 0 || parts[0] == "" {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m := 0
	if len(parts) == 2 && parts[1] != "" {
		m, err = strconv.Atoi(parts[1])
		if err != nil || m < 0 || m > 59 {
			return 0, false
		}
	}
	return float64(h) + float64(m)/60, true
}

// Hour returns the meal's hour of day, or -1 when the time is missing
// or malformed.
func (m Meal) Hour() int {
	t, ok := ParseClock(m.Time)
	if !ok {
		return -1
	}
	return int(t)
}
