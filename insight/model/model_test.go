package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() ProductIndex {
	return ProductIndex{
		"oats": {
			ID: "oats",
			Per100: Nutrients{
				Protein: 13, Simple: 1, Complex: 55, GoodFat: 5, BadFat: 1,
				Fiber: 10, MagnesiumMG: 130, PotassiumMG: 360,
			},
		},
		"egg": {
			ID: "egg",
			Per100: Nutrients{
				Protein: 12.5, BadFat: 3, GoodFat: 7, SodiumMG: 130, CholesterolMG: 370,
			},
		},
	}
}

func TestMealNutrientsSkipsUnknownProducts(t *testing.T) {
	idx := testIndex()
	meal := Meal{
		Time: "08:30",
		Items: []MealItem{
			{ProductID: "oats", Grams: 50},
			{ProductID: "does-not-exist", Grams: 200},
			{ProductID: "egg", Grams: 0}, // zero grams skipped too
		},
	}

	n := MealNutrients(meal, idx)
	assert.InDelta(t, 6.5, n.Protein, 0.001)
	assert.InDelta(t, 28, n.Carbs(), 0.001)
	assert.InDelta(t, 5, n.Fiber, 0.001)
}

func TestDayKcalPrefersLoggedTotal(t *testing.T) {
	idx := testIndex()
	day := DayRecord{
		EatenKcal: 1850,
		Meals:     []Meal{{Items: []MealItem{{ProductID: "oats", Grams: 100}}}},
	}
	assert.Equal(t, 1850.0, DayKcal(day, idx))

	day.EatenKcal = 0
	// 13*3 + 56*4 + 6*9 = 317
	assert.InDelta(t, 317, DayKcal(day, idx), 0.001)
}

func TestSleepDerivedFromClockTimes(t *testing.T) {
	day := DayRecord{SleepStart: "23:00", SleepEnd: "07:30"}
	assert.InDelta(t, 8.5, day.Sleep(), 0.001)

	day = DayRecord{SleepStart: "01:15", SleepEnd: "08:45"}
	assert.InDelta(t, 7.5, day.Sleep(), 0.001)

	// Explicit hours win over derived.
	day = DayRecord{SleepHours: 6, SleepStart: "23:00", SleepEnd: "07:00"}
	assert.Equal(t, 6.0, day.Sleep())
}

func TestParseClock(t *testing.T) {
	h, ok := ParseClock("18:45")
	require.True(t, ok)
	assert.InDelta(t, 18.75, h, 0.001)

	_, ok = ParseClock("")
	assert.False(t, ok)
	_, ok = ParseClock("25:00")
	assert.False(t, ok)
	_, ok = ParseClock("aa:bb")
	assert.False(t, ok)
}

func TestMealHour(t *testing.T) {
	assert.Equal(t, 21, Meal{Time: "21:30"}.Hour())
	assert.Equal(t, -1, Meal{}.Hour())
}

func TestProfileDefaults(t *testing.T) {
	var p *Profile
	assert.Equal(t, 8.0, p.SleepTarget())
	assert.Equal(t, 2000.0, p.Optimum())
	assert.Equal(t, 70.0, p.Weight())
	assert.False(t, p.IsFemale())

	p = &Profile{Gender: "female", SleepHoursTarget: 7.5, OptimumKcal: 1800, WeightKG: 62}
	assert.True(t, p.IsFemale())
	assert.Equal(t, 7.5, p.SleepTarget())
	assert.Equal(t, 1800.0, p.Optimum())
	assert.Equal(t, 62.0, p.Weight())
}
