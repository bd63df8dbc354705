package whatif

import (
	"fmt"
	"math"

	"github.com/hrygo/nutrisense/insight/pattern"
)

// ActionType identifies a simulated behavior change.
type ActionType string

const (
	ActionAddProtein      ActionType = "add_protein"
	ActionAddFiber        ActionType = "add_fiber"
	ActionReduceCarbs     ActionType = "reduce_carbs"
	ActionIncreaseMealGap ActionType = "increase_meal_gap"
	ActionShiftMealTime   ActionType = "shift_meal_time"
	ActionSkipLateMeal    ActionType = "skip_late_meal"
	ActionIncreaseSleep   ActionType = "increase_sleep"
	ActionAdjustBedtime   ActionType = "adjust_bedtime"
	ActionAddTraining     ActionType = "add_training"
	ActionIncreaseSteps   ActionType = "increase_steps"
)

// effect is one pattern a rule touches, its base score delta at
// coefficient 1.0, and a short explanation of the mechanism.
type effect struct {
	pattern     string
	baseDelta   float64
	description string
}

// rule describes how one action maps onto pattern score changes. The
// coefficient scales all deltas with the action's dose and is clamped to
// [0.5, 2.0] so extreme inputs cannot explode the projection.
type rule struct {
	primary   []effect
	secondary []effect
	// coeff derives the dose multiplier from the request parameters.
	coeff func(params map[string]float64) float64
	// defaults fill parameters the request omitted.
	defaults map[string]float64
	tips     func(params map[string]float64) []string
}

func param(params map[string]float64, key string, fallback float64) float64 {
	if v, ok := params[key]; ok && v != 0 {
		return v
	}
	return fallback
}

var rules = map[ActionType]rule{
	ActionAddProtein: {
		primary: []effect{
			{pattern.PatternProteinSatiety, 12, "More protein per meal extends satiety between meals"},
			{pattern.PatternNutritionQuality, 8, "Protein share lifts the overall diet quality score"},
		},
		secondary: []effect{
			{pattern.PatternMealTiming, 6, "Longer satiety makes planned meal gaps easier to hold"},
			{pattern.PatternTrainingRecovery, 6, "Protein availability supports muscle repair after sessions"},
		},
		coeff:    func(p map[string]float64) float64 { return param(p, "proteinGrams", 30) / 30 },
		defaults: map[string]float64{"proteinGrams": 30},
		tips: func(p map[string]float64) []string {
			g := param(p, "proteinGrams", 30)
			return []string{
				fmt.Sprintf("Spread the extra %.0f g of protein across 2-3 meals", g),
				"Front-load protein: a 30 g breakfast carries satiety through the day",
			}
		},
	},
	ActionAddFiber: {
		primary: []effect{
			{pattern.PatternFiberRegularity, 12, "Daily fiber intake moves toward the 14 g/1000 kcal target"},
			{pattern.PatternNutritionQuality, 8, "Fiber density is a core component of diet quality"},
		},
		secondary: []effect{
			{pattern.PatternProteinSatiety, 5, "Fiber slows digestion and stretches satiety"},
		},
		coeff:    func(p map[string]float64) float64 { return param(p, "fiberGrams", 15) / 15 },
		defaults: map[string]float64{"fiberGrams": 15},
		tips: func(p map[string]float64) []string {
			return []string{
				fmt.Sprintf("Add %.0f g of fiber gradually over a week to avoid gut backlash", param(p, "fiberGrams", 15)),
				"Legumes and oats raise fiber without a calorie spike",
			}
		},
	},
	ActionReduceCarbs: {
		primary: []effect{
			{pattern.PatternGlycemicLoad, 12, "Lower carb share flattens the daily glycemic load"},
			{pattern.PatternLateEating, 7, "Evening carb cravings fade as glucose swings settle"},
		},
		secondary: []effect{
			{pattern.PatternSleepWeight, 6, "Steadier evening glucose improves overnight weight response"},
			{pattern.PatternNutritionQuality, 5, "Dropped simple carbs usually leave denser foods behind"},
		},
		coeff:    func(p map[string]float64) float64 { return param(p, "carbsPercent", 25) / 25 },
		defaults: map[string]float64{"carbsPercent": 25},
		tips: func(p map[string]float64) []string {
			return []string{
				fmt.Sprintf("Cut simple carbs first when trimming %.0f%%", param(p, "carbsPercent", 25)),
				"Keep complex carbs around training sessions",
			}
		},
	},
	ActionIncreaseMealGap: {
		primary: []effect{
			{pattern.PatternWaveOverlap, 12, "Wider gaps let each insulin wave subside before the next meal"},
			{pattern.PatternMealTiming, 10, "Gap discipline moves average spacing toward the ideal"},
		},
		secondary: []effect{
			{pattern.PatternTrainingKcal, 5, "Clean fasting windows improve fuel use around sessions"},
			{pattern.PatternGlycemicLoad, 6, "Fewer eating occasions trim the stacked glucose load"},
		},
		coeff:    func(p map[string]float64) float64 { return param(p, "targetGapHours", 4) / 4 },
		defaults: map[string]float64{"targetGapHours": 4},
		tips: func(p map[string]float64) []string {
			return []string{
				fmt.Sprintf("Hold a %.1f h gap so each insulin wave fully subsides", param(p, "targetGapHours", 4)),
				"Water, tea, and coffee don't break the gap",
			}
		},
	},
	ActionShiftMealTime: {
		primary: []effect{
			{pattern.PatternMealTiming, 10, "An earlier dinner realigns meals with the circadian window"},
			{pattern.PatternLateEating, 8, "Moving dinner up directly cuts late-hour intake"},
		},
		secondary: []effect{
			{pattern.PatternSleepQuality, 5, "Digestion finishes before bedtime instead of during it"},
			{pattern.PatternTrainingKcal, 4, "Earlier fuel timing fits most training schedules better"},
		},
		coeff: func(p map[string]float64) float64 {
			return math.Abs(param(p, "shiftMinutes", -30)) / 30
		},
		defaults: map[string]float64{"shiftMinutes": -30},
		tips: func(p map[string]float64) []string {
			return []string{
				fmt.Sprintf("Shift dinner by %.0f minutes in 15-minute steps", param(p, "shiftMinutes", -30)),
				"An earlier dinner pays off first in sleep quality",
			}
		},
	},
	ActionSkipLateMeal: {
		primary: []effect{
			{pattern.PatternLateEating, 15, "Dropping the late meal removes the biggest late-hour offender"},
			{pattern.PatternSleepWeight, 8, "No pre-sleep intake improves the overnight weight delta"},
		},
		secondary: []effect{
			{pattern.PatternSleepQuality, 6, "Sleep onset is faster without active digestion"},
			{pattern.PatternGlycemicLoad, 6, "One fewer glucose spike in the day's total"},
		},
		coeff:    func(map[string]float64) float64 { return 1 },
		defaults: map[string]float64{},
		tips: func(map[string]float64) []string {
			return []string{
				"Replace the late snack with herbal tea for the first week",
				"A bigger dinner beats grazing afterwards",
			}
		},
	},
	ActionIncreaseSleep: {
		primary: []effect{
			{pattern.PatternSleepWeight, 12, "Longer sleep restores the hormones behind weight response"},
			{pattern.PatternSleepQuality, 10, "More time in bed raises the odds of full sleep cycles"},
		},
		secondary: []effect{
			{pattern.PatternTrainingRecovery, 8, "Most recovery adaptation happens during sleep"},
			{pattern.PatternNutritionQuality, 4, "Rested days show fewer impulse food choices"},
		},
		coeff:    func(p map[string]float64) float64 { return param(p, "targetSleepHours", 8) / 8 },
		defaults: map[string]float64{"targetSleepHours": 8},
		tips: func(p map[string]float64) []string {
			return []string{
				fmt.Sprintf("Anchor a fixed wake time to reach %.1f h reliably", param(p, "targetSleepHours", 8)),
				"Move bedtime earlier in 15-minute increments",
			}
		},
	},
	ActionAdjustBedtime: {
		primary: []effect{
			{pattern.PatternSleepQuality, 10, "A fixed bedtime stabilizes sleep architecture"},
			{pattern.PatternSleepWeight, 8, "Consistent sleep timing steadies the morning weight trend"},
		},
		secondary: []effect{
			{pattern.PatternLateEating, 6, "An earlier lights-out shortens the snacking window"},
			{pattern.PatternTrainingRecovery, 6, "Regular sleep timing deepens recovery phases"},
		},
		coeff:    func(map[string]float64) float64 { return 1 },
		defaults: map[string]float64{},
		tips: func(map[string]float64) []string {
			return []string{
				"Screens off 30 minutes before the new bedtime",
				"Keep the schedule on weekends too, that's where it usually breaks",
			}
		},
	},
	ActionAddTraining: {
		primary: []effect{
			{pattern.PatternTrainingKcal, 12, "An extra session widens the training-day energy flux"},
			{pattern.PatternTrainingRecovery, 8, "A structured load-recovery rhythm beats sporadic effort"},
		},
		secondary: []effect{
			{pattern.PatternStepsWeight, 6, "Training days pull the activity-weight relation along"},
			{pattern.PatternSleepQuality, 5, "Physical load deepens the following night's sleep"},
		},
		coeff:    func(p map[string]float64) float64 { return param(p, "durationMinutes", 45) / 45 },
		defaults: map[string]float64{"durationMinutes": 45},
		tips: func(p map[string]float64) []string {
			return []string{
				fmt.Sprintf("Start with %.0f-minute sessions and leave a rest day between them", param(p, "durationMinutes", 45)),
				"Eat 20-30 g of protein within two hours after the session",
			}
		},
	},
	ActionIncreaseSteps: {
		primary: []effect{
			{pattern.PatternStepsWeight, 12, "More daily steps strengthen the steps-to-weight response"},
			{pattern.PatternTrainingKcal, 8, "NEAT raises total expenditure without recovery cost"},
		},
		secondary: []effect{
			{pattern.PatternSleepQuality, 4, "Daylight walking supports the evening wind-down"},
		},
		coeff:    func(p map[string]float64) float64 { return param(p, "stepsIncrease", 3000) / 3000 },
		defaults: map[string]float64{"stepsIncrease": 3000},
		tips: func(p map[string]float64) []string {
			return []string{
				fmt.Sprintf("Split the extra %.0f steps into two walks", param(p, "stepsIncrease", 3000)),
				"A 15-minute walk after dinner also blunts the glucose curve",
			}
		},
	},
}

// Actions lists the supported action types.
func Actions() []ActionType {
	return []ActionType{
		ActionAddProtein,
		ActionAddFiber,
		ActionReduceCarbs,
		ActionIncreaseMealGap,
		ActionShiftMealTime,
		ActionSkipLateMeal,
		ActionIncreaseSleep,
		ActionAdjustBedtime,
		ActionAddTraining,
		ActionIncreaseSteps,
	}
}
