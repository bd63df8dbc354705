package pattern

// Thresholds carries the tunable constants shared across analyzers. The
// defaults mirror long-standing evidence-flavored values; they are surfaced
// as configuration rather than hard-coded because their derivation is
// heuristic, not normative.
type Thresholds struct {
	// MinDays is the global minimum history for any analysis.
	MinDays int `json:"minDays" mapstructure:"min_days"`
	// MinDaysFull is the history length at which confidence stops being
	// penalized for small samples.
	MinDaysFull int `json:"minDaysFull" mapstructure:"min_days_full"`
	// MinMealsPerDay gates meal-structure analyzers.
	MinMealsPerDay int `json:"minMealsPerDay" mapstructure:"min_meals_per_day"`

	// MinCorrelationDisplay is the |r| below which a correlation is
	// reported as neutral.
	MinCorrelationDisplay float64 `json:"minCorrelationDisplay" mapstructure:"min_correlation_display"`

	// LateEatingHour is the first hour counted as a late meal.
	LateEatingHour int `json:"lateEatingHour" mapstructure:"late_eating_hour"`
	// IdealMealGapMin overrides the insulin-wave-derived ideal gap when >0.
	IdealMealGapMin float64 `json:"idealMealGapMin" mapstructure:"ideal_meal_gap_min"`
	// MorningProteinG is the minimum morning protein for timing scoring.
	MorningProteinG float64 `json:"morningProteinG" mapstructure:"morning_protein_g"`
	// ProteinPerMealG is the per-meal protein target for distribution scoring.
	ProteinPerMealG float64 `json:"proteinPerMealG" mapstructure:"protein_per_meal_g"`

	// Source tags threshold provenance ("FULL" marks a high-quality source
	// and biases confidence upward).
	Source string `json:"source,omitempty" mapstructure:"source"`
}

// ThresholdSourceFull marks thresholds from a complete, personalized
// configuration rather than stock defaults.
const ThresholdSourceFull = "FULL"

// DefaultThresholds returns the stock configuration.
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		MinDays:               3,
		MinDaysFull:           7,
		MinMealsPerDay:        3,
		MinCorrelationDisplay: 0.35,
		LateEatingHour:        21,
		MorningProteinG:       20,
		ProteinPerMealG:       30,
	}
}
