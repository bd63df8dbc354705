// Package pattern implements the analyzer library: independent functions
// that turn daily records into normalized 0-100 health-pattern scores.
package pattern

import "github.com/hrygo/nutrisense/insight/stats"

// Reason codes for unavailable results.
const (
	ReasonMinDays            = "min_days_required"
	ReasonNoMeals            = "no_meals_data"
	ReasonMinMeals           = "min_meals_required"
	ReasonMinProducts        = "min_products_required"
	ReasonNoSignal           = "insufficient_signal"
	ReasonNoTraining         = "no_training_data"
	ReasonNoSteps            = "no_steps_data"
	ReasonNoStress           = "no_stress_data"
	ReasonNoHousehold        = "no_household_data"
	ReasonNotApplicable      = "not_applicable"
	ReasonInsufficientEnergy = "insufficient_energy_data"
	ReasonAnalyzerError      = "analyzer_error"
)

// Result is the uniform output of every analyzer. Score is always on the
// canonical 0-100 scale; Metrics is an open map for pattern-specific values.
type Result struct {
	Pattern    string  `json:"pattern"`
	Available  bool    `json:"available"`
	Score      float64 `json:"score,omitempty"`      // 0-100
	Confidence float64 `json:"confidence,omitempty"` // (0, 1]
	Insight    string  `json:"insight,omitempty"`

	Reason          string `json:"reason,omitempty"`
	MinDaysRequired int    `json:"minDaysRequired,omitempty"`
	DaysProvided    int    `json:"daysProvided,omitempty"`

	// Preliminary marks results computed from weaker proxy data.
	Preliminary bool `json:"preliminary,omitempty"`

	// DataPoints/RequiredDataPoints inform reliability weighting when set.
	DataPoints         int `json:"dataPoints,omitempty"`
	RequiredDataPoints int `json:"requiredDataPoints,omitempty"`

	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// Unavailable builds an unavailable result with a reason code.
func Unavailable(id, reason string, minDays, provided int) *Result {
	return &Result{
		Pattern:         id,
		Available:       false,
		Reason:          reason,
		MinDaysRequired: minDays,
		DaysProvided:    provided,
	}
}

// NormalizeScore maps a raw score onto [0, 1] regardless of whether the
// source was on a 0-1 or 0-100 scale. Non-finite input yields 0.5.
func NormalizeScore(score float64) float64 {
	if score != score { // NaN
		return 0.5
	}
	if score > 1 {
		return stats.Clamp(score/100, 0, 1)
	}
	return stats.Clamp(score, 0, 1)
}

// DisplayScore maps a normalized [0,1] score back to the 0-100 display scale.
func DisplayScore(normalized float64) float64 {
	return stats.Clamp(normalized*100, 0, 100)
}
