// Package warning implements the early-warning detector: five independent
// checks over recent history that surface negative trends before they show
// up in the composite health score.
package warning

// Severity ranks a warning. Sorting order is high, medium, low.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// rank orders severities for sorting.
func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Warning types, one per check (plus the low-score scan).
const (
	TypeHealthScoreDecline         = "health_score_decline"
	TypeCriticalPatternDegradation = "critical_pattern_degradation"
	TypeLowPatternScore            = "low_pattern_score"
	TypeStatusScoreDecline         = "status_score_decline"
	TypeSleepDebt                  = "sleep_debt"
	TypeCaloricDebt                = "caloric_debt"
)

// Warning is one detected risk signal.
type Warning struct {
	Type     string             `json:"type"`
	Severity Severity           `json:"severity"`
	Pattern  string             `json:"pattern,omitempty"`
	Message  string             `json:"message"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

// Report is the detector output.
type Report struct {
	Available           bool      `json:"available"`
	Reason              string    `json:"reason,omitempty"`
	MinDaysRequired     int       `json:"minDaysRequired,omitempty"`
	Count               int       `json:"count"`
	Warnings            []Warning `json:"warnings"`
	Summary             string    `json:"summary,omitempty"`
	HighSeverityCount   int       `json:"highSeverityCount"`
	MediumSeverityCount int       `json:"mediumSeverityCount"`
}

// Thresholds carries the detector's tunable trigger constants.
type Thresholds struct {
	HealthScoreDeclineDays int     `json:"healthScoreDeclineDays" mapstructure:"health_score_decline_days"`
	HealthScoreMinDelta    float64 `json:"healthScoreMinDelta" mapstructure:"health_score_min_delta"`
	StatusScoreDeclineDays int     `json:"statusScoreDeclineDays" mapstructure:"status_score_decline_days"`
	StatusScoreMinDelta    float64 `json:"statusScoreMinDelta" mapstructure:"status_score_min_delta"`

	// CriticalPatternDegradation is the relative score change (negative)
	// that triggers a degradation warning.
	CriticalPatternDegradation float64 `json:"criticalPatternDegradation" mapstructure:"critical_pattern_degradation"`

	SleepDeficitDays  int     `json:"sleepDeficitDays" mapstructure:"sleep_deficit_days"`
	SleepDeficitHours float64 `json:"sleepDeficitHours" mapstructure:"sleep_deficit_hours"`
	// SleepDebtHighHours is the accumulated deficit above which the sleep
	// debt warning escalates to high severity.
	SleepDebtHighHours float64 `json:"sleepDebtHighHours" mapstructure:"sleep_debt_high_hours"`

	CaloricDebtDays      int     `json:"caloricDebtDays" mapstructure:"caloric_debt_days"`
	CaloricDebtThreshold float64 `json:"caloricDebtThreshold" mapstructure:"caloric_debt_threshold"`
	// CaloricDebtHighKcal is the accumulated shortfall above which the
	// caloric debt warning escalates to high severity.
	CaloricDebtHighKcal float64 `json:"caloricDebtHighKcal" mapstructure:"caloric_debt_high_kcal"`

	MinDaysForAnalysis int `json:"minDaysForAnalysis" mapstructure:"min_days_for_analysis"`

	// Low-score scan cutoffs.
	CriticalLowScore   float64 `json:"criticalLowScore" mapstructure:"critical_low_score"`
	ImportantLowScore  float64 `json:"importantLowScore" mapstructure:"important_low_score"`
	CriticalWatchScore float64 `json:"criticalWatchScore" mapstructure:"critical_watch_score"`
}

// DefaultThresholds returns the stock trigger constants.
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		HealthScoreDeclineDays:     3,
		HealthScoreMinDelta:        10,
		StatusScoreDeclineDays:     3,
		StatusScoreMinDelta:        10,
		CriticalPatternDegradation: -0.2,
		SleepDeficitDays:           3,
		SleepDeficitHours:          7,
		SleepDebtHighHours:         6,
		CaloricDebtDays:            2,
		CaloricDebtThreshold:       1500,
		CaloricDebtHighKcal:        2500,
		MinDaysForAnalysis:         7,
		CriticalLowScore:           35,
		ImportantLowScore:          45,
		CriticalWatchScore:         50,
	}
}
