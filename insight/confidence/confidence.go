// Package confidence grades how much trust a recommendation scenario
// deserves given the pattern evidence and history depth behind it.
package confidence

import (
	"math"

	"github.com/hrygo/nutrisense/insight/pattern"
)

// Scenario identifies a recommendation situation being graded.
type Scenario string

const (
	ScenarioProteinDeficit Scenario = "protein_deficit"
	ScenarioStressEating   Scenario = "stress_eating"
	ScenarioLateEvening    Scenario = "late_evening"
	ScenarioPreWorkout     Scenario = "pre_workout"
	ScenarioPostWorkout    Scenario = "post_workout"
	ScenarioGeneral        Scenario = "general"
)

// supportingPattern maps each scenario to the analyzer whose confidence
// can boost the scenario's base trust.
var supportingPattern = map[Scenario]string{
	ScenarioProteinDeficit: pattern.PatternProteinSatiety,
	ScenarioStressEating:   pattern.PatternStressEating,
	ScenarioLateEvening:    pattern.PatternCircadian,
	ScenarioPreWorkout:     pattern.PatternTrainingRecovery,
	ScenarioPostWorkout:    pattern.PatternTrainingRecovery,
}

// Estimate is the blended confidence for one scenario.
type Estimate struct {
	Scenario       Scenario `json:"scenario"`
	Value          float64  `json:"value"`
	ScenarioConf   float64  `json:"scenarioConf"`
	PatternAvg     float64  `json:"patternAvg"`
	DataQuality    float64  `json:"dataQuality"`
	SupportPattern string   `json:"supportPattern,omitempty"`
}

// Estimate blends three signals: scenario-specific trust (boosted by the
// supporting analyzer's own confidence), the average of the normalized
// pattern scores, and a history-depth factor. The result always lands in
// [0.5, 1.0] so downstream consumers never see a vanishing weight.
func EstimateFor(scenario Scenario, results map[string]*pattern.Result, daysCount int, thresholds *pattern.Thresholds) Estimate {
	scenarioConf := 0.7
	support := supportingPattern[scenario]
	if support != "" {
		if r, ok := results[support]; ok && r != nil && r.Available {
			scenarioConf = math.Min(0.95, 0.7+r.Confidence*0.2)
		}
	}

	patternAvg := 0.5
	var sum float64
	n := 0
	for _, r := range results {
		if r == nil || !r.Available {
			continue
		}
		sum += pattern.NormalizeScore(r.Score)
		n++
	}
	if n > 0 {
		patternAvg = sum / float64(n)
	}

	dataQuality := 0.5
	switch {
	case daysCount >= 30:
		dataQuality = 1.0
	case daysCount >= 14:
		dataQuality = 0.85
	case daysCount >= 7:
		dataQuality = 0.7
	}
	if thresholds != nil && thresholds.Source == pattern.ThresholdSourceFull {
		dataQuality = math.Min(1.0, dataQuality+0.1)
	}

	value := scenarioConf*0.4 + patternAvg*0.3 + dataQuality*0.3
	value = math.Max(0.5, math.Min(1.0, value))

	return Estimate{
		Scenario:       scenario,
		Value:          value,
		ScenarioConf:   scenarioConf,
		PatternAvg:     patternAvg,
		DataQuality:    dataQuality,
		SupportPattern: support,
	}
}
