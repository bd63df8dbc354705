// Package whatif projects the score impact of a single behavior change
// from a baseline snapshot, using per-action rule tables instead of a
// learned model so every projection is explainable.
package whatif

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/nutrisense/insight/baseline"
	"github.com/hrygo/nutrisense/insight/pattern"
	"github.com/hrygo/nutrisense/insight/stats"
)

// MinHistoryDays is the minimum history behind a baseline before a
// simulation is considered meaningful.
const MinHistoryDays = 7

// Significance labels the size of a projected change.
type Significance string

const (
	SignificanceHigh   Significance = "high"
	SignificanceMedium Significance = "medium"
	SignificanceLow    Significance = "low"
)

// Impact is the projected change of one pattern score.
type Impact struct {
	Pattern       string           `json:"pattern"`
	Category      pattern.Category `json:"category"`
	Baseline      float64          `json:"baseline"`
	Predicted     float64          `json:"predicted"`
	Delta         float64          `json:"delta"`
	PercentChange float64          `json:"percentChange"`
	Significance  Significance     `json:"significance"`
	Description   string           `json:"description,omitempty"`
	Secondary     bool             `json:"secondary,omitempty"`
}

// HealthScoreChange is the aggregate composite-score movement a
// simulation projects.
type HealthScoreChange struct {
	Delta   float64 `json:"delta"`
	Percent float64 `json:"percent"`
}

// Request asks for one action to be simulated.
type Request struct {
	Action ActionType         `json:"action"`
	Params map[string]float64 `json:"params,omitempty"`
}

// Simulation is the full projection for one request.
type Simulation struct {
	ID     string             `json:"id"`
	Action ActionType         `json:"action"`
	Params map[string]float64 `json:"params"`

	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`

	Coefficient       float64            `json:"coefficient,omitempty"`
	Impacts           []Impact           `json:"impacts,omitempty"`
	SideBenefits      []Impact           `json:"sideBenefits,omitempty"`
	BaselineScores    map[string]float64 `json:"baselineScores,omitempty"`
	PredictedScores   map[string]float64 `json:"predictedScores,omitempty"`
	HealthScoreChange HealthScoreChange  `json:"healthScoreChange"`
	Tips              []string           `json:"tips,omitempty"`

	BaselineSource string  `json:"baselineSource,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
}

// Simulator applies the rule tables to baseline snapshots.
type Simulator struct {
	registry *pattern.Registry
}

// NewSimulator wires a simulator over the analyzer registry, which it
// consults only for pattern categories.
func NewSimulator(reg *pattern.Registry) *Simulator {
	return &Simulator{registry: reg}
}

// healthWeights weigh pattern deltas into the projected composite change.
var healthWeights = map[pattern.Category]float64{
	pattern.CategoryNutrition:  0.25,
	pattern.CategoryTiming:     0.20,
	pattern.CategoryRecovery:   0.20,
	pattern.CategoryActivity:   0.15,
	pattern.CategoryMetabolism: 0.20,
}

// Simulate projects one action against the baseline. Unknown actions and
// thin history come back as unavailable results, not errors; the error
// path is reserved for cancellation.
func (s *Simulator) Simulate(ctx context.Context, req Request, snap *baseline.Snapshot) (*Simulation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sim := &Simulation{
		ID:     shortuuid.New(),
		Action: req.Action,
		Params: req.Params,
	}
	if snap != nil {
		sim.BaselineSource = snap.Source
	}

	r, ok := rules[req.Action]
	if !ok {
		sim.Reason = "unknown_action"
		return sim, nil
	}
	if snap == nil || snap.Days < MinHistoryDays {
		sim.Reason = "insufficient_history"
		return sim, nil
	}

	params := make(map[string]float64, len(r.defaults)+len(req.Params))
	for k, v := range r.defaults {
		params[k] = v
	}
	for k, v := range req.Params {
		params[k] = v
	}
	sim.Params = params

	coeff := stats.Clamp(r.coeff(params), 0.5, 2.0)
	sim.Coefficient = stats.Round2(coeff)

	// Effects whose pattern has no baseline value are skipped, never
	// defaulted: an invented starting score would fabricate the delta.
	var impacts []Impact
	for _, e := range r.primary {
		if imp, ok := s.project(e, snap, coeff, false); ok {
			impacts = append(impacts, imp)
		}
	}
	for _, e := range r.secondary {
		if imp, ok := s.project(e, snap, coeff, true); ok {
			impacts = append(impacts, imp)
		}
	}

	sort.SliceStable(impacts, func(i, j int) bool {
		return math.Abs(impacts[i].Delta) > math.Abs(impacts[j].Delta)
	})

	var sideBenefits []Impact
	for _, imp := range impacts {
		if imp.Secondary && imp.Delta > 0 {
			sideBenefits = append(sideBenefits, imp)
		}
	}

	baselineScores := make(map[string]float64, len(impacts))
	predictedScores := make(map[string]float64, len(impacts))
	var weighted, weightedBase, weightSum float64
	for _, imp := range impacts {
		baselineScores[imp.Pattern] = imp.Baseline
		predictedScores[imp.Pattern] = imp.Predicted

		w := healthWeights[imp.Category]
		if imp.Secondary {
			w /= 2
		}
		weighted += imp.Delta * w
		weightedBase += imp.Baseline * w
		weightSum += w
	}
	if weightSum > 0 {
		sim.HealthScoreChange.Delta = math.Round(weighted / weightSum)
		if base := weightedBase / weightSum; base > 0 {
			sim.HealthScoreChange.Percent = stats.Round1(sim.HealthScoreChange.Delta / base * 100)
		}
	}
	sim.BaselineScores = baselineScores
	sim.PredictedScores = predictedScores

	tips := r.tips(params)
	if len(impacts) > 0 && impacts[0].Delta >= 8 {
		tips = append(tips, fmt.Sprintf("Biggest lever: %s is projected to gain %.0f points", impacts[0].Pattern, impacts[0].Delta))
	}

	sim.Available = true
	sim.Impacts = impacts
	sim.SideBenefits = sideBenefits
	sim.Tips = tips
	return sim, nil
}

func (s *Simulator) project(e effect, snap *baseline.Snapshot, coeff float64, secondary bool) (Impact, bool) {
	base, ok := snap.Scores[e.pattern]
	if !ok {
		return Impact{}, false
	}

	delta := e.baseDelta * coeff
	if secondary {
		delta *= 0.5
	}
	predicted := stats.Clamp(base+math.Round(delta), 0, 100)
	realized := predicted - base

	pct := 0.0
	if base > 0 {
		pct = stats.Round1(realized / base * 100)
	}

	sig := SignificanceLow
	abs := math.Abs(realized)
	switch {
	case !secondary && abs >= 10:
		sig = SignificanceHigh
	case !secondary && abs >= 5:
		sig = SignificanceMedium
	case secondary && abs >= 8:
		sig = SignificanceMedium
	}

	return Impact{
		Pattern:       e.pattern,
		Category:      s.registry.CategoryOf(e.pattern),
		Baseline:      base,
		Predicted:     predicted,
		Delta:         realized,
		PercentChange: pct,
		Significance:  sig,
		Description:   e.description,
		Secondary:     secondary,
	}, true
}
