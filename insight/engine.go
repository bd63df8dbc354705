// Package insight is the top-level engine: it fans the analyzer library
// out over a user's history and folds the results into health scores,
// early warnings, confidence grades, and what-if simulations.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hrygo/nutrisense/insight/baseline"
	"github.com/hrygo/nutrisense/insight/confidence"
	"github.com/hrygo/nutrisense/insight/health"
	"github.com/hrygo/nutrisense/insight/pattern"
	"github.com/hrygo/nutrisense/insight/warning"
	"github.com/hrygo/nutrisense/insight/whatif"
)

// DefaultConcurrency bounds the analyzer fan-out.
const DefaultConcurrency = 8

// Engine wires the registry, baseline collector, warning detector, and
// simulator behind one API.
type Engine struct {
	registry    *pattern.Registry
	collector   *baseline.Collector
	detector    *warning.Detector
	simulator   *whatif.Simulator
	logger      *slog.Logger
	concurrency int
}

// Option tweaks engine construction.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithConcurrency bounds the number of analyzers running at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithCache installs a snapshot cache behind the baseline collector.
func WithCache(c baseline.Cache) Option {
	return func(e *Engine) { e.collector = baseline.NewCollector(e.registry, c) }
}

// WithWarningThresholds overrides the early-warning trigger constants.
func WithWarningThresholds(t *warning.Thresholds) Option {
	return func(e *Engine) { e.detector = warning.NewDetector(t) }
}

// New constructs an engine over the given registry; a nil registry gets
// the full default analyzer library.
func New(reg *pattern.Registry, opts ...Option) *Engine {
	if reg == nil {
		reg = pattern.DefaultRegistry()
	}
	e := &Engine{
		registry:    reg,
		collector:   baseline.NewCollector(reg, nil),
		detector:    warning.NewDetector(nil),
		simulator:   whatif.NewSimulator(reg),
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry exposes the analyzer registry, mainly for introspection.
func (e *Engine) Registry() *pattern.Registry { return e.registry }

// AnalyzeAll runs every registered analyzer concurrently and returns the
// result per pattern id. A panicking analyzer is downgraded to an
// unavailable result so one bad pattern cannot take the whole run down;
// cancellation aborts the fan-out.
func (e *Engine) AnalyzeAll(ctx context.Context, in *pattern.Input) (map[string]*pattern.Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	var mu sync.Mutex
	results := make(map[string]*pattern.Result, e.registry.Len())

	for _, id := range e.registry.IDs() {
		id := id
		analyzer, _ := e.registry.Get(id)
		g.Go(func() error {
			res, err := e.runOne(ctx, analyzer, in)
			if err != nil {
				return err
			}
			mu.Lock()
			results[id] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runOne executes a single analyzer with panic containment.
func (e *Engine) runOne(ctx context.Context, a pattern.Analyzer, in *pattern.Input) (res *pattern.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("analyzer panicked", "pattern", a.ID(), "panic", fmt.Sprint(r))
			res = pattern.Unavailable(a.ID(), pattern.ReasonAnalyzerError, 0, len(in.Days))
			err = nil
		}
	}()

	res, err = a.Analyze(ctx, in)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		e.logger.Warn("analyzer failed", "pattern", a.ID(), "err", err)
		return pattern.Unavailable(a.ID(), pattern.ReasonAnalyzerError, 0, len(in.Days)), nil
	}
	return res, nil
}

// Analysis bundles the output of a full run.
type Analysis struct {
	Results     map[string]*pattern.Result `json:"results"`
	HealthScore health.Score               `json:"healthScore"`
	Forecast    health.WeightForecast      `json:"forecast"`
	Confidence  confidence.Estimate        `json:"confidence"`
	DaysCount   int                        `json:"daysCount"`
}

// Analyze runs the analyzers and folds in the composite score, weight
// forecast, and overall confidence grade.
func (e *Engine) Analyze(ctx context.Context, in *pattern.Input) (*Analysis, error) {
	results, err := e.AnalyzeAll(ctx, in)
	if err != nil {
		return nil, err
	}
	mode := health.GoalModeFor(in.Profile)
	return &Analysis{
		Results:     results,
		HealthScore: health.Calculate(results, e.registry, mode),
		Forecast:    health.PredictWeight(in.Days, in.Profile),
		Confidence:  confidence.EstimateFor(confidence.ScenarioGeneral, results, len(in.Days), in.Thresholds),
		DaysCount:   len(in.Days),
	}, nil
}

// DetectWarnings runs the early-warning checks. When a cached baseline
// exists for the scope key, its scores serve as the previous snapshot for
// the degradation check.
func (e *Engine) DetectWarnings(ctx context.Context, key string, in *pattern.Input, healthScores []float64) (*warning.Report, error) {
	results, err := e.AnalyzeAll(ctx, in)
	if err != nil {
		return nil, err
	}

	var prevScores map[string]float64
	if key != "" {
		if snap, err := e.collector.Collect(ctx, key, in); err == nil && snap.Source == baseline.SourceComputed {
			prevScores = snap.Scores
		}
	}

	return e.detector.Detect(ctx, &warning.Input{
		Days:            in.Days,
		Profile:         in.Profile,
		Products:        in.Products,
		HealthScores:    healthScores,
		CurrentPatterns: results,
		PreviousScores:  prevScores,
	})
}

// scenarioForAction picks the confidence scenario that best matches an
// action.
func scenarioForAction(a whatif.ActionType) confidence.Scenario {
	switch a {
	case whatif.ActionAddProtein:
		return confidence.ScenarioProteinDeficit
	case whatif.ActionSkipLateMeal, whatif.ActionShiftMealTime:
		return confidence.ScenarioLateEvening
	case whatif.ActionAddTraining:
		return confidence.ScenarioPostWorkout
	default:
		return confidence.ScenarioGeneral
	}
}

// Simulate collects (or reuses) the baseline for the scope key and
// projects the requested action against it, grading the projection with
// the confidence estimator.
func (e *Engine) Simulate(ctx context.Context, key string, req whatif.Request, in *pattern.Input) (*whatif.Simulation, error) {
	snap, err := e.collector.Collect(ctx, key, in)
	if err != nil {
		return nil, err
	}
	// The snapshot tracks its own lookback; the full history length decides
	// whether a simulation is meaningful. Copy before adjusting so the
	// cached snapshot stays untouched.
	if len(in.Days) > snap.Days {
		adjusted := *snap
		adjusted.Days = len(in.Days)
		snap = &adjusted
	}

	sim, err := e.simulator.Simulate(ctx, req, snap)
	if err != nil {
		return nil, err
	}
	if sim.Available {
		results, err := e.AnalyzeAll(ctx, in)
		if err != nil {
			return nil, err
		}
		est := confidence.EstimateFor(scenarioForAction(req.Action), results, len(in.Days), in.Thresholds)
		sim.Confidence = est.Value
	}
	return sim, nil
}

// InvalidateBaseline drops cached baselines under the scope key.
func (e *Engine) InvalidateBaseline(ctx context.Context, keyPattern string) error {
	return e.collector.Invalidate(ctx, keyPattern)
}
