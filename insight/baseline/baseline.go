// Package baseline collects per-pattern baseline scores used as the
// starting point for what-if simulations and early-warning comparisons.
package baseline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hrygo/nutrisense/insight/pattern"
)

// Snapshot is a point-in-time capture of pattern scores.
type Snapshot struct {
	ID      string             `json:"id"`
	TakenAt time.Time          `json:"takenAt"`
	Days    int                `json:"days"`
	Source  string             `json:"source"` // computed | defaults
	Scores  map[string]float64 `json:"scores"`
}

const (
	// SourceComputed marks a snapshot derived from real history.
	SourceComputed = "computed"
	// SourceDefaults marks a moderate fallback snapshot.
	SourceDefaults = "defaults"
)

// DefaultLookbackDays bounds how much history feeds a baseline.
const DefaultLookbackDays = 14

// minResolvable is the floor below which a computed baseline is replaced
// by moderate defaults.
const minResolvable = 5

// ModerateDefaults returns the stock fallback table: the patterns the
// simulation rule tables touch, each at a middling starting score. The
// values are evidence-flavored defaults, not normative constants, so
// callers may override them per collector.
func ModerateDefaults() map[string]float64 {
	out := make(map[string]float64, len(moderateDefaults))
	for id, score := range moderateDefaults {
		out[id] = score
	}
	return out
}

var moderateDefaults = map[string]float64{
	pattern.PatternProteinSatiety:      50,
	pattern.PatternNutritionQuality:    55,
	pattern.PatternMealTiming:          50,
	pattern.PatternWaveOverlap:         60,
	pattern.PatternLateEating:          55,
	pattern.PatternFiberRegularity:     45,
	pattern.PatternGlycemicLoad:        50,
	pattern.PatternSleepWeight:         50,
	pattern.PatternSleepQuality:        50,
	pattern.PatternTrainingKcal:        55,
	pattern.PatternTrainingRecovery:    60,
	pattern.PatternStepsWeight:         50,
	pattern.PatternNutrientTiming:      50,
	pattern.PatternCircadian:           55,
	pattern.PatternProteinDistribution: 45,
}

// Collector produces baseline snapshots, preferring the cache over a
// recompute.
type Collector struct {
	registry *pattern.Registry
	cache    Cache
	lookback int
	ttl      time.Duration
	defaults map[string]float64
}

// CollectorOption tunes a collector.
type CollectorOption func(*Collector)

// WithDefaults overrides the fallback score table used when too few
// patterns resolve from history.
func WithDefaults(defaults map[string]float64) CollectorOption {
	return func(c *Collector) {
		if len(defaults) > 0 {
			c.defaults = defaults
		}
	}
}

// NewCollector wires a collector. A nil cache disables caching.
func NewCollector(reg *pattern.Registry, cache Cache, opts ...CollectorOption) *Collector {
	c := &Collector{
		registry: reg,
		cache:    cache,
		lookback: DefaultLookbackDays,
		ttl:      5 * time.Minute,
		defaults: moderateDefaults,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect returns the baseline snapshot for the given scope key. A cached
// snapshot wins; otherwise the key patterns are recomputed from the most
// recent history, and when too few resolve the moderate defaults step in.
func (c *Collector) Collect(ctx context.Context, key string, in *pattern.Input) (*Snapshot, error) {
	if c.cache != nil && key != "" {
		if snap, ok := c.cache.Get(ctx, key); ok {
			return snap, nil
		}
	}

	snap, err := c.compute(ctx, in)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && key != "" {
		if err := c.cache.Set(ctx, key, snap, c.ttl); err != nil {
			return nil, errors.Wrap(err, "cache baseline snapshot")
		}
	}
	return snap, nil
}

// Invalidate drops any cached snapshots under the scope key.
func (c *Collector) Invalidate(ctx context.Context, keyPattern string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Invalidate(ctx, keyPattern)
}

func (c *Collector) compute(ctx context.Context, in *pattern.Input) (*Snapshot, error) {
	days := in.Days
	if len(days) > c.lookback {
		days = days[len(days)-c.lookback:]
	}
	scoped := &pattern.Input{
		Days:       days,
		Profile:    in.Profile,
		Products:   in.Products,
		Thresholds: in.Thresholds,
	}

	scores := map[string]float64{}
	for id := range c.defaults {
		a, ok := c.registry.Get(id)
		if !ok {
			continue
		}
		res, err := a.Analyze(ctx, scoped)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}
		if res != nil && res.Available {
			scores[id] = res.Score
		}
	}

	source := SourceComputed
	if len(scores) < minResolvable {
		source = SourceDefaults
		scores = make(map[string]float64, len(c.defaults))
		for id, score := range c.defaults {
			scores[id] = score
		}
	}

	return &Snapshot{
		ID:      uuid.NewString(),
		TakenAt: time.Now().UTC(),
		Days:    len(days),
		Source:  source,
		Scores:  scores,
	}, nil
}

// ScoreOr returns the snapshot's score for a pattern, or the fallback.
func (s *Snapshot) ScoreOr(id string, fallback float64) float64 {
	if s == nil {
		return fallback
	}
	if v, ok := s.Scores[id]; ok {
		return v
	}
	return fallback
}
