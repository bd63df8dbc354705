package pattern

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/hrygo/nutrisense/insight/model"
)

// Category groups patterns for composite-score weighting.
type Category string

const (
	CategoryNutrition  Category = "nutrition"
	CategoryTiming     Category = "timing"
	CategoryActivity   Category = "activity"
	CategoryRecovery   Category = "recovery"
	CategoryMetabolism Category = "metabolism"
)

// Input bundles the read-only data every analyzer consumes. Days are
// ordered oldest to newest and never mutated.
type Input struct {
	Days       []model.DayRecord
	Profile    *model.Profile
	Products   model.ProductIndex
	Thresholds *Thresholds
}

// Config returns the effective thresholds, falling back to defaults.
func (in *Input) Config() *Thresholds {
	if in.Thresholds != nil {
		return in.Thresholds
	}
	return DefaultThresholds()
}

// Analyzer is one independently computable health pattern.
type Analyzer interface {
	// ID is the stable pattern identifier (e.g. "heart_health").
	ID() string
	// Category is the composite-score bucket this pattern belongs to.
	Category() Category
	// Analyze computes the pattern result. Insufficient data is reported
	// through Result.Available, not through the error; a non-nil error
	// means the analyzer itself faulted.
	Analyze(ctx context.Context, in *Input) (*Result, error)
}

// Registry maps pattern ids to analyzers. It is constructed explicitly and
// injected by the caller; there is no ambient global registration.
type Registry struct {
	analyzers map[string]Analyzer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{analyzers: make(map[string]Analyzer)}
}

// Register adds an analyzer. Duplicate ids are rejected.
func (r *Registry) Register(a Analyzer) error {
	if a == nil || a.ID() == "" {
		return errors.New("analyzer must have a non-empty id")
	}
	if _, ok := r.analyzers[a.ID()]; ok {
		return errors.Errorf("analyzer %q already registered", a.ID())
	}
	r.analyzers[a.ID()] = a
	return nil
}

// Get returns the analyzer for id, if registered.
func (r *Registry) Get(id string) (Analyzer, bool) {
	a, ok := r.analyzers[id]
	return a, ok
}

// IDs returns all registered pattern ids, sorted for deterministic iteration.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.analyzers))
	for id := range r.analyzers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered analyzers.
func (r *Registry) Len() int {
	return len(r.analyzers)
}

// CategoryOf returns the category of a registered pattern, defaulting to
// nutrition for unknown ids.
func (r *Registry) CategoryOf(id string) Category {
	if a, ok := r.analyzers[id]; ok {
		return a.Category()
	}
	return CategoryNutrition
}
