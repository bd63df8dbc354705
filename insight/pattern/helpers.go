package pattern

import (
	"context"
	"fmt"

	"github.com/hrygo/nutrisense/insight/model"
)

// analyzerFunc adapts a plain function into an Analyzer.
type analyzerFunc struct {
	id  string
	cat Category
	fn  func(ctx context.Context, in *Input) (*Result, error)
}

func newAnalyzer(id string, cat Category, fn func(ctx context.Context, in *Input) (*Result, error)) Analyzer {
	return &analyzerFunc{id: id, cat: cat, fn: fn}
}

func (a *analyzerFunc) ID() string         { return a.id }
func (a *analyzerFunc) Category() Category { return a.cat }

func (a *analyzerFunc) Analyze(ctx context.Context, in *Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := a.fn(ctx, in)
	if err != nil {
		return nil, err
	}
	if res != nil && res.Pattern == "" {
		res.Pattern = a.id
	}
	return res, nil
}

// DefaultRegistry constructs a registry with the full analyzer library.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, a := range allAnalyzers() {
		// Ids are unique by construction; a duplicate is a programming error.
		if err := r.Register(a); err != nil {
			panic(fmt.Sprintf("pattern: %v", err))
		}
	}
	return r
}

func allAnalyzers() []Analyzer {
	var out []Analyzer
	out = append(out, micronutrientAnalyzers()...)
	out = append(out, metabolicAnalyzers()...)
	out = append(out, sleepAnalyzers()...)
	out = append(out, timingAnalyzers()...)
	out = append(out, lifestyleAnalyzers()...)
	out = append(out, activityAnalyzers()...)
	out = append(out, qualityAnalyzers()...)
	return out
}

// daysWithMeals returns the days that have at least one logged meal.
func daysWithMeals(days []model.DayRecord) []model.DayRecord {
	var out []model.DayRecord
	for _, d := range days {
		if len(d.Meals) > 0 {
			out = append(out, d)
		}
	}
	return out
}

// dayTotals resolves per-day nutrient aggregates for days with meals,
// dropping days whose aggregate carries no signal at all.
func dayTotals(days []model.DayRecord, idx model.ProductIndex) []model.Nutrients {
	var out []model.Nutrients
	for _, d := range days {
		if len(d.Meals) == 0 {
			continue
		}
		n := model.DayNutrients(d, idx)
		if n.Kcal() <= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

// confidenceByDays returns hi when days >= cutoff, else lo.
func confidenceByDays(days int, lo, hi float64, cutoff int) float64 {
	if days >= cutoff {
		return hi
	}
	return lo
}

// band picks the insight string for the first band whose floor the score
// reaches; the last entry is the catch-all.
type insightBand struct {
	floor float64
	text  string
}

func pickBand(score float64, bands []insightBand) string {
	for _, b := range bands {
		if score >= b.floor {
			return b.text
		}
	}
	if len(bands) > 0 {
		return bands[len(bands)-1].text
	}
	return ""
}
