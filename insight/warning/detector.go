package warning

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/pattern"
	"github.com/hrygo/nutrisense/insight/stats"
)

// criticalPatterns lists patterns whose degradation warrants its own
// warning and whose low scores use the stricter cutoffs.
var criticalPatterns = map[string]bool{
	pattern.PatternMealTiming:          true,
	pattern.PatternWaveOverlap:         true,
	pattern.PatternLateEating:          true,
	pattern.PatternSleepWeight:         true,
	pattern.PatternSleepHunger:         true,
	pattern.PatternTrainingKcal:        true,
	pattern.PatternStepsWeight:         true,
	pattern.PatternProteinSatiety:      true,
	pattern.PatternFiberRegularity:     true,
	pattern.PatternNutritionQuality:    true,
	pattern.PatternOmegaBalance:        true,
	pattern.PatternProteinDistribution: true,
	pattern.PatternTrainingTypeMatch:   true,
	pattern.PatternHydration:           true,
}

// Input is the evidence the detector works from. Days are ordered oldest
// to newest. HealthScores is the chronological per-day composite score
// series when the caller tracks one; CurrentPatterns/PreviousScores enable
// the snapshot-based checks.
type Input struct {
	Days    []model.DayRecord
	Profile *model.Profile

	Products model.ProductIndex

	HealthScores    []float64
	CurrentPatterns map[string]*pattern.Result
	PreviousScores  map[string]float64
}

// Detector runs the early-warning checks.
type Detector struct {
	cfg *Thresholds
}

// NewDetector builds a detector; nil config selects the defaults.
func NewDetector(cfg *Thresholds) *Detector {
	if cfg == nil {
		cfg = DefaultThresholds()
	}
	return &Detector{cfg: cfg}
}

// Detect runs all five checks and returns the severity-sorted report.
// Fewer than the minimum days of history yields an unavailable report
// rather than an error.
func (d *Detector) Detect(ctx context.Context, in *Input) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(in.Days) < d.cfg.MinDaysForAnalysis {
		return &Report{
			Available:       false,
			Reason:          "insufficient_data",
			MinDaysRequired: d.cfg.MinDaysForAnalysis,
			Warnings:        []Warning{},
		}, nil
	}

	var warnings []Warning
	warnings = append(warnings, d.checkHealthScoreDecline(in)...)
	if in.CurrentPatterns != nil {
		warnings = append(warnings, d.checkPatternDegradation(in)...)
		warnings = append(warnings, d.scanLowScores(in)...)
	}
	warnings = append(warnings, d.checkStatusScoreDecline(in)...)
	warnings = append(warnings, d.checkSleepDebt(in)...)
	warnings = append(warnings, d.checkCaloricDebt(in)...)

	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Severity.rank() < warnings[j].Severity.rank()
	})

	high, medium := 0, 0
	for _, w := range warnings {
		switch w.Severity {
		case SeverityHigh:
			high++
		case SeverityMedium:
			medium++
		}
	}

	report := &Report{
		Available:           true,
		Count:               len(warnings),
		Warnings:            warnings,
		HighSeverityCount:   high,
		MediumSeverityCount: medium,
	}
	switch {
	case high > 0:
		report.Summary = fmt.Sprintf("%d warnings, %d need attention now", len(warnings), high)
	case len(warnings) > 0:
		report.Summary = fmt.Sprintf("%d warnings worth watching", len(warnings))
	default:
		report.Summary = "No early-warning signals"
	}
	return report, nil
}

// checkHealthScoreDecline compares the average of the most recent period
// against the preceding one.
func (d *Detector) checkHealthScoreDecline(in *Input) []Warning {
	period := d.cfg.HealthScoreDeclineDays

	var valid []float64
	// Walk newest-first.
	for i := len(in.HealthScores) - 1; i >= 0; i-- {
		s := in.HealthScores[i]
		if s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s) {
			valid = append(valid, s)
		}
	}
	if len(valid) < period*2 {
		return nil
	}

	current := stats.Average(valid[:period])
	previous := stats.Average(valid[period : period*2])
	drop := previous - current
	if drop < d.cfg.HealthScoreMinDelta {
		return nil
	}

	severity := SeverityMedium
	if drop >= d.cfg.HealthScoreMinDelta*2 {
		severity = SeverityHigh
	}
	pctChange := 0.0
	if previous > 0 {
		pctChange = math.Round(drop / previous * 100)
	}
	return []Warning{{
		Type:     TypeHealthScoreDecline,
		Severity: severity,
		Message:  fmt.Sprintf("Health score dropped %.0f points over the last %d days", drop, period),
		Metrics: map[string]float64{
			"currentAvg":    stats.Round1(current),
			"previousAvg":   stats.Round1(previous),
			"drop":          stats.Round1(drop),
			"percentChange": pctChange,
		},
	}}
}

// checkPatternDegradation flags critical patterns that lost a fifth or
// more of their score since the previous snapshot.
func (d *Detector) checkPatternDegradation(in *Input) []Warning {
	if in.PreviousScores == nil {
		return nil
	}
	var out []Warning
	for id := range criticalPatterns {
		res, ok := in.CurrentPatterns[id]
		if !ok || res == nil || !res.Available {
			continue
		}
		prev, ok := in.PreviousScores[id]
		if !ok || prev == 0 {
			continue
		}
		relChange := (res.Score - prev) / prev
		if relChange > d.cfg.CriticalPatternDegradation {
			continue
		}
		severity := SeverityMedium
		if relChange <= d.cfg.CriticalPatternDegradation*1.5 {
			severity = SeverityHigh
		}
		out = append(out, Warning{
			Type:     TypeCriticalPatternDegradation,
			Severity: severity,
			Pattern:  id,
			Message:  fmt.Sprintf("%s degraded %.0f%% since the last snapshot", id, -relChange*100),
			Metrics: map[string]float64{
				"currentScore":   stats.Round1(res.Score),
				"previousScore":  stats.Round1(prev),
				"relativeChange": stats.Round2(relChange),
			},
		})
	}
	return out
}

// scanLowScores flags patterns sitting in outright low territory right now.
func (d *Detector) scanLowScores(in *Input) []Warning {
	var out []Warning
	for id, res := range in.CurrentPatterns {
		if res == nil || !res.Available || res.Score <= 0 {
			continue
		}
		critical := criticalPatterns[id]
		switch {
		case critical && res.Score < d.cfg.CriticalLowScore:
			out = append(out, lowScoreWarning(id, res.Score, SeverityHigh, d.cfg.CriticalLowScore))
		case critical && res.Score < d.cfg.CriticalWatchScore:
			out = append(out, lowScoreWarning(id, res.Score, SeverityMedium, d.cfg.CriticalWatchScore))
		case !critical && res.Score < d.cfg.ImportantLowScore:
			out = append(out, lowScoreWarning(id, res.Score, SeverityMedium, d.cfg.ImportantLowScore))
		}
	}
	return out
}

func lowScoreWarning(id string, score float64, severity Severity, threshold float64) Warning {
	return Warning{
		Type:     TypeLowPatternScore,
		Severity: severity,
		Pattern:  id,
		Message:  fmt.Sprintf("%s is at %.0f, below the %.0f watch line", id, score, threshold),
		Metrics: map[string]float64{
			"score":     stats.Round1(score),
			"threshold": threshold,
		},
	}
}

// isConsecutiveDecline reports whether the last n values of the series
// decline strictly, newest last.
func isConsecutiveDecline(values []float64, n int) bool {
	if len(values) < n {
		return false
	}
	recent := values[len(values)-n:]
	for i := 1; i < len(recent); i++ {
		if recent[i] >= recent[i-1] {
			return false
		}
	}
	return true
}

// checkStatusScoreDecline looks for a strict consecutive slide in the
// day-status scores over the last week.
func (d *Detector) checkStatusScoreDecline(in *Input) []Warning {
	days := lastDays(in.Days, 7)
	var scores []float64
	for _, day := range days {
		if day.DayScore > 0 {
			scores = append(scores, day.DayScore)
		}
	}
	if len(scores) < d.cfg.StatusScoreDeclineDays {
		return nil
	}
	if !isConsecutiveDecline(scores, d.cfg.StatusScoreDeclineDays) {
		return nil
	}
	// Only the declining window counts; earlier days in the week must not
	// inflate the measured drop.
	window := scores[len(scores)-d.cfg.StatusScoreDeclineDays:]
	totalDrop := window[0] - window[len(window)-1]
	if totalDrop < d.cfg.StatusScoreMinDelta {
		return nil
	}

	severity := SeverityLow
	switch {
	case totalDrop >= 20:
		severity = SeverityHigh
	case totalDrop >= 15:
		severity = SeverityMedium
	}

	var drops []float64
	for i := 1; i < len(window); i++ {
		drops = append(drops, window[i-1]-window[i])
	}

	return []Warning{{
		Type:     TypeStatusScoreDecline,
		Severity: severity,
		Message:  fmt.Sprintf("Daily status score slid %.0f points across consecutive days", totalDrop),
		Metrics: map[string]float64{
			"totalDrop":    stats.Round1(totalDrop),
			"avgDailyDrop": stats.Round1(stats.Average(drops)),
			"days":         float64(len(window)),
		},
	}}
}

// checkSleepDebt flags a run of short nights against the fixed 7-hour
// floor, with the deficit measured against the personal target.
func (d *Detector) checkSleepDebt(in *Input) []Warning {
	target := in.Profile.SleepTarget()

	type night struct{ sleep, deficit float64 }
	var recent []night
	days := lastDays(in.Days, 7)
	// Newest first.
	for i := len(days) - 1; i >= 0; i-- {
		s := days[i].Sleep()
		if s <= 0 {
			continue
		}
		recent = append(recent, night{sleep: s, deficit: math.Max(0, target-s)})
	}
	if len(recent) < d.cfg.SleepDeficitDays {
		return nil
	}

	window := recent[:d.cfg.SleepDeficitDays]
	totalDeficit, totalSleep := 0.0, 0.0
	for _, n := range window {
		if n.sleep >= d.cfg.SleepDeficitHours {
			return nil
		}
		totalDeficit += n.deficit
		totalSleep += n.sleep
	}

	severity := SeverityMedium
	if totalDeficit > d.cfg.SleepDebtHighHours {
		severity = SeverityHigh
	}
	return []Warning{{
		Type:     TypeSleepDebt,
		Severity: severity,
		Message:  fmt.Sprintf("%d short nights in a row, %.1f h behind target", d.cfg.SleepDeficitDays, totalDeficit),
		Metrics: map[string]float64{
			"avgSleep":     stats.Round1(totalSleep / float64(len(window))),
			"totalDeficit": stats.Round1(totalDeficit),
			"targetSleep":  target,
		},
	}}
}

// checkCaloricDebt flags a deep accumulated intake shortfall over the most
// recent days.
func (d *Detector) checkCaloricDebt(in *Input) []Warning {
	optimum := in.Profile.Optimum()

	type intake struct{ eaten, debt float64 }
	var recent []intake
	days := lastDays(in.Days, 7)
	for i := len(days) - 1; i >= 0; i-- {
		eaten := model.DayKcal(days[i], in.Products)
		if eaten <= 0 {
			continue
		}
		recent = append(recent, intake{eaten: eaten, debt: math.Max(0, optimum-eaten)})
	}
	if len(recent) < d.cfg.CaloricDebtDays {
		return nil
	}

	window := recent[:d.cfg.CaloricDebtDays]
	totalDebt, totalEaten := 0.0, 0.0
	for _, w := range window {
		totalDebt += w.debt
		totalEaten += w.eaten
	}
	if totalDebt <= d.cfg.CaloricDebtThreshold {
		return nil
	}

	severity := SeverityMedium
	if totalDebt > d.cfg.CaloricDebtHighKcal {
		severity = SeverityHigh
	}
	return []Warning{{
		Type:     TypeCaloricDebt,
		Severity: severity,
		Message:  fmt.Sprintf("Running %.0f kcal below target over the last %d days", totalDebt, d.cfg.CaloricDebtDays),
		Metrics: map[string]float64{
			"avgEaten": stats.Round1(totalEaten / float64(len(window))),
			"avgDebt":  stats.Round1(totalDebt / float64(len(window))),
			"optimum":  optimum,
		},
	}}
}

func lastDays(days []model.DayRecord, n int) []model.DayRecord {
	if len(days) <= n {
		return days
	}
	return days[len(days)-n:]
}
