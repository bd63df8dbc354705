package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects and aggregates metrics for insight operations.
type Metrics struct {
	mu sync.Mutex

	// Counters
	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	// Per-operation metrics (analyze, warnings, simulate)
	opMetrics map[string]*OperationMetrics

	// Duration histogram data (simplified for internal use)
	durations    []time.Duration
	maxDurations int
}

// OperationMetrics represents metrics for a specific insight operation.
type OperationMetrics struct {
	executionCount atomic.Int64
	totalDuration  atomic.Int64 // milliseconds
	errorCount     atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000 // Default to keeping last 1000 durations
	}
	return &Metrics{
		opMetrics:    make(map[string]*OperationMetrics),
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

// Global metrics instance.
var globalMetrics = NewMetrics(1000)

// GlobalMetrics returns the global metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records a request.
func (m *Metrics) RecordRequest(operation string) {
	m.requestTotal.Add(1)
	m.getOperationMetrics(operation).executionCount.Add(1)
}

// RecordFailure records a failed request.
func (m *Metrics) RecordFailure(operation string) {
	m.requestFailed.Add(1)
	m.getOperationMetrics(operation).errorCount.Add(1)
}

// RecordDuration records a request duration.
func (m *Metrics) RecordDuration(operation string, duration time.Duration) {
	m.mu.Lock()
	if len(m.durations) >= m.maxDurations {
		// Remove oldest duration (FIFO)
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
	m.mu.Unlock()

	m.getOperationMetrics(operation).totalDuration.Add(duration.Milliseconds())
}

// GetRequestTotal returns the total number of requests.
func (m *Metrics) GetRequestTotal() int64 {
	return m.requestTotal.Load()
}

// GetRequestFailed returns the total number of failed requests.
func (m *Metrics) GetRequestFailed() int64 {
	return m.requestFailed.Load()
}

func (m *Metrics) getOperationMetrics(operation string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	om, ok := m.opMetrics[operation]
	if !ok {
		om = &OperationMetrics{}
		m.opMetrics[operation] = om
	}
	return om
}

// Reset resets all metrics (useful for testing).
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)

	m.mu.Lock()
	m.opMetrics = make(map[string]*OperationMetrics)
	m.durations = make([]time.Duration, 0, m.maxDurations)
	m.mu.Unlock()
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	opSnapshots := make(map[string]*OperationMetricsSnapshot, len(m.opMetrics))
	for operation, om := range m.opMetrics {
		count := om.executionCount.Load()
		var avg int64
		if count > 0 {
			avg = om.totalDuration.Load() / count
		}
		opSnapshots[operation] = &OperationMetricsSnapshot{
			ExecutionCount:  count,
			TotalDuration:   om.totalDuration.Load(),
			ErrorCount:      om.errorCount.Load(),
			AverageDuration: avg,
		}
	}

	return &MetricsSnapshot{
		RequestTotal:     m.requestTotal.Load(),
		RequestFailed:    m.requestFailed.Load(),
		OperationMetrics: opSnapshots,
		P50LatencyMs:     percentileMs(m.durations, 0.50),
		P95LatencyMs:     percentileMs(m.durations, 0.95),
	}
}

// percentileMs returns the given latency percentile in milliseconds.
// Assumes the caller holds the metrics lock.
func percentileMs(durations []time.Duration, p float64) int64 {
	if len(durations) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx].Milliseconds()
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal     int64
	RequestFailed    int64
	OperationMetrics map[string]*OperationMetricsSnapshot
	P50LatencyMs     int64
	P95LatencyMs     int64
}

// OperationMetricsSnapshot represents metrics for a specific operation.
type OperationMetricsSnapshot struct {
	ExecutionCount  int64
	TotalDuration   int64
	ErrorCount      int64
	AverageDuration int64
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
