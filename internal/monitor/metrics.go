package monitor

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// EngineMetrics tracks assessment throughput and latency.
type EngineMetrics struct {
	// Latency histograms
	ScoringLatency    *LatencyHistogram
	SimulationLatency *LatencyHistogram
	DBLatency         *LatencyHistogram

	// Counters
	assessmentsRecorded uint64
	simulationsRun      uint64
	featureFallbacks    uint64
	riskAlerts          uint64
	errorsCount         uint64

	lastUpdate time.Time
}

// LatencyHistogram tracks latency samples with sliding window.
// Supports lazy stats computation for better performance.
type LatencyHistogram struct {
	mu          sync.Mutex
	samples     []float64
	maxSize     int
	dirty       bool         // Whether samples have changed since last Stats()
	cachedStats LatencyStats // Cached computed stats
}

// NewEngineMetrics creates a new metrics instance.
func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{
		ScoringLatency:    NewLatencyHistogram(1000),
		SimulationLatency: NewLatencyHistogram(1000),
		DBLatency:         NewLatencyHistogram(1000),
		lastUpdate:        time.Now(),
	}
}

// NewLatencyHistogram creates a sliding window histogram.
func NewLatencyHistogram(size int) *LatencyHistogram {
	if size <= 0 {
		size = 1000
	}
	return &LatencyHistogram{
		samples: make([]float64, 0, size),
		maxSize: size,
		dirty:   true,
	}
}

// Record adds a latency sample in milliseconds.
func (h *LatencyHistogram) Record(latencyMs float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) >= h.maxSize {
		// Shift window: remove oldest
		h.samples = h.samples[1:]
	}
	h.samples = append(h.samples, latencyMs)
	h.dirty = true // Mark as dirty for lazy recomputation
}

// RecordDuration converts duration to ms and records.
func (h *LatencyHistogram) RecordDuration(d time.Duration) {
	h.Record(float64(d.Nanoseconds()) / 1e6)
}

// Stats returns min, max, avg, p50, p95, p99.
// Uses lazy computation - only recomputes when samples have changed.
func (h *LatencyHistogram) Stats() LatencyStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Return cached stats if samples haven't changed
	if !h.dirty && h.cachedStats.Count > 0 {
		return h.cachedStats
	}

	n := len(h.samples)
	if n == 0 {
		return LatencyStats{}
	}

	// Compute new stats
	sorted := make([]float64, n)
	copy(sorted, h.samples)
	sort.Float64s(sorted)

	var sum float64
	min, max := sorted[0], sorted[n-1]
	for _, v := range sorted {
		sum += v
	}

	h.cachedStats = LatencyStats{
		Min:   min,
		Max:   max,
		Avg:   sum / float64(n),
		P50:   sorted[n/2],
		P95:   sorted[int(float64(n)*0.95)],
		P99:   sorted[int(float64(n)*0.99)],
		Count: n,
	}
	h.dirty = false

	return h.cachedStats
}

// LatencyStats holds computed latency statistics.
type LatencyStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Count int     `json:"count"`
}

// IncrementAssessments increments the recorded-assessments counter.
func (m *EngineMetrics) IncrementAssessments() {
	atomic.AddUint64(&m.assessmentsRecorded, 1)
}

// IncrementSimulations increments the completed-simulations counter.
func (m *EngineMetrics) IncrementSimulations() {
	atomic.AddUint64(&m.simulationsRun, 1)
}

// IncrementFallbacks increments the feature-fallback counter.
func (m *EngineMetrics) IncrementFallbacks() {
	atomic.AddUint64(&m.featureFallbacks, 1)
}

// IncrementAlerts increments the risk-alert counter.
func (m *EngineMetrics) IncrementAlerts() {
	atomic.AddUint64(&m.riskAlerts, 1)
}

// IncrementErrors increments error counter.
func (m *EngineMetrics) IncrementErrors() {
	atomic.AddUint64(&m.errorsCount, 1)
}

// MetricsSnapshot is a point-in-time metrics view.
type MetricsSnapshot struct {
	ScoringLatency      LatencyStats `json:"scoring_latency"`
	SimulationLatency   LatencyStats `json:"simulation_latency"`
	DBLatency           LatencyStats `json:"db_latency"`
	AssessmentsRecorded uint64       `json:"assessments_recorded"`
	SimulationsRun      uint64       `json:"simulations_run"`
	FeatureFallbacks    uint64       `json:"feature_fallbacks"`
	RiskAlerts          uint64       `json:"risk_alerts"`
	ErrorsCount         uint64       `json:"errors_count"`
	GoroutineCount      int          `json:"goroutine_count"`
	HeapAlloc           uint64       `json:"heap_alloc_bytes"`
	HeapSys             uint64       `json:"heap_sys_bytes"`
	Timestamp           time.Time    `json:"timestamp"`
}

// GetSnapshot returns a point-in-time metrics snapshot.
func (m *EngineMetrics) GetSnapshot() MetricsSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return MetricsSnapshot{
		ScoringLatency:      m.ScoringLatency.Stats(),
		SimulationLatency:   m.SimulationLatency.Stats(),
		DBLatency:           m.DBLatency.Stats(),
		AssessmentsRecorded: atomic.LoadUint64(&m.assessmentsRecorded),
		SimulationsRun:      atomic.LoadUint64(&m.simulationsRun),
		FeatureFallbacks:    atomic.LoadUint64(&m.featureFallbacks),
		RiskAlerts:          atomic.LoadUint64(&m.riskAlerts),
		ErrorsCount:         atomic.LoadUint64(&m.errorsCount),
		GoroutineCount:      runtime.NumGoroutine(),
		HeapAlloc:           memStats.HeapAlloc,
		HeapSys:             memStats.HeapSys,
		Timestamp:           time.Now(),
	}
}

// Timer helps measure operation duration.
type Timer struct {
	start     time.Time
	histogram *LatencyHistogram
}

// NewTimer creates a timer that records to the given histogram.
func NewTimer(h *LatencyHistogram) *Timer {
	return &Timer{
		start:     time.Now(),
		histogram: h,
	}
}

// Stop records elapsed time to histogram.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if t.histogram != nil {
		t.histogram.RecordDuration(elapsed)
	}
	return elapsed
}
