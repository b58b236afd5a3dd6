package fngraph

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus metrics for function graph runs.
//
// Metrics (namespace "fngraph"):
//
//  1. operation_latency_ms (histogram): operation body duration
//     Labels: node_id, status (ok, error)
//
//  2. operations_total (counter): executed operations
//     Labels: status (ok, error)
//
//  3. frontier_depth (gauge): pending ids in the frontier after the last step
//
//  4. runs_total (counter): finished runs
//     Labels: order (bfs, dfs), status (ok, error, max_steps, cancelled)
//
// Usage:
//
//	reg := prometheus.NewRegistry()
//	m := fngraph.NewMetrics(reg)
//	fg, _ := fngraph.NewOrdered[string](fngraph.WithMetrics(m))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
type Metrics struct {
	latency       *prometheus.HistogramVec
	operations    *prometheus.CounterVec
	frontierDepth prometheus.Gauge
	runs          *prometheus.CounterVec

	mu      sync.RWMutex
	enabled bool
}

// NewMetrics registers the metrics with registry (the default registerer
// when nil).
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		enabled: true,
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fngraph",
			Name:      "operation_latency_ms",
			Help:      "Operation body duration in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000},
		}, []string{"node_id", "status"}),
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fngraph",
			Name:      "operations_total",
			Help:      "Operations executed by traversal",
		}, []string{"status"}),
		frontierDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "fngraph",
			Name:      "frontier_depth",
			Help:      "Pending node ids in the traversal frontier, duplicates included",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fngraph",
			Name:      "runs_total",
			Help:      "Finished traversal runs",
		}, []string{"order", "status"}),
	}
}

func (m *Metrics) on() bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// RecordOperation observes one operation execution.
func (m *Metrics) RecordOperation(nodeID string, d time.Duration, status string) {
	if !m.on() {
		return
	}
	m.latency.WithLabelValues(nodeID, status).Observe(float64(d) / float64(time.Millisecond))
	m.operations.WithLabelValues(status).Inc()
}

// UpdateFrontierDepth sets the frontier gauge.
func (m *Metrics) UpdateFrontierDepth(depth int) {
	if !m.on() {
		return
	}
	m.frontierDepth.Set(float64(depth))
}

// RecordRun counts a finished run.
func (m *Metrics) RecordRun(order, status string) {
	if !m.on() {
		return
	}
	m.runs.WithLabelValues(order, status).Inc()
}

// Disable stops recording. Registered metrics keep their last values.
func (m *Metrics) Disable() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
}

// Enable resumes recording.
func (m *Metrics) Enable() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
}
