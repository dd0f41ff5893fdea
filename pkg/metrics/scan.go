package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScanMetrics records metadata for catalog scan runs.
type ScanMetrics struct {
	duration *prometheus.HistogramVec
	items    *prometheus.CounterVec
	chunks   *prometheus.CounterVec
	runs     *prometheus.CounterVec
}

// NewScanMetrics registers the scan metrics on the provided registerer.
func NewScanMetrics(reg prometheus.Registerer) *ScanMetrics {
	if reg == nil {
		return &ScanMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scan_duration_seconds",
		Help:    "Duration of catalog scans in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	items := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_items_total",
		Help: "Products processed by catalog scans.",
	}, []string{"outcome"})
	chunks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_chunks_total",
		Help: "Chunks processed by catalog scans.",
	}, []string{"trigger"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_runs_total",
		Help: "Catalog scan runs by final status.",
	}, []string{"status"})
	reg.MustRegister(duration, items, chunks, runs)
	return &ScanMetrics{
		duration: duration,
		items:    items,
		chunks:   chunks,
		runs:     runs,
	}
}

// ObserveDuration records the wall time of one scan run.
func (s *ScanMetrics) ObserveDuration(trigger string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(trigger)).Observe(duration.Seconds())
}

// AddSucceeded counts products that scored and persisted cleanly.
func (s *ScanMetrics) AddSucceeded(n int) {
	if s == nil || s.items == nil || n <= 0 {
		return
	}
	s.items.WithLabelValues("succeeded").Add(float64(n))
}

// AddFailed counts products that errored during a scan.
func (s *ScanMetrics) AddFailed(n int) {
	if s == nil || s.items == nil || n <= 0 {
		return
	}
	s.items.WithLabelValues("failed").Add(float64(n))
}

// IncChunk counts one processed chunk.
func (s *ScanMetrics) IncChunk(trigger string) {
	if s == nil || s.chunks == nil {
		return
	}
	s.chunks.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// IncRun counts one finished scan run by its terminal status.
func (s *ScanMetrics) IncRun(status string) {
	if s == nil || s.runs == nil {
		return
	}
	s.runs.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
