package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run status labels
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics tracks interpreter pipeline metrics
type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	ErrorsTotal   *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	CacheEntries  prometheus.Gauge
}

// NewMetrics creates pipeline metrics and registers them with registry
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{}

	m.RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "europa",
		Subsystem: "engine",
		Name:      "runs_total",
		Help:      "Total number of script runs",
	}, []string{"status"})

	m.ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "europa",
		Subsystem: "engine",
		Name:      "errors_total",
		Help:      "Total number of script errors by category",
	}, []string{"category"})

	m.StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "europa",
		Subsystem: "engine",
		Name:      "stage_duration_seconds",
		Help:      "Duration of each pipeline stage in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"stage"})

	m.CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "europa",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total number of parse cache hits",
	})

	m.CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "europa",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total number of parse cache misses",
	})

	m.CacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "europa",
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Number of parsed programs held in the cache",
	})

	registry.MustRegister(
		m.RunsTotal,
		m.ErrorsTotal,
		m.StageDuration,
		m.CacheHits,
		m.CacheMisses,
		m.CacheEntries,
	)

	return m
}

// RecordRun records a finished run. category is the error category of a
// failed run and is ignored on success.
func (m *Metrics) RecordRun(success bool, category string) {
	if m == nil {
		return
	}
	if success {
		m.RunsTotal.WithLabelValues(StatusOK).Inc()
		return
	}
	m.RunsTotal.WithLabelValues(StatusError).Inc()
	m.ErrorsTotal.WithLabelValues(category).Inc()
}

// RecordStage records the duration of one pipeline stage
func (m *Metrics) RecordStage(stage string, duration time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordCacheHit records a cache hit
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// RecordCacheMiss records a cache miss
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// SetCacheEntries records the current cache size
func (m *Metrics) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.CacheEntries.Set(float64(n))
}
