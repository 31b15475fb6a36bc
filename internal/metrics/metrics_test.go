package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRun(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRun(true, "")
	m.RecordRun(true, "")
	m.RecordRun(false, "TypeError")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("TypeError")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("MathError")))
}

func TestRecordCache(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordCacheMiss()
	m.SetCacheEntries(7)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.CacheEntries))
}

func TestRecordStage(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordStage("lexer", time.Millisecond)
	m.RecordStage("parser", 2*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.StageDuration))

	expected := `
# HELP europa_cache_hits_total Total number of parse cache hits
# TYPE europa_cache_hits_total counter
europa_cache_hits_total 0
`
	require.NoError(t, testutil.CollectAndCompare(m.CacheHits, strings.NewReader(expected)))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordRun(false, "MathError")
		m.RecordStage("lexer", time.Millisecond)
		m.RecordCacheHit()
		m.RecordCacheMiss()
		m.SetCacheEntries(1)
	})
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMetrics(registry)

	assert.Panics(t, func() { NewMetrics(registry) })
}
