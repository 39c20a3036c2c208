package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	m.ClassCompleted(time.Millisecond)
	m.ClassMissing()
	m.InternalError()
	m.CacheHit()
	m.CacheMiss()
	m.ClasspathLookup("dir", true)
	assert.NoError(t, m.WriteSummary(&bytes.Buffer{}))
}

func TestRunsAreIsolated(t *testing.T) {
	a, b := New(), New()
	a.ClassMissing()
	a.ClassMissing()
	b.ClassMissing()

	assert.Equal(t, 2.0, testutil.ToFloat64(a.ClassesMissing))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.ClassesMissing))
}

func TestWriteSummary(t *testing.T) {
	m := New()
	m.ClassCompleted(2 * time.Millisecond)
	m.CacheHit()
	m.ClasspathLookup("jar", false)

	var buf bytes.Buffer
	require.NoError(t, m.WriteSummary(&buf))
	out := buf.String()

	assert.Contains(t, out, "classgraph_classes_completed_total 1\n")
	assert.Contains(t, out, "classgraph_parametrized_cache_hits_total 1\n")
	assert.Contains(t, out, "classgraph_completion_seconds_count 1\n")
	assert.Contains(t, out, "classgraph_classpath_lookups_total,entry=jar,result=miss 1\n")
}
