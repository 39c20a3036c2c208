// Package metrics holds the Prometheus collectors of one analysis run.
//
// Every run gets its own registry so independent runs never share counters.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registry *prometheus.Registry

	ClassesCompleted   prometheus.Counter
	ClassesMissing     prometheus.Counter
	InternalErrors     prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CompletionDuration prometheus.Histogram
	ClasspathLookups   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		ClassesCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "classgraph_classes_completed_total",
			Help: "Total number of class symbols completed from class files.",
		}),
		ClassesMissing: f.NewCounter(prometheus.CounterOpts{
			Name: "classgraph_classes_missing_total",
			Help: "Total number of class symbols that could not be loaded from the classpath.",
		}),
		InternalErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "classgraph_internal_errors_total",
			Help: "Total number of internal consistency failures.",
		}),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "classgraph_parametrized_cache_hits_total",
			Help: "Total number of parametrized type lookups answered from the cache.",
		}),
		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "classgraph_parametrized_cache_misses_total",
			Help: "Total number of parametrized types created.",
		}),
		CompletionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "classgraph_completion_seconds",
			Help:    "Time spent completing one class symbol, including nested completions.",
			Buckets: prometheus.DefBuckets,
		}),
		ClasspathLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "classgraph_classpath_lookups_total",
			Help: "Total number of class file lookups per classpath entry kind and result.",
		}, []string{"entry", "result"}),
	}
}

func (m *Metrics) ClassCompleted(d time.Duration) {
	if m == nil {
		return
	}
	m.ClassesCompleted.Inc()
	m.CompletionDuration.Observe(d.Seconds())
}

func (m *Metrics) ClassMissing() {
	if m == nil {
		return
	}
	m.ClassesMissing.Inc()
}

func (m *Metrics) InternalError() {
	if m == nil {
		return
	}
	m.InternalErrors.Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

func (m *Metrics) ClasspathLookup(entry string, found bool) {
	if m == nil {
		return
	}
	result := "miss"
	if found {
		result = "hit"
	}
	m.ClasspathLookups.WithLabelValues(entry, result).Inc()
}

// WriteSummary writes one "name value" line per gathered sample, sorted by
// name. Histograms report their sample count and sum.
func (m *Metrics) WriteSummary(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range metric.GetLabel() {
				name += fmt.Sprintf(",%s=%s", lp.GetName(), lp.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, metric.GetCounter().GetValue()))
			case metric.GetHistogram() != nil:
				h := metric.GetHistogram()
				lines = append(lines,
					fmt.Sprintf("%s_count %d", name, h.GetSampleCount()),
					fmt.Sprintf("%s_sum %g", name, h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
