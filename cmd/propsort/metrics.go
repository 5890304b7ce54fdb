package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are kept in a private registry and written once, at exit, in the
// text format read by the node-exporter textfile collector.
type metrics struct {
	registry *prometheus.Registry

	inputs      *prometheus.CounterVec
	records     prometheus.Counter
	comparisons prometheus.Counter
	duration    prometheus.Histogram
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,
		inputs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "propsort_inputs_total",
			Help: "The total number of inputs processed",
		}, []string{"status"}),
		records: factory.NewCounter(prometheus.CounterOpts{
			Name: "propsort_records_sorted_total",
			Help: "The total number of records sorted",
		}),
		comparisons: factory.NewCounter(prometheus.CounterOpts{
			Name: "propsort_comparisons_total",
			Help: "The total number of record comparisons",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "propsort_sort_duration_seconds",
			Help:    "Time spent sorting a single input",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *metrics) observeInput(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.inputs.WithLabelValues(status).Inc()
}

func (m *metrics) observeSort(records int, comparisons int64, elapsed time.Duration) {
	m.records.Add(float64(records))
	m.comparisons.Add(float64(comparisons))
	m.duration.Observe(elapsed.Seconds())
}

func (m *metrics) writeTo(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
