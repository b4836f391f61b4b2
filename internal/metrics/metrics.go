package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Fit     = "fit"
	Predict = "predict"
	Total   = "total"

	Correct = "correct"
	Wrong   = "wrong"
)

// Metrics records the benchmark figures in a dedicated registry.
type Metrics struct {
	registry   *prometheus.Registry
	prometheus Prometheus
}

// New creates a new metrics registry with all benchmark collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry:   prometheus.NewRegistry(),
		prometheus: NewPrometheusMetrics(),
	}
	m.registry.MustRegister(m.prometheus.collectors()...)
	return m
}

func (m *Metrics) Samples(dataset string, n int) {
	m.prometheus.Samples.WithLabelValues(dataset).Add(float64(n))
}

func (m *Metrics) Duration(phase string, d time.Duration) {
	m.prometheus.Duration.WithLabelValues(phase).Set(d.Seconds())
}

// Outcome records the prediction outcome counts and the resulting accuracy.
func (m *Metrics) Outcome(correct, total int) {
	m.prometheus.Predictions.WithLabelValues(Correct).Add(float64(correct))
	m.prometheus.Predictions.WithLabelValues(Wrong).Add(float64(total - correct))
	if total > 0 {
		m.prometheus.Accuracy.Set(float64(correct) / float64(total))
	}
}

// WriteTo writes the metrics in the prometheus text format into the given file,
// to be picked up by a node exporter textfile collector.
func (m *Metrics) WriteTo(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("could not write metrics to '%s': %w", path, err)
	}
	return nil
}
