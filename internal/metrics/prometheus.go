package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "knn"

// Prometheus holds the collectors for a benchmark run.
type Prometheus struct {
	Samples     *prometheus.CounterVec
	Predictions *prometheus.CounterVec
	Duration    *prometheus.GaugeVec
	Accuracy    prometheus.Gauge
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Number of records loaded per dataset.",
		}, []string{"dataset"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Number of predictions by outcome.",
		}, []string{"outcome"}),
		Duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Wall clock duration of the benchmark phases.",
		}, []string{"phase"}),
		Accuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accuracy_ratio",
			Help:      "Fraction of correctly predicted validation records.",
		}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Samples, p.Predictions, p.Duration, p.Accuracy}
}
