package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "cluster"

// Prometheus holds the collectors of a run.
type Prometheus struct {
	Iterations   *prometheus.CounterVec
	Degenerate   *prometheus.CounterVec
	Score        *prometheus.GaugeVec
	ClusterSize  *prometheus.GaugeVec
	Quantization *prometheus.GaugeVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "iterations_total",
				Help:      "training passes i.e. k-means reassignments or kohonen epochs",
			}, []string{"engine"}),
		Degenerate: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "degenerate_total",
				Help:      "empty clusters and undefined ratios",
			}, []string{"engine", "reason"}),
		Score: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "score",
				Help:      "prefetch evaluation ratios",
			}, []string{"engine", "metric"}),
		ClusterSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "size",
				Help:      "members per cluster",
			}, []string{"engine", "cluster"}),
		Quantization: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "quantization_error",
				Help:      "mean member to prototype distance per cluster",
			}, []string{"engine", "cluster"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.Iterations,
		p.Degenerate,
		p.Score,
		p.ClusterSize,
		p.Quantization,
	}
}
