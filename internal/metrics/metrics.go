package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/drakos74/free-cluster/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Metrics tracks the events and results of a run on its own registry.
type Metrics struct {
	mutex      *sync.RWMutex
	registry   *prometheus.Registry
	prometheus Prometheus
}

// NewMetrics creates a new metrics observer.
func NewMetrics() *Metrics {
	p := NewPrometheusMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(p.collectors()...)
	return &Metrics{
		mutex:      new(sync.RWMutex),
		registry:   registry,
		prometheus: p,
	}
}

// Iteration counts one training pass of the engine.
func (m *Metrics) Iteration(engine string) {
	m.prometheus.Iterations.WithLabelValues(engine).Inc()
}

// Degenerate counts a degenerate event of the engine.
func (m *Metrics) Degenerate(engine string, reason string) {
	m.prometheus.Degenerate.WithLabelValues(engine, reason).Inc()
}

// Score records the evaluation ratios.
func (m *Metrics) Score(engine string, score model.Score) {
	m.prometheus.Score.WithLabelValues(engine, "hitrate").Set(score.Hitrate)
	m.prometheus.Score.WithLabelValues(engine, "accuracy").Set(score.Accuracy)
	m.prometheus.Score.WithLabelValues(engine, "threshold").Set(score.Threshold)
}

// Clusters records the size and quantization error of every cluster.
func (m *Metrics) Clusters(engine string, snapshots []model.Snapshot) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.prometheus.ClusterSize.Reset()
	m.prometheus.Quantization.Reset()
	for _, s := range snapshots {
		cluster := s.Position.String()
		m.prometheus.ClusterSize.WithLabelValues(engine, cluster).Set(float64(len(s.Members)))
		m.prometheus.Quantization.WithLabelValues(engine, cluster).Set(s.Quantization.Mean)
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTo writes the metrics in the text exposition format to the given file.
func (m *Metrics) WriteTo(path string) error {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not make dir '%s': %w", dir, err)
		}
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("could not write metrics to '%s': %w", path, err)
	}
	log.Info().Str("path", path).Msg("written metrics")
	return nil
}
