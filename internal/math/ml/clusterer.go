package ml

import (
	"errors"
	"fmt"

	"github.com/drakos74/free-cluster/internal/buffer"
	clmath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultPrefetchThreshold is the prototype value above which an item is prefetched.
	DefaultPrefetchThreshold = 0.5
	// DefaultLearningRate is the initial learning rate of the kohonen map.
	DefaultLearningRate = 0.8
	// DefaultMaxIterations caps the k-means reassignment passes.
	DefaultMaxIterations = 100
)

// NotTrainedErr is returned when testing an engine that has not been trained yet.
var NotTrainedErr = errors.New("not trained")

// Clusterer is the common capability of the clustering engines.
type Clusterer interface {
	// Name returns the name of the algorithm.
	Name() string
	// Train trains the clusters and reports if the algorithm converged.
	Train() (bool, error)
	// Test evaluates the trained clusters against the index aligned test set.
	Test(test *model.Dataset) (model.Score, error)
	// Clusters returns read-only snapshots of the trained clusters.
	Clusters() []model.Snapshot
	SetPrefetchThreshold(threshold float64)
	PrefetchThreshold() float64
}

// Observer receives notable events of the training and evaluation.
type Observer interface {
	Iteration(engine string)
	Degenerate(engine string, reason string)
}

// VoidObserver is a noop observer.
type VoidObserver struct {
}

func (v VoidObserver) Iteration(engine string) {}

func (v VoidObserver) Degenerate(engine string, reason string) {}

// engine holds the state shared by all algorithms.
type engine struct {
	name      string
	train     *model.Dataset
	evaluator *Evaluator
	observer  Observer
	trained   bool
}

func newEngine(name string, train *model.Dataset) engine {
	return engine{
		name:      name,
		train:     train,
		evaluator: NewEvaluator(),
		observer:  VoidObserver{},
	}
}

// Name returns the algorithm name.
func (e *engine) Name() string {
	return e.name
}

// SetPrefetchThreshold sets the threshold used by the next evaluation.
func (e *engine) SetPrefetchThreshold(threshold float64) {
	e.evaluator.SetThreshold(threshold)
}

// PrefetchThreshold returns the current prefetch threshold.
func (e *engine) PrefetchThreshold() float64 {
	return e.evaluator.Threshold()
}

func (e *engine) degenerate(reason string) {
	e.observer.Degenerate(e.name, reason)
}

// test scores the clusters against the test set.
func (e *engine) test(test *model.Dataset, clusters []*model.Cluster) (model.Score, error) {
	if !e.trained {
		return model.Score{}, fmt.Errorf("%s: %w", e.name, NotTrainedErr)
	}
	if err := e.train.Aligned(test); err != nil {
		return model.Score{}, fmt.Errorf("could not test %s: %w", e.name, err)
	}
	score := e.evaluator.Score(e.train.Len(), test, lookup(clusters))
	for _, d := range score.Degenerate {
		e.degenerate(d)
	}
	log.Info().
		Str("engine", e.name).
		Float64("threshold", score.Threshold).
		Float64("hitrate", score.Hitrate).
		Float64("accuracy", score.Accuracy).
		Int("unassigned", score.Unassigned).
		Msg("tested clusters")
	return score, nil
}

// lookup indexes the membership of the given clusters.
func lookup(clusters []*model.Cluster) Lookup {
	index := make(map[int]*model.Cluster)
	for _, c := range clusters {
		for i := range c.Current {
			index[i] = c
		}
	}
	return func(i int) (model.Vector, bool) {
		if c, ok := index[i]; ok {
			return c.Prototype, true
		}
		return nil, false
	}
}

// snapshot creates a read-only copy of the cluster,
// including the distance statistics of its members.
func snapshot(train *model.Dataset, position model.Position, c *model.Cluster) model.Snapshot {
	members := c.Current.Sorted()
	stats := buffer.NewStats()
	for _, m := range members {
		stats.Push(clmath.Distance(train.At(m), c.Prototype))
	}
	return model.Snapshot{
		Position:  position,
		Prototype: c.Prototype.Copy(),
		Members:   members,
		Quantization: model.Quantization{
			Mean:  stats.Avg(),
			StDev: stats.StDev(),
			Max:   stats.Max(),
		},
	}
}

// nearest returns the index of the prototype closest to x.
// Ties are resolved in favour of the first one.
func nearest(x model.Vector, prototypes func(i int) model.Vector, size int) int {
	best := -1
	smallest := 0.0
	for i := 0; i < size; i++ {
		d := clmath.Distance(x, prototypes(i))
		if best < 0 || d < smallest {
			best = i
			smallest = d
		}
	}
	return best
}
