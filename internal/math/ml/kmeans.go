package ml

import (
	"fmt"
	"math/rand"
	"time"

	clmath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/rs/zerolog/log"
)

const KMeansName = "kmeans"

// KMeansConfig defines the parameters of the k-means algorithm.
type KMeansConfig struct {
	K             int   `json:"k" yaml:"k"`
	MaxIterations int   `json:"max_iterations" yaml:"max_iterations"`
	Seed          int64 `json:"seed" yaml:"seed"`
}

// Validate checks the config against the training set.
func (cfg KMeansConfig) Validate(train *model.Dataset) error {
	if train == nil || train.Len() == 0 {
		return fmt.Errorf("no training data: %w", model.ConfigurationErr)
	}
	if cfg.K < 1 || cfg.K > train.Len() {
		return fmt.Errorf("k must be within [1, %d] but was %d: %w", train.Len(), cfg.K, model.ConfigurationErr)
	}
	if cfg.MaxIterations < 0 {
		return fmt.Errorf("negative max iterations %d: %w", cfg.MaxIterations, model.ConfigurationErr)
	}
	return nil
}

// KMeans partitions the training set into k clusters.
type KMeans struct {
	engine
	k             int
	maxIterations int
	rnd           *rand.Rand
	clusters      []*model.Cluster
	iterations    int
}

// NewKMeans creates a new k-means engine for the given training set.
// A zero seed picks a time based one.
func NewKMeans(train *model.Dataset, cfg KMeansConfig) (*KMeans, error) {
	if err := cfg.Validate(train); err != nil {
		return nil, fmt.Errorf("could not create k-means: %w", err)
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	clusters := make([]*model.Cluster, cfg.K)
	for i := range clusters {
		clusters[i] = model.NewCluster(train.Dim())
	}
	return &KMeans{
		engine:        newEngine(KMeansName, train),
		k:             cfg.K,
		maxIterations: cfg.MaxIterations,
		rnd:           rand.New(rand.NewSource(cfg.Seed)),
		clusters:      clusters,
	}, nil
}

// WithObserver sets the observer for the training events.
func (k *KMeans) WithObserver(observer Observer) *KMeans {
	k.observer = observer
	return k
}

// Train runs the k-means iterations until the membership of all clusters is stable,
// or the iteration cap is reached.
func (k *KMeans) Train() (bool, error) {
	k.iterations = 0
	for _, c := range k.clusters {
		c.Current.Clear()
		c.Previous.Clear()
	}

	// random initial partition
	for i := 0; i < k.train.Len(); i++ {
		k.clusters[k.rnd.Intn(k.k)].Current.Add(i)
	}
	k.recompute()
	k.trained = true

	for k.iterations < k.maxIterations {
		stable := k.iterate()
		if stable {
			log.Info().
				Str("engine", k.name).
				Int("k", k.k).
				Int("iterations", k.iterations).
				Msg("converged")
			return true, nil
		}
	}
	log.Warn().
		Str("engine", k.name).
		Int("k", k.k).
		Int("iterations", k.iterations).
		Msg("did not converge")
	return false, nil
}

// iterate runs one reassignment pass and reports if the membership did not change.
func (k *KMeans) iterate() bool {
	for _, c := range k.clusters {
		c.Rotate()
	}
	for i := 0; i < k.train.Len(); i++ {
		best := nearest(k.train.At(i), func(j int) model.Vector {
			return k.clusters[j].Prototype
		}, k.k)
		k.clusters[best].Current.Add(i)
	}
	k.recompute()
	k.iterations++
	k.observer.Iteration(k.name)

	stable := true
	for _, c := range k.clusters {
		if !c.Stable() {
			stable = false
		}
	}
	log.Debug().
		Str("engine", k.name).
		Int("iteration", k.iterations).
		Bool("stable", stable).
		Msg("reassigned members")
	return stable
}

// recompute sets every prototype to the mean of the cluster members.
func (k *KMeans) recompute() {
	for i, c := range k.clusters {
		rows := make([][]float64, 0, c.Current.Len())
		for _, m := range c.Current.Sorted() {
			rows = append(rows, k.train.At(m))
		}
		if !clmath.Mean(c.Prototype, rows...) {
			log.Debug().
				Str("engine", k.name).
				Int("cluster", i).
				Err(fmt.Errorf("empty cluster: %w", model.DegenerateMetricErr)).
				Msg("zero prototype")
			k.degenerate("empty-cluster")
		}
	}
}

// Test evaluates the prototypes against the test set.
func (k *KMeans) Test(test *model.Dataset) (model.Score, error) {
	return k.test(test, k.clusters)
}

// Iterations returns the number of reassignment passes of the last training.
func (k *KMeans) Iterations() int {
	return k.iterations
}

// Clusters returns snapshots of the k clusters.
func (k *KMeans) Clusters() []model.Snapshot {
	ss := make([]model.Snapshot, len(k.clusters))
	for i, c := range k.clusters {
		ss[i] = snapshot(k.train, model.Position{Index: i, Col: i}, c)
	}
	return ss
}
