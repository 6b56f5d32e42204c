package ml

import (
	"fmt"

	"github.com/cdipaolo/goml/cluster"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/rs/zerolog/log"
)

const ReferenceName = "reference"

// Reference is a k-means clusterer backed by goml.
// It serves as a baseline for the partitions of KMeans.
// NOTE : goml uses the global random source, so the seed of the config is ignored.
type Reference struct {
	engine
	k             int
	maxIterations int
	model         *cluster.KMeans
	clusters      []*model.Cluster
}

// NewReference creates a new baseline k-means engine.
func NewReference(train *model.Dataset, cfg KMeansConfig) (*Reference, error) {
	if err := cfg.Validate(train); err != nil {
		return nil, fmt.Errorf("could not create reference k-means: %w", err)
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &Reference{
		engine:        newEngine(ReferenceName, train),
		k:             cfg.K,
		maxIterations: cfg.MaxIterations,
	}, nil
}

// WithObserver sets the observer for the training events.
func (r *Reference) WithObserver(observer Observer) *Reference {
	r.observer = observer
	return r
}

// Train learns the centroids with goml and derives the clusters from its guesses.
func (r *Reference) Train() (bool, error) {
	r.model = cluster.NewKMeans(r.k, r.maxIterations, r.train.Rows())
	if err := r.model.Learn(); err != nil {
		log.Error().
			Err(err).
			Str("engine", r.name).
			Msg("error during training on k-means")
		return false, fmt.Errorf("could not train: %w", err)
	}
	r.observer.Iteration(r.name)

	guesses := r.model.Guesses()
	if len(guesses) != r.train.Len() {
		return false, fmt.Errorf("could not align guesses with data [ %d | %d ]", len(guesses), r.train.Len())
	}

	clusters := make([]*model.Cluster, r.k)
	for i := range clusters {
		c := model.NewCluster(r.train.Dim())
		if i < len(r.model.Centroids) {
			copy(c.Prototype, r.model.Centroids[i])
		}
		clusters[i] = c
	}
	for i, g := range guesses {
		if g < 0 || g >= r.k {
			return false, fmt.Errorf("guess %d out of range for index %d", g, i)
		}
		clusters[g].Current.Add(i)
	}
	for i, c := range clusters {
		if c.Current.Len() == 0 {
			log.Debug().Str("engine", r.name).Int("cluster", i).Msg("empty cluster")
			r.degenerate("empty-cluster")
		}
	}
	r.clusters = clusters
	r.trained = true
	return true, nil
}

// Test evaluates the centroids against the test set.
func (r *Reference) Test(test *model.Dataset) (model.Score, error) {
	return r.test(test, r.clusters)
}

// Clusters returns snapshots of the k clusters.
func (r *Reference) Clusters() []model.Snapshot {
	ss := make([]model.Snapshot, len(r.clusters))
	for i, c := range r.clusters {
		ss[i] = snapshot(r.train, model.Position{Index: i, Col: i}, c)
	}
	return ss
}
