package analysis

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/drakos74/free-cluster/infra/config"
	"github.com/drakos74/free-cluster/internal/dataset"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/metrics"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/report"
	"github.com/drakos74/free-cluster/internal/storage"
	"github.com/drakos74/free-cluster/internal/storage/file/json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// RunsDir is the registry path of the run history.
	RunsDir = "runs"
	// SummaryLabel is the registry label of the run summaries.
	SummaryLabel = "summary"
)

// Runner executes a clustering run end to end.
type Runner struct {
	run      string
	cfg      config.Config
	metrics  *metrics.Metrics
	shard    storage.Shard
	registry storage.EventRegistry
	out      io.Writer
}

// NewRunner creates a new runner for the given config.
// Reports and run history are kept as json files under the output directory.
func NewRunner(cfg config.Config) *Runner {
	dir := cfg.Output.Dir
	if dir == "" {
		dir = storage.DefaultDir
	}
	return &Runner{
		run:      uuid.New().String(),
		cfg:      cfg,
		metrics:  metrics.NewMetrics(),
		shard:    json.BlobShard(dir, storage.ReportDir),
		registry: json.EventRegistry(dir, RunsDir),
		out:      ioutil.Discard,
	}
}

// WithStorage sets the storage of the reports.
func (r *Runner) WithStorage(shard storage.Shard) *Runner {
	r.shard = shard
	return r
}

// WithRegistry sets the registry of the run history.
func (r *Runner) WithRegistry(registry storage.EventRegistry) *Runner {
	r.registry = registry
	return r
}

// WithOutput sets the writer of the text report.
func (r *Runner) WithOutput(out io.Writer) *Runner {
	r.out = out
	return r
}

// Run returns the run identifier.
func (r *Runner) Run() string {
	return r.run
}

// Metrics returns the metrics of the run.
func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

// NewClusterer creates the engine of the configured algorithm.
func NewClusterer(cfg config.Config, train *model.Dataset, observer ml.Observer) (ml.Clusterer, error) {
	var c ml.Clusterer
	switch cfg.Algorithm {
	case ml.KMeansName:
		kmeans, err := ml.NewKMeans(train, cfg.KMeans)
		if err != nil {
			return nil, err
		}
		c = kmeans.WithObserver(observer)
	case ml.KohonenName:
		kohonen, err := ml.NewKohonen(train, cfg.Kohonen)
		if err != nil {
			return nil, err
		}
		c = kohonen.WithObserver(observer)
	case ml.ReferenceName:
		reference, err := ml.NewReference(train, cfg.KMeans)
		if err != nil {
			return nil, err
		}
		c = reference.WithObserver(observer)
	default:
		return nil, fmt.Errorf("unknown algorithm '%s': %w", cfg.Algorithm, model.ConfigurationErr)
	}
	c.SetPrefetchThreshold(cfg.PrefetchThreshold)
	return c, nil
}

// Execute loads the data, trains and tests the configured engine and reports the results.
func (r *Runner) Execute() (*report.Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	train, test, err := dataset.LoadPair(r.cfg.Train, r.cfg.Test)
	if err != nil {
		return nil, err
	}

	c, err := NewClusterer(r.cfg, train, r.metrics)
	if err != nil {
		return nil, fmt.Errorf("could not create %s engine: %w", r.cfg.Algorithm, err)
	}
	log.Info().
		Str("run", r.run).
		Str("engine", c.Name()).
		Int("size", train.Len()).
		Int("dim", train.Dim()).
		Msg("start training")

	converged, err := c.Train()
	if err != nil {
		return nil, fmt.Errorf("could not train %s: %w", c.Name(), err)
	}
	clusters := c.Clusters()
	r.metrics.Clusters(c.Name(), clusters)

	score, err := c.Test(test)
	if err != nil {
		return nil, fmt.Errorf("could not test %s: %w", c.Name(), err)
	}
	r.metrics.Score(c.Name(), score)

	rep := report.New(r.run, c.Name()).
		WithData(r.cfg.Train, r.cfg.Test).
		WithTraining(converged, iterations(c, r.cfg), clusters).
		WithScore(score)

	if r.cfg.Sweep {
		scores, err := ml.Sweep(c, test, ml.SweepThresholds()...)
		if err != nil {
			return nil, err
		}
		rep.WithSweep(scores)
	}

	rep.Print(r.out, report.Options{
		Members:    r.cfg.Output.ShowMembers,
		Prototypes: r.cfg.Output.ShowPrototypes,
	})

	if err := r.persist(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *Runner) persist(rep *report.Report) error {
	s, err := r.shard(rep.Algorithm)
	if err != nil {
		return fmt.Errorf("could not create storage: %w", err)
	}
	if err := rep.Store(s); err != nil {
		return err
	}

	registry, err := r.registry("")
	if err != nil {
		return fmt.Errorf("could not create registry: %w", err)
	}
	err = registry.Add(storage.K{
		Algorithm: rep.Algorithm,
		Label:     SummaryLabel,
	}, rep.Summary())
	if err != nil {
		return fmt.Errorf("could not add run to history: %w", err)
	}

	if dir := r.cfg.Output.Dir; dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not make dir '%s': %w", dir, err)
		}
		if err := json.Capture(r.cfg, filepath.Join(dir, fmt.Sprintf("%s.config.json", r.run))); err != nil {
			return fmt.Errorf("could not capture config: %w", err)
		}
	}

	if path := r.cfg.Output.MetricsFile; path != "" {
		if err := r.metrics.WriteTo(path); err != nil {
			return err
		}
	}
	log.Info().
		Str("run", r.run).
		Str("engine", rep.Algorithm).
		Msg("stored report")
	return nil
}

// History loads the summaries of the previous runs of the algorithm.
func (r *Runner) History(algorithm string) ([]report.Summary, error) {
	registry, err := r.registry("")
	if err != nil {
		return nil, fmt.Errorf("could not create registry: %w", err)
	}
	summaries := make([]report.Summary, 0)
	err = registry.GetAll(storage.K{
		Algorithm: algorithm,
		Label:     SummaryLabel,
	}, &summaries)
	if err != nil {
		return nil, fmt.Errorf("could not load history for '%s': %w", algorithm, err)
	}
	return summaries, nil
}

func iterations(c ml.Clusterer, cfg config.Config) int {
	switch engine := c.(type) {
	case *ml.KMeans:
		return engine.Iterations()
	case *ml.Kohonen:
		return cfg.Kohonen.Epochs
	}
	return 0
}
