package analysis

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drakos74/free-cluster/infra/config"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/math/ml/bayes"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/report"
	"github.com/drakos74/free-cluster/internal/storage"
	"github.com/drakos74/free-cluster/internal/storage/file/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// data writes an index aligned train and test set of two usage patterns.
func data(t *testing.T, dir string) (string, string) {
	train := [][]float64{
		{1, 1, 0, 0},
		{1, 1, 1, 0},
		{1, 1, 0, 0},
		{0, 0, 1, 1},
		{0, 1, 1, 1},
		{0, 0, 1, 1},
	}
	test := [][]float64{
		{1, 1, 0, 0},
		{1, 0, 0, 0},
		{1, 1, 1, 0},
		{0, 0, 1, 1},
		{0, 0, 0, 1},
		{0, 1, 1, 1},
	}
	require.NoError(t, json.Save(dir, "train.json", train))
	require.NoError(t, json.Save(dir, "test.json", test))
	return filepath.Join(dir, "train.json"), filepath.Join(dir, "test.json")
}

func newConfig(t *testing.T, algorithm string) config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Algorithm = algorithm
	cfg.Train, cfg.Test = data(t, dir)
	cfg.Seed = 5
	cfg.KMeans.K = 2
	cfg.KMeans.Seed = 5
	cfg.Kohonen.N = 2
	cfg.Kohonen.Epochs = 20
	cfg.Kohonen.Seed = 5
	cfg.Sweep = true
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.MetricsFile = filepath.Join(dir, "out", "metrics.prom")
	return cfg
}

func TestRunner_Execute(t *testing.T) {

	type test struct {
		algorithm  string
		iterations bool
	}

	tests := map[string]test{
		"kmeans": {
			algorithm:  ml.KMeansName,
			iterations: true,
		},
		"kohonen": {
			algorithm:  ml.KohonenName,
			iterations: true,
		},
		"reference": {
			algorithm: ml.ReferenceName,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := newConfig(t, tt.algorithm)
			var out bytes.Buffer
			runner := NewRunner(cfg).WithOutput(&out)

			rep, err := runner.Execute()
			require.NoError(t, err)

			assert.Equal(t, runner.Run(), rep.Run)
			assert.Equal(t, tt.algorithm, rep.Algorithm)
			assert.Equal(t, tt.iterations, rep.Iterations > 0)
			assert.Len(t, rep.Sweep, 10)
			assert.Equal(t, cfg.PrefetchThreshold, rep.Score.Threshold)
			members := 0
			for _, c := range rep.Clusters {
				members += len(c.Members)
			}
			assert.Equal(t, 6, members)
			assert.True(t, strings.Contains(out.String(), rep.Run))

			// the report is persisted under the output dir
			var stored report.Report
			s, err := json.BlobShard(cfg.Output.Dir, storage.ReportDir)(tt.algorithm)
			require.NoError(t, err)
			require.NoError(t, s.Load(rep.Key(), &stored))
			assert.Equal(t, rep.Score, stored.Score)

			_, err = os.Stat(cfg.Output.MetricsFile)
			assert.NoError(t, err)
			_, err = os.Stat(filepath.Join(cfg.Output.Dir, rep.Run+".config.json"))
			assert.NoError(t, err)

			history, err := runner.History(tt.algorithm)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, rep.Run, history[0].Run)
		})
	}
}

func TestRunner_Mocks(t *testing.T) {
	cfg := newConfig(t, ml.KMeansName)
	cfg.Output = config.Output{}
	cfg.Sweep = false

	mockStorage := storage.NewMockStorage()
	mockRegistry := storage.NewMockRegistry()
	rep, err := NewRunner(cfg).
		WithStorage(storage.MockShard(mockStorage)).
		WithRegistry(storage.MockEventRegistry(mockRegistry)).
		Execute()
	require.NoError(t, err)
	assert.Empty(t, rep.Sweep)
	assert.Equal(t, rep, mockStorage.Elements[rep.Key()])
	assert.Equal(t, []interface{}{rep.Summary()}, mockRegistry.Events[storage.K{Algorithm: ml.KMeansName, Label: SummaryLabel}])
}

func TestRunner_Errors(t *testing.T) {

	type test struct {
		update func(cfg *config.Config)
		err    error
	}

	tests := map[string]test{
		"invalid-config": {
			update: func(cfg *config.Config) {
				cfg.Algorithm = "unknown"
			},
			err: model.ConfigurationErr,
		},
		"k-larger-than-data": {
			update: func(cfg *config.Config) {
				cfg.KMeans.K = 7
			},
			err: model.ConfigurationErr,
		},
		"missing-data": {
			update: func(cfg *config.Config) {
				cfg.Train = filepath.Join(t.TempDir(), "missing.csv")
			},
			err: storage.NotFoundErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := newConfig(t, ml.KMeansName)
			tt.update(&cfg)
			_, err := NewRunner(cfg).
				WithStorage(storage.VoidShard()).
				WithRegistry(storage.VoidEventRegistry()).
				Execute()
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBayes(t *testing.T) {
	dir := t.TempDir()
	write := func(sub, name, content string) {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, sub, name), []byte(content), 0644))
	}
	write("regular", "1.txt", "meeting agenda attached please review")
	write("regular", "2.txt", "project meeting moved tomorrow")
	write("spam", "1.txt", "claim your prize money today")
	write("spam", "2.txt", "winner claim money")

	e, err := Bayes(config.Bayes{Train: dir, Epsilon: 1})
	require.NoError(t, err)
	assert.Equal(t, bayes.Counter{Regular: 2}, e.Regular)
	assert.Equal(t, bayes.Counter{Spam: 2}, e.Spam)
	assert.Equal(t, 0.0, e.FAR)
	assert.Equal(t, 0.0, e.FRR)

	_, err = Bayes(config.Bayes{Train: dir, Test: filepath.Join(dir, "regular")})
	assert.ErrorIs(t, err, bayes.LayoutErr)
}
