package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {

	type test struct {
		path   string
		config func() Config
	}

	tests := map[string]test{
		"yaml": {
			path: "testdata/kohonen.yaml",
			config: func() Config {
				cfg := Default()
				cfg.Algorithm = ml.KohonenName
				cfg.Train = "data/train.csv"
				cfg.Test = "data/test.csv"
				cfg.Seed = 42
				cfg.KMeans.Seed = 42
				cfg.Kohonen = ml.KohonenConfig{
					N:            6,
					Epochs:       250,
					LearningRate: ml.DefaultLearningRate,
					Seed:         42,
				}
				cfg.PrefetchThreshold = 0.4
				cfg.Sweep = true
				cfg.Output = Output{
					Dir:         "out",
					MetricsFile: "out/metrics.prom",
					ShowMembers: true,
				}
				cfg.LogLevel = "debug"
				return cfg
			},
		},
		"json": {
			path: "testdata/kmeans.json",
			config: func() Config {
				cfg := Default()
				cfg.Train = "data/train.json"
				cfg.Test = "data/test.json"
				cfg.Seed = 3
				cfg.KMeans = ml.KMeansConfig{
					K:             12,
					MaxIterations: ml.DefaultMaxIterations,
					Seed:          7,
				}
				cfg.Kohonen.Seed = 3
				return cfg
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.config(), cfg)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	p := filepath.Join(dir, "config.toml")
	require.NoError(t, ioutil.WriteFile(p, []byte("k = 1"), 0644))
	_, err = Load(p)
	assert.ErrorIs(t, err, model.ConfigurationErr)

	p = filepath.Join(dir, "config.yaml")
	require.NoError(t, ioutil.WriteFile(p, []byte("kmeans: [1, 2"), 0644))
	_, err = Load(p)
	assert.ErrorIs(t, err, model.ConfigurationErr)

	assert.Panics(t, func() {
		MustLoad(filepath.Join(dir, "missing.json"))
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ml.KMeansName, cfg.Algorithm)
	assert.Equal(t, DefaultK, cfg.KMeans.K)
	assert.Equal(t, ml.DefaultMaxIterations, cfg.KMeans.MaxIterations)
	assert.Equal(t, DefaultN, cfg.Kohonen.N)
	assert.Equal(t, DefaultEpochs, cfg.Kohonen.Epochs)
	assert.Equal(t, ml.DefaultLearningRate, cfg.Kohonen.LearningRate)
	assert.Equal(t, ml.DefaultPrefetchThreshold, cfg.PrefetchThreshold)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())

	// train and test sets are missing
	assert.ErrorIs(t, cfg.Validate(), model.ConfigurationErr)
}

func TestConfig_Validate(t *testing.T) {

	type test struct {
		update func(cfg *Config)
		err    bool
	}

	tests := map[string]test{
		"valid": {
			update: func(cfg *Config) {},
		},
		"reference": {
			update: func(cfg *Config) {
				cfg.Algorithm = ml.ReferenceName
			},
		},
		"unknown-algorithm": {
			update: func(cfg *Config) {
				cfg.Algorithm = "dbscan"
			},
			err: true,
		},
		"missing-test": {
			update: func(cfg *Config) {
				cfg.Test = ""
			},
			err: true,
		},
		"negative-k": {
			update: func(cfg *Config) {
				cfg.KMeans.K = -1
			},
			err: true,
		},
		"negative-epochs": {
			update: func(cfg *Config) {
				cfg.Kohonen.Epochs = -1
			},
			err: true,
		},
		"learning-rate": {
			update: func(cfg *Config) {
				cfg.Kohonen.LearningRate = 1.2
			},
			err: true,
		},
		"threshold": {
			update: func(cfg *Config) {
				cfg.PrefetchThreshold = -0.1
			},
			err: true,
		},
		"log-level": {
			update: func(cfg *Config) {
				cfg.LogLevel = "loud"
			},
			err: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Train = "train.csv"
			cfg.Test = "test.csv"
			tt.update(&cfg)
			err := cfg.Validate()
			if tt.err {
				assert.ErrorIs(t, err, model.ConfigurationErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
