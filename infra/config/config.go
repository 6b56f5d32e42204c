package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	DefaultK      = 8
	DefaultN      = 4
	DefaultEpochs = 100
)

// Output configures the reporting of a run.
type Output struct {
	Dir            string `json:"dir" yaml:"dir"`
	MetricsFile    string `json:"metrics_file" yaml:"metrics_file"`
	ShowMembers    bool   `json:"show_members" yaml:"show_members"`
	ShowPrototypes bool   `json:"show_prototypes" yaml:"show_prototypes"`
}

// Bayes configures the spam classifier.
type Bayes struct {
	Train   string  `json:"train" yaml:"train"`
	Test    string  `json:"test" yaml:"test"`
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
}

// Config is the configuration of a clustering run.
type Config struct {
	Algorithm         string           `json:"algorithm" yaml:"algorithm"`
	Train             string           `json:"train" yaml:"train"`
	Test              string           `json:"test" yaml:"test"`
	Seed              int64            `json:"seed" yaml:"seed"`
	KMeans            ml.KMeansConfig  `json:"kmeans" yaml:"kmeans"`
	Kohonen           ml.KohonenConfig `json:"kohonen" yaml:"kohonen"`
	PrefetchThreshold float64          `json:"prefetch_threshold" yaml:"prefetch_threshold"`
	Sweep             bool             `json:"sweep" yaml:"sweep"`
	Output            Output           `json:"output" yaml:"output"`
	Bayes             Bayes            `json:"bayes" yaml:"bayes"`
	LogLevel          string           `json:"log_level" yaml:"log_level"`
}

// Default returns a config with all defaults applied.
func Default() Config {
	var cfg Config
	cfg.Defaults()
	return cfg
}

// Defaults fills in the zero values.
func (cfg *Config) Defaults() {
	if cfg.Algorithm == "" {
		cfg.Algorithm = ml.KMeansName
	}
	if cfg.KMeans.K == 0 {
		cfg.KMeans.K = DefaultK
	}
	if cfg.KMeans.MaxIterations == 0 {
		cfg.KMeans.MaxIterations = ml.DefaultMaxIterations
	}
	if cfg.Kohonen.N == 0 {
		cfg.Kohonen.N = DefaultN
	}
	if cfg.Kohonen.Epochs == 0 {
		cfg.Kohonen.Epochs = DefaultEpochs
	}
	if cfg.Kohonen.LearningRate == 0 {
		cfg.Kohonen.LearningRate = ml.DefaultLearningRate
	}
	if cfg.PrefetchThreshold == 0 {
		cfg.PrefetchThreshold = ml.DefaultPrefetchThreshold
	}
	if cfg.Bayes.Epsilon == 0 {
		cfg.Bayes.Epsilon = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = zerolog.InfoLevel.String()
	}
	if cfg.KMeans.Seed == 0 {
		cfg.KMeans.Seed = cfg.Seed
	}
	if cfg.Kohonen.Seed == 0 {
		cfg.Kohonen.Seed = cfg.Seed
	}
}

// Validate checks the config values that do not depend on the data.
func (cfg Config) Validate() error {
	switch cfg.Algorithm {
	case ml.KMeansName, ml.KohonenName, ml.ReferenceName:
	default:
		return fmt.Errorf("unknown algorithm '%s': %w", cfg.Algorithm, model.ConfigurationErr)
	}
	if cfg.Train == "" || cfg.Test == "" {
		return fmt.Errorf("train and test datasets are required: %w", model.ConfigurationErr)
	}
	if cfg.KMeans.K < 1 {
		return fmt.Errorf("k must be positive but was %d: %w", cfg.KMeans.K, model.ConfigurationErr)
	}
	if cfg.Kohonen.N < 1 || cfg.Kohonen.Epochs < 1 {
		return fmt.Errorf("kohonen grid and epochs must be positive [ %d | %d ]: %w", cfg.Kohonen.N, cfg.Kohonen.Epochs, model.ConfigurationErr)
	}
	if cfg.Kohonen.LearningRate <= 0 || cfg.Kohonen.LearningRate > 1 {
		return fmt.Errorf("learning rate must be within (0, 1] but was %v: %w", cfg.Kohonen.LearningRate, model.ConfigurationErr)
	}
	if cfg.PrefetchThreshold < 0 {
		return fmt.Errorf("negative prefetch threshold %v: %w", cfg.PrefetchThreshold, model.ConfigurationErr)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level '%s': %v: %w", cfg.LogLevel, err, model.ConfigurationErr)
	}
	return nil
}

// Level returns the zerolog level of the config.
func (cfg Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Load loads the config from a json or yaml file and applies the defaults.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not load config '%s': %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unknown config format '%s': %w", ext, model.ConfigurationErr)
	}
	if err != nil {
		return cfg, fmt.Errorf("could not decode config '%s': %v: %w", path, err, model.ConfigurationErr)
	}

	cfg.Defaults()
	log.Info().Str("path", path).Str("algorithm", cfg.Algorithm).Msg("loaded config")
	return cfg, nil
}

// MustLoad loads the config and panics if it cannot be read.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("could not load config for %s: %s", path, err.Error()))
	}
	return cfg
}
