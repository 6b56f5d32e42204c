package ml

import (
	"fmt"
	"math/rand"
	"time"

	clmath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/rs/zerolog/log"
)

const KohonenName = "kohonen"

// KohonenConfig defines the parameters of the self organising map.
type KohonenConfig struct {
	N            int     `json:"n" yaml:"n"`
	Epochs       int     `json:"epochs" yaml:"epochs"`
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate"`
	Seed         int64   `json:"seed" yaml:"seed"`
}

// Validate checks the config against the training set.
func (cfg KohonenConfig) Validate(train *model.Dataset) error {
	if train == nil || train.Len() == 0 {
		return fmt.Errorf("no training data: %w", model.ConfigurationErr)
	}
	if cfg.N < 1 || cfg.N*cfg.N > train.Len() {
		return fmt.Errorf("grid of %dx%d for %d vectors: %w", cfg.N, cfg.N, train.Len(), model.ConfigurationErr)
	}
	if cfg.Epochs < 1 {
		return fmt.Errorf("epochs must be positive but was %d: %w", cfg.Epochs, model.ConfigurationErr)
	}
	if cfg.LearningRate < 0 || cfg.LearningRate > 1 {
		return fmt.Errorf("learning rate must be within (0, 1] but was %v: %w", cfg.LearningRate, model.ConfigurationErr)
	}
	return nil
}

// Kohonen is a self organising map of n x n clusters.
type Kohonen struct {
	engine
	n            int
	epochs       int
	learningRate float64
	grid         [][]*model.Cluster
}

// NewKohonen creates a new map with randomly initialised prototypes.
// A zero learning rate picks DefaultLearningRate and a zero seed a time based one.
func NewKohonen(train *model.Dataset, cfg KohonenConfig) (*Kohonen, error) {
	if err := cfg.Validate(train); err != nil {
		return nil, fmt.Errorf("could not create kohonen map: %w", err)
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = DefaultLearningRate
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(cfg.Seed))
	grid := make([][]*model.Cluster, cfg.N)
	for row := range grid {
		grid[row] = make([]*model.Cluster, cfg.N)
		for col := range grid[row] {
			c := model.NewCluster(train.Dim())
			for d := range c.Prototype {
				c.Prototype[d] = rnd.Float64()
			}
			grid[row][col] = c
		}
	}
	return &Kohonen{
		engine:       newEngine(KohonenName, train),
		n:            cfg.N,
		epochs:       cfg.Epochs,
		learningRate: cfg.LearningRate,
		grid:         grid,
	}, nil
}

// WithObserver sets the observer for the training events.
func (k *Kohonen) WithObserver(observer Observer) *Kohonen {
	k.observer = observer
	return k
}

// Schedule returns the neighbourhood size and learning rate for the given epoch.
// Both decay linearly with the epochs.
func (k *Kohonen) Schedule(epoch int) (float64, float64) {
	decay := 1 - float64(epoch)/float64(k.epochs)
	return float64(k.n/2) * decay, k.learningRate * decay
}

// Train presents the training set to the map for the configured number of epochs.
// Members are assigned to their best matching unit in the last epoch.
func (k *Kohonen) Train() (bool, error) {
	for _, row := range k.grid {
		for _, c := range row {
			c.Current.Clear()
		}
	}

	progress := k.epochs / 20
	if progress < 1 {
		progress = 1
	}

	for epoch := 0; epoch < k.epochs; epoch++ {
		squareSize, learningRate := k.Schedule(epoch)
		radius := int(squareSize)
		last := epoch == k.epochs-1
		for i := 0; i < k.train.Len(); i++ {
			x := k.train.At(i)
			row, col := k.bmu(x)
			k.update(row, col, radius, learningRate, x)
			if last {
				k.grid[row][col].Current.Add(i)
			}
		}
		k.observer.Iteration(k.name)
		if epoch%progress == 0 || last {
			log.Debug().
				Str("engine", k.name).
				Int("epoch", epoch+1).
				Int("epochs", k.epochs).
				Float64("square-size", squareSize).
				Float64("learning-rate", learningRate).
				Msg("training progress")
		}
	}
	k.trained = true
	log.Info().
		Str("engine", k.name).
		Int("n", k.n).
		Int("epochs", k.epochs).
		Msg("trained")
	return true, nil
}

// bmu finds the best matching unit for x, scanning the grid row by row.
func (k *Kohonen) bmu(x model.Vector) (int, int) {
	i := nearest(x, func(i int) model.Vector {
		return k.grid[i/k.n][i%k.n].Prototype
	}, k.n*k.n)
	return i / k.n, i % k.n
}

// update moves all prototypes within the radius around the given cell towards x.
func (k *Kohonen) update(row, col, radius int, learningRate float64, x model.Vector) {
	fromRow, toRow := k.clamp(row-radius), k.clamp(row+radius)
	fromCol, toCol := k.clamp(col-radius), k.clamp(col+radius)
	for r := fromRow; r <= toRow; r++ {
		for c := fromCol; c <= toCol; c++ {
			clmath.Blend(k.grid[r][c].Prototype, x, learningRate)
		}
	}
}

func (k *Kohonen) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= k.n {
		return k.n - 1
	}
	return i
}

// Test evaluates the prototypes against the test set.
func (k *Kohonen) Test(test *model.Dataset) (model.Score, error) {
	return k.test(test, k.cells())
}

// Clusters returns snapshots of the map cells in row-major order.
func (k *Kohonen) Clusters() []model.Snapshot {
	ss := make([]model.Snapshot, 0, k.n*k.n)
	for row := range k.grid {
		for col, c := range k.grid[row] {
			ss = append(ss, snapshot(k.train, model.Position{
				Index: row*k.n + col,
				Row:   row,
				Col:   col,
			}, c))
		}
	}
	return ss
}

func (k *Kohonen) cells() []*model.Cluster {
	cc := make([]*model.Cluster, 0, k.n*k.n)
	for _, row := range k.grid {
		cc = append(cc, row...)
	}
	return cc
}
