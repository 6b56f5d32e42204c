package ml

import (
	"fmt"

	clmath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/rs/zerolog/log"
)

// Lookup returns the prototype of the cluster the given training index belongs to.
type Lookup func(index int) (model.Vector, bool)

// Evaluator scores the prefetch decision of cluster prototypes against a test set.
type Evaluator struct {
	threshold float64
}

// NewEvaluator creates a new evaluator with the default prefetch threshold.
func NewEvaluator() *Evaluator {
	return &Evaluator{threshold: DefaultPrefetchThreshold}
}

// SetThreshold sets the prefetch threshold.
func (e *Evaluator) SetThreshold(threshold float64) {
	e.threshold = threshold
}

// Threshold returns the prefetch threshold.
func (e *Evaluator) Threshold() float64 {
	return e.threshold
}

// Score evaluates the first size indices of the test set.
// Each test vector is compared with the prototype of the cluster its training counterpart belongs to.
// An item counts as prefetched if the prototype value is at least the threshold,
// and as requested if the test value equals model.Requested.
func (e *Evaluator) Score(size int, test *model.Dataset, prototype Lookup) model.Score {
	score := model.Score{Threshold: e.threshold}
	for i := 0; i < size; i++ {
		p, ok := prototype(i)
		if !ok {
			score.Unassigned++
			continue
		}
		x := test.At(i)
		for d := range x {
			requested := x[d] == model.Requested
			prefetched := p[d] >= e.threshold
			if prefetched {
				score.Prefetches++
			}
			if requested {
				score.Requests++
			}
			if requested && prefetched {
				score.Hits++
			}
		}
	}

	if score.Unassigned > 0 {
		log.Warn().
			Int("unassigned", score.Unassigned).
			Int("size", size).
			Msg("skipped indices without cluster")
	}

	var ok bool
	if score.Hitrate, ok = clmath.Ratio(score.Hits, score.Requests); !ok {
		score.Degenerate = append(score.Degenerate, "hitrate")
		log.Warn().Err(fmt.Errorf("no requests: %w", model.DegenerateMetricErr)).Msg("undefined hitrate")
	}
	if score.Accuracy, ok = clmath.Ratio(score.Hits, score.Prefetches); !ok {
		score.Degenerate = append(score.Degenerate, "accuracy")
		log.Warn().Err(fmt.Errorf("no prefetches: %w", model.DegenerateMetricErr)).Msg("undefined accuracy")
	}
	return score
}

// Sweep tests the clusterer for each of the given thresholds.
// The threshold of the clusterer is restored afterwards.
func Sweep(c Clusterer, test *model.Dataset, thresholds ...float64) ([]model.Score, error) {
	current := c.PrefetchThreshold()
	defer c.SetPrefetchThreshold(current)

	scores := make([]model.Score, len(thresholds))
	for i, t := range thresholds {
		c.SetPrefetchThreshold(t)
		score, err := c.Test(test)
		if err != nil {
			return nil, fmt.Errorf("could not sweep threshold %v: %w", t, err)
		}
		scores[i] = score
	}
	return scores, nil
}

// SweepThresholds are the default thresholds of a sweep e.g. 0.1, 0.2 ... 1.0
func SweepThresholds() []float64 {
	return clmath.Series(0.1, 0.1, 10)
}
