package report

import (
	"fmt"
	"math"
	"time"

	clmath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/storage"
)

const Label = "report"

// ratio maps undefined ratios to nil, as json has no NaN.
func ratio(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

// Score is the json representation of an evaluation.
type Score struct {
	Threshold  float64  `json:"threshold"`
	Prefetches int      `json:"prefetches"`
	Hits       int      `json:"hits"`
	Requests   int      `json:"requests"`
	Hitrate    *float64 `json:"hitrate"`
	Accuracy   *float64 `json:"accuracy"`
	Unassigned int      `json:"unassigned,omitempty"`
	Degenerate []string `json:"degenerate,omitempty"`
}

// NewScore converts the evaluation score, mapping undefined ratios to nil.
func NewScore(s model.Score) Score {
	return Score{
		Threshold:  s.Threshold,
		Prefetches: s.Prefetches,
		Hits:       s.Hits,
		Requests:   s.Requests,
		Hitrate:    ratio(s.Hitrate),
		Accuracy:   ratio(s.Accuracy),
		Unassigned: s.Unassigned,
		Degenerate: s.Degenerate,
	}
}

// Report is the outcome of a clustering run.
type Report struct {
	Run        string           `json:"run"`
	Algorithm  string           `json:"algorithm"`
	Time       time.Time        `json:"time"`
	Converged  bool             `json:"converged"`
	Iterations int              `json:"iterations,omitempty"`
	Train      string           `json:"train"`
	Test       string           `json:"test"`
	Clusters   []model.Snapshot `json:"clusters"`
	Score      Score            `json:"score"`
	Sweep      []Score          `json:"sweep,omitempty"`
}

// New creates a new report for the given run.
func New(run, algorithm string) *Report {
	return &Report{
		Run:       run,
		Algorithm: algorithm,
		Time:      time.Now(),
	}
}

// WithData sets the dataset sources.
func (r *Report) WithData(train, test string) *Report {
	r.Train = train
	r.Test = test
	return r
}

// WithTraining sets the outcome of the training.
func (r *Report) WithTraining(converged bool, iterations int, clusters []model.Snapshot) *Report {
	r.Converged = converged
	r.Iterations = iterations
	r.Clusters = clusters
	return r
}

// WithScore sets the evaluation score.
func (r *Report) WithScore(score model.Score) *Report {
	r.Score = NewScore(score)
	return r
}

// WithSweep sets the scores of the threshold sweep.
func (r *Report) WithSweep(scores []model.Score) *Report {
	r.Sweep = make([]Score, len(scores))
	for i, s := range scores {
		r.Sweep[i] = NewScore(s)
	}
	return r
}

// Key is the storage key of the report.
func (r *Report) Key() storage.Key {
	return storage.Key{
		Run:       r.Run,
		Algorithm: r.Algorithm,
		Label:     Label,
	}
}

// Store persists the report.
func (r *Report) Store(persistence storage.Persistence) error {
	if err := persistence.Store(r.Key(), r); err != nil {
		return fmt.Errorf("could not store report for run '%s': %w", r.Run, err)
	}
	return nil
}

// Summary is the condensed run outcome kept in the run history.
type Summary struct {
	Run       string    `json:"run"`
	Time      time.Time `json:"time"`
	Clusters  int       `json:"clusters"`
	Converged bool      `json:"converged"`
	Threshold float64   `json:"threshold"`
	Hitrate   *float64  `json:"hitrate"`
	Accuracy  *float64  `json:"accuracy"`
}

// Summary condenses the report.
func (r *Report) Summary() Summary {
	return Summary{
		Run:       r.Run,
		Time:      r.Time,
		Clusters:  len(r.Clusters),
		Converged: r.Converged,
		Threshold: r.Score.Threshold,
		Hitrate:   r.Score.Hitrate,
		Accuracy:  r.Score.Accuracy,
	}
}

func format(r *float64) string {
	if r == nil {
		return clmath.Format(math.NaN())
	}
	return clmath.Format(*r)
}
