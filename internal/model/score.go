package model

import "math"

// Score is the outcome of a prefetch evaluation.
type Score struct {
	Threshold  float64 `json:"threshold"`
	Prefetches int     `json:"prefetches"`
	Hits       int     `json:"hits"`
	Requests   int     `json:"requests"`
	Hitrate    float64 `json:"hitrate"`
	Accuracy   float64 `json:"accuracy"`
	// Unassigned counts the indices that could not be matched to any cluster.
	Unassigned int `json:"unassigned"`
	// Degenerate lists the ratios that fell back to NaN.
	Degenerate []string `json:"degenerate,omitempty"`
}

// Sum returns hitrate + accuracy, ignoring undefined ratios.
func (s Score) Sum() float64 {
	sum := 0.0
	if !math.IsNaN(s.Hitrate) {
		sum += s.Hitrate
	}
	if !math.IsNaN(s.Accuracy) {
		sum += s.Accuracy
	}
	return sum
}
