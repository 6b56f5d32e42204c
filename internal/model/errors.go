package model

import "errors"

var (
	// ConfigurationErr is returned for invalid algorithm parameters or datasets,
	// before any cluster state is created.
	ConfigurationErr = errors.New("invalid configuration")
	// DataAlignmentErr is returned when the train and test datasets do not correspond to each other.
	DataAlignmentErr = errors.New("data alignment")
	// DegenerateMetricErr marks a computation that fell back to a sentinel value.
	// It is never fatal.
	DegenerateMetricErr = errors.New("degenerate metric")
)
