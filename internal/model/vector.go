package model

import (
	"fmt"

	"github.com/drakos74/go-ex-machina/xmath"
)

// Requested is the feature value marking an item as requested by the user.
const Requested = 1.0

// Vector is a fixed dimension feature vector.
type Vector = xmath.Vector

// Zero creates an all-zero vector of the given dimension.
func Zero(dim int) Vector {
	return xmath.Vec(dim)
}

// Dataset is an ordered and read-only collection of vectors of the same dimension.
type Dataset struct {
	vectors []Vector
	dim     int
}

// NewDataset creates a new dataset out of the given vectors.
// All vectors must have the same positive dimension.
func NewDataset(vectors ...Vector) (*Dataset, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty dataset: %w", ConfigurationErr)
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero dimension vectors: %w", ConfigurationErr)
	}
	vv := make([]Vector, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d instead of %d: %w", i, len(v), dim, ConfigurationErr)
		}
		vv[i] = v.Copy()
	}
	return &Dataset{
		vectors: vv,
		dim:     dim,
	}, nil
}

// MustDataset creates a new dataset and panics if the vectors are not consistent.
func MustDataset(vectors ...Vector) *Dataset {
	ds, err := NewDataset(vectors...)
	if err != nil {
		panic(fmt.Sprintf("could not create dataset: %s", err.Error()))
	}
	return ds
}

// FromFloats creates a new dataset from raw float rows.
func FromFloats(rows [][]float64) (*Dataset, error) {
	vv := make([]Vector, len(rows))
	for i, row := range rows {
		vv[i] = row
	}
	return NewDataset(vv...)
}

// Len returns the number of vectors.
func (ds *Dataset) Len() int {
	return len(ds.vectors)
}

// Dim returns the dimension of the vectors.
func (ds *Dataset) Dim() int {
	return ds.dim
}

// At returns the vector at index i.
// The returned vector must not be modified.
func (ds *Dataset) At(i int) Vector {
	return ds.vectors[i]
}

// Rows exposes the vectors as raw float rows e.g. for third party libraries.
func (ds *Dataset) Rows() [][]float64 {
	rows := make([][]float64, len(ds.vectors))
	for i, v := range ds.vectors {
		rows[i] = v.Copy()
	}
	return rows
}

// Aligned checks that the other dataset is index aligned with this one.
func (ds *Dataset) Aligned(other *Dataset) error {
	if other == nil {
		return fmt.Errorf("missing dataset: %w", DataAlignmentErr)
	}
	if ds.Len() != other.Len() {
		return fmt.Errorf("size mismatch [ %d | %d ]: %w", ds.Len(), other.Len(), DataAlignmentErr)
	}
	if ds.Dim() != other.Dim() {
		return fmt.Errorf("dimension mismatch [ %d | %d ]: %w", ds.Dim(), other.Dim(), DataAlignmentErr)
	}
	return nil
}
