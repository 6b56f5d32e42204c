package model

import "fmt"

// Cluster is the bookkeeping unit of the clustering algorithms.
// Previous is only used by algorithms that need to detect membership stability.
type Cluster struct {
	Prototype Vector
	Current   Members
	Previous  Members
}

// NewCluster creates an empty cluster with an all-zero prototype.
func NewCluster(dim int) *Cluster {
	return &Cluster{
		Prototype: Zero(dim),
		Current:   NewMembers(),
		Previous:  NewMembers(),
	}
}

// Stable checks if the membership did not change since the previous iteration.
func (c *Cluster) Stable() bool {
	return c.Current.Equal(c.Previous)
}

// Rotate moves the current members to the previous ones and starts over.
func (c *Cluster) Rotate() {
	c.Previous = c.Current.Copy()
	c.Current.Clear()
}

// Position identifies a cluster, either by index or by grid coordinates.
type Position struct {
	Index int `json:"index"`
	Row   int `json:"row"`
	Col   int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("[%d][%d]", p.Row, p.Col)
}

// Quantization summarises the distances of the members to their prototype.
type Quantization struct {
	Mean  float64 `json:"mean"`
	StDev float64 `json:"stdev"`
	Max   float64 `json:"max"`
}

// Snapshot is a read-only copy of a cluster for reporting.
type Snapshot struct {
	Position     Position     `json:"position"`
	Prototype    []float64    `json:"prototype"`
	Members      []int        `json:"members"`
	Quantization Quantization `json:"quantization"`
}
