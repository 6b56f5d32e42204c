package model

import "sort"

// Members is a set of dataset indices.
type Members map[int]struct{}

// NewMembers creates a new set with the given indices.
func NewMembers(ii ...int) Members {
	m := make(Members, len(ii))
	for _, i := range ii {
		m.Add(i)
	}
	return m
}

// Add adds the index to the set.
func (m Members) Add(i int) {
	m[i] = struct{}{}
}

// Has checks if the index is part of the set.
func (m Members) Has(i int) bool {
	_, ok := m[i]
	return ok
}

// Len returns the size of the set.
func (m Members) Len() int {
	return len(m)
}

// Equal checks for set equality.
func (m Members) Equal(other Members) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if !other.Has(i) {
			return false
		}
	}
	return true
}

// Clear removes all indices.
func (m Members) Clear() {
	for i := range m {
		delete(m, i)
	}
}

// Copy returns an independent copy of the set.
func (m Members) Copy() Members {
	c := make(Members, len(m))
	for i := range m {
		c[i] = struct{}{}
	}
	return c
}

// Sorted returns the indices in ascending order.
func (m Members) Sorted() []int {
	ii := make([]int, 0, len(m))
	for i := range m {
		ii = append(ii, i)
	}
	sort.Ints(ii)
	return ii
}
