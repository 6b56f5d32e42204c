package ml

import (
	"testing"

	"github.com/drakos74/free-cluster/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReference_Scenario(t *testing.T) {
	train := scenario(t)

	reference, err := NewReference(train, KMeansConfig{K: 2})
	require.NoError(t, err)
	converged, err := reference.Train()
	require.NoError(t, err)
	assert.True(t, converged)

	kmeans, err := NewKMeans(train, KMeansConfig{K: 2, Seed: 5})
	require.NoError(t, err)
	_, err = kmeans.Train()
	require.NoError(t, err)

	assert.ElementsMatch(t, members(kmeans.Clusters()), members(reference.Clusters()))
	for _, s := range reference.Clusters() {
		switch s.Members[0] {
		case 0:
			assert.InDeltaSlice(t, []float64{0, 0.5}, s.Prototype, 1e-9)
		case 2:
			assert.InDeltaSlice(t, []float64{5, 5.5}, s.Prototype, 1e-9)
		default:
			t.Fatalf("unexpected cluster %v", s.Members)
		}
	}
}

func TestReference_Observer(t *testing.T) {
	observer := newCountingObserver()
	reference, err := NewReference(scenario(t), KMeansConfig{K: 2})
	require.NoError(t, err)
	reference.WithObserver(observer)

	_, err = reference.Train()
	require.NoError(t, err)
	assert.Equal(t, 1, observer.iterations)
	assert.Equal(t, 0, observer.degenerate["empty-cluster"])
}

func TestReference_Config(t *testing.T) {
	train := scenario(t)

	_, err := NewReference(train, KMeansConfig{K: 0})
	assert.ErrorIs(t, err, model.ConfigurationErr)

	_, err = NewReference(train, KMeansConfig{K: 5})
	assert.ErrorIs(t, err, model.ConfigurationErr)
}
