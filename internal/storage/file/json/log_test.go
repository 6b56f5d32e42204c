package json

import (
	"testing"

	"github.com/drakos74/free-cluster/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Event struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Index int    `json:"index"`
}

func newEvent(i int) Event {
	return Event{
		Name:  "test",
		ID:    uuid.New().String(),
		Index: i,
	}
}

func TestEvents_AddAndGetAll(t *testing.T) {

	root := t.TempDir()
	registry := NewEventRegistry(root, "runs").WithHash(1)

	k := storage.K{
		Algorithm: "kmeans",
		Label:     "label",
	}

	events := make([]Event, 0)
	for i := 0; i < 10; i++ {
		ev := newEvent(i)
		events = append(events, ev)
		err := registry.Add(k, ev)
		assert.NoError(t, err)
	}

	// a later run appends to its own file
	later := NewEventRegistry(root, "runs").WithHash(2)
	ev := newEvent(10)
	events = append(events, ev)
	require.NoError(t, later.Add(k, ev))

	loadedEvents := make([]Event, 0)
	err := registry.GetAll(k, &loadedEvents)
	assert.NoError(t, err)

	assert.Equal(t, events, loadedEvents)

	var notASlice Event
	assert.Error(t, registry.GetAll(k, &notASlice))
}

func TestEventRegistry(t *testing.T) {
	root := t.TempDir()
	r, err := EventRegistry(root, "runs")("")
	require.NoError(t, err)
	assert.Equal(t, "runs", r.Root())

	r, err = EventRegistry(root, "runs")("sub")
	require.NoError(t, err)
	assert.Equal(t, "runs/sub", r.Root())
}
