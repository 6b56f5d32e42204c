package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Path(t *testing.T) {
	k := Key{
		Run:       "1234",
		Algorithm: "kmeans",
		Label:     "report",
	}
	assert.Equal(t, "kmeans_1234_report", k.Path())
}

func TestVoidStorage(t *testing.T) {
	s, err := VoidShard()("any")
	assert.NoError(t, err)
	assert.NoError(t, s.Store(Key{}, 1))
	var v int
	assert.ErrorIs(t, s.Load(Key{}, &v), NotFoundErr)
}

func TestMockStorage(t *testing.T) {
	m := NewMockStorage()
	s, err := MockShard(m)("any")
	assert.NoError(t, err)

	k := Key{Run: "1", Label: "l"}
	assert.ErrorIs(t, s.Load(k, nil), NotFoundErr)
	assert.NoError(t, s.Store(k, "value"))
	assert.NoError(t, s.Load(k, nil))
	assert.Equal(t, "value", m.Elements[k])

	r := NewMockRegistry()
	registry, err := MockEventRegistry(r)("")
	assert.NoError(t, err)
	assert.NoError(t, registry.Add(K{Algorithm: "a"}, 1))
	assert.NoError(t, registry.Add(K{Algorithm: "a"}, 2))
	assert.Equal(t, []interface{}{1, 2}, r.Events[K{Algorithm: "a"}])
}
