package storage

import "fmt"

// MockShard returns the same mock storage for every shard.
func MockShard(storage *MockStorage) Shard {
	return func(shard string) (Persistence, error) {
		return storage, nil
	}
}

// MockStorage keeps the stored values in memory as they are.
type MockStorage struct {
	Elements map[Key]interface{}
}

func NewMockStorage() *MockStorage {
	return &MockStorage{Elements: make(map[Key]interface{})}
}

func (m *MockStorage) Store(k Key, value interface{}) error {
	m.Elements[k] = value
	return nil
}

func (m *MockStorage) Load(k Key, value interface{}) error {
	if _, ok := m.Elements[k]; !ok {
		return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
	}
	return nil
}

// MockEventRegistry returns the same mock registry for every path.
func MockEventRegistry(registry *MockRegistry) EventRegistry {
	return func(path string) (Registry, error) {
		return registry, nil
	}
}

// MockRegistry keeps the events in memory as they are.
type MockRegistry struct {
	Events map[K][]interface{}
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		Events: make(map[K][]interface{}),
	}
}

func (m *MockRegistry) Root() string {
	return ""
}

func (m *MockRegistry) Add(key K, value interface{}) error {
	if _, ok := m.Events[key]; !ok {
		m.Events[key] = make([]interface{}, 0)
	}
	m.Events[key] = append(m.Events[key], value)
	return nil
}

func (m *MockRegistry) GetAll(key K, values interface{}) error {
	return nil
}
