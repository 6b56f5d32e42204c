package storage

import (
	"errors"
	"fmt"
)

const (
	ReportDir   = "reports"
	RegistryDir = "registry"
)

var (
	// DefaultDir is the root of the file storage.
	DefaultDir = "file-storage"
)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

// EventRegistry creates a new registry for the given path.
type EventRegistry func(path string) (Registry, error)

// Key is the storage key for a general implementation
type Key struct {
	Run       string `json:"run"`
	Algorithm string `json:"algorithm"`
	Label     string `json:"label"`
}

// K is a simplified key for storage
type K struct {
	Algorithm string `json:"algorithm"`
	Label     string `json:"label"`
}

func (k Key) Path() string {
	return fmt.Sprintf("%s_%s_%s", k.Algorithm, k.Run, k.Label)
}

// Persistence stores and loads values for a key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}

// Registry is an append-only log of events.
type Registry interface {
	Root() string
	Add(key K, value interface{}) error
	GetAll(key K, values interface{}) error
}
