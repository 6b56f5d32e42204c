package json

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/drakos74/free-cluster/internal/storage"
)

const (
	filename = "%d.events.log"
)

// Logger appends json lines to a log file per key.
type Logger struct {
	root string
	path string
}

func NewLogger(root, folder string) *Logger {
	if root == "" {
		root = storage.DefaultDir
	}
	return &Logger{root: root, path: folder}
}

func (l *Logger) filePath(k storage.K) string {
	return path.Join(l.root, storage.RegistryDir, l.path, k.Algorithm, k.Label)
}

func (l *Logger) Store(k storage.K, hash int64, value interface{}) error {

	filePath := l.filePath(k)

	// check if filepath exists
	info, err := os.Stat(filePath)
	if err != nil {
		err := os.MkdirAll(filePath, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode value '%+v': %w", value, err)
	}
	f, err := os.OpenFile(path.Join(filePath, fmt.Sprintf(filename, hash)), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}

	defer f.Close()

	if _, err = f.Write(append(b, []byte("\n")...)); err != nil {
		return fmt.Errorf("could not write log file for  '%+v': %w", k, err)
	}
	return nil
}

// Lines returns the non-empty lines of the log file for the given key and hash.
func (l *Logger) Lines(k storage.K, hash int64) ([]string, error) {
	fileName := path.Join(l.filePath(k), fmt.Sprintf(filename, hash))
	b, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not read file '%s': %v: %w", fileName, err, storage.NotFoundErr)
	}
	lines := make([]string, 0)
	for _, s := range strings.Split(string(b), "\n") {
		if s == "" {
			continue
		}
		lines = append(lines, s)
	}
	return lines, nil
}

// Registry is an append only event log backed by json lines files.
type Registry struct {
	hash   int64
	logger *Logger
	root   string
}

func NewEventRegistry(root, path string) *Registry {
	return &Registry{
		hash:   time.Now().Unix(),
		logger: NewLogger(root, path),
		root:   path,
	}
}

// EventRegistry creates a new registry generator
func EventRegistry(root, parent string) storage.EventRegistry {
	return func(p string) (storage.Registry, error) {
		if p == "" {
			return NewEventRegistry(root, parent), nil
		}
		return NewEventRegistry(root, path.Join(parent, p)), nil
	}
}

func (e *Registry) WithHash(h int64) *Registry {
	e.hash = h
	return e
}

func (e *Registry) Root() string {
	return e.root
}

func (e *Registry) Add(key storage.K, value interface{}) error {
	return e.logger.Store(key, e.hash, value)
}

// GetAll appends the events of all log files for the key to the given slice pointer.
func (e *Registry) GetAll(key storage.K, values interface{}) error {

	vv := reflect.ValueOf(values)
	if vv.Kind() != reflect.Ptr || vv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("only accepting slice pointers as placeholder for the results")
	}
	t := vv.Elem().Type().Elem()
	elemSlice := vv.Elem()

	filePath := e.logger.filePath(key)
	err := filepath.Walk(filePath, func(path string, info os.FileInfo, err error) error {
		if info == nil || info.IsDir() {
			return nil
		}
		h, err := strconv.ParseInt(strings.Split(info.Name(), ".")[0], 10, 64)
		if err != nil {
			return fmt.Errorf("non-numeric path '%s' found for hash: %w", path, err)
		}
		lines, err := e.logger.Lines(key, h)
		if err != nil {
			return fmt.Errorf("could not load key '%+v': %w", key, err)
		}
		for _, s := range lines {
			instance := reflect.New(t)
			err = json.Unmarshal([]byte(s), instance.Interface())
			if err != nil {
				return fmt.Errorf("could not decode event value '%+v': %w", s, err)
			}
			elemSlice = reflect.Append(elemSlice, instance.Elem())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not get events: %w", err)
	}

	vv.Elem().Set(elemSlice)
	return nil
}
