package json

import (
	"fmt"
	"path/filepath"

	"github.com/drakos74/free-cluster/internal/storage"
	"github.com/rs/zerolog/log"
)

// BlobStorage stores every key as a json file under <path>/<table>/<shard>.
type BlobStorage struct {
	path  string
	table string
	shard string
	debug bool
}

// BlobShard creates blob storages for the given table under the given root path.
func BlobShard(root, table string) storage.Shard {
	return func(shard string) (storage.Persistence, error) {
		return NewJsonBlob(table, shard, false).WithPath(root), nil
	}
}

func (s BlobStorage) Store(k storage.Key, value interface{}) error {
	p := filepath.Join(s.path, s.table, s.shard)
	err := Save(p, fileName(k), value)
	if err == nil && s.debug {
		log.Info().Str("path", p).Str("file", fileName(k)).Msg("stored json file")
	}
	return err
}

func (s BlobStorage) Load(k storage.Key, value interface{}) error {
	return Load(filepath.Join(s.path, s.table, s.shard), fileName(k), value)
}

// NewJsonBlob creates a new blob storage under the default directory.
// table has the same schema
// shard is a logical split
func NewJsonBlob(table, shard string, debug bool) *BlobStorage {
	return &BlobStorage{
		table: table,
		shard: shard,
		path:  storage.DefaultDir,
		debug: debug,
	}
}

// WithPath sets the root path of the storage.
func (s *BlobStorage) WithPath(path string) *BlobStorage {
	if path != "" {
		s.path = path
	}
	return s
}

func fileName(k storage.Key) string {
	return fmt.Sprintf("%s.json", k.Path())
}
