package dataset

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/storage"
	"github.com/drakos74/free-cluster/internal/storage/file/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, ioutil.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoad(t *testing.T) {

	type test struct {
		name    string
		content string
		rows    [][]float64
		err     error
	}

	tests := map[string]test{
		"csv": {
			name:    "train.csv",
			content: "1,0,0.5\n0,1,0.25\n1,1,0\n",
			rows: [][]float64{
				{1, 0, 0.5},
				{0, 1, 0.25},
				{1, 1, 0},
			},
		},
		"csv-non-numeric": {
			name:    "train.csv",
			content: "1,a,0\n0,b,1\n",
			err:     storage.CouldNotLoadErr,
		},
		"json": {
			name:    "train.json",
			content: "[[1, 0], [0.5, 1]]",
			rows: [][]float64{
				{1, 0},
				{0.5, 1},
			},
		},
		"json-ragged": {
			name:    "train.json",
			content: "[[1, 0], [0.5]]",
			err:     storage.CouldNotLoadErr,
		},
		"json-empty-array": {
			name:    "train.json",
			content: "[]",
			err:     storage.CouldNotLoadErr,
		},
		"json-invalid": {
			name:    "train.json",
			content: "[[1, \"a\"]]",
			err:     storage.CouldNotLoadErr,
		},
		"empty-file": {
			name: "train.csv",
			err:  storage.CouldNotLoadErr,
		},
		"unknown-format": {
			name:    "train.txt",
			content: "1 0",
			err:     storage.CouldNotLoadErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ds, err := Load(write(t, tt.name, tt.content))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, ds.Rows())
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, storage.NotFoundErr)
}

func TestLoad_RoundTrip(t *testing.T) {
	ds := model.MustDataset(
		model.Vector{1, 0, 0.125},
		model.Vector{0, 1, 0.5},
	)
	dir := t.TempDir()
	require.NoError(t, json.Save(dir, "data.json", ds.Rows()))

	loaded, err := Load(filepath.Join(dir, "data.json"))
	require.NoError(t, err)
	assert.Equal(t, ds.Rows(), loaded.Rows())
}

func TestLoadPair(t *testing.T) {
	train := write(t, "train.json", "[[1, 0], [0, 1]]")
	test := write(t, "test.csv", "1,1\n0,0\n")

	trainSet, testSet, err := LoadPair(train, test)
	require.NoError(t, err)
	assert.Equal(t, 2, trainSet.Len())
	assert.Equal(t, 2, testSet.Len())

	_, _, err = LoadPair(train, write(t, "short.json", "[[1, 0]]"))
	assert.ErrorIs(t, err, model.DataAlignmentErr)

	_, _, err = LoadPair(train, write(t, "wide.json", "[[1, 0, 1], [0, 1, 1]]"))
	assert.ErrorIs(t, err, model.DataAlignmentErr)

	_, _, err = LoadPair(filepath.Join(t.TempDir(), "missing.json"), test)
	assert.ErrorIs(t, err, storage.NotFoundErr)
}
