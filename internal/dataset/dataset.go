package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/drakos74/free-cluster/internal/model"
	"github.com/drakos74/free-cluster/internal/storage"
	"github.com/drakos74/free-cluster/internal/storage/file/json"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
)

const (
	CSV  = ".csv"
	JSON = ".json"
)

// Load reads the dataset at the given path, picking the format by the file extension.
func Load(path string) (*model.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not find dataset '%s': %v: %w", path, err, storage.NotFoundErr)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("empty dataset file '%s': %w", path, storage.CouldNotLoadErr)
	}

	var rows [][]float64
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case CSV:
		rows, err = loadCSV(path)
	case JSON:
		rows, err = loadJSON(path)
	default:
		return nil, fmt.Errorf("unknown dataset format '%s': %w", ext, storage.CouldNotLoadErr)
	}
	if err != nil {
		return nil, err
	}

	ds, err := model.FromFloats(rows)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset '%s': %v: %w", path, err, storage.CouldNotLoadErr)
	}
	log.Info().
		Str("path", path).
		Int("size", ds.Len()).
		Int("dim", ds.Dim()).
		Msg("loaded dataset")
	return ds, nil
}

// LoadPair loads the training and test datasets and checks that they are index aligned.
func LoadPair(train, test string) (*model.Dataset, *model.Dataset, error) {
	trainSet, err := Load(train)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load training set: %w", err)
	}
	testSet, err := Load(test)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load test set: %w", err)
	}
	if err := trainSet.Aligned(testSet); err != nil {
		return nil, nil, fmt.Errorf("could not pair '%s' with '%s': %w", train, test, err)
	}
	return trainSet, testSet, nil
}

// loadCSV reads a header-less csv file of numeric columns.
func loadCSV(path string) ([][]float64, error) {
	instances, err := base.ParseCSVToInstances(path, false)
	if err != nil {
		return nil, fmt.Errorf("could not parse csv '%s': %v: %w", path, err, storage.CouldNotLoadErr)
	}

	attributes := instances.AllAttributes()
	for _, a := range attributes {
		if _, ok := a.(*base.FloatAttribute); !ok {
			return nil, fmt.Errorf("non-numeric column '%s' in '%s': %w", a.GetName(), path, storage.CouldNotLoadErr)
		}
	}
	specs := base.ResolveAttributes(instances, attributes)

	_, size := instances.Size()
	rows := make([][]float64, size)
	for i := range rows {
		row := make([]float64, len(specs))
		for j, spec := range specs {
			row[j] = base.UnpackBytesToFloat(instances.Get(spec, i))
		}
		rows[i] = row
	}
	return rows, nil
}

// loadJSON reads a json array of numeric arrays.
func loadJSON(path string) ([][]float64, error) {
	var rows [][]float64
	if err := json.Load(filepath.Dir(path), filepath.Base(path), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
