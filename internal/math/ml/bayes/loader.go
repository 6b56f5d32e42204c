package bayes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// LayoutErr is returned when the message directory does not have the expected structure.
var LayoutErr = errors.New("invalid message directory")

// Corpus holds the labelled messages of a directory.
type Corpus struct {
	Regular []string
	Spam    []string
}

// LoadDir reads the messages of a directory with exactly two sub-directories.
// In lexical order, the first one holds the regular messages and the second one the spam.
func LoadDir(dir string) (Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Corpus{}, fmt.Errorf("could not read directory '%s': %w", dir, err)
	}
	if len(entries) != 2 || !entries[0].IsDir() || !entries[1].IsDir() {
		return Corpus{}, fmt.Errorf("'%s' must contain exactly two sub-directories: %w", dir, LayoutErr)
	}
	regular, err := readMessages(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		return Corpus{}, err
	}
	spam, err := readMessages(filepath.Join(dir, entries[1].Name()))
	if err != nil {
		return Corpus{}, err
	}
	log.Info().
		Str("dir", dir).
		Str("regular", entries[0].Name()).
		Int("regular-messages", len(regular)).
		Str("spam", entries[1].Name()).
		Int("spam-messages", len(spam)).
		Msg("loaded messages")
	return Corpus{
		Regular: regular,
		Spam:    spam,
	}, nil
}

func readMessages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read messages in '%s': %w", dir, err)
	}
	messages := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("could not read message '%s': %w", e.Name(), err)
		}
		messages = append(messages, string(b))
	}
	return messages, nil
}
