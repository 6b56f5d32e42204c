package analysis

import (
	"fmt"

	"github.com/drakos74/free-cluster/infra/config"
	"github.com/drakos74/free-cluster/internal/math/ml/bayes"
	"github.com/rs/zerolog/log"
)

// Bayes trains the spam classifier on the training directory and evaluates it on the test directory.
// Without a test directory the classifier is evaluated on its own training messages.
func Bayes(cfg config.Bayes) (bayes.Evaluation, error) {
	train, err := bayes.LoadDir(cfg.Train)
	if err != nil {
		return bayes.Evaluation{}, fmt.Errorf("could not load training messages: %w", err)
	}
	test := train
	if cfg.Test != "" {
		test, err = bayes.LoadDir(cfg.Test)
		if err != nil {
			return bayes.Evaluation{}, fmt.Errorf("could not load test messages: %w", err)
		}
	} else {
		log.Warn().Str("train", cfg.Train).Msg("evaluating on training messages")
	}

	classifier := bayes.NewClassifier()
	if cfg.Epsilon > 0 {
		classifier.WithEpsilon(cfg.Epsilon)
	}
	if err := classifier.Train(train.Regular, train.Spam); err != nil {
		return bayes.Evaluation{}, fmt.Errorf("could not train classifier: %w", err)
	}
	return classifier.Evaluate(test.Regular, test.Spam), nil
}
