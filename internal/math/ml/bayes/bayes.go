package bayes

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	clmath "github.com/drakos74/free-cluster/internal/math"
	"github.com/rs/zerolog/log"
)

// MinWordLength is the length a normalized word must exceed to be part of the vocabulary.
const MinWordLength = 4

// DefaultEpsilon is the numerator of the probability assigned to unseen word and class combinations.
const DefaultEpsilon = 1.0

// EmptyTrainingErr is returned when one of the classes has no messages or no words.
var EmptyTrainingErr = errors.New("empty training set")

// Class is the label of a message.
type Class int

const (
	Regular Class = iota
	Spam
)

func (c Class) String() string {
	switch c {
	case Regular:
		return "regular"
	case Spam:
		return "spam"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

var nonLetters = regexp.MustCompile("[^a-zA-Z]")

// Normalize strips all non letters and lower-cases the word.
// It returns false if the remaining word is too short to be used.
func Normalize(word string) (string, bool) {
	w := strings.ToLower(nonLetters.ReplaceAllString(word, ""))
	if len(w) <= MinWordLength {
		return "", false
	}
	return w, true
}

// Words splits the message on white space and returns the normalized words.
func Words(message string) []string {
	words := make([]string, 0)
	for _, token := range strings.Fields(message) {
		if w, ok := Normalize(token); ok {
			words = append(words, w)
		}
	}
	return words
}

// Counter counts the occurrences of a word per class.
type Counter struct {
	Regular int `json:"regular"`
	Spam    int `json:"spam"`
}

func (c *Counter) inc(class Class) {
	if class == Spam {
		c.Spam++
	} else {
		c.Regular++
	}
}

func (c Counter) count(class Class) int {
	if class == Spam {
		return c.Spam
	}
	return c.Regular
}

// Vocabulary holds the word counts of the training messages.
type Vocabulary map[string]*Counter

// Add adds one occurrence of the word for the given class.
// The word is expected to be normalized already.
func (v Vocabulary) Add(word string, class Class) {
	c, ok := v[word]
	if !ok {
		c = &Counter{}
		v[word] = c
	}
	c.inc(class)
}

// Total returns the number of words seen for the given class.
func (v Vocabulary) Total(class Class) int {
	total := 0
	for _, c := range v {
		total += c.count(class)
	}
	return total
}

// Words returns the vocabulary words in lexical order.
func (v Vocabulary) Words() []string {
	ww := make([]string, 0, len(v))
	for w := range v {
		ww = append(ww, w)
	}
	sort.Strings(ww)
	return ww
}

// Classifier is a naive bayes classifier for regular and spam messages.
type Classifier struct {
	epsilon     float64
	vocabulary  Vocabulary
	priors      [2]float64
	conditional map[string][2]float64
}

// NewClassifier creates a new classifier with the default smoothing epsilon.
func NewClassifier() *Classifier {
	return &Classifier{
		epsilon:    DefaultEpsilon,
		vocabulary: make(Vocabulary),
	}
}

// WithEpsilon sets the smoothing numerator for zero probabilities.
func (c *Classifier) WithEpsilon(epsilon float64) *Classifier {
	c.epsilon = epsilon
	return c
}

// Vocabulary returns the trained vocabulary.
func (c *Classifier) Vocabulary() Vocabulary {
	return c.vocabulary
}

// Prior returns the a-priori probability of the class.
func (c *Classifier) Prior(class Class) float64 {
	return c.priors[class]
}

// Probability returns the conditional probability of the word given the class.
func (c *Classifier) Probability(word string, class Class) (float64, bool) {
	p, ok := c.conditional[word]
	if !ok {
		return 0, false
	}
	return p[class], true
}

// Train builds the vocabulary and the probabilities out of the given messages.
func (c *Classifier) Train(regular, spam []string) error {
	if len(regular) == 0 || len(spam) == 0 {
		return fmt.Errorf("need messages of both classes [ %d | %d ]: %w", len(regular), len(spam), EmptyTrainingErr)
	}
	c.vocabulary = make(Vocabulary)
	for _, m := range regular {
		for _, w := range Words(m) {
			c.vocabulary.Add(w, Regular)
		}
	}
	for _, m := range spam {
		for _, w := range Words(m) {
			c.vocabulary.Add(w, Spam)
		}
	}

	messages := len(regular) + len(spam)
	c.priors[Regular] = float64(len(regular)) / float64(messages)
	c.priors[Spam] = float64(len(spam)) / float64(messages)

	totals := [2]int{c.vocabulary.Total(Regular), c.vocabulary.Total(Spam)}
	if totals[Regular] == 0 || totals[Spam] == 0 {
		return fmt.Errorf("no usable words [ %d | %d ]: %w", totals[Regular], totals[Spam], EmptyTrainingErr)
	}
	smooth := c.epsilon / float64(totals[Regular]+totals[Spam])

	c.conditional = make(map[string][2]float64, len(c.vocabulary))
	for w, counter := range c.vocabulary {
		var p [2]float64
		for _, class := range []Class{Regular, Spam} {
			if n := counter.count(class); n > 0 {
				p[class] = float64(n) / float64(totals[class])
			} else {
				p[class] = smooth
			}
		}
		c.conditional[w] = p
	}

	log.Info().
		Int("messages", messages).
		Int("vocabulary", len(c.vocabulary)).
		Int("regular-words", totals[Regular]).
		Int("spam-words", totals[Spam]).
		Float64("prior-regular", c.priors[Regular]).
		Float64("prior-spam", c.priors[Spam]).
		Msg("trained classifier")
	return nil
}

// Classify returns the most probable class of the message.
// Words outside the vocabulary are ignored, ties go to Regular.
func (c *Classifier) Classify(message string) Class {
	var score [2]float64
	for _, class := range []Class{Regular, Spam} {
		score[class] = math.Log(c.priors[class])
	}
	for _, w := range Words(message) {
		p, ok := c.conditional[w]
		if !ok {
			continue
		}
		score[Regular] += math.Log(p[Regular])
		score[Spam] += math.Log(p[Spam])
	}
	if score[Spam] > score[Regular] {
		return Spam
	}
	return Regular
}

// Evaluation holds the confusion counts of a test run.
type Evaluation struct {
	// Regular counts regular messages, by the class they were assigned to.
	Regular Counter `json:"regular"`
	// Spam counts spam messages, by the class they were assigned to.
	Spam Counter `json:"spam"`
	// FAR is the false accept rate i.e. the share of spam classified as regular.
	FAR float64 `json:"far"`
	// FRR is the false reject rate i.e. the share of regular messages classified as spam.
	FRR float64 `json:"frr"`
}

// Evaluate classifies the labelled messages and computes the error rates.
func (c *Classifier) Evaluate(regular, spam []string) Evaluation {
	var e Evaluation
	for _, m := range regular {
		e.Regular.inc(c.Classify(m))
	}
	for _, m := range spam {
		e.Spam.inc(c.Classify(m))
	}
	e.FAR, _ = clmath.Ratio(e.Spam.Regular, len(spam))
	e.FRR, _ = clmath.Ratio(e.Regular.Spam, len(regular))
	log.Info().
		Str("far", clmath.Format(e.FAR)).
		Str("frr", clmath.Format(e.FRR)).
		Msg("evaluated classifier")
	return e
}
