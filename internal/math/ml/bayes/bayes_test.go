package bayes

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {

	type test struct {
		word       string
		normalized string
		ok         bool
	}

	tests := map[string]test{
		"plain": {
			word:       "money",
			normalized: "money",
			ok:         true,
		},
		"case": {
			word:       "MoNeY",
			normalized: "money",
			ok:         true,
		},
		"punctuation": {
			word:       "\"offer!!\"",
			normalized: "offer",
			ok:         true,
		},
		"digits": {
			word:       "w1nn3r5s",
			normalized: "wnnrs",
			ok:         true,
		},
		"short": {
			word: "free",
		},
		"short-after-strip": {
			word: "f.r.e.e.1",
		},
		"empty": {
			word: "1234567",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w, ok := Normalize(tt.word)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.normalized, w)
		})
	}
}

func TestWords(t *testing.T) {
	words := Words("Dear friend,\nclaim your PRIZE now: 100% money-back!")
	assert.Equal(t, []string{"friend", "claim", "prize", "moneyback"}, words)
}

func TestVocabulary(t *testing.T) {
	v := make(Vocabulary)
	v.Add("money", Spam)
	v.Add("money", Spam)
	v.Add("money", Regular)
	v.Add("meeting", Regular)

	assert.Equal(t, 2, v.Total(Regular))
	assert.Equal(t, 2, v.Total(Spam))
	assert.Equal(t, []string{"meeting", "money"}, v.Words())
	assert.Equal(t, Counter{Regular: 1, Spam: 2}, *v["money"])
}

var (
	regular = []string{
		"meeting agenda attached please review",
		"project meeting moved tomorrow",
		"please review project schedule",
	}
	spam = []string{
		"claim your prize money today",
		"winner claim money",
	}
)

func TestClassifier_Train(t *testing.T) {
	c := NewClassifier()
	err := c.Train(regular, spam)
	require.NoError(t, err)

	assert.InDelta(t, 0.6, c.Prior(Regular), 1e-9)
	assert.InDelta(t, 0.4, c.Prior(Spam), 1e-9)

	// regular : meeting agenda attached please review | project meeting moved tomorrow | please review project schedule
	assert.Equal(t, 13, c.Vocabulary().Total(Regular))
	// spam : claim prize money today | winner claim money
	assert.Equal(t, 7, c.Vocabulary().Total(Spam))

	p, ok := c.Probability("meeting", Regular)
	require.True(t, ok)
	assert.InDelta(t, 2.0/13, p, 1e-9)

	p, ok = c.Probability("money", Spam)
	require.True(t, ok)
	assert.InDelta(t, 2.0/7, p, 1e-9)

	// zero counts are smoothed
	p, ok = c.Probability("meeting", Spam)
	require.True(t, ok)
	assert.InDelta(t, 1.0/20, p, 1e-9)

	_, ok = c.Probability("unknown", Spam)
	assert.False(t, ok)
}

func TestClassifier_Epsilon(t *testing.T) {
	c := NewClassifier().WithEpsilon(0.1)
	require.NoError(t, c.Train(regular, spam))
	p, _ := c.Probability("money", Regular)
	assert.InDelta(t, 0.1/20, p, 1e-9)
}

func TestClassifier_EmptyTraining(t *testing.T) {
	c := NewClassifier()
	err := c.Train(regular, nil)
	assert.ErrorIs(t, err, EmptyTrainingErr)

	err = c.Train(regular, []string{"a b c"})
	assert.ErrorIs(t, err, EmptyTrainingErr)
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier()
	require.NoError(t, c.Train(regular, spam))

	type test struct {
		message string
		class   Class
	}

	tests := map[string]test{
		"regular": {
			message: "please review the meeting agenda",
			class:   Regular,
		},
		"spam": {
			message: "CLAIM your money, winner!",
			class:   Spam,
		},
		"unknown-words-follow-priors": {
			message: "nothing known here",
			class:   Regular,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.class, c.Classify(tt.message))
		})
	}
}

func TestClassifier_Evaluate(t *testing.T) {
	c := NewClassifier()
	require.NoError(t, c.Train(regular, spam))

	e := c.Evaluate(
		[]string{"meeting tomorrow", "claim money"},
		[]string{"winner prize", "nothing known here"},
	)
	assert.Equal(t, Counter{Regular: 1, Spam: 1}, e.Regular)
	assert.Equal(t, Counter{Regular: 1, Spam: 1}, e.Spam)
	assert.InDelta(t, 0.5, e.FAR, 1e-9)
	assert.InDelta(t, 0.5, e.FRR, 1e-9)

	e = c.Evaluate(nil, nil)
	assert.True(t, math.IsNaN(e.FAR))
	assert.True(t, math.IsNaN(e.FRR))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(sub, name, content string) {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, sub, name), []byte(content), 0644))
	}
	write("regular", "m1.txt", regular[0])
	write("regular", "m2.txt", regular[1])
	write("spam", "s1.txt", spam[0])

	corpus, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{regular[0], regular[1]}, corpus.Regular)
	assert.Equal(t, []string{spam[0]}, corpus.Spam)

	write("other", "o1.txt", "")
	_, err = LoadDir(dir)
	assert.ErrorIs(t, err, LayoutErr)

	_, err = LoadDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
