package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexiconAnalyzerPositiveText(t *testing.T) {
	analyzer := NewLexiconAnalyzer()

	result, err := analyzer.AnalyzeSentiment(context.Background(), "What an amazing and happy day")
	require.NoError(t, err)

	assert.Greater(t, result.Score, 0.0)
	assert.Contains(t, result.Positive, "amazing")
	assert.Contains(t, result.Positive, "happy")
	assert.Empty(t, result.Negative)
	assert.Greater(t, result.Comparative, 0.0)
}

func TestLexiconAnalyzerNegativeText(t *testing.T) {
	analyzer := NewLexiconAnalyzer()

	result, err := analyzer.AnalyzeSentiment(context.Background(), "a terrible sad awful day")
	require.NoError(t, err)

	assert.Less(t, result.Score, 0.0)
	assert.Contains(t, result.Negative, "terrible")
	assert.Empty(t, result.Positive)
}

func TestLexiconAnalyzerNeutralText(t *testing.T) {
	analyzer := NewLexiconAnalyzer()

	result, err := analyzer.AnalyzeSentiment(context.Background(), "the meeting is at noon")
	require.NoError(t, err)

	assert.Zero(t, result.Score)
	assert.Zero(t, result.Comparative)
	assert.Empty(t, result.Positive)
	assert.Empty(t, result.Negative)
}

func TestLexiconAnalyzerEmptyText(t *testing.T) {
	analyzer := NewLexiconAnalyzer()

	result, err := analyzer.AnalyzeSentiment(context.Background(), "")
	require.NoError(t, err)

	assert.Zero(t, result.Score)
	assert.Zero(t, result.Comparative)
}

func TestTokenizeNormalizes(t *testing.T) {
	tokens := tokenize("Don't worry, be HAPPY!")
	assert.Equal(t, []string{"don't", "worry", "be", "happy"}, tokens)
}
