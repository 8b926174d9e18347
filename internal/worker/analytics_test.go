package worker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTextStats(t *testing.T) {
	stats := CalculateTextStats("Today was good. Really good! Was it? Yes.")

	assert.Equal(t, 8, stats.WordCount)
	assert.Equal(t, 41, stats.CharacterCount)
	assert.Equal(t, 4, stats.SentenceCount)
	assert.Equal(t, 0, stats.ReadingTime)
	assert.InDelta(t, 2.0, stats.AverageSentenceLength, 0.001)
}

func TestCalculateTextStatsEmptyContent(t *testing.T) {
	stats := CalculateTextStats("")

	assert.Zero(t, stats.WordCount)
	assert.Zero(t, stats.CharacterCount)
	assert.Zero(t, stats.SentenceCount)
	assert.Zero(t, stats.ReadingTime)
	assert.Zero(t, stats.AverageSentenceLength)
}

func TestCalculateTextStatsReadingTime(t *testing.T) {
	// 450 words at 200 words per minute reads in 2 whole minutes.
	content := strings.TrimSpace(strings.Repeat("word ", 450)) + "."
	stats := CalculateTextStats(content)

	assert.Equal(t, 450, stats.WordCount)
	assert.Equal(t, 2, stats.ReadingTime)
	assert.Equal(t, 1, stats.SentenceCount)
}

func TestCalculateTextStatsIgnoresEmptySentences(t *testing.T) {
	stats := CalculateTextStats("Wow!!! Really?!")

	assert.Equal(t, 2, stats.SentenceCount)
}
