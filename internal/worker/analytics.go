package worker

import (
	"strings"
)

// TextStats are the deterministic analytics computed from entry content.
type TextStats struct {
	WordCount             int
	CharacterCount        int
	SentenceCount         int
	ReadingTime           int
	AverageSentenceLength float64
}

const wordsPerMinute = 200

// CalculateTextStats computes the text statistics for an entry. Reading
// time is whole minutes at 200 words per minute.
func CalculateTextStats(content string) TextStats {
	words := strings.Fields(content)

	sentenceCount := 0
	for _, s := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(s) != "" {
			sentenceCount++
		}
	}

	stats := TextStats{
		WordCount:      len(words),
		CharacterCount: len(content),
		SentenceCount:  sentenceCount,
		ReadingTime:    len(words) / wordsPerMinute,
	}
	if sentenceCount > 0 {
		stats.AverageSentenceLength = float64(stats.WordCount) / float64(sentenceCount)
	}
	return stats
}
