package models

import (
	"time"

	"github.com/google/uuid"
)

type Mood string

const (
	MoodPositive Mood = "POSITIVE"
	MoodNegative Mood = "NEGATIVE"
	MoodNeutral  Mood = "NEUTRAL"
)

type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "MORNING"
	TimeOfDayAfternoon TimeOfDay = "AFTERNOON"
	TimeOfDayEvening   TimeOfDay = "EVENING"
)

// SentimentScore is one sentiment measurement of an entry. Re-running
// post-processing appends a new row; consumers read the latest.
type SentimentScore struct {
	ID            uuid.UUID `json:"id"`
	JournalID     uuid.UUID `json:"journalId"`
	Score         float64   `json:"score"`
	Magnitude     float64   `json:"magnitude"`
	Mood          Mood      `json:"mood"`
	PositiveWords string    `json:"positiveWords"`
	NegativeWords string    `json:"negativeWords"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AnalyticsData holds the deterministic text statistics for an entry,
// upserted keyed by journal id.
type AnalyticsData struct {
	JournalID             uuid.UUID `json:"journalId"`
	WordCount             int       `json:"wordCount"`
	CharacterCount        int       `json:"characterCount"`
	SentenceCount         int       `json:"sentenceCount"`
	ReadingTime           int       `json:"readingTime"`
	AverageSentenceLength float64   `json:"averageSentenceLength"`
	TagsCount             int       `json:"tagsCount"`
	CategoriesCount       int       `json:"categoriesCount"`
	TimeOfDay             TimeOfDay `json:"timeOfDay"`
	EntryDate             time.Time `json:"entryDate"`
}

// SentimentResult is what an analyzer backend returns for a text.
type SentimentResult struct {
	Score       float64  `json:"score"`
	Comparative float64  `json:"comparative"`
	Positive    []string `json:"positive"`
	Negative    []string `json:"negative"`
}

// MoodFromScore maps a sentiment score onto the stored mood buckets.
func MoodFromScore(score float64) Mood {
	switch {
	case score > 0:
		return MoodPositive
	case score < 0:
		return MoodNegative
	default:
		return MoodNeutral
	}
}

// TimeOfDayFromDate buckets an entry timestamp by hour.
func TimeOfDayFromDate(date time.Time) TimeOfDay {
	hour := date.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return TimeOfDayMorning
	case hour >= 12 && hour < 18:
		return TimeOfDayAfternoon
	default:
		return TimeOfDayEvening
	}
}

// EntryAnalysis is the derived title/summary/labels suggestion for an entry.
type EntryAnalysis struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}
