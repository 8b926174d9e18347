package interfaces

import (
	"context"

	"github.com/Wandor/journaling-node/internal/domain/models"
)

// SentimentAnalyzer scores a text. The backend is selected by
// configuration: an in-process lexicon analyzer or a remote LLM-based one.
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (*models.SentimentResult, error)
}

// EntryAnalyzer derives title/summary/categories/tags from an entry. May
// fail; callers degrade to defaults instead of propagating.
type EntryAnalyzer interface {
	AnalyzeEntry(ctx context.Context, text string) (*models.EntryAnalysis, error)
}

// EventPublisher emits auth domain events, best effort.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, subject string, payload any) error
	Close() error
}
