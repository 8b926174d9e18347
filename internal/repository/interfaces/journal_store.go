package interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/Wandor/journaling-node/internal/domain/models"
)

// JournalStore is the entry persistence capability. Post-processing reads
// the current entry and applies derived fields through it.
type JournalStore interface {
	Create(ctx context.Context, entry *models.JournalEntry) error
	Get(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error)
	// ApplyDerived writes post-processing output. Tag/category slices are
	// created-or-connected by name, lowercased; nil slices are ignored.
	ApplyDerived(ctx context.Context, update models.DerivedUpdate) error
}

// SentimentStore persists sentiment measurements.
type SentimentStore interface {
	Create(ctx context.Context, score *models.SentimentScore) error
}

// AnalyticsStore upserts the per-entry text statistics.
type AnalyticsStore interface {
	Upsert(ctx context.Context, data *models.AnalyticsData) error
}
