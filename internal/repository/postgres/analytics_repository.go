package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wandor/journaling-node/internal/domain/models"
	"github.com/Wandor/journaling-node/internal/repository/interfaces"
)

// pgxSentimentRepository implements interfaces.SentimentStore using pgx.
type pgxSentimentRepository struct {
	db *pgxpool.Pool
}

func NewSentimentRepository(db *pgxpool.Pool) interfaces.SentimentStore {
	return &pgxSentimentRepository{db: db}
}

func (r *pgxSentimentRepository) Create(ctx context.Context, score *models.SentimentScore) error {
	query := `
		INSERT INTO sentiment_scores (id, journal_id, score, magnitude, mood, positive_words, negative_words, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		score.ID, score.JournalID, score.Score, score.Magnitude, score.Mood,
		score.PositiveWords, score.NegativeWords, score.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sentiment score: %w", err)
	}
	return nil
}

// pgxAnalyticsRepository implements interfaces.AnalyticsStore using pgx.
type pgxAnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) interfaces.AnalyticsStore {
	return &pgxAnalyticsRepository{db: db}
}

func (r *pgxAnalyticsRepository) Upsert(ctx context.Context, data *models.AnalyticsData) error {
	query := `
		INSERT INTO analytics_data (
			journal_id, word_count, character_count, sentence_count, reading_time,
			average_sentence_length, tags_count, categories_count, time_of_day, entry_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (journal_id) DO UPDATE SET
			word_count = EXCLUDED.word_count,
			character_count = EXCLUDED.character_count,
			sentence_count = EXCLUDED.sentence_count,
			reading_time = EXCLUDED.reading_time,
			average_sentence_length = EXCLUDED.average_sentence_length,
			tags_count = EXCLUDED.tags_count,
			categories_count = EXCLUDED.categories_count,
			time_of_day = EXCLUDED.time_of_day,
			entry_date = EXCLUDED.entry_date`
	_, err := r.db.Exec(ctx, query,
		data.JournalID, data.WordCount, data.CharacterCount, data.SentenceCount,
		data.ReadingTime, data.AverageSentenceLength, data.TagsCount,
		data.CategoriesCount, data.TimeOfDay, data.EntryDate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert analytics data: %w", err)
	}
	return nil
}
