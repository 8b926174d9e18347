package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/domain/errors"
	domaininterfaces "github.com/Wandor/journaling-node/internal/domain/interfaces"
	"github.com/Wandor/journaling-node/internal/domain/models"
	"github.com/Wandor/journaling-node/internal/repository/interfaces"
)

// EntryWorker runs post-processing for journal entries consumed off the
// entry queue: sentiment scoring, derived title/summary/labels and text
// analytics. Analyzer failures degrade to defaults; persistence failures
// are reported back to the dispatcher for retry.
type EntryWorker struct {
	prefs      interfaces.PreferencesStore
	journal    interfaces.JournalStore
	sentiments interfaces.SentimentStore
	analytics  interfaces.AnalyticsStore

	sentiment domaininterfaces.SentimentAnalyzer
	analyzer  domaininterfaces.EntryAnalyzer

	logger *zap.Logger
	now    func() time.Time
}

func NewEntryWorker(
	prefs interfaces.PreferencesStore,
	journal interfaces.JournalStore,
	sentiments interfaces.SentimentStore,
	analytics interfaces.AnalyticsStore,
	sentiment domaininterfaces.SentimentAnalyzer,
	analyzer domaininterfaces.EntryAnalyzer,
	logger *zap.Logger,
) *EntryWorker {
	return &EntryWorker{
		prefs:      prefs,
		journal:    journal,
		sentiments: sentiments,
		analytics:  analytics,
		sentiment:  sentiment,
		analyzer:   analyzer,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle is the queue.WorkerFunc entry point. done(false) routes the
// message through the bounded retry path; malformed payloads are dropped
// after logging since no retry can fix them.
func (w *EntryWorker) Handle(ctx context.Context, msg amqp.Delivery, done func(ok bool)) {
	var snap models.EntrySnapshot
	if err := json.Unmarshal(msg.Body, &snap); err != nil {
		w.logger.Error("discarding malformed entry message", zap.Error(err))
		done(true)
		return
	}
	done(w.Process(ctx, snap))
}

// Process runs the full pipeline for one entry snapshot and reports
// whether the message should be acknowledged.
func (w *EntryWorker) Process(ctx context.Context, snap models.EntrySnapshot) bool {
	log := w.logger.With(
		zap.String("entryId", snap.ID.String()),
		zap.String("userId", snap.UserID.String()),
	)

	prefs, err := w.loadPreferences(ctx, snap.UserID)
	if err != nil {
		log.Error("preferences lookup failed", zap.Error(err))
		return false
	}

	if !w.scoreSentiment(ctx, snap, log) {
		return false
	}

	entry, err := w.journal.Get(ctx, snap.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			// Deleted between publish and consume; nothing left to enrich.
			log.Warn("entry no longer exists, skipping post-processing")
			return true
		}
		log.Error("entry lookup failed", zap.Error(err))
		return false
	}

	update := w.buildDerivedUpdate(ctx, snap, entry, prefs, log)
	if err := w.journal.ApplyDerived(ctx, update); err != nil {
		log.Error("applying derived fields failed", zap.Error(err))
		return false
	}

	if err := w.analytics.Upsert(ctx, w.buildAnalytics(snap, entry, update)); err != nil {
		log.Error("analytics upsert failed", zap.Error(err))
		return false
	}

	log.Info("entry post-processing complete")
	return true
}

// loadPreferences falls back to all-off defaults for users who never
// saved preferences.
func (w *EntryWorker) loadPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	prefs, err := w.prefs.Get(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return &models.UserPreferences{UserID: userID}, nil
		}
		return nil, err
	}
	return prefs, nil
}

func (w *EntryWorker) scoreSentiment(ctx context.Context, snap models.EntrySnapshot, log *zap.Logger) bool {
	result, err := w.sentiment.AnalyzeSentiment(ctx, snap.Content)
	if err != nil {
		log.Warn("sentiment analysis failed, recording neutral score", zap.Error(err))
		result = &models.SentimentResult{}
	}

	score := &models.SentimentScore{
		ID:            uuid.New(),
		JournalID:     snap.ID,
		Score:         result.Score,
		Magnitude:     result.Comparative,
		Mood:          models.MoodFromScore(result.Score),
		PositiveWords: strings.Join(result.Positive, ","),
		NegativeWords: strings.Join(result.Negative, ","),
		CreatedAt:     w.now(),
	}
	if err := w.sentiments.Create(ctx, score); err != nil {
		log.Error("persisting sentiment score failed", zap.Error(err))
		return false
	}
	return true
}

// buildDerivedUpdate decides which derived fields apply. A blank title is
// replaced by the derived one, the summary only when the user opted in,
// and auto-derived labels only attach when the entry has none of its own.
func (w *EntryWorker) buildDerivedUpdate(
	ctx context.Context,
	snap models.EntrySnapshot,
	entry *models.JournalEntry,
	prefs *models.UserPreferences,
	log *zap.Logger,
) models.DerivedUpdate {
	update := models.DerivedUpdate{
		EntryID: snap.ID,
		UserID:  snap.UserID,
		Title:   entry.Title,
	}

	needsAnalysis := strings.TrimSpace(entry.Title) == "" ||
		prefs.Summarize ||
		(prefs.AutoTag && len(entry.Tags) == 0) ||
		(prefs.AutoCategorize && len(entry.Categories) == 0)
	if !needsAnalysis || w.analyzer == nil {
		return update
	}

	analysis, err := w.analyzer.AnalyzeEntry(ctx, snap.Content)
	if err != nil {
		log.Warn("entry analysis failed, keeping entry as written", zap.Error(err))
		return update
	}

	if strings.TrimSpace(entry.Title) == "" && analysis.Title != "" {
		update.Title = analysis.Title
	}
	if prefs.Summarize && analysis.Summary != "" {
		summary := analysis.Summary
		update.Summary = &summary
	}
	if prefs.AutoTag && len(entry.Tags) == 0 {
		update.Tags = lowercaseAll(analysis.Tags)
	}
	if prefs.AutoCategorize && len(entry.Categories) == 0 {
		update.Categories = lowercaseAll(analysis.Categories)
	}
	return update
}

func (w *EntryWorker) buildAnalytics(snap models.EntrySnapshot, entry *models.JournalEntry, update models.DerivedUpdate) *models.AnalyticsData {
	stats := CalculateTextStats(snap.Content)

	tagsCount := len(entry.Tags)
	if tagsCount == 0 {
		tagsCount = len(update.Tags)
	}
	categoriesCount := len(entry.Categories)
	if categoriesCount == 0 {
		categoriesCount = len(update.Categories)
	}

	return &models.AnalyticsData{
		JournalID:             snap.ID,
		WordCount:             stats.WordCount,
		CharacterCount:        stats.CharacterCount,
		SentenceCount:         stats.SentenceCount,
		ReadingTime:           stats.ReadingTime,
		AverageSentenceLength: stats.AverageSentenceLength,
		TagsCount:             tagsCount,
		CategoriesCount:       categoriesCount,
		TimeOfDay:             models.TimeOfDayFromDate(snap.EntryDate),
		EntryDate:             snap.EntryDate,
	}
}

func lowercaseAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}
