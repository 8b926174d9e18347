package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/config"
	"github.com/Wandor/journaling-node/internal/domain/models"
	"github.com/Wandor/journaling-node/internal/repository/interfaces"
)

// EntryPublisher hands entry snapshots to the queue connection manager.
// Delivery is asynchronous; a broker outage buffers instead of failing.
type EntryPublisher interface {
	Publish(exchange, routingKey string, body []byte)
}

// JournalService persists entries and enqueues them for post-processing.
type JournalService struct {
	journal   interfaces.JournalStore
	publisher EntryPublisher
	cfg       config.AMQPConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewJournalService(journal interfaces.JournalStore, publisher EntryPublisher, cfg config.AMQPConfig, logger *zap.Logger) *JournalService {
	return &JournalService{
		journal:   journal,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateEntry persists a new entry and publishes its snapshot to the
// entry queue. The entry is the source of truth; post-processing enriches
// it asynchronously.
func (s *JournalService) CreateEntry(ctx context.Context, userID uuid.UUID, req models.CreateEntryRequest) (*models.JournalEntry, error) {
	entryDate := s.now()
	if req.EntryDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("parse entry date: %w", err)
		}
		entryDate = parsed
	}

	tags := normalizeLabels(req.Tags)
	categories := normalizeLabels(req.Categories)

	entry := &models.JournalEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		EntryDate: entryDate,
	}
	for _, name := range tags {
		entry.Tags = append(entry.Tags, models.Tag{UserID: userID, Name: name})
	}
	for _, name := range categories {
		entry.Categories = append(entry.Categories, models.Category{UserID: userID, Name: name})
	}

	if err := s.journal.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}

	s.enqueueSnapshot(entry, tags, categories)
	return entry, nil
}

// normalizeLabels lowercases and trims label names, dropping blanks.
// Labels are stored lowercased so user-supplied and derived names share
// one namespace per user.
func normalizeLabels(values []string) []string {
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

func (s *JournalService) enqueueSnapshot(entry *models.JournalEntry, tags, categories []string) {
	snap := models.EntrySnapshot{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Title:      entry.Title,
		Content:    entry.Content,
		EntryDate:  entry.EntryDate,
		Tags:       tags,
		Categories: categories,
	}
	body, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("failed to marshal entry snapshot",
			zap.String("entryId", entry.ID.String()), zap.Error(err))
		return
	}
	s.publisher.Publish(s.cfg.Exchange, s.cfg.RoutingKey, body)
}
