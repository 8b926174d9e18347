package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CloudEvent is the envelope every published event is wrapped in.
type CloudEvent struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	SpecVersion string    `json:"specversion"`
	Type        string    `json:"type"`
	Time        time.Time `json:"time"`

	Subject     string `json:"subject,omitempty"`
	ContentType string `json:"contenttype"`

	Data json.RawMessage `json:"data"`
}

// Producer publishes auth domain events to Kafka as CloudEvents. It
// satisfies interfaces.EventPublisher.
type Producer struct {
	writer     *kafka.Writer
	sourceName string
	logger     *zap.Logger
}

func NewProducer(brokers []string, topic, sourceName string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}

	return &Producer{
		writer:     writer,
		sourceName: sourceName,
		logger:     logger,
	}
}

// Publish wraps payload in a CloudEvents envelope keyed by subject and
// writes it with RequireAll acks.
func (p *Producer) Publish(ctx context.Context, eventType string, subject string, payload any) error {
	dataBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	event := CloudEvent{
		ID:          uuid.New().String(),
		Source:      p.sourceName,
		SpecVersion: "1.0",
		Type:        eventType,
		Time:        time.Now().UTC(),
		Subject:     subject,
		ContentType: "application/json",
		Data:        dataBytes,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal cloud event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(subject),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "ce_id", Value: []byte(event.ID)},
			{Key: "ce_source", Value: []byte(event.Source)},
			{Key: "ce_specversion", Value: []byte(event.SpecVersion)},
			{Key: "ce_type", Value: []byte(event.Type)},
			{Key: "ce_time", Value: []byte(event.Time.Format(time.RFC3339))},
			{Key: "ce_subject", Value: []byte(event.Subject)},
			{Key: "ce_contenttype", Value: []byte(event.ContentType)},
		},
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.String("eventType", eventType),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("write event to kafka: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("eventType", eventType),
		zap.String("subject", subject),
	)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
