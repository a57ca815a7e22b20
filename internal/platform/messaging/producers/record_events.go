// Package producers publishes ledger events to Kafka. The only producer here
// announces materialized daily valuation records for downstream consumers;
// the worker never depends on these announcements succeeding.
package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Starkiller645/economist/internal/config"
	"github.com/Starkiller645/economist/internal/domain/record"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter abstracts the kafka writer for testability
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RecordEventProducer announces materialized daily records on the records topic
type RecordEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewRecordEventProducer creates the producer and ensures the topic exists
func NewRecordEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*RecordEventProducer, error) {
	if cfg.RecordsTopic == "" {
		return nil, fmt.Errorf("kafka records topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for record event producer: %w", err)
	}
	defer conn.Close()

	if err := createKafkaTopicIfNotExists(conn, cfg.RecordsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure records topic %s exists: %w", cfg.RecordsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.RecordsTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Announcements are fire-and-forget
		WriteTimeout: cfg.WriteTimeout,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write record events asynchronously", "topic", cfg.RecordsTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote record events asynchronously", "topic", cfg.RecordsTopic, "count", len(messages))
			}
		},
	}

	return &RecordEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.RecordsTopic,
	}, nil
}

// Publish announces a stored record, keyed by its currency id
func (p *RecordEventProducer) Publish(ctx context.Context, rec *record.Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(rec.CurrencyID, 10)),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish record event",
			"topic", p.topic,
			"record_id", rec.ID,
			"currency_id", rec.CurrencyID,
			"error", err,
		)
		return fmt.Errorf("failed to publish record event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published record event", "topic", p.topic, "record_id", rec.ID)
	return nil
}

// Close flushes and closes the underlying writer
func (p *RecordEventProducer) Close() error {
	p.logger.Info("Closing record event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
