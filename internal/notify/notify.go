// Package notify publishes a message for every match stored, so downstream
// consumers (feature recomputation, dashboards) can react without polling.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/marquin311/analytics-do-vale/internal/config"
)

// MatchIngested is the message body. Keyed by match id.
type MatchIngested struct {
	RunID           string    `json:"run_id"`
	MatchID         string    `json:"match_id"`
	Platform        string    `json:"platform"`
	QueueID         int       `json:"queue_id"`
	GameVersion     string    `json:"game_version"`
	PerformanceRows int       `json:"performance_rows"`
	KillRows        int       `json:"kill_rows"`
	TeamRows        int       `json:"team_rows"`
	IngestedAt      time.Time `json:"ingested_at"`
}

// Publisher sends MatchIngested messages.
type Publisher interface {
	Publish(ctx context.Context, msg MatchIngested) error
	Close() error
}

// Noop discards every message.
type Noop struct{}

func (Noop) Publish(context.Context, MatchIngested) error { return nil }
func (Noop) Close() error                                { return nil }

// Kafka publishes to a topic with a synchronous producer.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewKafka connects a synchronous producer to the configured brokers.
func NewKafka(cfg config.KafkaConfig, logger *zap.Logger) (*Kafka, error) {
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Compression = sarama.CompressionSnappy
	sc.Producer.Retry.Max = cfg.RetryAttempts
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}
	return NewKafkaWithProducer(producer, cfg.Topic, logger), nil
}

// NewKafkaWithProducer wraps an existing producer.
func NewKafkaWithProducer(p sarama.SyncProducer, topic string, logger *zap.Logger) *Kafka {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Kafka{producer: p, topic: topic, logger: logger}
}

// Publish sends one message and waits for the broker acknowledgement.
func (k *Kafka) Publish(ctx context.Context, msg MatchIngested) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(msg.MatchID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.MatchID, err)
	}
	k.logger.Debug("match published",
		zap.String("match_id", msg.MatchID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close flushes and closes the producer.
func (k *Kafka) Close() error {
	return k.producer.Close()
}
