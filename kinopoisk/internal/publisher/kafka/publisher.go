package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/logging"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"
)

const flushTimeoutMs = 5000

type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// Publisher defines a Kafka publisher of import events.
type Publisher struct {
	producer producer
	topic    string
	logger   *zap.Logger
}

// NewPublisher creates a new Kafka publisher.
func NewPublisher(addr string, topic string, logger *zap.Logger) (*Publisher, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": addr,
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}
	return newPublisher(p, topic, logger), nil
}

func newPublisher(p producer, topic string, logger *zap.Logger) *Publisher {
	logger = logger.With(
		zap.String(logging.FieldComponent, "kafka-publisher"),
		zap.String("topic", topic),
	)
	return &Publisher{producer: p, topic: topic, logger: logger}
}

// Publish publishes an import event keyed by user id and waits for its delivery.
func (p *Publisher) Publish(ctx context.Context, event *model.ImportEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	delivery := make(chan kafka.Event, 1)
	if err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.UserID),
		Value:          value,
	}, delivery); err != nil {
		return fmt.Errorf("produce import event: %w", err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-delivery:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event: %v", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("deliver import event: %w", m.TopicPartition.Error)
		}
		p.logger.Debug("Published import event", zap.String("runId", event.RunID), zap.Stringer("partition", m.TopicPartition))
		return nil
	}
}

// Close flushes outstanding messages and closes the producer.
func (p *Publisher) Close() {
	if n := p.producer.Flush(flushTimeoutMs); n > 0 {
		p.logger.Warn("Import events left undelivered", zap.Int("count", n))
	}
	p.producer.Close()
}
