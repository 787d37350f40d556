package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/core/ports/gateways"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaRatePublisher publishes rate refresh events to a Kafka topic.
type KafkaRatePublisher struct {
	writer messageWriter
}

// NewKafkaRatePublisher creates a publisher writing to topic on the given brokers.
func NewKafkaRatePublisher(brokers []string, topic string) *KafkaRatePublisher {
	return &KafkaRatePublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

var _ gateways.RateEventPublisher = (*KafkaRatePublisher)(nil)

// PublishRatesUpdated writes one event keyed by base currency so a base's events stay ordered.
func (k *KafkaRatePublisher) PublishRatesUpdated(ctx context.Context, event domain.RatesUpdatedEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rates updated event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.BaseCurrency),
		Value: v,
		Time:  event.UpdatedAt,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish rates updated event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (k *KafkaRatePublisher) Close() error {
	return k.writer.Close()
}
