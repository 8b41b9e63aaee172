// Package kafka wraps sarama for publishing and consuming JSON events.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"skimr/types"

	"github.com/IBM/sarama"
)

type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// Producer publishes JSON events to a single topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewProducerFromClient(p, cfg.Topic), nil
}

// NewProducerFromClient wraps an existing sarama producer.
func NewProducerFromClient(p sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: p, topic: topic}
}

// Publish sends value as JSON, keyed by key.
func (p *Producer) Publish(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	slog.Debug("[Kafka] event published", "topic", p.topic, "partition", partition, "offset", offset)
	return nil
}

// PublishItemCreated keys the event by user so one user's items stay ordered.
func (p *Producer) PublishItemCreated(ctx context.Context, event types.ItemCreated) error {
	return p.Publish(ctx, event.UserID, event)
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
