package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/IBM/sarama"
)

// MessageHandler processes one consumed message.
type MessageHandler interface {
	// HandleMessage reports whether the message should be marked as consumed.
	// Unmarked messages are redelivered after a rebalance or restart.
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// Consumer runs a consumer group over a single topic.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
	topic   string
	groupID string
	ready   chan bool
	done    chan struct{}
}

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
	// Oldest starts a new group from the beginning of the topic instead of the end.
	Oldest bool
}

func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	if cfg.Oldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   group,
		handler: cfg.Handler,
		topic:   cfg.Topic,
		groupID: cfg.GroupID,
		ready:   make(chan bool),
		done:    make(chan struct{}),
	}, nil
}

// Start joins the group and returns once the first session is set up. Messages
// are consumed in the background until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &groupHandler{handler: c.handler, ready: c.ready}

	go func() {
		defer close(c.done)
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) || errors.Is(err, context.Canceled) {
					return
				}
				slog.Error("[Kafka] consume failed", "topic", c.topic, "error", err)
			}
			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan bool)
		}
	}()

	go func() {
		for err := range c.group.Errors() {
			slog.Error("[Kafka] consumer error", "error", err)
		}
	}()

	select {
	case <-c.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	slog.Info("[Kafka] consumer started", "group", c.groupID, "topic", c.topic)
	return nil
}

// Done is closed when the consume loop exits.
func (c *Consumer) Done() <-chan struct{} { return c.done }

func (c *Consumer) Close() error {
	slog.Info("[Kafka] closing consumer", "group", c.groupID)
	return c.group.Close()
}

// groupHandler implements sarama.ConsumerGroupHandler
type groupHandler struct {
	handler MessageHandler
	ready   chan bool
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}

			slog.Debug("[Kafka] message received",
				"partition", message.Partition, "offset", message.Offset, "key", string(message.Key))

			shouldMark, err := h.handler.HandleMessage(session.Context(), message.Value)
			if err != nil {
				slog.Error("[Kafka] failed to handle message", "offset", message.Offset, "error", err)
			}
			if shouldMark {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

// TypedMessageHandler decodes JSON messages into T before processing.
type TypedMessageHandler[T any] struct {
	// Validate checks if the message should be processed
	Validate func(msg *T) bool
	// Process handles the actual message processing
	Process func(ctx context.Context, msg *T) error
	// AlwaysMark marks undecodable or invalid messages so they are skipped
	AlwaysMark bool
}

func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		slog.Warn("[Kafka] failed to decode message", "error", err)
		return h.AlwaysMark, nil
	}

	if h.Validate != nil && !h.Validate(&msg) {
		return h.AlwaysMark, nil
	}

	if err := h.Process(ctx, &msg); err != nil {
		return false, err
	}
	return true, nil
}
