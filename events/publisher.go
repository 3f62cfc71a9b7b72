package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher sends quiz events to whatever broker is configured.
type Publisher interface {
	PublishQuizEvent(ctx context.Context, event *QuizEvent) error
	Close() error
}

// WatermillPublisher publishes JSON-encoded events on a single topic and
// carries the event type in message metadata.
type WatermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topic     string
}

type PublisherConfig struct {
	KafkaBrokers []string
	Topic        string
	Logger       *slog.Logger
}

// NewPublisher returns a Kafka publisher when brokers are configured and an
// in-process go channel otherwise.
func NewPublisher(cfg PublisherConfig) (*WatermillPublisher, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.KafkaBrokers) > 0 {
		return NewKafkaPublisher(cfg)
	}
	return NewChannelPublisher(gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(cfg.Logger)), cfg), nil
}

func NewKafkaPublisher(cfg PublisherConfig) (*WatermillPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(cfg.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &WatermillPublisher{
		publisher: publisher,
		logger:    cfg.Logger,
		topic:     cfg.Topic,
	}, nil
}

// NewChannelPublisher wraps an existing go channel pub/sub so callers can
// subscribe to the same instance.
func NewChannelPublisher(ch *gochannel.GoChannel, cfg PublisherConfig) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: ch,
		logger:    cfg.Logger,
		topic:     cfg.Topic,
	}
}

func (p *WatermillPublisher) PublishQuizEvent(ctx context.Context, event *QuizEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal quiz event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("Failed to publish quiz event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish quiz event: %w", err)
	}

	p.logger.Debug("Published quiz event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topic)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishQuizEvent(context.Context, *QuizEvent) error { return nil }
func (NopPublisher) Close() error                                     { return nil }
