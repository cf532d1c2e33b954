// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

// Publisher emits committed order events.
type Publisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, model.OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                    { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by order id.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher builds a synchronous writer for topic.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Logger:                 kafkaLogger{logger: logger},
		ErrorLogger:            kafkaLogger{logger: logger, err: true},
	}
	return &KafkaPublisher{writer: writer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event model.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Topic returns the destination topic.
func (p *KafkaPublisher) Topic() string { return p.topic }

type kafkaLogger struct {
	logger *slog.Logger
	err    bool
}

func (l kafkaLogger) Printf(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	if l.err {
		l.logger.Error(fmt.Sprintf(format, args...), slog.String("component", "kafka"))
		return
	}
	l.logger.Debug(fmt.Sprintf(format, args...), slog.String("component", "kafka"))
}
