package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	CompanyRegistered = "company.registered"
	CompanyVerified   = "company.verified"
	OTPIssued         = "otp.issued"
	ChatAsked         = "chat.asked"
)

// publishTimeout bounds the partition metadata lookup, which kafka-go does
// synchronously even for async writers.
const publishTimeout = time.Second

type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Subject    string            `json:"subject"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewEvent stamps an id and the current time. Subject is the message key,
// usually the company email.
func NewEvent(eventType, subject string, attrs map[string]string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Attributes: attrs,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// New returns a Kafka publisher, or a no-op one when brokers is empty.
// Writes are async: Publish never waits on the brokers, and delivery
// failures are logged once retries are exhausted.
func New(brokers []string, topic string, log *zap.Logger) Publisher {
	if len(brokers) == 0 {
		return NewNoop()
	}

	p := &kafkaPublisher{
		log: log.With(zap.String("publisher", "kafka")),
	}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion:   p.completed,
	}

	log.Info("Kafka publisher initialized",
		zap.Strings("brokers", brokers),
		zap.String("topic", topic),
	)

	return p
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Subject),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		p.log.Error("Failed to publish event",
			zap.String("type", event.Type),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}

	return nil
}

func (p *kafkaPublisher) completed(messages []kafka.Message, err error) {
	if err == nil {
		return
	}

	for _, msg := range messages {
		p.log.Error("Failed to deliver event",
			zap.String("type", headerValue(msg, "type")),
			zap.String("key", string(msg.Key)),
			zap.Error(err),
		)
	}
}

// Close flushes pending async writes.
func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

type noopPublisher struct{}

func NewNoop() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, Event) error { return nil }
func (noopPublisher) Close() error                         { return nil }
