package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopify-repricer/internal/config"
	"shopify-repricer/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutcomePublisher emits one event per finished pricing pass.
type OutcomePublisher struct {
	writer messageWriter
}

// NewOutcomePublisher returns nil when no brokers are configured.
func NewOutcomePublisher(cfg config.KafkaConfig) *OutcomePublisher {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	return &OutcomePublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}}
}

func (p *OutcomePublisher) Publish(ctx context.Context, outcome model.PricingOutcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("pass-%s", outcome.PassID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "trigger", Value: []byte(outcome.Trigger)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish pricing outcome: %w", err)
	}
	return nil
}

func (p *OutcomePublisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
