package kafka

import (
	"context"
	"fmt"

	"github.com/BillyHamid/backendGlobal/internal/logger"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher writes settlement events to the broker. One writer serves all
// topics; the topic travels on the message.
type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Balancer:               &kafkago.LeastBytes{},
			RequiredAcks:           kafkago.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	err := p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	logger.Info("event published", logger.Fields{
		"topic": topic,
		"key":   key,
	})

	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
