package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type MessageHandler func(ctx context.Context, msg kafka.Message) error

// MessageReader is the subset of *kafka.Reader used by Consumer
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader MessageReader
	log    logrus.FieldLogger
}

func NewConsumer(brokers []string, topic, groupID string, logger logrus.FieldLogger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return NewConsumerWithReader(reader, logger)
}

func NewConsumerWithReader(r MessageReader, logger logrus.FieldLogger) *Consumer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Consumer{reader: r, log: logger.WithField("component", "kafka-consumer")}
}

// Consume reads until ctx is cancelled. Read and handler errors are logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.log.WithError(err).Error("Error reading message")
				continue
			}

			if err := handler(ctx, msg); err != nil {
				c.log.WithError(err).WithField("offset", msg.Offset).Error("Error handling message")
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// HeaderValue returns the value of the first header named key
func HeaderValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
