package messaging

import (
	"context"
	"errors"
	"log/slog"

	"offeringsvc/internal/shared/events"

	kafka "github.com/segmentio/kafka-go"
)

// Kafka is the broker-backed bus adapter. Envelope metadata travels as flat
// record headers; the record value is the bare entity body.
type Kafka struct {
	brokers []string
	writer  *kafka.Writer
	logger  *slog.Logger
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	return &Kafka{
		brokers: brokers,
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.Hash{},
		},
		logger: logger,
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, message events.Message) error {
	headers := make([]kafka.Header, 0, 3)
	for _, header := range events.EncodeMetadata(message.Metadata) {
		headers = append(headers, kafka.Header{Key: header.Key, Value: header.Value})
	}

	err := k.writer.WriteMessages(ctx, kafka.Message{
		Topic:   topic,
		Key:     []byte(message.Key),
		Value:   message.Payload,
		Headers: headers,
	})
	if err != nil {
		return err
	}

	if k.logger != nil {
		k.logger.Info("event published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"operation", string(message.Metadata.Operation),
			"source", message.Metadata.Source,
		)
	}
	return nil
}

func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, events.Message) error,
) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: k.brokers,
		GroupID: consumerGroup,
		Topic:   topic,
	})

	go func() {
		defer reader.Close()
		for {
			record, err := reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if k.logger != nil {
					k.logger.Error("kafka fetch failed",
						"event", "kafka_fetch_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"error", err.Error(),
					)
				}
				continue
			}

			headers := make([]events.Header, 0, len(record.Headers))
			for _, header := range record.Headers {
				headers = append(headers, events.Header{Key: header.Key, Value: header.Value})
			}
			message := events.Message{
				Key:      string(record.Key),
				Metadata: events.DecodeMetadata(headers),
				Payload:  record.Value,
			}

			if err := handler(ctx, message); err != nil {
				if k.logger != nil {
					k.logger.Error("consumer handler failed",
						"event", "kafka_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"operation", string(message.Metadata.Operation),
						"error", err.Error(),
					)
				}
				// Handler failures do not block the partition; the message
				// is still committed and the failure is surfaced by logs.
			}
			if err := reader.CommitMessages(ctx, record); err != nil && ctx.Err() == nil {
				if k.logger != nil {
					k.logger.Error("kafka commit failed",
						"event", "kafka_commit_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
