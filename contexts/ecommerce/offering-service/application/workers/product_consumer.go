package workers

import (
	"context"
	"log/slog"
	"strings"

	application "offeringsvc/contexts/ecommerce/offering-service/application"
	"offeringsvc/contexts/ecommerce/offering-service/application/commands"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
	"offeringsvc/internal/shared/events"
)

const (
	defaultProductTopic         = "product"
	defaultProductConsumerGroup = "offering-service-product-cg"
)

// ProductConsumer feeds the product stream into the replica-apply use case.
// Messages that cannot be applied are logged and skipped so the consumer
// keeps draining the topic.
type ProductConsumer struct {
	Subscriber    ports.EventSubscriber
	Apply         commands.ApplyProductEventUseCase
	Topic         string
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c ProductConsumer) Start(ctx context.Context) error {
	topic := strings.TrimSpace(c.Topic)
	if topic == "" {
		topic = defaultProductTopic
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultProductConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, topic, group, c.handleProductEvent)
}

func (c ProductConsumer) handleProductEvent(ctx context.Context, message events.Message) error {
	logger := application.ResolveLogger(c.Logger)
	if err := c.Apply.Execute(ctx, message); err != nil {
		logger.Error("product event skipped",
			"event", "product_event_skipped",
			"module", "ecommerce/offering-service",
			"layer", "worker",
			"operation", string(message.Metadata.Operation),
			"error", err.Error(),
		)
		return nil
	}
	return nil
}
