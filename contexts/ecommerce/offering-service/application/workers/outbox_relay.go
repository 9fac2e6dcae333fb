package workers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "offeringsvc/contexts/ecommerce/offering-service/application"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
	"offeringsvc/internal/shared/events"
)

const defaultEventSource = "offering"

// OutboxRelay publishes pending offering outbox rows to the event bus.
// Rows are only marked published after a successful bus write, so a crash
// between commit and publish leaves them pending for the next cycle.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Source    string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	source := strings.TrimSpace(r.Source)
	if source == "" {
		source = defaultEventSource
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("offering outbox list failed",
			"event", "offering_outbox_list_failed",
			"module", "ecommerce/offering-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, row := range pending {
		now := time.Now().UTC()
		if r.Clock != nil {
			now = r.Clock.Now().UTC()
		}
		message := events.Message{
			Key: row.PartitionKey,
			Metadata: events.Metadata{
				Operation: row.Operation,
				Source:    source,
				Timestamp: now,
			},
			Payload: row.Payload,
		}
		if err := r.Publisher.Publish(ctx, row.Topic, message); err != nil {
			logger.Error("offering outbox publish failed",
				"event", "offering_outbox_publish_failed",
				"module", "ecommerce/offering-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"operation", string(row.Operation),
				"topic", row.Topic,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("offering outbox mark published failed",
				"event", "offering_outbox_mark_published_failed",
				"module", "ecommerce/offering-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("offering outbox relay cycle completed",
			"event", "offering_outbox_relay_completed",
			"module", "ecommerce/offering-service",
			"layer", "worker",
			"published_count", len(pending),
		)
	}
	return nil
}
