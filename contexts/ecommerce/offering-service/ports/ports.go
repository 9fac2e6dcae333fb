package ports

import (
	"context"
	"time"

	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	"offeringsvc/internal/shared/events"
)

// OutboxRecord is one pending outbound event, persisted in the same
// transaction as the aggregate mutation it announces. The relay publishes
// pending rows and marks them published afterwards, so persistence always
// happens-before emission.
type OutboxRecord struct {
	OutboxID     string
	Topic        string
	PartitionKey string
	Operation    events.Operation
	Payload      []byte
	CreatedAt    time.Time
}

// OfferingRepository is the authoritative offering store. Every mutation
// takes the outbox record for the event announcing it; adapters must write
// both atomically.
type OfferingRepository interface {
	CreateOffering(ctx context.Context, offering entities.Offering, record OutboxRecord) error
	UpdateOffering(ctx context.Context, offering entities.Offering, record OutboxRecord) error
	DeleteOffering(ctx context.Context, offeringID string, record OutboxRecord) error
	GetOffering(ctx context.Context, offeringID string) (entities.Offering, error)
	ListOfferings(ctx context.Context) ([]entities.Offering, error)
	ListOfferingsByProduct(ctx context.Context, productID string) ([]entities.Offering, error)

	// RetireOffering flips the offering to retired without touching its other
	// fields. The adapter re-reads the row under its write lock and hands the
	// post-retire snapshot to buildRecord, so the outbox payload always
	// matches the persisted state even when a concurrent update landed after
	// the caller listed the offering.
	RetireOffering(ctx context.Context, offeringID string, retiredAt time.Time, buildRecord func(entities.Offering) (OutboxRecord, error)) error
}

// ReplicaUpdateResult reports what applying a product update did.
type ReplicaUpdateResult struct {
	Found             bool
	RetiredTransition bool // status moved from non-retired to retired
}

// ProductReplicaRepository holds the local product replica. It is written
// only by consumed events: creates are idempotent upserts, updates on an
// unknown id are a silent no-op, and products are never deleted locally.
type ProductReplicaRepository interface {
	ApplyProductCreated(ctx context.Context, product entities.Product) error
	ApplyProductUpdated(ctx context.Context, product entities.Product) (ReplicaUpdateResult, error)
	GetProduct(ctx context.Context, productID string) (entities.Product, error)
	ListProducts(ctx context.Context) ([]entities.Product, error)
}

// RetirementCascade is the capability the replica-apply path invokes when a
// product transitions to retired. Modeled as an explicit callback because it
// is an outbound effect of applying an event, not a query.
type RetirementCascade interface {
	RetireOfferingsForProduct(ctx context.Context, productID string) (int, error)
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, message events.Message) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, events.Message) error,
	) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
