package commands

import (
	"encoding/json"
	"strings"
	"time"

	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
	"offeringsvc/internal/shared/events"
)

// DefaultOfferingTopic is the outbound stream for offering events.
const DefaultOfferingTopic = "offering"

// offeringSnapshot is the event payload: the aggregate as persisted at the
// time the outbox row was written. Field names match the REST wire shape.
type offeringSnapshot struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	Quantity  *int     `json:"quantity,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	ProductID string   `json:"productId"`
}

func offeringOutboxRecord(
	outboxID string,
	topic string,
	operation events.Operation,
	offering entities.Offering,
	createdAt time.Time,
) (ports.OutboxRecord, error) {
	payload, err := json.Marshal(offeringSnapshot{
		ID:        offering.OfferingID,
		Status:    string(offering.Status),
		Quantity:  offering.Quantity,
		Price:     offering.Price,
		ProductID: offering.ProductID,
	})
	if err != nil {
		return ports.OutboxRecord{}, err
	}
	return ports.OutboxRecord{
		OutboxID:     outboxID,
		Topic:        resolveTopic(topic),
		PartitionKey: offering.OfferingID,
		Operation:    operation,
		Payload:      payload,
		CreatedAt:    createdAt.UTC(),
	}, nil
}

// deletionOutboxRecord carries the minimal snapshot: the id only, because the
// aggregate no longer exists.
func deletionOutboxRecord(outboxID string, topic string, offeringID string, createdAt time.Time) (ports.OutboxRecord, error) {
	payload, err := json.Marshal(struct {
		ID string `json:"id"`
	}{ID: offeringID})
	if err != nil {
		return ports.OutboxRecord{}, err
	}
	return ports.OutboxRecord{
		OutboxID:     outboxID,
		Topic:        resolveTopic(topic),
		PartitionKey: offeringID,
		Operation:    events.OperationDeleted,
		Payload:      payload,
		CreatedAt:    createdAt.UTC(),
	}, nil
}

func resolveTopic(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return DefaultOfferingTopic
	}
	return strings.TrimSpace(topic)
}

func parseOfferingStatus(value string) (entities.OfferingStatus, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return entities.OfferingStatusActive, true
	}
	status := entities.OfferingStatus(trimmed)
	return status, entities.IsSupportedOfferingStatus(status)
}
