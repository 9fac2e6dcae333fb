package workers_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	offeringservice "offeringsvc/contexts/ecommerce/offering-service"
	"offeringsvc/contexts/ecommerce/offering-service/application/workers"
	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	httptransport "offeringsvc/contexts/ecommerce/offering-service/transport/http"
	"offeringsvc/internal/platform/messaging"
	"offeringsvc/internal/shared/events"
)

type capturingPublisher struct {
	mu       sync.Mutex
	messages []events.Message
	topics   []string
	failAt   int
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, message events.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAt > 0 && len(p.messages)+1 == p.failAt {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, message)
	p.topics = append(p.topics, topic)
	return nil
}

func seededModule(t *testing.T) offeringservice.Module {
	t.Helper()
	return offeringservice.NewInMemoryModule([]entities.Product{
		{ProductID: "prod-1", Status: entities.ProductStatusActive},
	}, nil)
}

func TestOutboxRelayPublishesPendingRows(t *testing.T) {
	module := seededModule(t)
	ctx := context.Background()

	created, err := module.Handler.CreateOfferingHandler(ctx, httptransport.CreateOfferingRequest{
		ProductID: "prod-1",
	})
	if err != nil {
		t.Fatalf("create offering failed: %v", err)
	}
	if err := module.Handler.DeleteOfferingHandler(ctx, created.ID); err != nil {
		t.Fatalf("delete offering failed: %v", err)
	}

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
		Source:    "offering",
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	if len(publisher.messages) != 2 {
		t.Fatalf("expected 2 published messages, got %d", len(publisher.messages))
	}
	first := publisher.messages[0]
	if publisher.topics[0] != "offering" {
		t.Fatalf("expected offering topic, got %s", publisher.topics[0])
	}
	if first.Key != created.ID {
		t.Fatalf("partition key should be the offering id, got %s", first.Key)
	}
	if first.Metadata.Operation != events.OperationCreated {
		t.Fatalf("expected created operation, got %s", first.Metadata.Operation)
	}
	if first.Metadata.Source != "offering" {
		t.Fatalf("expected source offering, got %s", first.Metadata.Source)
	}
	if first.Metadata.Timestamp.IsZero() {
		t.Fatalf("timestamp must be stamped at publish time")
	}
	if publisher.messages[1].Metadata.Operation != events.OperationDeleted {
		t.Fatalf("expected deleted operation second, got %s", publisher.messages[1].Metadata.Operation)
	}

	// A second cycle finds nothing pending.
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.messages) != 2 {
		t.Fatalf("published rows must not be republished, got %d messages", len(publisher.messages))
	}
}

func TestOutboxRelayPublishFailureKeepsRowPending(t *testing.T) {
	module := seededModule(t)
	ctx := context.Background()

	if _, err := module.Handler.CreateOfferingHandler(ctx, httptransport.CreateOfferingRequest{
		ProductID: "prod-1",
	}); err != nil {
		t.Fatalf("create offering failed: %v", err)
	}

	publisher := &capturingPublisher{failAt: 1}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
	}
	if err := relay.RunOnce(ctx); err == nil {
		t.Fatalf("expected relay error when publish fails")
	}

	pending, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed publish must leave the row pending, got %d", len(pending))
	}

	// Retry succeeds and drains the row.
	publisher.failAt = 0
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("retry relay run failed: %v", err)
	}
	pending, err = module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected drained outbox after retry, got %d pending", len(pending))
	}
}

func TestOutboxRelayDeliversThroughBus(t *testing.T) {
	module := seededModule(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := messaging.NewBus(nil)
	received := make(chan events.Message, 1)
	err := bus.Subscribe(ctx, "offering", "test-cg", func(_ context.Context, message events.Message) error {
		received <- message
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	created, err := module.Handler.CreateOfferingHandler(ctx, httptransport.CreateOfferingRequest{
		ProductID: "prod-1",
	})
	if err != nil {
		t.Fatalf("create offering failed: %v", err)
	}

	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: bus,
		Clock:     module.Store,
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	select {
	case message := <-received:
		if message.Key != created.ID {
			t.Fatalf("expected key %s, got %s", created.ID, message.Key)
		}
		if message.Metadata.Operation != events.OperationCreated {
			t.Fatalf("expected created operation, got %s", message.Metadata.Operation)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for bus delivery")
	}
}
