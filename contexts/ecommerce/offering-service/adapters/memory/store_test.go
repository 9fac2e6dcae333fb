package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"offeringsvc/contexts/ecommerce/offering-service/adapters/memory"
	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	domainerrors "offeringsvc/contexts/ecommerce/offering-service/domain/errors"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
	"offeringsvc/internal/shared/events"
)

func record(id string, operation events.Operation) ports.OutboxRecord {
	return ports.OutboxRecord{
		OutboxID:     id,
		Topic:        "offering",
		PartitionKey: "offering-1",
		Operation:    operation,
		Payload:      []byte(`{}`),
		CreatedAt:    time.Now().UTC(),
	}
}

func TestStoreOfferingWriteRequiresExistence(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	offering := entities.Offering{OfferingID: "offering-1", Status: entities.OfferingStatusActive, ProductID: "prod-1"}

	err := store.UpdateOffering(ctx, offering, record("out-1", events.OperationUpdated))
	if !errors.Is(err, domainerrors.ErrOfferingNotFound) {
		t.Fatalf("update of missing offering should fail, got %v", err)
	}
	err = store.DeleteOffering(ctx, "offering-1", record("out-2", events.OperationDeleted))
	if !errors.Is(err, domainerrors.ErrOfferingNotFound) {
		t.Fatalf("delete of missing offering should fail, got %v", err)
	}

	if err := store.CreateOffering(ctx, offering, record("out-3", events.OperationCreated)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.CreateOffering(ctx, offering, record("out-4", events.OperationCreated)); err == nil {
		t.Fatalf("duplicate create should fail")
	}
}

func TestStoreOutboxRowsLandWithMutations(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	offering := entities.Offering{OfferingID: "offering-1", Status: entities.OfferingStatusActive, ProductID: "prod-1"}
	if err := store.CreateOffering(ctx, offering, record("out-1", events.OperationCreated)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.DeleteOffering(ctx, "offering-1", record("out-2", events.OperationDeleted)); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending rows, got %d", len(pending))
	}

	if err := store.MarkOutboxPublished(ctx, "out-1", time.Now()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "out-2" {
		t.Fatalf("expected only out-2 pending, got %v", pending)
	}
}

func TestStoreListOfferingsByProduct(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()
	base := time.Now().UTC()

	for i, productID := range []string{"prod-1", "prod-2", "prod-1"} {
		offering := entities.Offering{
			OfferingID: string(rune('a' + i)),
			Status:     entities.OfferingStatusActive,
			ProductID:  productID,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateOffering(ctx, offering, record("out-"+offering.OfferingID, events.OperationCreated)); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	items, err := store.ListOfferingsByProduct(ctx, "prod-1")
	if err != nil {
		t.Fatalf("list by product failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 offerings for prod-1, got %d", len(items))
	}
	if items[0].OfferingID != "a" || items[1].OfferingID != "c" {
		t.Fatalf("expected creation order a then c, got %s %s", items[0].OfferingID, items[1].OfferingID)
	}
}

func TestStoreCreateReplayKeepsNewerStatus(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	if err := store.ApplyProductCreated(ctx, entities.Product{
		ProductID: "prod-1",
		Status:    entities.ProductStatusActive,
	}); err != nil {
		t.Fatalf("apply created failed: %v", err)
	}
	result, err := store.ApplyProductUpdated(ctx, entities.Product{
		ProductID: "prod-1",
		Status:    entities.ProductStatusRetired,
	})
	if err != nil {
		t.Fatalf("apply updated failed: %v", err)
	}
	if !result.Found || !result.RetiredTransition {
		t.Fatalf("expected retired transition, got %+v", result)
	}

	// A re-delivered create must not resurrect the pre-retirement status.
	if err := store.ApplyProductCreated(ctx, entities.Product{
		ProductID: "prod-1",
		Status:    entities.ProductStatusActive,
	}); err != nil {
		t.Fatalf("replayed create failed: %v", err)
	}
	product, err := store.GetProduct(ctx, "prod-1")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Status != entities.ProductStatusRetired {
		t.Fatalf("replayed create clobbered the status, got %s", product.Status)
	}
}

func TestStoreReplicaTransitions(t *testing.T) {
	store := memory.NewStore([]entities.Product{
		{ProductID: "prod-1", Status: entities.ProductStatusActive},
	})
	ctx := context.Background()

	result, err := store.ApplyProductUpdated(ctx, entities.Product{
		ProductID: "prod-1",
		Status:    entities.ProductStatusRetired,
	})
	if err != nil {
		t.Fatalf("apply updated failed: %v", err)
	}
	if !result.Found || !result.RetiredTransition {
		t.Fatalf("expected retired transition, got %+v", result)
	}

	result, err = store.ApplyProductUpdated(ctx, entities.Product{
		ProductID: "prod-unknown",
		Status:    entities.ProductStatusRetired,
	})
	if err != nil {
		t.Fatalf("apply updated failed: %v", err)
	}
	if result.Found {
		t.Fatalf("unknown product must not be found")
	}
}
