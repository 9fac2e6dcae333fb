package offeringservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	offeringservice "offeringsvc/contexts/ecommerce/offering-service"
	"offeringsvc/contexts/ecommerce/offering-service/adapters/memory"
	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	domainerrors "offeringsvc/contexts/ecommerce/offering-service/domain/errors"
	httptransport "offeringsvc/contexts/ecommerce/offering-service/transport/http"
	"offeringsvc/internal/shared/events"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func seedProducts() []entities.Product {
	return []entities.Product{
		{ProductID: "prod-1", Status: entities.ProductStatusActive},
		{ProductID: "prod-2", Status: entities.ProductStatusActive},
		{ProductID: "prod-retired", Status: entities.ProductStatusRetired},
	}
}

func productMessage(operation events.Operation, id string, status string) events.Message {
	payload, _ := json.Marshal(map[string]string{"id": id, "status": status})
	return events.Message{
		Key: id,
		Metadata: events.Metadata{
			Operation: operation,
			Source:    "product",
			Timestamp: time.Now().UTC(),
		},
		Payload: payload,
	}
}

func TestOfferingLifecycle(t *testing.T) {
	module := offeringservice.NewInMemoryModule(seedProducts(), nil)
	ctx := context.Background()

	created, err := module.Handler.CreateOfferingHandler(ctx, httptransport.CreateOfferingRequest{
		ProductID: "prod-1",
		Quantity:  intPtr(10),
		Price:     floatPtr(19.99),
	})
	if err != nil {
		t.Fatalf("create offering failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated offering id")
	}
	if created.Status != "active" {
		t.Fatalf("expected default status active, got %s", created.Status)
	}

	fetched, err := module.Handler.GetOfferingHandler(ctx, created.ID)
	if err != nil {
		t.Fatalf("get offering failed: %v", err)
	}
	if fetched.ProductID != "prod-1" || *fetched.Quantity != 10 {
		t.Fatalf("unexpected fetched offering: %+v", fetched)
	}

	err = module.Handler.UpdateOfferingHandler(ctx, httptransport.UpdateOfferingRequest{
		ID:        created.ID,
		Status:    "inactive",
		ProductID: "prod-2",
		Quantity:  intPtr(5),
		Price:     floatPtr(9.99),
	})
	if err != nil {
		t.Fatalf("update offering failed: %v", err)
	}

	fetched, err = module.Handler.GetOfferingHandler(ctx, created.ID)
	if err != nil {
		t.Fatalf("get after update failed: %v", err)
	}
	if fetched.Status != "inactive" || fetched.ProductID != "prod-2" || *fetched.Quantity != 5 {
		t.Fatalf("update was not a wholesale replace: %+v", fetched)
	}

	if err := module.Handler.DeleteOfferingHandler(ctx, created.ID); err != nil {
		t.Fatalf("delete offering failed: %v", err)
	}
	if _, err := module.Handler.GetOfferingHandler(ctx, created.ID); !errors.Is(err, domainerrors.ErrOfferingNotFound) {
		t.Fatalf("expected offering not found after delete, got %v", err)
	}

	pending, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending outbox rows, got %d", len(pending))
	}
	if pending[0].Operation != events.OperationCreated ||
		pending[1].Operation != events.OperationUpdated ||
		pending[2].Operation != events.OperationDeleted {
		t.Fatalf("unexpected outbox operations: %s %s %s",
			pending[0].Operation, pending[1].Operation, pending[2].Operation)
	}

	var deletedPayload map[string]any
	if err := json.Unmarshal(pending[2].Payload, &deletedPayload); err != nil {
		t.Fatalf("decode deleted payload: %v", err)
	}
	if len(deletedPayload) != 1 || deletedPayload["id"] != created.ID {
		t.Fatalf("deleted payload should carry the id only, got %v", deletedPayload)
	}
}

func TestCreateOfferingUnknownProduct(t *testing.T) {
	module := offeringservice.NewInMemoryModule(seedProducts(), nil)

	_, err := module.Handler.CreateOfferingHandler(context.Background(), httptransport.CreateOfferingRequest{
		ProductID: "prod-missing",
	})
	if !errors.Is(err, domainerrors.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestCreateOfferingRetiredProduct(t *testing.T) {
	module := offeringservice.NewInMemoryModule(seedProducts(), nil)

	_, err := module.Handler.CreateOfferingHandler(context.Background(), httptransport.CreateOfferingRequest{
		ProductID: "prod-retired",
	})
	if !errors.Is(err, domainerrors.ErrProductRetired) {
		t.Fatalf("expected retired product rejection, got %v", err)
	}
}

func TestCreateOfferingInvalidStatus(t *testing.T) {
	module := offeringservice.NewInMemoryModule(seedProducts(), nil)

	_, err := module.Handler.CreateOfferingHandler(context.Background(), httptransport.CreateOfferingRequest{
		ProductID: "prod-1",
		Status:    "archived",
	})
	if !errors.Is(err, domainerrors.ErrInvalidOfferingInput) {
		t.Fatalf("expected invalid input for unsupported status, got %v", err)
	}
}

func TestUpdateOfferingNotFound(t *testing.T) {
	module := offeringservice.NewInMemoryModule(seedProducts(), nil)

	err := module.Handler.UpdateOfferingHandler(context.Background(), httptransport.UpdateOfferingRequest{
		ID:        "offering-missing",
		Status:    "active",
		ProductID: "prod-1",
	})
	if !errors.Is(err, domainerrors.ErrOfferingNotFound) {
		t.Fatalf("expected offering not found, got %v", err)
	}
}

func TestUpdateOfferingReassignmentDisallowed(t *testing.T) {
	store := memory.NewStore(seedProducts())
	module := offeringservice.NewModule(offeringservice.Dependencies{
		Offerings:                store,
		Replicas:                 store,
		Clock:                    store,
		IDGenerator:              store,
		AllowProductReassignment: false,
	})
	ctx := context.Background()

	created, err := module.Handler.CreateOfferingHandler(ctx, httptransport.CreateOfferingRequest{
		ProductID: "prod-1",
	})
	if err != nil {
		t.Fatalf("create offering failed: %v", err)
	}

	err = module.Handler.UpdateOfferingHandler(ctx, httptransport.UpdateOfferingRequest{
		ID:        created.ID,
		Status:    "active",
		ProductID: "prod-2",
	})
	if !errors.Is(err, domainerrors.ErrProductReassignmentNotAllowed) {
		t.Fatalf("expected reassignment rejection, got %v", err)
	}

	// Same product stays allowed.
	err = module.Handler.UpdateOfferingHandler(ctx, httptransport.UpdateOfferingRequest{
		ID:        created.ID,
		Status:    "inactive",
		ProductID: "prod-1",
	})
	if err != nil {
		t.Fatalf("same-product update failed: %v", err)
	}
}

func TestDeleteOfferingNotFound(t *testing.T) {
	module := offeringservice.NewInMemoryModule(seedProducts(), nil)

	err := module.Handler.DeleteOfferingHandler(context.Background(), "offering-missing")
	if !errors.Is(err, domainerrors.ErrOfferingNotFound) {
		t.Fatalf("expected offering not found, got %v", err)
	}
}

func TestProductRetirementCascade(t *testing.T) {
	module := offeringservice.NewInMemoryModule(seedProducts(), nil)
	ctx := context.Background()

	var offeringIDs []string
	for i := 0; i < 3; i++ {
		created, err := module.Handler.CreateOfferingHandler(ctx, httptransport.CreateOfferingRequest{
			ProductID: "prod-1",
		})
		if err != nil {
			t.Fatalf("create offering %d failed: %v", i, err)
		}
		offeringIDs = append(offeringIDs, created.ID)
	}
	other, err := module.Handler.CreateOfferingHandler(ctx, httptransport.CreateOfferingRequest{
		ProductID: "prod-2",
	})
	if err != nil {
		t.Fatalf("create unrelated offering failed: %v", err)
	}

	err = module.ApplyProductEvent.Execute(ctx, productMessage(events.OperationUpdated, "prod-1", "retired"))
	if err != nil {
		t.Fatalf("apply retirement event failed: %v", err)
	}

	for _, id := range offeringIDs {
		fetched, err := module.Handler.GetOfferingHandler(ctx, id)
		if err != nil {
			t.Fatalf("get cascaded offering failed: %v", err)
		}
		if fetched.Status != "retired" {
			t.Fatalf("expected offering %s retired, got %s", id, fetched.Status)
		}
	}
	unrelated, err := module.Handler.GetOfferingHandler(ctx, other.ID)
	if err != nil {
		t.Fatalf("get unrelated offering failed: %v", err)
	}
	if unrelated.Status != "active" {
		t.Fatalf("unrelated offering should stay active, got %s", unrelated.Status)
	}

	product, err := module.Handler.GetProductHandler(ctx, "prod-1")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Status != "retired" {
		t.Fatalf("expected replica retired, got %s", product.Status)
	}

	// One updated event per cascaded offering, after the three created rows
	// and the unrelated created row.
	pending, err := module.Store.ListPendingOutbox(ctx, 20)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	updated := 0
	for _, row := range pending {
		if row.Operation == events.OperationUpdated {
			updated++
		}
	}
	if updated != 3 {
		t.Fatalf("expected 3 updated events from cascade, got %d", updated)
	}
}

func TestProductUpdateForUnknownReplicaIgnored(t *testing.T) {
	module := offeringservice.NewInMemoryModule(seedProducts(), nil)
	ctx := context.Background()

	err := module.ApplyProductEvent.Execute(ctx, productMessage(events.OperationUpdated, "prod-unknown", "retired"))
	if err != nil {
		t.Fatalf("expected unknown replica update to be ignored, got %v", err)
	}
	if _, err := module.Handler.GetProductHandler(ctx, "prod-unknown"); !errors.Is(err, domainerrors.ErrProductNotFound) {
		t.Fatalf("unknown replica must not be created by an update, got %v", err)
	}
}

func TestProductCreatedReplay(t *testing.T) {
	module := offeringservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := module.ApplyProductEvent.Execute(ctx, productMessage(events.OperationCreated, "prod-9", "active")); err != nil {
			t.Fatalf("apply created event %d failed: %v", i, err)
		}
	}

	products, err := module.Handler.ListProductsHandler(ctx)
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected exactly one replica after replay, got %d", len(products))
	}
}

func TestProductEventUnknownOperationIgnored(t *testing.T) {
	module := offeringservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	message := productMessage("archived", "prod-9", "active")
	if err := module.ApplyProductEvent.Execute(ctx, message); err != nil {
		t.Fatalf("expected unknown operation to be ignored, got %v", err)
	}
	products, err := module.Handler.ListProductsHandler(ctx)
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("unknown operation must not touch replicas, got %d", len(products))
	}
}

func TestProductDeleteEventIgnored(t *testing.T) {
	module := offeringservice.NewInMemoryModule(seedProducts(), nil)
	ctx := context.Background()

	if err := module.ApplyProductEvent.Execute(ctx, productMessage(events.OperationDeleted, "prod-1", "active")); err != nil {
		t.Fatalf("apply deleted event failed: %v", err)
	}
	if _, err := module.Handler.GetProductHandler(ctx, "prod-1"); err != nil {
		t.Fatalf("replica must survive a product delete event, got %v", err)
	}
}

func TestProductEventMalformedPayload(t *testing.T) {
	module := offeringservice.NewInMemoryModule(nil, nil)

	message := events.Message{
		Metadata: events.Metadata{Operation: events.OperationCreated},
		Payload:  []byte(`{"status":"active"}`),
	}
	if err := module.ApplyProductEvent.Execute(context.Background(), message); err == nil {
		t.Fatalf("expected error for payload without id")
	}
}
