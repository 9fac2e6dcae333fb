package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	application "offeringsvc/contexts/ecommerce/offering-service/application"
	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
	"offeringsvc/internal/shared/events"
)

// productPayload is the inbound product body. The upstream aggregate carries
// more fields than we replicate; extras are ignored on decode.
type productPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ApplyProductEventUseCase routes a decoded product event into the replica.
// A retired transition triggers the cascade capability.
type ApplyProductEventUseCase struct {
	Replicas ports.ProductReplicaRepository
	Cascade  ports.RetirementCascade
	Logger   *slog.Logger
}

func (uc ApplyProductEventUseCase) Execute(ctx context.Context, message events.Message) error {
	logger := application.ResolveLogger(uc.Logger)

	operation, known := events.ParseOperation(string(message.Metadata.Operation))
	if !known {
		logger.Info("ignoring product event with unknown operation",
			"event", "product_event_unknown_operation",
			"module", "ecommerce/offering-service",
			"layer", "application",
			"operation", string(message.Metadata.Operation),
		)
		return nil
	}

	product, err := decodeProductPayload(message.Payload)
	if err != nil {
		return err
	}

	switch operation {
	case events.OperationCreated:
		if err := uc.Replicas.ApplyProductCreated(ctx, product); err != nil {
			return err
		}
		logger.Info("product replica created",
			"event", "product_replica_created",
			"module", "ecommerce/offering-service",
			"layer", "application",
			"product_id", product.ProductID,
			"status", string(product.Status),
		)
	case events.OperationUpdated:
		result, err := uc.Replicas.ApplyProductUpdated(ctx, product)
		if err != nil {
			return err
		}
		if !result.Found {
			logger.Info("product update for unknown replica ignored",
				"event", "product_replica_update_ignored",
				"module", "ecommerce/offering-service",
				"layer", "application",
				"product_id", product.ProductID,
			)
			return nil
		}
		if result.RetiredTransition {
			retired, err := uc.Cascade.RetireOfferingsForProduct(ctx, product.ProductID)
			if err != nil {
				return err
			}
			logger.Info("product retirement cascaded",
				"event", "product_retirement_cascaded",
				"module", "ecommerce/offering-service",
				"layer", "application",
				"product_id", product.ProductID,
				"retired_offerings", retired,
			)
		}
	case events.OperationDeleted:
		// Products are never deleted locally.
		logger.Info("product delete event ignored",
			"event", "product_delete_ignored",
			"module", "ecommerce/offering-service",
			"layer", "application",
			"product_id", product.ProductID,
		)
	}
	return nil
}

func decodeProductPayload(payload []byte) (entities.Product, error) {
	var body productPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return entities.Product{}, fmt.Errorf("decode product payload: %w", err)
	}
	id := strings.TrimSpace(body.ID)
	if id == "" {
		return entities.Product{}, fmt.Errorf("product payload missing id")
	}
	status := entities.ProductStatus(strings.ToLower(strings.TrimSpace(body.Status)))
	switch status {
	case entities.ProductStatusActive, entities.ProductStatusRetired:
	default:
		return entities.Product{}, fmt.Errorf("product payload has unsupported status %q", body.Status)
	}
	return entities.Product{ProductID: id, Status: status}, nil
}
