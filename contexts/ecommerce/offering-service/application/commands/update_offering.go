package commands

import (
	"context"
	"log/slog"
	"strings"

	application "offeringsvc/contexts/ecommerce/offering-service/application"
	domainerrors "offeringsvc/contexts/ecommerce/offering-service/domain/errors"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
	"offeringsvc/internal/shared/events"
)

type UpdateOfferingCommand struct {
	OfferingID string
	ProductID  string
	Status     string
	Quantity   *int
	Price      *float64
}

type UpdateOfferingUseCase struct {
	Offerings   ports.OfferingRepository
	Replicas    ports.ProductReplicaRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Topic       string

	// AllowProductReassignment controls whether an update may reference a
	// different product than the offering currently does. The referenced
	// product is re-validated on every update either way.
	AllowProductReassignment bool

	Logger *slog.Logger
}

// Execute replaces status, quantity, price and product reference wholesale,
// then persists the offering together with its updated event.
func (uc UpdateOfferingUseCase) Execute(ctx context.Context, cmd UpdateOfferingCommand) error {
	logger := application.ResolveLogger(uc.Logger)

	offeringID := strings.TrimSpace(cmd.OfferingID)
	if offeringID == "" {
		return domainerrors.ErrInvalidOfferingInput
	}
	productID := strings.TrimSpace(cmd.ProductID)
	if productID == "" {
		return domainerrors.ErrInvalidOfferingInput
	}
	status, ok := parseOfferingStatus(cmd.Status)
	if !ok {
		return domainerrors.ErrInvalidOfferingInput
	}

	offering, err := uc.Offerings.GetOffering(ctx, offeringID)
	if err != nil {
		return err
	}
	if !uc.AllowProductReassignment && offering.ProductID != productID {
		return domainerrors.ErrProductReassignmentNotAllowed
	}
	if _, err := uc.Replicas.GetProduct(ctx, productID); err != nil {
		return err
	}

	now := uc.Clock.Now().UTC()
	offering.Status = status
	offering.Quantity = cmd.Quantity
	offering.Price = cmd.Price
	offering.ProductID = productID
	offering.UpdatedAt = now

	outboxID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	record, err := offeringOutboxRecord(outboxID, uc.Topic, events.OperationUpdated, offering, now)
	if err != nil {
		return err
	}
	if err := uc.Offerings.UpdateOffering(ctx, offering, record); err != nil {
		return err
	}

	logger.Info("offering updated",
		"event", "offering_updated",
		"module", "ecommerce/offering-service",
		"layer", "application",
		"offering_id", offering.OfferingID,
		"product_id", offering.ProductID,
		"status", string(offering.Status),
	)
	return nil
}
