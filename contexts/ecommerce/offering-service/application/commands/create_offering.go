package commands

import (
	"context"
	"log/slog"
	"strings"

	application "offeringsvc/contexts/ecommerce/offering-service/application"
	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	domainerrors "offeringsvc/contexts/ecommerce/offering-service/domain/errors"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
	"offeringsvc/internal/shared/events"
)

type CreateOfferingCommand struct {
	ProductID string
	Status    string
	Quantity  *int
	Price     *float64
}

type CreateOfferingUseCase struct {
	Offerings   ports.OfferingRepository
	Replicas    ports.ProductReplicaRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Topic       string
	Logger      *slog.Logger
}

// Execute validates the referenced product replica, persists the new offering
// and its created event in one transactional scope, and returns the offering.
func (uc CreateOfferingUseCase) Execute(ctx context.Context, cmd CreateOfferingCommand) (entities.Offering, error) {
	logger := application.ResolveLogger(uc.Logger)

	productID := strings.TrimSpace(cmd.ProductID)
	if productID == "" {
		return entities.Offering{}, domainerrors.ErrInvalidOfferingInput
	}
	status, ok := parseOfferingStatus(cmd.Status)
	if !ok {
		return entities.Offering{}, domainerrors.ErrInvalidOfferingInput
	}

	product, err := uc.Replicas.GetProduct(ctx, productID)
	if err != nil {
		return entities.Offering{}, err
	}
	if product.Retired() {
		return entities.Offering{}, domainerrors.ErrProductRetired
	}

	now := uc.Clock.Now().UTC()
	offeringID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Offering{}, err
	}
	outboxID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Offering{}, err
	}

	offering := entities.Offering{
		OfferingID: offeringID,
		Status:     status,
		Quantity:   cmd.Quantity,
		Price:      cmd.Price,
		ProductID:  productID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	record, err := offeringOutboxRecord(outboxID, uc.Topic, events.OperationCreated, offering, now)
	if err != nil {
		return entities.Offering{}, err
	}
	if err := uc.Offerings.CreateOffering(ctx, offering, record); err != nil {
		return entities.Offering{}, err
	}

	logger.Info("offering created",
		"event", "offering_created",
		"module", "ecommerce/offering-service",
		"layer", "application",
		"offering_id", offering.OfferingID,
		"product_id", offering.ProductID,
		"status", string(offering.Status),
	)
	return offering, nil
}
