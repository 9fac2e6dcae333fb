package commands

import (
	"context"
	"errors"
	"log/slog"

	application "offeringsvc/contexts/ecommerce/offering-service/application"
	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	domainerrors "offeringsvc/contexts/ecommerce/offering-service/domain/errors"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
	"offeringsvc/internal/shared/events"
)

// RetireOfferingsUseCase propagates a product retirement as a wave of local
// offering transitions. The list only supplies the ids; each retire happens
// inside the repository's own locked scope against the current row, so the
// cascade touches the status field and nothing else.
type RetireOfferingsUseCase struct {
	Offerings   ports.OfferingRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Topic       string
	Logger      *slog.Logger
}

func (uc RetireOfferingsUseCase) RetireOfferingsForProduct(ctx context.Context, productID string) (int, error) {
	logger := application.ResolveLogger(uc.Logger)

	offerings, err := uc.Offerings.ListOfferingsByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}

	now := uc.Clock.Now().UTC()
	retired := 0
	for _, offering := range offerings {
		outboxID, err := uc.IDGenerator.NewID(ctx)
		if err != nil {
			return retired, err
		}
		err = uc.Offerings.RetireOffering(ctx, offering.OfferingID, now,
			func(current entities.Offering) (ports.OutboxRecord, error) {
				return offeringOutboxRecord(outboxID, uc.Topic, events.OperationUpdated, current, now)
			})
		if errors.Is(err, domainerrors.ErrOfferingNotFound) {
			// Deleted between list and retire; nothing left to transition.
			continue
		}
		if err != nil {
			return retired, err
		}
		retired++

		logger.Info("offering retired by product cascade",
			"event", "offering_retired_cascade",
			"module", "ecommerce/offering-service",
			"layer", "application",
			"offering_id", offering.OfferingID,
			"product_id", productID,
		)
	}
	return retired, nil
}
