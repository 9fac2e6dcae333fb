package commands

import (
	"context"
	"log/slog"
	"strings"

	application "offeringsvc/contexts/ecommerce/offering-service/application"
	domainerrors "offeringsvc/contexts/ecommerce/offering-service/domain/errors"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
)

type DeleteOfferingUseCase struct {
	Offerings   ports.OfferingRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Topic       string
	Logger      *slog.Logger
}

// Execute hard-deletes the offering and records a deleted event whose payload
// carries the id only.
func (uc DeleteOfferingUseCase) Execute(ctx context.Context, offeringID string) error {
	logger := application.ResolveLogger(uc.Logger)

	offeringID = strings.TrimSpace(offeringID)
	if offeringID == "" {
		return domainerrors.ErrOfferingNotFound
	}

	now := uc.Clock.Now().UTC()
	outboxID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	record, err := deletionOutboxRecord(outboxID, uc.Topic, offeringID, now)
	if err != nil {
		return err
	}
	if err := uc.Offerings.DeleteOffering(ctx, offeringID, record); err != nil {
		return err
	}

	logger.Info("offering deleted",
		"event", "offering_deleted",
		"module", "ecommerce/offering-service",
		"layer", "application",
		"offering_id", offeringID,
	)
	return nil
}
