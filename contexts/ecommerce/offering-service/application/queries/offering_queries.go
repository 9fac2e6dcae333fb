package queries

import (
	"context"
	"log/slog"
	"strings"

	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
)

type GetOfferingUseCase struct {
	Offerings ports.OfferingRepository
	Logger    *slog.Logger
}

func (uc GetOfferingUseCase) Execute(ctx context.Context, offeringID string) (entities.Offering, error) {
	offering, err := uc.Offerings.GetOffering(ctx, strings.TrimSpace(offeringID))
	if err != nil {
		return entities.Offering{}, err
	}
	return offering, nil
}

type ListOfferingsUseCase struct {
	Offerings ports.OfferingRepository
	Logger    *slog.Logger
}

func (uc ListOfferingsUseCase) Execute(ctx context.Context) ([]entities.Offering, error) {
	return uc.Offerings.ListOfferings(ctx)
}
