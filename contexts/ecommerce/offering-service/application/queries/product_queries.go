package queries

import (
	"context"
	"log/slog"
	"strings"

	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
)

type GetProductUseCase struct {
	Replicas ports.ProductReplicaRepository
	Logger   *slog.Logger
}

func (uc GetProductUseCase) Execute(ctx context.Context, productID string) (entities.Product, error) {
	product, err := uc.Replicas.GetProduct(ctx, strings.TrimSpace(productID))
	if err != nil {
		return entities.Product{}, err
	}
	return product, nil
}

type ListProductsUseCase struct {
	Replicas ports.ProductReplicaRepository
	Logger   *slog.Logger
}

func (uc ListProductsUseCase) Execute(ctx context.Context) ([]entities.Product, error) {
	return uc.Replicas.ListProducts(ctx)
}
