package httpadapter

import (
	"context"
	"log/slog"

	"offeringsvc/contexts/ecommerce/offering-service/application/commands"
	"offeringsvc/contexts/ecommerce/offering-service/application/queries"
	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	httptransport "offeringsvc/contexts/ecommerce/offering-service/transport/http"
)

type Handler struct {
	CreateOffering commands.CreateOfferingUseCase
	UpdateOffering commands.UpdateOfferingUseCase
	DeleteOffering commands.DeleteOfferingUseCase
	GetOffering    queries.GetOfferingUseCase
	ListOfferings  queries.ListOfferingsUseCase
	GetProduct     queries.GetProductUseCase
	ListProducts   queries.ListProductsUseCase
	Logger         *slog.Logger
}

func (h Handler) CreateOfferingHandler(ctx context.Context, req httptransport.CreateOfferingRequest) (httptransport.OfferingDTO, error) {
	offering, err := h.CreateOffering.Execute(ctx, commands.CreateOfferingCommand{
		ProductID: req.ProductID,
		Status:    req.Status,
		Quantity:  req.Quantity,
		Price:     req.Price,
	})
	if err != nil {
		return httptransport.OfferingDTO{}, err
	}
	return mapOffering(offering), nil
}

func (h Handler) UpdateOfferingHandler(ctx context.Context, req httptransport.UpdateOfferingRequest) error {
	return h.UpdateOffering.Execute(ctx, commands.UpdateOfferingCommand{
		OfferingID: req.ID,
		ProductID:  req.ProductID,
		Status:     req.Status,
		Quantity:   req.Quantity,
		Price:      req.Price,
	})
}

func (h Handler) DeleteOfferingHandler(ctx context.Context, offeringID string) error {
	return h.DeleteOffering.Execute(ctx, offeringID)
}

func (h Handler) GetOfferingHandler(ctx context.Context, offeringID string) (httptransport.OfferingDTO, error) {
	offering, err := h.GetOffering.Execute(ctx, offeringID)
	if err != nil {
		return httptransport.OfferingDTO{}, err
	}
	return mapOffering(offering), nil
}

func (h Handler) ListOfferingsHandler(ctx context.Context) ([]httptransport.OfferingDTO, error) {
	items, err := h.ListOfferings.Execute(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]httptransport.OfferingDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapOffering(item))
	}
	return result, nil
}

func (h Handler) GetProductHandler(ctx context.Context, productID string) (httptransport.ProductDTO, error) {
	product, err := h.GetProduct.Execute(ctx, productID)
	if err != nil {
		return httptransport.ProductDTO{}, err
	}
	return mapProduct(product), nil
}

func (h Handler) ListProductsHandler(ctx context.Context) ([]httptransport.ProductDTO, error) {
	items, err := h.ListProducts.Execute(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]httptransport.ProductDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapProduct(item))
	}
	return result, nil
}

func mapOffering(item entities.Offering) httptransport.OfferingDTO {
	return httptransport.OfferingDTO{
		ID:        item.OfferingID,
		Status:    string(item.Status),
		Quantity:  item.Quantity,
		Price:     item.Price,
		ProductID: item.ProductID,
	}
}

func mapProduct(item entities.Product) httptransport.ProductDTO {
	return httptransport.ProductDTO{
		ID:     item.ProductID,
		Status: string(item.Status),
	}
}
