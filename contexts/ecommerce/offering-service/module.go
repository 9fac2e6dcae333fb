package offeringservice

import (
	"log/slog"

	httpadapter "offeringsvc/contexts/ecommerce/offering-service/adapters/http"
	"offeringsvc/contexts/ecommerce/offering-service/adapters/memory"
	"offeringsvc/contexts/ecommerce/offering-service/application/commands"
	"offeringsvc/contexts/ecommerce/offering-service/application/queries"
	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
)

type Module struct {
	Handler httpadapter.Handler

	// ApplyProductEvent is handed to the inbound consumer; it owns the
	// replica apply path and the retirement cascade.
	ApplyProductEvent commands.ApplyProductEventUseCase

	Store *memory.Store
}

type Dependencies struct {
	Offerings ports.OfferingRepository
	Replicas  ports.ProductReplicaRepository

	Clock       ports.Clock
	IDGenerator ports.IDGenerator

	OfferingTopic            string
	AllowProductReassignment bool
	Logger                   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createOffering := commands.CreateOfferingUseCase{
		Offerings:   deps.Offerings,
		Replicas:    deps.Replicas,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Topic:       deps.OfferingTopic,
		Logger:      deps.Logger,
	}
	updateOffering := commands.UpdateOfferingUseCase{
		Offerings:                deps.Offerings,
		Replicas:                 deps.Replicas,
		Clock:                    deps.Clock,
		IDGenerator:              deps.IDGenerator,
		Topic:                    deps.OfferingTopic,
		AllowProductReassignment: deps.AllowProductReassignment,
		Logger:                   deps.Logger,
	}
	deleteOffering := commands.DeleteOfferingUseCase{
		Offerings:   deps.Offerings,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Topic:       deps.OfferingTopic,
		Logger:      deps.Logger,
	}
	retireOfferings := commands.RetireOfferingsUseCase{
		Offerings:   deps.Offerings,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Topic:       deps.OfferingTopic,
		Logger:      deps.Logger,
	}
	applyProductEvent := commands.ApplyProductEventUseCase{
		Replicas: deps.Replicas,
		Cascade:  retireOfferings,
		Logger:   deps.Logger,
	}

	getOffering := queries.GetOfferingUseCase{
		Offerings: deps.Offerings,
		Logger:    deps.Logger,
	}
	listOfferings := queries.ListOfferingsUseCase{
		Offerings: deps.Offerings,
		Logger:    deps.Logger,
	}
	getProduct := queries.GetProductUseCase{
		Replicas: deps.Replicas,
		Logger:   deps.Logger,
	}
	listProducts := queries.ListProductsUseCase{
		Replicas: deps.Replicas,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateOffering: createOffering,
			UpdateOffering: updateOffering,
			DeleteOffering: deleteOffering,
			GetOffering:    getOffering,
			ListOfferings:  listOfferings,
			GetProduct:     getProduct,
			ListProducts:   listProducts,
			Logger:         deps.Logger,
		},
		ApplyProductEvent: applyProductEvent,
	}
}

// NewInMemoryModule wires the module against the in-memory store. Used by
// tests and by dev wiring without postgres.
func NewInMemoryModule(seed []entities.Product, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Offerings:                store,
		Replicas:                 store,
		Clock:                    store,
		IDGenerator:              store,
		AllowProductReassignment: true,
		Logger:                   logger,
	})
	module.Store = store
	return module
}
