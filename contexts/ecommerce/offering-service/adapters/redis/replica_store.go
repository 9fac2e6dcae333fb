package redisadapter

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	domainerrors "offeringsvc/contexts/ecommerce/offering-service/domain/errors"
	"offeringsvc/contexts/ecommerce/offering-service/ports"

	"github.com/redis/go-redis/v9"
)

const replicaKeyPrefix = "product:"

// ReplicaStore keeps the product replica in redis, one key per product id
// holding the status. Writes happen only on the single consumer path, so
// read-then-write transition detection does not race with other writers.
type ReplicaStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewReplicaStore(client *redis.Client, logger *slog.Logger) *ReplicaStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReplicaStore{
		client: client,
		logger: logger,
	}
}

func (s *ReplicaStore) ApplyProductCreated(ctx context.Context, product entities.Product) error {
	// SetNX keeps re-delivered creates from clobbering a status that later
	// update events already moved forward.
	return s.client.SetNX(ctx, replicaKey(product.ProductID), string(product.Status), 0).Err()
}

func (s *ReplicaStore) ApplyProductUpdated(ctx context.Context, product entities.Product) (ports.ReplicaUpdateResult, error) {
	previous, err := s.client.Get(ctx, replicaKey(product.ProductID)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.ReplicaUpdateResult{}, nil
	}
	if err != nil {
		return ports.ReplicaUpdateResult{}, err
	}

	if err := s.client.Set(ctx, replicaKey(product.ProductID), string(product.Status), 0).Err(); err != nil {
		return ports.ReplicaUpdateResult{}, err
	}
	return ports.ReplicaUpdateResult{
		Found: true,
		RetiredTransition: previous != string(entities.ProductStatusRetired) &&
			product.Status == entities.ProductStatusRetired,
	}, nil
}

func (s *ReplicaStore) GetProduct(ctx context.Context, productID string) (entities.Product, error) {
	status, err := s.client.Get(ctx, replicaKey(productID)).Result()
	if errors.Is(err, redis.Nil) {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, err
	}
	return entities.Product{
		ProductID: strings.TrimSpace(productID),
		Status:    entities.ProductStatus(status),
	}, nil
}

func (s *ReplicaStore) ListProducts(ctx context.Context) ([]entities.Product, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, replicaKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	items := make([]entities.Product, 0, len(keys))
	for _, key := range keys {
		status, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, entities.Product{
			ProductID: strings.TrimPrefix(key, replicaKeyPrefix),
			Status:    entities.ProductStatus(status),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID < items[j].ProductID
	})
	return items, nil
}

func replicaKey(productID string) string {
	return replicaKeyPrefix + strings.TrimSpace(productID)
}
