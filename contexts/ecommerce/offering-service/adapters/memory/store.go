package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	domainerrors "offeringsvc/contexts/ecommerce/offering-service/domain/errors"
	"offeringsvc/contexts/ecommerce/offering-service/ports"

	"github.com/google/uuid"
)

type outboxRow struct {
	record      ports.OutboxRecord
	published   bool
	publishedAt time.Time
}

// Store keeps offerings, product replicas and the outbox under one mutex so
// every mutation and its outbox row land atomically, mirroring the
// transactional postgres adapter.
type Store struct {
	mu sync.RWMutex

	offerings map[string]entities.Offering
	products  map[string]entities.Product
	outbox    []outboxRow
}

func NewStore(seed []entities.Product) *Store {
	products := make(map[string]entities.Product, len(seed))
	for _, item := range seed {
		products[item.ProductID] = item
	}
	return &Store{
		offerings: make(map[string]entities.Offering),
		products:  products,
		outbox:    make([]outboxRow, 0),
	}
}

func (s *Store) CreateOffering(_ context.Context, offering entities.Offering, record ports.OutboxRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.offerings[offering.OfferingID]; exists {
		return domainerrors.ErrInvalidOfferingInput
	}
	s.offerings[offering.OfferingID] = offering
	s.outbox = append(s.outbox, outboxRow{record: record})
	return nil
}

func (s *Store) UpdateOffering(_ context.Context, offering entities.Offering, record ports.OutboxRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.offerings[offering.OfferingID]; !exists {
		return domainerrors.ErrOfferingNotFound
	}
	s.offerings[offering.OfferingID] = offering
	s.outbox = append(s.outbox, outboxRow{record: record})
	return nil
}

func (s *Store) DeleteOffering(_ context.Context, offeringID string, record ports.OutboxRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.offerings[offeringID]; !exists {
		return domainerrors.ErrOfferingNotFound
	}
	delete(s.offerings, offeringID)
	s.outbox = append(s.outbox, outboxRow{record: record})
	return nil
}

func (s *Store) RetireOffering(_ context.Context, offeringID string, retiredAt time.Time, buildRecord func(entities.Offering) (ports.OutboxRecord, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	offering, exists := s.offerings[offeringID]
	if !exists {
		return domainerrors.ErrOfferingNotFound
	}
	offering.Status = entities.OfferingStatusRetired
	offering.UpdatedAt = retiredAt.UTC()

	record, err := buildRecord(offering)
	if err != nil {
		return err
	}
	s.offerings[offeringID] = offering
	s.outbox = append(s.outbox, outboxRow{record: record})
	return nil
}

func (s *Store) GetOffering(_ context.Context, offeringID string) (entities.Offering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.offerings[strings.TrimSpace(offeringID)]
	if !exists {
		return entities.Offering{}, domainerrors.ErrOfferingNotFound
	}
	return item, nil
}

func (s *Store) ListOfferings(_ context.Context) ([]entities.Offering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Offering, 0, len(s.offerings))
	for _, offering := range s.offerings {
		items = append(items, offering)
	}
	sortOfferings(items)
	return items, nil
}

func (s *Store) ListOfferingsByProduct(_ context.Context, productID string) ([]entities.Offering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Offering, 0)
	for _, offering := range s.offerings {
		if offering.ProductID == strings.TrimSpace(productID) {
			items = append(items, offering)
		}
	}
	sortOfferings(items)
	return items, nil
}

func (s *Store) ApplyProductCreated(_ context.Context, product entities.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Insert-if-absent: a re-delivered create must not clobber a status that
	// later update events already moved forward.
	if _, exists := s.products[product.ProductID]; !exists {
		s.products[product.ProductID] = product
	}
	return nil
}

func (s *Store) ApplyProductUpdated(_ context.Context, product entities.Product) (ports.ReplicaUpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, exists := s.products[product.ProductID]
	if !exists {
		return ports.ReplicaUpdateResult{}, nil
	}
	s.products[product.ProductID] = product
	return ports.ReplicaUpdateResult{
		Found:             true,
		RetiredTransition: !previous.Retired() && product.Retired(),
	}, nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.products[strings.TrimSpace(productID)]
	if !exists {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	return item, nil
}

func (s *Store) ListProducts(_ context.Context) ([]entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Product, 0, len(s.products))
	for _, product := range s.products {
		items = append(items, product)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID < items[j].ProductID
	})
	return items, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxRecord, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.record)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].record.OutboxID == outboxID {
			s.outbox[i].published = true
			s.outbox[i].publishedAt = publishedAt.UTC()
			return nil
		}
	}
	return domainerrors.ErrInvalidOfferingInput
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func sortOfferings(items []entities.Offering) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].OfferingID < items[j].OfferingID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
