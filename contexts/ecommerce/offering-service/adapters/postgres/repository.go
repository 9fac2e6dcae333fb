package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"offeringsvc/contexts/ecommerce/offering-service/domain/entities"
	domainerrors "offeringsvc/contexts/ecommerce/offering-service/domain/errors"
	"offeringsvc/contexts/ecommerce/offering-service/ports"
	"offeringsvc/internal/shared/events"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateOffering(ctx context.Context, offering entities.Offering, record ports.OutboxRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := offeringModelFromEntity(offering)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidOfferingInput
			}
			return err
		}
		return insertOutboxRecordTx(tx, record)
	})
}

func (r *Repository) UpdateOffering(ctx context.Context, offering entities.Offering, record ports.OutboxRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing offeringModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("offering_id = ?", strings.TrimSpace(offering.OfferingID)).
			First(&existing).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrOfferingNotFound
			}
			return err
		}
		if err := tx.Model(&offeringModel{}).
			Where("offering_id = ?", strings.TrimSpace(offering.OfferingID)).
			Updates(offeringUpdatesFromEntity(offering)).
			Error; err != nil {
			return err
		}
		return insertOutboxRecordTx(tx, record)
	})
}

func (r *Repository) RetireOffering(ctx context.Context, offeringID string, retiredAt time.Time, buildRecord func(entities.Offering) (ports.OutboxRecord, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing offeringModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("offering_id = ?", strings.TrimSpace(offeringID)).
			First(&existing).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrOfferingNotFound
			}
			return err
		}

		existing.Status = string(entities.OfferingStatusRetired)
		existing.UpdatedAt = retiredAt.UTC()

		record, err := buildRecord(existing.toEntity())
		if err != nil {
			return err
		}
		if err := tx.Model(&offeringModel{}).
			Where("offering_id = ?", existing.OfferingID).
			Updates(map[string]any{
				"status":     existing.Status,
				"updated_at": existing.UpdatedAt,
			}).
			Error; err != nil {
			return err
		}
		return insertOutboxRecordTx(tx, record)
	})
}

func (r *Repository) DeleteOffering(ctx context.Context, offeringID string, record ports.OutboxRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("offering_id = ?", strings.TrimSpace(offeringID)).
			Delete(&offeringModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrOfferingNotFound
		}
		return insertOutboxRecordTx(tx, record)
	})
}

func (r *Repository) GetOffering(ctx context.Context, offeringID string) (entities.Offering, error) {
	var row offeringModel
	err := r.db.WithContext(ctx).
		Where("offering_id = ?", strings.TrimSpace(offeringID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Offering{}, domainerrors.ErrOfferingNotFound
		}
		return entities.Offering{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOfferings(ctx context.Context) ([]entities.Offering, error) {
	var rows []offeringModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Offering, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListOfferingsByProduct(ctx context.Context, productID string) ([]entities.Offering, error) {
	var rows []offeringModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", strings.TrimSpace(productID)).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Offering, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ApplyProductCreated(ctx context.Context, product entities.Product) error {
	row := productReplicaModel{
		ProductID: strings.TrimSpace(product.ProductID),
		Status:    string(product.Status),
		UpdatedAt: time.Now().UTC(),
	}
	// Duplicate delivery tolerance: re-delivered creates hit the conflict
	// branch and leave the replica untouched.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) ApplyProductUpdated(ctx context.Context, product entities.Product) (ports.ReplicaUpdateResult, error) {
	result := ports.ReplicaUpdateResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing productReplicaModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", strings.TrimSpace(product.ProductID)).
			First(&existing).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Updates for unknown replicas are dropped.
				return nil
			}
			return err
		}

		result.Found = true
		result.RetiredTransition = existing.Status != string(entities.ProductStatusRetired) &&
			product.Status == entities.ProductStatusRetired

		return tx.Model(&productReplicaModel{}).
			Where("product_id = ?", existing.ProductID).
			Updates(map[string]any{
				"status":     string(product.Status),
				"updated_at": time.Now().UTC(),
			}).
			Error
	})
	if err != nil {
		return ports.ReplicaUpdateResult{}, err
	}
	return result, nil
}

func (r *Repository) GetProduct(ctx context.Context, productID string) (entities.Product, error) {
	var row productReplicaModel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", strings.TrimSpace(productID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Product{}, domainerrors.ErrProductNotFound
		}
		return entities.Product{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]entities.Product, error) {
	var rows []productReplicaModel
	if err := r.db.WithContext(ctx).
		Order("product_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxRecord{
			OutboxID:     row.OutboxID,
			Topic:        row.Topic,
			PartitionKey: row.PartitionKey,
			Operation:    events.Operation(row.Operation),
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidOfferingInput
	}
	return nil
}

func insertOutboxRecordTx(tx *gorm.DB, record ports.OutboxRecord) error {
	row := outboxModel{
		OutboxID:     strings.TrimSpace(record.OutboxID),
		Topic:        strings.TrimSpace(record.Topic),
		PartitionKey: strings.TrimSpace(record.PartitionKey),
		Operation:    string(record.Operation),
		Payload:      append([]byte(nil), record.Payload...),
		Status:       outboxStatusPending,
		CreatedAt:    record.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return tx.Create(&row).Error
}

type offeringModel struct {
	OfferingID string    `gorm:"column:offering_id;primaryKey"`
	Status     string    `gorm:"column:status"`
	Quantity   *int      `gorm:"column:quantity"`
	Price      *float64  `gorm:"column:price"`
	ProductID  string    `gorm:"column:product_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (offeringModel) TableName() string {
	return "offerings"
}

func offeringModelFromEntity(item entities.Offering) offeringModel {
	return offeringModel{
		OfferingID: strings.TrimSpace(item.OfferingID),
		Status:     string(item.Status),
		Quantity:   item.Quantity,
		Price:      item.Price,
		ProductID:  strings.TrimSpace(item.ProductID),
		CreatedAt:  item.CreatedAt.UTC(),
		UpdatedAt:  item.UpdatedAt.UTC(),
	}
}

func offeringUpdatesFromEntity(item entities.Offering) map[string]any {
	row := offeringModelFromEntity(item)
	return map[string]any{
		"status":     row.Status,
		"quantity":   row.Quantity,
		"price":      row.Price,
		"product_id": row.ProductID,
		"updated_at": row.UpdatedAt,
	}
}

func (m offeringModel) toEntity() entities.Offering {
	return entities.Offering{
		OfferingID: m.OfferingID,
		Status:     entities.OfferingStatus(m.Status),
		Quantity:   m.Quantity,
		Price:      m.Price,
		ProductID:  m.ProductID,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type productReplicaModel struct {
	ProductID string    `gorm:"column:product_id;primaryKey"`
	Status    string    `gorm:"column:status"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productReplicaModel) TableName() string {
	return "product_replicas"
}

func (m productReplicaModel) toEntity() entities.Product {
	return entities.Product{
		ProductID: m.ProductID,
		Status:    entities.ProductStatus(m.Status),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	Topic        string     `gorm:"column:topic"`
	PartitionKey string     `gorm:"column:partition_key"`
	Operation    string     `gorm:"column:operation"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "offering_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
