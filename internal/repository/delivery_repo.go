package repository

import (
	"context"

	"github.com/MarioTomas0209/system-order/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryRepository is append-only: fulfillment events are never updated or
// deleted.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *model.Delivery) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Delivery, error)
	HasCompleteByOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	List(ctx context.Context, page, limit int) ([]model.Delivery, int64, error)
}

type deliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, delivery *model.Delivery) error {
	return GetDB(ctx, r.db).Create(delivery).Error
}

func (r *deliveryRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := GetDB(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepository) HasCompleteByOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Delivery{}).
		Where("order_id = ? AND status = ?", orderID, model.DeliveryStatusComplete).
		Count(&count).Error
	return count > 0, err
}

func (r *deliveryRepository) List(ctx context.Context, page, limit int) ([]model.Delivery, int64, error) {
	var deliveries []model.Delivery
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Delivery{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Deliverer").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&deliveries).Error; err != nil {
		return nil, 0, err
	}

	return deliveries, total, nil
}
