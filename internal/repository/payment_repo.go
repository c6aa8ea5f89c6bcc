package repository

import (
	"context"

	"github.com/MarioTomas0209/system-order/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRepository is append-only: payments are never updated or deleted.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Payment, error)
	List(ctx context.Context, page, limit int) ([]model.Payment, int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

// SumByOrder returns the cumulative amount paid against an order. Callers in
// the lifecycle service invoke this inside the same transaction as the
// payment insert so the read-sum-then-write-status sequence is serialized.
func (r *paymentRepository) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("order_id = ?", orderID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := GetDB(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) List(ctx context.Context, page, limit int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Receiver").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}
