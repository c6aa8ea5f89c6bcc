package repository

import (
	"context"

	"github.com/MarioTomas0209/system-order/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderListFilter narrows the order listing. Search matches order code,
// concept and contact phone.
type OrderListFilter struct {
	Status   string
	BranchID *uuid.UUID
	Search   string
	Page     int
	Limit    int
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByCode(ctx context.Context, code string) (*model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	List(ctx context.Context, filter OrderListFilter) ([]model.Order, int64, error)
	CodeTaken(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)
	CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error)
	CountByCreator(ctx context.Context, userID uuid.UUID) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Branch").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payments.created_at DESC") }).
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB { return db.Order("deliveries.created_at DESC") }).
		Preload("Creator").
		Preload("Updater").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByCode(ctx context.Context, code string) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Branch").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payments.created_at DESC") }).
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB { return db.Order("deliveries.created_at DESC") }).
		Preload("Creator").
		Preload("Updater").
		First(&order, "order_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	// Save writes the full field set; lifecycle services only call this with
	// an order loaded in the same transaction.
	return GetDB(ctx, r.db).Omit("Branch", "Creator", "Updater", "Payments", "Deliveries").Save(order).Error
}

func (r *orderRepository) List(ctx context.Context, filter OrderListFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Order{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("order_code ILIKE ? OR concept ILIKE ? OR contact_phone ILIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Branch").
		Preload("Payments").
		Preload("Deliveries").
		Preload("Creator").
		Preload("Updater").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) CodeTaken(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.Order{}).Where("order_code = ?", code)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *orderRepository) CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Order{}).Where("branch_id = ?", branchID).Count(&count).Error
	return count, err
}

func (r *orderRepository) CountByCreator(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Order{}).Where("created_by = ?", userID).Count(&count).Error
	return count, err
}
