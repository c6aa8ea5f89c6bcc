package repository

import (
	"context"

	"github.com/MarioTomas0209/system-order/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BranchRepository interface {
	Create(ctx context.Context, branch *model.Branch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error)
	List(ctx context.Context, page, limit int) ([]model.Branch, int64, error)
	ListActive(ctx context.Context) ([]model.Branch, error)
	Update(ctx context.Context, branch *model.Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type branchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(ctx context.Context, branch *model.Branch) error {
	return GetDB(ctx, r.db).Create(branch).Error
}

func (r *branchRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	var branch model.Branch
	if err := GetDB(ctx, r.db).First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepository) List(ctx context.Context, page, limit int) ([]model.Branch, int64, error) {
	var branches []model.Branch
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Branch{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name").Offset(offset).Limit(limit).Find(&branches).Error; err != nil {
		return nil, 0, err
	}

	return branches, total, nil
}

// ListActive returns branches eligible for the "choose a branch" control on
// order creation. Inactive branches stay editable in branch management.
func (r *branchRepository) ListActive(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	err := GetDB(ctx, r.db).Where("is_active = ?", true).Order("name").Find(&branches).Error
	return branches, err
}

func (r *branchRepository) Update(ctx context.Context, branch *model.Branch) error {
	return GetDB(ctx, r.db).Save(branch).Error
}

func (r *branchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Branch{}).Error
}
