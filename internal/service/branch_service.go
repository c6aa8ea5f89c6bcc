package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MarioTomas0209/system-order/internal/apperr"
	"github.com/MarioTomas0209/system-order/internal/model"
	"github.com/MarioTomas0209/system-order/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBranchRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Address  string `json:"address" binding:"max=255"`
	Phone    string `json:"phone" binding:"max=20"`
	IsActive *bool  `json:"is_active"`
}

type UpdateBranchRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Address  string `json:"address" binding:"max=255"`
	Phone    string `json:"phone" binding:"max=20"`
	IsActive *bool  `json:"is_active"`
}

type BranchResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// --- Interface ---

type BranchService interface {
	CreateBranch(ctx context.Context, req CreateBranchRequest) (*BranchResponse, error)
	GetBranch(ctx context.Context, id string) (*BranchResponse, error)
	ListBranches(ctx context.Context, page, limit int) ([]BranchResponse, int64, error)
	ListActiveBranches(ctx context.Context) ([]BranchResponse, error)
	UpdateBranch(ctx context.Context, id string, req UpdateBranchRequest) (*BranchResponse, error)
	DeleteBranch(ctx context.Context, id string) error
}

type branchService struct {
	branchRepo repository.BranchRepository
	orderRepo  repository.OrderRepository
}

func NewBranchService(branchRepo repository.BranchRepository, orderRepo repository.OrderRepository) BranchService {
	return &branchService{branchRepo: branchRepo, orderRepo: orderRepo}
}

// --- Implementation ---

func (s *branchService) CreateBranch(ctx context.Context, req CreateBranchRequest) (*BranchResponse, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	branch := model.Branch{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: isActive,
	}

	if err := s.branchRepo.Create(ctx, &branch); err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}

	return toBranchResponse(branch), nil
}

func (s *branchService) GetBranch(ctx context.Context, id string) (*BranchResponse, error) {
	branchID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid branch id: %w", apperr.ErrNotFound)
	}

	branch, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("branch not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch branch: %w", err)
	}

	return toBranchResponse(*branch), nil
}

func (s *branchService) ListBranches(ctx context.Context, page, limit int) ([]BranchResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	branches, total, err := s.branchRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch branches: %w", err)
	}

	result := make([]BranchResponse, 0, len(branches))
	for _, b := range branches {
		result = append(result, *toBranchResponse(b))
	}
	return result, total, nil
}

// ListActiveBranches backs the "choose a branch" control on order creation.
func (s *branchService) ListActiveBranches(ctx context.Context) ([]BranchResponse, error) {
	branches, err := s.branchRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active branches: %w", err)
	}

	result := make([]BranchResponse, 0, len(branches))
	for _, b := range branches {
		result = append(result, *toBranchResponse(b))
	}
	return result, nil
}

func (s *branchService) UpdateBranch(ctx context.Context, id string, req UpdateBranchRequest) (*BranchResponse, error) {
	branchID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid branch id: %w", apperr.ErrNotFound)
	}

	branch, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("branch not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch branch: %w", err)
	}

	branch.Name = req.Name
	branch.Address = req.Address
	branch.Phone = req.Phone
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}

	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}

	return toBranchResponse(*branch), nil
}

// DeleteBranch refuses to remove a branch that orders still reference,
// mirroring the restrict-on-delete foreign key.
func (s *branchService) DeleteBranch(ctx context.Context, id string) error {
	branchID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid branch id: %w", apperr.ErrNotFound)
	}

	if _, err := s.branchRepo.FindByID(ctx, branchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("branch not found: %w", apperr.ErrNotFound)
		}
		return fmt.Errorf("failed to fetch branch: %w", err)
	}

	count, err := s.orderRepo.CountByBranch(ctx, branchID)
	if err != nil {
		return fmt.Errorf("failed to count branch orders: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete a branch that has orders associated with it: %w", apperr.ErrConflict)
	}

	return s.branchRepo.Delete(ctx, branchID)
}

// --- Mapping ---

func toBranchResponse(b model.Branch) *BranchResponse {
	return &BranchResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}
