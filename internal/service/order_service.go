package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MarioTomas0209/system-order/internal/apperr"
	"github.com/MarioTomas0209/system-order/internal/model"
	"github.com/MarioTomas0209/system-order/internal/repository"
	ws "github.com/MarioTomas0209/system-order/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// --- DTOs ---

type CreateOrderRequest struct {
	OrderCode       string `json:"order_code" binding:"required,max=50"`
	ElaborationDate string `json:"elaboration_date" binding:"required"`
	DeliveryDate    string `json:"delivery_date"`
	BranchID        string `json:"branch_id" binding:"required"`
	Concept         string `json:"concept" binding:"required,max=255"`
	Total           string `json:"total" binding:"required"`
	Advance         string `json:"advance" binding:"required"`
	Notes           string `json:"notes"`
	DeliveryAddress string `json:"delivery_address" binding:"max=500"`
	ContactPhone    string `json:"contact_phone" binding:"max=20"`
}

type RecordPaymentRequest struct {
	PaymentDate string `json:"payment_date" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Method      string `json:"method" binding:"required"`
	Notes       string `json:"notes"`
}

type RecordDeliveryRequest struct {
	DeliveryDate   string `json:"delivery_date" binding:"required"`
	Status         string `json:"status" binding:"required"`
	Comments       string `json:"comments"`
	TrackingNumber string `json:"tracking_number" binding:"max=100"`
	DeliveryMethod string `json:"delivery_method"`
}

type PayAndDeliverRequest struct {
	PaymentDate      string `json:"payment_date" binding:"required"`
	Amount           string `json:"amount" binding:"required"`
	Method           string `json:"method" binding:"required"`
	DeliveryDate     string `json:"delivery_date" binding:"required"`
	DeliveryComments string `json:"delivery_comments"`
}

// UpdateOrderRequest is the full typed field set for the administrative
// overwrite. Every field is validated; status is trusted as entered.
type UpdateOrderRequest struct {
	OrderCode       string `json:"order_code" binding:"required,max=50"`
	ElaborationDate string `json:"elaboration_date" binding:"required"`
	DeliveryDate    string `json:"delivery_date"`
	Concept         string `json:"concept" binding:"required,max=255"`
	Total           string `json:"total" binding:"required"`
	Advance         string `json:"advance" binding:"required"`
	Status          string `json:"status" binding:"required"`
	Notes           string `json:"notes"`
	DeliveryAddress string `json:"delivery_address" binding:"max=500"`
	ContactPhone    string `json:"contact_phone" binding:"max=20"`
	BranchID        string `json:"branch_id" binding:"required"`
}

type OrderFilter struct {
	Status   string
	BranchID string
	Search   string
	Page     int
	Limit    int
}

type PaymentResponse struct {
	ID          string `json:"id"`
	PaymentDate string `json:"payment_date"`
	Amount      string `json:"amount"`
	Method      string `json:"method"`
	MethodLabel string `json:"method_label"`
	ReceivedBy  string `json:"received_by"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"created_at"`
}

type DeliveryResponse struct {
	ID                  string `json:"id"`
	DeliveryDate        string `json:"delivery_date"`
	Status              string `json:"status"`
	StatusLabel         string `json:"status_label"`
	Comments            string `json:"comments"`
	TrackingNumber      string `json:"tracking_number"`
	DeliveryMethod      string `json:"delivery_method"`
	DeliveryMethodLabel string `json:"delivery_method_label"`
	DeliveredBy         string `json:"delivered_by"`
	CreatedAt           string `json:"created_at"`
}

type OrderResponse struct {
	ID               string             `json:"id"`
	OrderCode        string             `json:"order_code"`
	CreatedDate      string             `json:"created_date"`
	DeliveryDate     *string            `json:"delivery_date"`
	Concept          string             `json:"concept"`
	Total            string             `json:"total"`
	Advance          string             `json:"advance"`
	Balance          string             `json:"balance"`
	Status           string             `json:"status"`
	StatusLabel      string             `json:"status_label"`
	StatusBadgeColor string             `json:"status_badge_color"`
	Notes            string             `json:"notes"`
	DeliveryAddress  string             `json:"delivery_address"`
	ContactPhone     string             `json:"contact_phone"`
	BranchID         string             `json:"branch_id"`
	BranchName       string             `json:"branch_name"`
	CreatedBy        string             `json:"created_by"`
	CreatorName      string             `json:"creator_name,omitempty"`
	UpdatedBy        *string            `json:"updated_by"`
	TotalPaid        string             `json:"total_paid"`
	RemainingBalance string             `json:"remaining_balance"`
	IsDelivered      bool               `json:"is_delivered"`
	Payments         []PaymentResponse  `json:"payments"`
	Deliveries       []DeliveryResponse `json:"deliveries"`
	CreatedAt        string             `json:"created_at"`
	UpdatedAt        string             `json:"updated_at"`
}

// --- Interface ---

// OrderService maintains the derived status and balance whenever a payment or
// delivery is recorded, and provides the combined pay-and-deliver transaction.
type OrderService interface {
	CreateOrder(ctx context.Context, actorID string, req CreateOrderRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, id string) (*OrderResponse, error)
	SearchByCode(ctx context.Context, code string) (*OrderResponse, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]OrderResponse, int64, error)
	RecordPayment(ctx context.Context, actorID, orderID string, req RecordPaymentRequest) (*OrderResponse, error)
	RecordDelivery(ctx context.Context, actorID, orderID string, req RecordDeliveryRequest) (*OrderResponse, error)
	PayAndDeliver(ctx context.Context, actorID, orderID string, req PayAndDeliverRequest) (*OrderResponse, error)
	UpdateOrder(ctx context.Context, actorID, orderID string, req UpdateOrderRequest) (*OrderResponse, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	deliveryRepo repository.DeliveryRepository
	branchRepo   repository.BranchRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
	log          *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	deliveryRepo repository.DeliveryRepository,
	branchRepo repository.BranchRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	log *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		deliveryRepo: deliveryRepo,
		branchRepo:   branchRepo,
		txManager:    txManager,
		hub:          hub,
		log:          log,
	}
}

// --- Implementation ---

func (s *orderService) CreateOrder(ctx context.Context, actorID string, req CreateOrderRequest) (*OrderResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("invalid actor id: %w", err)
	}

	var fields []apperr.FieldError

	code := strings.ToUpper(strings.TrimSpace(req.OrderCode))
	if code == "" {
		fields = append(fields, apperr.FieldError{Field: "order_code", Message: "order code is required"})
	}

	createdDate, err := time.Parse(dateLayout, req.ElaborationDate)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "elaboration_date", Message: "invalid date, expected YYYY-MM-DD"})
	}

	var deliveryDate *time.Time
	if req.DeliveryDate != "" {
		d, err := time.Parse(dateLayout, req.DeliveryDate)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "delivery_date", Message: "invalid date, expected YYYY-MM-DD"})
		} else {
			deliveryDate = &d
		}
	}

	total, err := decimal.NewFromString(req.Total)
	if err != nil || !total.IsPositive() {
		fields = append(fields, apperr.FieldError{Field: "total", Message: "total must be a positive amount"})
	}

	advance, err := decimal.NewFromString(req.Advance)
	if err != nil || advance.IsNegative() {
		fields = append(fields, apperr.FieldError{Field: "advance", Message: "advance must be zero or a positive amount"})
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "branch_id", Message: "invalid branch id"})
	}

	if len(fields) > 0 {
		return nil, apperr.NewValidationError("order validation failed", fields...)
	}

	if _, err := s.branchRepo.FindByID(ctx, branchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.FieldMessage("branch_id", "branch does not exist")
		}
		return nil, fmt.Errorf("failed to look up branch: %w", err)
	}

	taken, err := s.orderRepo.CodeTaken(ctx, code, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check order code: %w", err)
	}
	if taken {
		return nil, apperr.FieldMessage("order_code", "order code already exists")
	}

	order := model.Order{
		OrderCode:       code,
		CreatedDate:     createdDate,
		DeliveryDate:    deliveryDate,
		Concept:         req.Concept,
		Total:           total,
		Advance:         advance,
		Balance:         total.Sub(advance),
		Status:          model.OrderStatusInProgress,
		Notes:           req.Notes,
		DeliveryAddress: req.DeliveryAddress,
		ContactPhone:    req.ContactPhone,
		BranchID:        branchID,
		CreatedBy:       actor,
	}

	// The order and its advance payment exist together or not at all.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if advance.IsPositive() {
			payment := model.Payment{
				OrderID:     order.ID,
				PaymentDate: createdDate,
				Amount:      advance,
				Method:      model.PaymentMethodCash,
				ReceivedBy:  actor,
				Notes:       "Initial advance",
			}
			if err := s.paymentRepo.Create(txCtx, &payment); err != nil {
				return fmt.Errorf("failed to record initial advance: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_code", order.OrderCode),
		zap.String("total", total.StringFixed(2)),
		zap.String("advance", advance.StringFixed(2)),
	)

	reloaded, err := s.orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	s.broadcast("order.created", reloaded)
	resp := toOrderResponse(*reloaded)
	return &resp, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", apperr.ErrNotFound)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	resp := toOrderResponse(*order)
	return &resp, nil
}

// SearchByCode looks up one order by exact code. A not-found result is how the
// client decides between the follow-up view and the new-order form.
func (s *orderService) SearchByCode(ctx context.Context, code string) (*OrderResponse, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, apperr.FieldMessage("order_code", "order code is required")
	}

	order, err := s.orderRepo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s not found: %w", normalized, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to search order: %w", err)
	}

	resp := toOrderResponse(*order)
	return &resp, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter OrderFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 15
	}

	repoFilter := repository.OrderListFilter{
		Status: filter.Status,
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.BranchID != "" {
		branchID, err := uuid.Parse(filter.BranchID)
		if err != nil {
			return nil, 0, apperr.FieldMessage("branch_id", "invalid branch id")
		}
		repoFilter.BranchID = &branchID
	}

	orders, total, err := s.orderRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderResponse(o))
	}
	return result, total, nil
}

func (s *orderService) RecordPayment(ctx context.Context, actorID, orderID string, req RecordPaymentRequest) (*OrderResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("invalid actor id: %w", err)
	}

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", apperr.ErrNotFound)
	}

	var fields []apperr.FieldError

	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "payment_date", Message: "invalid date, expected YYYY-MM-DD"})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		fields = append(fields, apperr.FieldError{Field: "amount", Message: "amount must be a positive amount"})
	}

	if !model.ValidPaymentMethod(req.Method) {
		fields = append(fields, apperr.FieldError{Field: "method", Message: "method must be cash, card or transfer"})
	}

	if len(fields) > 0 {
		return nil, apperr.NewValidationError("payment validation failed", fields...)
	}

	// The insert and the sum-vs-total recheck share one transaction so a
	// concurrent payment cannot be lost between them.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order not found: %w", apperr.ErrNotFound)
			}
			return fmt.Errorf("failed to fetch order: %w", err)
		}

		payment := model.Payment{
			OrderID:     order.ID,
			PaymentDate: paymentDate,
			Amount:      amount,
			Method:      req.Method,
			ReceivedBy:  actor,
			Notes:       req.Notes,
		}
		if err := s.paymentRepo.Create(txCtx, &payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		totalPaid, err := s.paymentRepo.SumByOrder(txCtx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}

		if totalPaid.GreaterThanOrEqual(order.Total) {
			order.Status = model.OrderStatusDelivered
		} else {
			order.Status = model.OrderStatusInProgress
		}
		order.Balance = order.Total.Sub(totalPaid)
		order.UpdatedBy = &actor

		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	reloaded, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	s.log.Info("payment recorded",
		zap.String("order_code", reloaded.OrderCode),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("status", reloaded.Status),
	)

	s.broadcast("order.payment", reloaded)
	resp := toOrderResponse(*reloaded)
	return &resp, nil
}

func (s *orderService) RecordDelivery(ctx context.Context, actorID, orderID string, req RecordDeliveryRequest) (*OrderResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("invalid actor id: %w", err)
	}

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", apperr.ErrNotFound)
	}

	var fields []apperr.FieldError

	deliveryDate, err := time.Parse(dateLayout, req.DeliveryDate)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "delivery_date", Message: "invalid date, expected YYYY-MM-DD"})
	}

	if !model.ValidDeliveryStatus(req.Status) {
		fields = append(fields, apperr.FieldError{Field: "status", Message: "status must be pending, complete or partial"})
	}

	if !model.ValidDeliveryMethod(req.DeliveryMethod) {
		fields = append(fields, apperr.FieldError{Field: "delivery_method", Message: "delivery method must be direct, shipping or pickup"})
	}

	if len(fields) > 0 {
		return nil, apperr.NewValidationError("delivery validation failed", fields...)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order not found: %w", apperr.ErrNotFound)
			}
			return fmt.Errorf("failed to fetch order: %w", err)
		}

		delivery := model.Delivery{
			OrderID:        order.ID,
			DeliveryDate:   deliveryDate,
			Status:         req.Status,
			Comments:       req.Comments,
			TrackingNumber: req.TrackingNumber,
			DeliveryMethod: req.DeliveryMethod,
			DeliveredBy:    actor,
		}
		if err := s.deliveryRepo.Create(txCtx, &delivery); err != nil {
			return fmt.Errorf("failed to record delivery: %w", err)
		}

		// A complete delivery marks the order delivered even with an
		// outstanding balance. Payment state is not consulted here.
		if req.Status == model.DeliveryStatusComplete {
			order.Status = model.OrderStatusDelivered
			order.DeliveryDate = &deliveryDate
			order.UpdatedBy = &actor
			if err := s.orderRepo.Update(txCtx, order); err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	reloaded, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	s.log.Info("delivery recorded",
		zap.String("order_code", reloaded.OrderCode),
		zap.String("outcome", req.Status),
		zap.String("status", reloaded.Status),
	)

	s.broadcast("order.delivery", reloaded)
	resp := toOrderResponse(*reloaded)
	return &resp, nil
}

func (s *orderService) PayAndDeliver(ctx context.Context, actorID, orderID string, req PayAndDeliverRequest) (*OrderResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("invalid actor id: %w", err)
	}

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", apperr.ErrNotFound)
	}

	var fields []apperr.FieldError

	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "payment_date", Message: "invalid date, expected YYYY-MM-DD"})
	}

	deliveryDate, err := time.Parse(dateLayout, req.DeliveryDate)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "delivery_date", Message: "invalid date, expected YYYY-MM-DD"})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		fields = append(fields, apperr.FieldError{Field: "amount", Message: "amount must be a positive amount"})
	}

	if !model.ValidPaymentMethod(req.Method) {
		fields = append(fields, apperr.FieldError{Field: "method", Message: "method must be cash, card or transfer"})
	}

	if len(fields) > 0 {
		return nil, apperr.NewValidationError("pay-and-deliver validation failed", fields...)
	}

	// Payment, delivery and the status change commit together or not at all.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order not found: %w", apperr.ErrNotFound)
			}
			return fmt.Errorf("failed to fetch order: %w", err)
		}

		payment := model.Payment{
			OrderID:     order.ID,
			PaymentDate: paymentDate,
			Amount:      amount,
			Method:      req.Method,
			ReceivedBy:  actor,
			Notes:       "Payment and delivery",
		}
		if err := s.paymentRepo.Create(txCtx, &payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		delivery := model.Delivery{
			OrderID:      order.ID,
			DeliveryDate: deliveryDate,
			Status:       model.DeliveryStatusComplete,
			Comments:     req.DeliveryComments,
			DeliveredBy:  actor,
		}
		if err := s.deliveryRepo.Create(txCtx, &delivery); err != nil {
			return fmt.Errorf("failed to record delivery: %w", err)
		}

		totalPaid, err := s.paymentRepo.SumByOrder(txCtx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}

		order.Status = model.OrderStatusDelivered
		order.DeliveryDate = &deliveryDate
		order.Balance = order.Total.Sub(totalPaid)
		order.UpdatedBy = &actor

		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	reloaded, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	s.log.Info("pay-and-deliver recorded",
		zap.String("order_code", reloaded.OrderCode),
		zap.String("amount", amount.StringFixed(2)),
	)

	s.broadcast("order.payment", reloaded)
	resp := toOrderResponse(*reloaded)
	return &resp, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, actorID, orderID string, req UpdateOrderRequest) (*OrderResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("invalid actor id: %w", err)
	}

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", apperr.ErrNotFound)
	}

	var fields []apperr.FieldError

	code := strings.ToUpper(strings.TrimSpace(req.OrderCode))
	if code == "" {
		fields = append(fields, apperr.FieldError{Field: "order_code", Message: "order code is required"})
	}

	createdDate, err := time.Parse(dateLayout, req.ElaborationDate)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "elaboration_date", Message: "invalid date, expected YYYY-MM-DD"})
	}

	var deliveryDate *time.Time
	if req.DeliveryDate != "" {
		d, err := time.Parse(dateLayout, req.DeliveryDate)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "delivery_date", Message: "invalid date, expected YYYY-MM-DD"})
		} else {
			deliveryDate = &d
		}
	}

	total, err := decimal.NewFromString(req.Total)
	if err != nil || total.IsNegative() {
		fields = append(fields, apperr.FieldError{Field: "total", Message: "total must be zero or a positive amount"})
	}

	advance, err := decimal.NewFromString(req.Advance)
	if err != nil || advance.IsNegative() {
		fields = append(fields, apperr.FieldError{Field: "advance", Message: "advance must be zero or a positive amount"})
	}

	if !model.ValidOrderStatus(req.Status) {
		fields = append(fields, apperr.FieldError{Field: "status", Message: "status must be in_progress, delivered or cancelled"})
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "branch_id", Message: "invalid branch id"})
	}

	if len(fields) > 0 {
		return nil, apperr.NewValidationError("order validation failed", fields...)
	}

	if _, err := s.branchRepo.FindByID(ctx, branchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.FieldMessage("branch_id", "branch does not exist")
		}
		return nil, fmt.Errorf("failed to look up branch: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order not found: %w", apperr.ErrNotFound)
			}
			return fmt.Errorf("failed to fetch order: %w", err)
		}

		taken, err := s.orderRepo.CodeTaken(txCtx, code, &order.ID)
		if err != nil {
			return fmt.Errorf("failed to check order code: %w", err)
		}
		if taken {
			return apperr.FieldMessage("order_code", "order code already exists")
		}

		order.OrderCode = code
		order.CreatedDate = createdDate
		order.DeliveryDate = deliveryDate
		order.Concept = req.Concept
		order.Total = total
		order.Advance = advance
		// Manual edits trust the entered status and recompute balance from
		// the advance only, matching the administrative overwrite semantics.
		order.Balance = total.Sub(advance)
		order.Status = req.Status
		order.Notes = req.Notes
		order.DeliveryAddress = req.DeliveryAddress
		order.ContactPhone = req.ContactPhone
		order.BranchID = branchID
		order.UpdatedBy = &actor

		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	reloaded, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	s.log.Info("order updated",
		zap.String("order_code", reloaded.OrderCode),
		zap.String("status", reloaded.Status),
	)

	s.broadcast("order.updated", reloaded)
	resp := toOrderResponse(*reloaded)
	return &resp, nil
}

// --- Events ---

type orderEvent struct {
	Type      string `json:"type"`
	OrderID   string `json:"order_id"`
	OrderCode string `json:"order_code"`
	Status    string `json:"status"`
	Balance   string `json:"balance"`
}

// broadcast pushes a lifecycle event to connected dashboards. Called after
// the transaction has committed; a nil hub (tests) is a no-op.
func (s *orderService) broadcast(eventType string, order *model.Order) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(orderEvent{
		Type:      eventType,
		OrderID:   order.ID.String(),
		OrderCode: order.OrderCode,
		Status:    order.Status,
		Balance:   order.Balance.StringFixed(2),
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

// --- Mapping ---

func toOrderResponse(o model.Order) OrderResponse {
	totalPaid := decimal.Zero
	payments := make([]PaymentResponse, 0, len(o.Payments))
	for _, p := range o.Payments {
		totalPaid = totalPaid.Add(p.Amount)
		payments = append(payments, PaymentResponse{
			ID:          p.ID.String(),
			PaymentDate: p.PaymentDate.Format(dateLayout),
			Amount:      p.Amount.StringFixed(2),
			Method:      p.Method,
			MethodLabel: model.PaymentMethodLabel(p.Method),
			ReceivedBy:  p.ReceivedBy.String(),
			Notes:       p.Notes,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		})
	}

	isDelivered := false
	deliveries := make([]DeliveryResponse, 0, len(o.Deliveries))
	for _, d := range o.Deliveries {
		if d.Status == model.DeliveryStatusComplete {
			isDelivered = true
		}
		deliveries = append(deliveries, DeliveryResponse{
			ID:                  d.ID.String(),
			DeliveryDate:        d.DeliveryDate.Format(dateLayout),
			Status:              d.Status,
			StatusLabel:         model.DeliveryStatusLabel(d.Status),
			Comments:            d.Comments,
			TrackingNumber:      d.TrackingNumber,
			DeliveryMethod:      d.DeliveryMethod,
			DeliveryMethodLabel: model.DeliveryMethodLabel(d.DeliveryMethod),
			DeliveredBy:         d.DeliveredBy.String(),
			CreatedAt:           d.CreatedAt.Format(time.RFC3339),
		})
	}

	resp := OrderResponse{
		ID:               o.ID.String(),
		OrderCode:        o.OrderCode,
		CreatedDate:      o.CreatedDate.Format(dateLayout),
		Concept:          o.Concept,
		Total:            o.Total.StringFixed(2),
		Advance:          o.Advance.StringFixed(2),
		Balance:          o.Balance.StringFixed(2),
		Status:           o.Status,
		StatusLabel:      model.OrderStatusLabel(o.Status),
		StatusBadgeColor: model.OrderStatusBadgeColor(o.Status),
		Notes:            o.Notes,
		DeliveryAddress:  o.DeliveryAddress,
		ContactPhone:     o.ContactPhone,
		BranchID:         o.BranchID.String(),
		CreatedBy:        o.CreatedBy.String(),
		TotalPaid:        totalPaid.StringFixed(2),
		RemainingBalance: o.Total.Sub(totalPaid).StringFixed(2),
		IsDelivered:      isDelivered,
		Payments:         payments,
		Deliveries:       deliveries,
		CreatedAt:        o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        o.UpdatedAt.Format(time.RFC3339),
	}

	if o.DeliveryDate != nil {
		d := o.DeliveryDate.Format(dateLayout)
		resp.DeliveryDate = &d
	}
	if o.Branch != nil {
		resp.BranchName = o.Branch.Name
	}
	if o.Creator != nil {
		resp.CreatorName = o.Creator.Name
	}
	if o.UpdatedBy != nil {
		u := o.UpdatedBy.String()
		resp.UpdatedBy = &u
	}

	return resp
}
