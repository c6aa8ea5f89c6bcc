package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/MarioTomas0209/system-order/internal/model"
	"github.com/MarioTomas0209/system-order/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memStore is a shared in-memory backing store for the repository fakes so a
// single test can observe writes across entities, the way assertions against
// a real database would.
type memStore struct {
	orders     map[uuid.UUID]model.Order
	payments   []model.Payment
	deliveries []model.Delivery
	branches   map[uuid.UUID]model.Branch

	failPaymentCreate  error
	failDeliveryCreate error
}

func newMemStore() *memStore {
	return &memStore{
		orders:   make(map[uuid.UUID]model.Order),
		branches: make(map[uuid.UUID]model.Branch),
	}
}

type memSnapshot struct {
	orders     map[uuid.UUID]model.Order
	payments   []model.Payment
	deliveries []model.Delivery
}

func (s *memStore) snapshot() memSnapshot {
	orders := make(map[uuid.UUID]model.Order, len(s.orders))
	for k, v := range s.orders {
		orders[k] = v
	}
	return memSnapshot{
		orders:     orders,
		payments:   append([]model.Payment(nil), s.payments...),
		deliveries: append([]model.Delivery(nil), s.deliveries...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.orders = snap.orders
	s.payments = snap.payments
	s.deliveries = snap.deliveries
}

// fakeTxManager mimics transactional semantics: when fn fails, every write
// made inside it is rolled back.
type fakeTxManager struct {
	store *memStore
}

func (m *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// --- Order repository fake ---

type fakeOrderRepo struct {
	store *memStore
}

func (r *fakeOrderRepo) Create(_ context.Context, order *model.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.store.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	stored, ok := r.store.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(stored), nil
}

func (r *fakeOrderRepo) FindByCode(_ context.Context, code string) (*model.Order, error) {
	for _, o := range r.store.orders {
		if o.OrderCode == code {
			return r.hydrate(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) Update(_ context.Context, order *model.Order) error {
	if _, ok := r.store.orders[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *order
	stored.Payments = nil
	stored.Deliveries = nil
	stored.Branch = nil
	stored.Creator = nil
	stored.Updater = nil
	stored.UpdatedAt = time.Now()
	r.store.orders[order.ID] = stored
	return nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter repository.OrderListFilter) ([]model.Order, int64, error) {
	var matched []model.Order
	for _, o := range r.store.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.BranchID != nil && o.BranchID != *filter.BranchID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(o.OrderCode), needle) &&
				!strings.Contains(strings.ToLower(o.Concept), needle) &&
				!strings.Contains(strings.ToLower(o.ContactPhone), needle) {
				continue
			}
		}
		matched = append(matched, *r.hydrate(o))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return []model.Order{}, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeOrderRepo) CodeTaken(_ context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	for _, o := range r.store.orders {
		if o.OrderCode != code {
			continue
		}
		if excludeID != nil && o.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *fakeOrderRepo) CountByBranch(_ context.Context, branchID uuid.UUID) (int64, error) {
	var count int64
	for _, o := range r.store.orders {
		if o.BranchID == branchID {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrderRepo) CountByCreator(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, o := range r.store.orders {
		if o.CreatedBy == userID {
			count++
		}
	}
	return count, nil
}

// hydrate attaches the associations FindByID preloads on the real repository.
func (r *fakeOrderRepo) hydrate(o model.Order) *model.Order {
	order := o
	order.Payments = nil
	order.Deliveries = nil
	for _, p := range r.store.payments {
		if p.OrderID == order.ID {
			order.Payments = append(order.Payments, p)
		}
	}
	for _, d := range r.store.deliveries {
		if d.OrderID == order.ID {
			order.Deliveries = append(order.Deliveries, d)
		}
	}
	if b, ok := r.store.branches[order.BranchID]; ok {
		branch := b
		order.Branch = &branch
	}
	return &order
}

// --- Payment repository fake ---

type fakePaymentRepo struct {
	store *memStore
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *model.Payment) error {
	if r.store.failPaymentCreate != nil {
		return r.store.failPaymentCreate
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = time.Now()
	r.store.payments = append(r.store.payments, *payment)
	return nil
}

func (r *fakePaymentRepo) SumByOrder(_ context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.store.payments {
		if p.OrderID == orderID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *fakePaymentRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range r.store.payments {
		if p.OrderID == orderID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) List(_ context.Context, page, limit int) ([]model.Payment, int64, error) {
	return append([]model.Payment(nil), r.store.payments...), int64(len(r.store.payments)), nil
}

// --- Delivery repository fake ---

type fakeDeliveryRepo struct {
	store *memStore
}

func (r *fakeDeliveryRepo) Create(_ context.Context, delivery *model.Delivery) error {
	if r.store.failDeliveryCreate != nil {
		return r.store.failDeliveryCreate
	}
	if delivery.ID == uuid.Nil {
		delivery.ID = uuid.New()
	}
	delivery.CreatedAt = time.Now()
	r.store.deliveries = append(r.store.deliveries, *delivery)
	return nil
}

func (r *fakeDeliveryRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]model.Delivery, error) {
	var result []model.Delivery
	for _, d := range r.store.deliveries {
		if d.OrderID == orderID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (r *fakeDeliveryRepo) HasCompleteByOrder(_ context.Context, orderID uuid.UUID) (bool, error) {
	for _, d := range r.store.deliveries {
		if d.OrderID == orderID && d.Status == model.DeliveryStatusComplete {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDeliveryRepo) List(_ context.Context, page, limit int) ([]model.Delivery, int64, error) {
	return append([]model.Delivery(nil), r.store.deliveries...), int64(len(r.store.deliveries)), nil
}

// --- Branch repository fake ---

type fakeBranchRepo struct {
	store *memStore
}

func (r *fakeBranchRepo) Create(_ context.Context, branch *model.Branch) error {
	if branch.ID == uuid.Nil {
		branch.ID = uuid.New()
	}
	branch.CreatedAt = time.Now()
	branch.UpdatedAt = branch.CreatedAt
	r.store.branches[branch.ID] = *branch
	return nil
}

func (r *fakeBranchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	b, ok := r.store.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	branch := b
	return &branch, nil
}

func (r *fakeBranchRepo) List(_ context.Context, page, limit int) ([]model.Branch, int64, error) {
	result := make([]model.Branch, 0, len(r.store.branches))
	for _, b := range r.store.branches {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, int64(len(result)), nil
}

func (r *fakeBranchRepo) ListActive(_ context.Context) ([]model.Branch, error) {
	var result []model.Branch
	for _, b := range r.store.branches {
		if b.IsActive {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeBranchRepo) Update(_ context.Context, branch *model.Branch) error {
	if _, ok := r.store.branches[branch.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.branches[branch.ID] = *branch
	return nil
}

func (r *fakeBranchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.branches, id)
	return nil
}
