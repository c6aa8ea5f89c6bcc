package service

import (
	"context"
	"fmt"

	"github.com/MarioTomas0209/system-order/internal/model"

	"gorm.io/gorm"
)

// Read-only aggregates feeding the reports screens. Plain projections: every
// query is a sum or group-by over the orders, payments and deliveries tables.

type NameValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type SalesByMonthRow struct {
	Month   string  `json:"month"`
	Total   float64 `json:"total"`
	Advance float64 `json:"advance"`
	Balance float64 `json:"balance"`
}

type MethodTotalRow struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

type PaymentsByMonthRow struct {
	Month string  `json:"month"`
	Count int64   `json:"count"`
	Total float64 `json:"total"`
}

type OrdersReport struct {
	ByStatus     []NameValue       `json:"byStatus"`
	ByMonth      []MonthCount      `json:"byMonth"`
	SalesByMonth []SalesByMonthRow `json:"salesByMonth"`
	ByBranch     []NameValue       `json:"byBranch"`
}

type PaymentsReport struct {
	ByMethod      []NameValue          `json:"byMethod"`
	TotalByMethod []MethodTotalRow     `json:"totalByMethod"`
	ByMonth       []PaymentsByMonthRow `json:"byMonth"`
}

type DeliveriesReport struct {
	ByStatus []NameValue  `json:"byStatus"`
	ByMonth  []MonthCount `json:"byMonth"`
}

type ReportService interface {
	GetOrdersReport(ctx context.Context) (*OrdersReport, error)
	GetPaymentsReport(ctx context.Context) (*PaymentsReport, error)
	GetDeliveriesReport(ctx context.Context) (*DeliveriesReport, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

func (s *reportService) GetOrdersReport(ctx context.Context) (*OrdersReport, error) {
	report := &OrdersReport{}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := s.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders by status: %w", err)
	}
	for _, row := range byStatus {
		report.ByStatus = append(report.ByStatus, NameValue{Name: model.OrderStatusLabel(row.Status), Value: row.Count})
	}

	if err := s.db.WithContext(ctx).Model(&model.Order{}).
		Select("TO_CHAR(created_date, 'YYYY-MM') as month, count(*) as count").
		Group("month").
		Order("month").
		Scan(&report.ByMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders by month: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&model.Order{}).
		Select("TO_CHAR(created_date, 'YYYY-MM') as month, SUM(total) as total, SUM(advance) as advance, SUM(balance) as balance").
		Where("status <> ?", model.OrderStatusCancelled).
		Group("month").
		Order("month").
		Scan(&report.SalesByMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales by month: %w", err)
	}

	var byBranch []struct {
		Name  string
		Count int64
	}
	if err := s.db.WithContext(ctx).Model(&model.Order{}).
		Select("branches.name, count(orders.id) as count").
		Joins("JOIN branches ON orders.branch_id = branches.id").
		Group("branches.name, branches.id").
		Scan(&byBranch).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders by branch: %w", err)
	}
	for _, row := range byBranch {
		report.ByBranch = append(report.ByBranch, NameValue{Name: row.Name, Value: row.Count})
	}

	return report, nil
}

func (s *reportService) GetPaymentsReport(ctx context.Context) (*PaymentsReport, error) {
	report := &PaymentsReport{}

	var byMethod []struct {
		Method string
		Count  int64
	}
	if err := s.db.WithContext(ctx).Model(&model.Payment{}).
		Select("method, count(*) as count").
		Group("method").
		Scan(&byMethod).Error; err != nil {
		return nil, fmt.Errorf("failed to query payments by method: %w", err)
	}
	for _, row := range byMethod {
		report.ByMethod = append(report.ByMethod, NameValue{Name: model.PaymentMethodLabel(row.Method), Value: row.Count})
	}

	var totalByMethod []struct {
		Method string
		Total  float64
	}
	if err := s.db.WithContext(ctx).Model(&model.Payment{}).
		Select("method, SUM(amount) as total").
		Group("method").
		Scan(&totalByMethod).Error; err != nil {
		return nil, fmt.Errorf("failed to query payment totals by method: %w", err)
	}
	for _, row := range totalByMethod {
		report.TotalByMethod = append(report.TotalByMethod, MethodTotalRow{Name: model.PaymentMethodLabel(row.Method), Total: row.Total})
	}

	if err := s.db.WithContext(ctx).Model(&model.Payment{}).
		Select("TO_CHAR(payment_date, 'YYYY-MM') as month, count(*) as count, SUM(amount) as total").
		Group("month").
		Order("month").
		Scan(&report.ByMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to query payments by month: %w", err)
	}

	return report, nil
}

func (s *reportService) GetDeliveriesReport(ctx context.Context) (*DeliveriesReport, error) {
	report := &DeliveriesReport{}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := s.db.WithContext(ctx).Model(&model.Delivery{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to query deliveries by status: %w", err)
	}
	for _, row := range byStatus {
		report.ByStatus = append(report.ByStatus, NameValue{Name: model.DeliveryStatusLabel(row.Status), Value: row.Count})
	}

	if err := s.db.WithContext(ctx).Model(&model.Delivery{}).
		Select("TO_CHAR(delivery_date, 'YYYY-MM') as month, count(*) as count").
		Group("month").
		Order("month").
		Scan(&report.ByMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to query deliveries by month: %w", err)
	}

	return report, nil
}
