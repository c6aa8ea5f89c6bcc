package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enum constants
const (
	OrderStatusInProgress = "in_progress"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order represents a customer job: what was ordered, for how much, and its
// payment/delivery progress. Balance is kept equal to total minus the sum of
// the order's payments after every payment-affecting mutation.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderCode       string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_code"` // stored uppercase
	CreatedDate     time.Time       `gorm:"type:date;not null;index" json:"created_date"`
	DeliveryDate    *time.Time      `gorm:"type:date" json:"delivery_date"`
	Concept         string          `gorm:"type:varchar(255);not null" json:"concept"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Advance         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"advance"`
	Balance         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"balance"`
	Status          string          `gorm:"type:varchar(20);not null;default:'in_progress';index" json:"status"`
	Notes           string          `gorm:"type:text" json:"notes"`
	DeliveryAddress string          `gorm:"type:varchar(500)" json:"delivery_address"`
	ContactPhone    string          `gorm:"type:varchar(20)" json:"contact_phone"`
	BranchID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	Branch          *Branch         `gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT" json:"branch,omitempty"`
	CreatedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	Creator         *User           `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT" json:"creator,omitempty"`
	UpdatedBy       *uuid.UUID      `gorm:"type:uuid" json:"updated_by"`
	Updater         *User           `gorm:"foreignKey:UpdatedBy;constraint:OnDelete:SET NULL" json:"updater,omitempty"`
	Payments        []Payment       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	Deliveries      []Delivery      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"deliveries,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidOrderStatus reports whether s is one of the allowed order statuses.
func ValidOrderStatus(s string) bool {
	return s == OrderStatusInProgress || s == OrderStatusDelivered || s == OrderStatusCancelled
}
