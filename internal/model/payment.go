package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enum constants
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
)

// Payment is an append-only record of money received against an order.
// Payments are never updated or deleted once created.
type Payment struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Order       *Order          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	PaymentDate time.Time       `gorm:"type:date;not null" json:"payment_date"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method      string          `gorm:"type:varchar(20);not null" json:"method"`
	ReceivedBy  uuid.UUID       `gorm:"type:uuid;not null" json:"received_by"`
	Receiver    *User           `gorm:"foreignKey:ReceivedBy" json:"receiver,omitempty"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidPaymentMethod reports whether m is one of the allowed payment methods.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodCard || m == PaymentMethodTransfer
}
