package model

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus enum constants
const (
	DeliveryStatusPending  = "pending"
	DeliveryStatusComplete = "complete"
	DeliveryStatusPartial  = "partial"
)

// DeliveryMethod enum constants
const (
	DeliveryMethodDirect   = "direct"
	DeliveryMethodShipping = "shipping"
	DeliveryMethodPickup   = "pickup"
)

// Delivery is an append-only fulfillment event against an order.
type Delivery struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Order          *Order    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	DeliveryDate   time.Time `gorm:"type:date;not null" json:"delivery_date"`
	Status         string    `gorm:"type:varchar(20);not null" json:"status"`
	Comments       string    `gorm:"type:text" json:"comments"`
	TrackingNumber string    `gorm:"type:varchar(100)" json:"tracking_number"`
	DeliveryMethod string    `gorm:"type:varchar(50)" json:"delivery_method"`
	DeliveredBy    uuid.UUID `gorm:"type:uuid;not null" json:"delivered_by"`
	Deliverer      *User     `gorm:"foreignKey:DeliveredBy" json:"deliverer,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidDeliveryStatus reports whether s is one of the allowed delivery outcomes.
func ValidDeliveryStatus(s string) bool {
	return s == DeliveryStatusPending || s == DeliveryStatusComplete || s == DeliveryStatusPartial
}

// ValidDeliveryMethod reports whether m is one of the allowed delivery methods.
// An empty method is allowed (not specified).
func ValidDeliveryMethod(m string) bool {
	return m == "" || m == DeliveryMethodDirect || m == DeliveryMethodShipping || m == DeliveryMethodPickup
}
