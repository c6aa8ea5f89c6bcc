package model_test

import (
	"testing"

	"github.com/MarioTomas0209/system-order/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusLabel(t *testing.T) {
	assert.Equal(t, "In Progress", model.OrderStatusLabel(model.OrderStatusInProgress))
	assert.Equal(t, "Delivered", model.OrderStatusLabel(model.OrderStatusDelivered))
	assert.Equal(t, "Cancelled", model.OrderStatusLabel(model.OrderStatusCancelled))
	assert.Equal(t, "Unknown", model.OrderStatusLabel("archived"))
}

func TestOrderStatusBadgeColor_UnknownFallsBackToGray(t *testing.T) {
	assert.Equal(t, "bg-gray-100 text-gray-800", model.OrderStatusBadgeColor(""))
	assert.NotEqual(t, model.OrderStatusBadgeColor(model.OrderStatusDelivered), model.OrderStatusBadgeColor(model.OrderStatusCancelled))
}

func TestDeliveryStatusLabel_CompleteReadsDelivered(t *testing.T) {
	assert.Equal(t, "Delivered", model.DeliveryStatusLabel(model.DeliveryStatusComplete))
	assert.Equal(t, "Partial Delivery", model.DeliveryStatusLabel(model.DeliveryStatusPartial))
	assert.Equal(t, "Pending", model.DeliveryStatusLabel(model.DeliveryStatusPending))
}

func TestDeliveryMethodLabel_EmptyIsNotSpecified(t *testing.T) {
	assert.Equal(t, "Not specified", model.DeliveryMethodLabel(""))
	assert.Equal(t, "Pickup", model.DeliveryMethodLabel(model.DeliveryMethodPickup))
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, model.ValidOrderStatus(model.OrderStatusInProgress))
	assert.True(t, model.ValidOrderStatus(model.OrderStatusDelivered))
	assert.True(t, model.ValidOrderStatus(model.OrderStatusCancelled))
	assert.False(t, model.ValidOrderStatus("done"))
	assert.False(t, model.ValidOrderStatus(""))
}

func TestValidDeliveryMethod_EmptyAllowed(t *testing.T) {
	assert.True(t, model.ValidDeliveryMethod(""))
	assert.True(t, model.ValidDeliveryMethod(model.DeliveryMethodDirect))
	assert.False(t, model.ValidDeliveryMethod("drone"))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, model.ValidPaymentMethod(model.PaymentMethodCash))
	assert.True(t, model.ValidPaymentMethod(model.PaymentMethodCard))
	assert.True(t, model.ValidPaymentMethod(model.PaymentMethodTransfer))
	assert.False(t, model.ValidPaymentMethod("check"))
}
