package model

// Human labels and badge colors for the enum values. These are pure mappings
// kept out of stored state; the frontend consumes them as view props.

// OrderStatusLabel returns the display label for an order status.
func OrderStatusLabel(status string) string {
	switch status {
	case OrderStatusInProgress:
		return "In Progress"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// OrderStatusBadgeColor returns the badge CSS classes for an order status.
func OrderStatusBadgeColor(status string) string {
	switch status {
	case OrderStatusInProgress:
		return "bg-blue-100 text-blue-800"
	case OrderStatusDelivered:
		return "bg-emerald-100 text-emerald-800"
	case OrderStatusCancelled:
		return "bg-red-100 text-red-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}

// PaymentMethodLabel returns the display label for a payment method.
func PaymentMethodLabel(method string) string {
	switch method {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodCard:
		return "Card"
	case PaymentMethodTransfer:
		return "Transfer"
	default:
		return "Unknown"
	}
}

// DeliveryStatusLabel returns the display label for a delivery outcome.
func DeliveryStatusLabel(status string) string {
	switch status {
	case DeliveryStatusPending:
		return "Pending"
	case DeliveryStatusComplete:
		return "Delivered"
	case DeliveryStatusPartial:
		return "Partial Delivery"
	default:
		return "Unknown"
	}
}

// DeliveryStatusBadgeColor returns the badge CSS classes for a delivery outcome.
func DeliveryStatusBadgeColor(status string) string {
	switch status {
	case DeliveryStatusPending:
		return "bg-yellow-100 text-yellow-800"
	case DeliveryStatusComplete:
		return "bg-green-100 text-green-800"
	case DeliveryStatusPartial:
		return "bg-blue-100 text-blue-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}

// DeliveryMethodLabel returns the display label for a delivery method.
func DeliveryMethodLabel(method string) string {
	switch method {
	case DeliveryMethodDirect:
		return "Direct Delivery"
	case DeliveryMethodShipping:
		return "Shipping"
	case DeliveryMethodPickup:
		return "Pickup"
	default:
		return "Not specified"
	}
}
