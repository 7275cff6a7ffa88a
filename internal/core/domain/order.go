package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus maps a raw status value onto the known set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", NewValidationError("unknown order status: " + s)
}

type Order struct {
	ID          string
	TotalAmount float64
	TotalItems  int
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []OrderItem
}

type OrderItem struct {
	ProductID string
	Quantity  int
	Price     float64 // snapshot of the product price at order time
	Name      string  // joined from the product validator response, never persisted
}
