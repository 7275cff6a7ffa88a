package port

import (
	"context"

	"github.com/rl1809/order-service/internal/core/domain"
)

type OrderRepository interface {
	// CreateOrder persists an order together with its items in one transaction
	CreateOrder(ctx context.Context, order *domain.Order) error

	// GetOrder retrieves an order by id, nil when no order has that id
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// ListOrders returns up to limit orders after offset, oldest first,
	// optionally filtered by status
	ListOrders(ctx context.Context, status *domain.OrderStatus, offset, limit int) ([]domain.Order, error)

	// CountOrders counts all orders matching the optional status filter
	CountOrders(ctx context.Context, status *domain.OrderStatus) (int64, error)

	// UpdateStatus persists a new status for an existing order
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}
