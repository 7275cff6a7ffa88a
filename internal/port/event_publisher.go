package port

import (
	"context"

	"github.com/rl1809/order-service/internal/core/domain"
)

type EventPublisher interface {
	// OrderCreated announces a freshly persisted order
	OrderCreated(ctx context.Context, order *domain.Order) error

	// OrderStatusChanged announces a persisted status transition
	OrderStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error
}
