package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/port"
)

// CreateOrderItem is one requested line item. Price is only consulted when
// the service runs without a product validator; with a validator configured
// the price snapshot always comes from the validator response.
type CreateOrderItem struct {
	ProductID string
	Quantity  int
	Price     float64
}

type ListOrdersQuery struct {
	Status *domain.OrderStatus
	Page   int
	Limit  int
}

type PageMeta struct {
	Total    int64
	Page     int
	LastPage int
}

type OrderPage struct {
	Data []domain.Order
	Meta PageMeta
}

type OrderService struct {
	repo      port.OrderRepository
	validator port.ProductValidator // nil disables remote validation
	events    port.EventPublisher   // nil disables event publishing
	logger    zerolog.Logger
}

func NewOrderService(repo port.OrderRepository, validator port.ProductValidator, events port.EventPublisher, logger zerolog.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		validator: validator,
		events:    events,
		logger:    logger,
	}
}

// CreateOrder validates the requested items against the product catalog,
// computes the order totals from the validated prices and persists the
// order with its items atomically. The returned items carry the product
// display name joined from the validator response.
func (s *OrderService) CreateOrder(ctx context.Context, items []CreateOrderItem) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("order must contain at least one item")
	}
	for _, item := range items {
		if item.ProductID == "" {
			return nil, domain.NewValidationError("order item is missing a product id")
		}
		if item.Quantity <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("quantity for product %s must be positive", item.ProductID))
		}
	}

	products, err := s.resolveProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:        uuid.NewString(),
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, item := range items {
		price := item.Price
		if products != nil {
			product, ok := products[item.ProductID]
			if !ok {
				return nil, domain.NewValidationError(fmt.Sprintf("product %s could not be validated", item.ProductID))
			}
			price = product.Price
		} else if price < 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("price for product %s must not be negative", item.ProductID))
		}

		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		})
		order.TotalAmount += price * float64(item.Quantity)
		order.TotalItems += item.Quantity
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if products != nil {
		for i := range order.Items {
			order.Items[i].Name = products[order.Items[i].ProductID].Name
		}
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Float64("total_amount", order.TotalAmount).
		Int("total_items", order.TotalItems).
		Msg("order created")

	if s.events != nil {
		if err := s.events.OrderCreated(ctx, order); err != nil {
			s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to publish order created event")
		}
	}

	return order, nil
}

// resolveProducts asks the validator for the distinct set of requested
// product ids. Any validator failure, including an id absent from the
// response, surfaces as a ValidationError carrying the upstream message.
func (s *OrderService) resolveProducts(ctx context.Context, items []CreateOrderItem) (map[string]domain.Product, error) {
	if s.validator == nil {
		return nil, nil
	}

	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.validator.Validate(ctx, ids)
	if err != nil {
		return nil, domain.WrapValidationError(err)
	}

	byID := make(map[string]domain.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("product %s could not be validated", id))
		}
	}

	return byID, nil
}

// ListOrders returns one page of orders matching the optional status
// filter. Out-of-range pages yield an empty data set, not an error.
func (s *OrderService) ListOrders(ctx context.Context, query ListOrdersQuery) (*OrderPage, error) {
	if query.Page < 1 {
		return nil, domain.NewValidationError("page must be greater than or equal to 1")
	}
	if query.Limit < 1 {
		return nil, domain.NewValidationError("limit must be positive")
	}

	total, err := s.repo.CountOrders(ctx, query.Status)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	offset := (query.Page - 1) * query.Limit
	data, err := s.repo.ListOrders(ctx, query.Status, offset, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return &OrderPage{
		Data: data,
		Meta: PageMeta{
			Total:    total,
			Page:     query.Page,
			LastPage: int((total + int64(query.Limit) - 1) / int64(query.Limit)),
		},
	}, nil
}

// GetOrder retrieves a single order by id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, domain.NewOrderNotFound(id)
	}
	return order, nil
}

// ChangeStatus transitions an order to a new status. A same-value
// transition is an idempotent no-op and performs no write. Transitions are
// otherwise unvalidated.
func (s *OrderService) ChangeStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return order, nil
	}

	previous := order.Status
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	s.logger.Info().
		Str("order_id", id).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("order status changed")

	if s.events != nil {
		if err := s.events.OrderStatusChanged(ctx, order, previous); err != nil {
			s.logger.Warn().Err(err).Str("order_id", id).Msg("failed to publish status change event")
		}
	}

	return order, nil
}
