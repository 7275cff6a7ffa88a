package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rl1809/order-service/internal/core/domain"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type orderEvent struct {
	Type           string    `json:"type"`
	OrderID        string    `json:"order_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	TotalAmount    float64   `json:"total_amount"`
	TotalItems     int       `json:"total_items"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// KafkaPublisher emits order lifecycle events, keyed by order id so events
// for one order stay in partition order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) OrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, orderEvent{
		Type:        EventOrderCreated,
		OrderID:     order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		TotalItems:  order.TotalItems,
		OccurredAt:  time.Now().UTC(),
	})
}

func (p *KafkaPublisher) OrderStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error {
	return p.publish(ctx, orderEvent{
		Type:           EventOrderStatusChanged,
		OrderID:        order.ID,
		Status:         string(order.Status),
		PreviousStatus: string(previous),
		TotalAmount:    order.TotalAmount,
		TotalItems:     order.TotalItems,
		OccurredAt:     time.Now().UTC(),
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, event orderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
