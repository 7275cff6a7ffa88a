package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/order-service/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, total_amount, total_items, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		order.ID, order.TotalAmount, order.TotalItems, order.Status,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES (?, ?, ?, ?)`,
			order.ID, item.ProductID, item.Quantity, item.Price,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := m.db.QueryRowContext(ctx, `
		SELECT id, total_amount, total_items, status, created_at, updated_at
		FROM orders WHERE id = ?`, id,
	).Scan(&order.ID, &order.TotalAmount, &order.TotalItems, &order.Status,
		&order.CreatedAt, &order.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	return &order, nil
}

func (m *MySQLAdapter) ListOrders(ctx context.Context, status *domain.OrderStatus, offset, limit int) ([]domain.Order, error) {
	query := `
		SELECT id, total_amount, total_items, status, created_at, updated_at
		FROM orders`
	args := []any{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, *status)
	}
	// created_at alone is not unique, id breaks ties so pages never shuffle
	query += ` ORDER BY created_at, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.TotalAmount, &order.TotalItems,
			&order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

func (m *MySQLAdapter) CountOrders(ctx context.Context, status *domain.OrderStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM orders`
	args := []any{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, *status)
	}

	var total int64
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}

	return total, nil
}

func (m *MySQLAdapter) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = NOW(6) WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NewOrderNotFound(id)
	}

	return nil
}
