package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{db: db, logger: logger}
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
}

// Create writes the order and its items in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = generateOrderNumber()
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, order_number, user_id, status, total_amount, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.OrderNumber, order.UserID, order.Status, order.TotalAmount,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		item.CreatedAt = now

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, title, type, quantity, years, unit_price, subtotal, domain, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			item.ID, item.OrderID, item.Title, item.Type, item.Quantity, item.Years,
			item.UnitPrice, item.Subtotal, item.Domain, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, order_number, user_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.Error(err))
		return nil, err
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, title, type, quantity, years, unit_price, subtotal, domain, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Title, &it.Type, &it.Quantity, &it.Years,
			&it.UnitPrice, &it.Subtotal, &it.Domain, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &apperrors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	return nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT id, order_number, user_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *orderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT id, order_number, user_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, status, limit, offset)
}

func (r *orderRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT id, order_number, user_id, status, total_amount, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) list(ctx context.Context, query string, filter interface{}, limit, offset int) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, filter, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// CreateEvent writes an order audit row.
func (r *orderRepository) CreateEvent(ctx context.Context, event *domain.OrderEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	data, err := json.Marshal(event.EventData)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO order_events (id, order_id, event_type, event_data, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.OrderID, event.EventType, data, event.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order event", zap.Error(err))
	}
	return err
}

// CountByStatus returns order counts grouped by status, for the dashboard.
func (r *orderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.OrderStatus]int)
	for rows.Next() {
		var status domain.OrderStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
