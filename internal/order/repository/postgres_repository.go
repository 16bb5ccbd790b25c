package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/danuarta/shop-microservices/internal/order/domain"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	CreateOrderWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)

	GetPendingOrdersOlderThan(ctx context.Context, duration time.Duration) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error
}

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

// CreateOrderWithItems menyimpan order dan item-itemnya dalam satu transaksi.
func (r *postgresOrderRepository) CreateOrderWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("CreateOrderWithItems: failed to begin tx", err)
		return err
	}
	defer tx.Rollback() // Rollback jika tidak di-commit

	orderQuery := `INSERT INTO orders (user_id, total_amount, status, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at, status`

	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	if order.Status == "" {
		order.Status = domain.StatusPendingPayment
	}

	err = tx.QueryRowContext(ctx, orderQuery, order.UserID, order.TotalAmount, order.Status, order.CreatedAt, order.UpdatedAt).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.Status)
	if err != nil {
		logger.Error("CreateOrderWithItems: failed to insert order", err)
		return err
	}

	itemStmt, err := tx.PrepareContext(ctx, `INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase, created_at)
                                            VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`)
	if err != nil {
		logger.Error("CreateOrderWithItems: failed to prepare item statement", err)
		return err
	}
	defer itemStmt.Close()

	for i := range items {
		items[i].OrderID = order.ID
		items[i].CreatedAt = time.Now()
		err = itemStmt.QueryRowContext(ctx, items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].PriceAtPurchase, items[i].CreatedAt).
			Scan(&items[i].ID, &items[i].CreatedAt)
		if err != nil {
			logger.Error("CreateOrderWithItems: failed to insert order item "+items[i].ProductID, err)
			return err // Rollback akan terjadi
		}
	}
	order.Items = items

	return tx.Commit()
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT id, user_id, total_amount, status, created_at, updated_at FROM orders WHERE id = $1`
	var o domain.Order
	err := r.db.QueryRowContext(ctx, query, orderID).
		Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		logger.Error("GetOrderByID: query failed", err)
		return nil, err
	}
	return &o, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT id, user_id, total_amount, status, created_at, updated_at
              FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error("ListOrdersByUserID: query failed", err)
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			logger.Error("ListOrdersByUserID: scan failed", err)
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresOrderRepository) GetPendingOrdersOlderThan(ctx context.Context, duration time.Duration) ([]domain.Order, error) {
	query := `SELECT id, user_id, total_amount, status, created_at, updated_at
              FROM orders
              WHERE status = $1 AND created_at < $2
              ORDER BY created_at ASC`

	thresholdTime := time.Now().Add(-duration)
	rows, err := r.db.QueryContext(ctx, query, domain.StatusPendingPayment, thresholdTime)
	if err != nil {
		logger.Error("GetPendingOrdersOlderThan: query failed", err)
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			logger.Error("GetPendingOrdersOlderThan: scan failed", err)
			// Lanjutkan proses order lain jika satu gagal di-scan
			continue
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, newStatus, orderID)
	if err != nil {
		logger.Error("UpdateOrderStatus: exec failed for order "+orderID, err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *postgresOrderRepository) GetOrderItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, product_id, quantity, price_at_purchase, created_at
              FROM order_items WHERE order_id = $1`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		logger.Error("GetOrderItemsByOrderID: query failed", err)
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var i domain.OrderItem
		if err := rows.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.PriceAtPurchase, &i.CreatedAt); err != nil {
			logger.Error("GetOrderItemsByOrderID: scan failed", err)
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
