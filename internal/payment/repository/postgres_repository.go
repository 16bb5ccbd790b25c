package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/danuarta/shop-microservices/internal/payment/domain"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/lib/pq"
)

var (
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrDuplicateIdempotencyKey = errors.New("a payment with this idempotency key already exists")
)

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	GetPaymentByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error)
}

type postgresPaymentRepository struct {
	db *sql.DB
}

func NewPostgresPaymentRepository(db *sql.DB) PaymentRepository {
	return &postgresPaymentRepository{db: db}
}

func (r *postgresPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	query := `INSERT INTO payments (order_id, amount, method, status, failure_reason, idempotency_key, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`

	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		payment.OrderID, payment.Amount, payment.Method, payment.Status,
		payment.FailureReason, payment.IdempotencyKey, payment.CreatedAt, payment.UpdatedAt,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation di idempotency_key
			return ErrDuplicateIdempotencyKey
		}
		logger.Error("CreatePayment: failed to insert payment", err)
		return err
	}
	return nil
}

func (r *postgresPaymentRepository) getPaymentBy(ctx context.Context, whereClause string, arg interface{}) (*domain.Payment, error) {
	query := `SELECT id, order_id, amount, method, status, failure_reason, idempotency_key, created_at, updated_at
              FROM payments WHERE ` + whereClause

	var p domain.Payment
	var failureReason sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status,
		&failureReason, &p.IdempotencyKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		logger.Error("getPaymentBy: query failed", err)
		return nil, err
	}
	if failureReason.Valid {
		p.FailureReason = failureReason.String
	}
	return &p, nil
}

func (r *postgresPaymentRepository) GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	return r.getPaymentBy(ctx, "id = $1", id)
}

func (r *postgresPaymentRepository) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	return r.getPaymentBy(ctx, "order_id = $1 ORDER BY created_at DESC LIMIT 1", orderID)
}

func (r *postgresPaymentRepository) GetPaymentByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	return r.getPaymentBy(ctx, "idempotency_key = $1", key)
}
