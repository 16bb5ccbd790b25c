package mocks

import (
	"context"
	"time"

	"github.com/danuarta/shop-microservices/internal/payment/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	if payment != nil && args.Error(0) == nil {
		payment.ID = "mock-payment-id"
		payment.CreatedAt = time.Now()
		payment.UpdatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockPaymentRepository) GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentRepository) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if p := args.Get(0); p != nil {
		return p.(*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentRepository) GetPaymentByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	args := m.Called(ctx, key)
	if p := args.Get(0); p != nil {
		return p.(*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}
