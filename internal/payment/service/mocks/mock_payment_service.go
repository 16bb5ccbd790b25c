package mocks

import (
	"context"

	"github.com/danuarta/shop-microservices/internal/payment/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest, idempotencyKey string) (*domain.Payment, bool, error) {
	args := m.Called(ctx, req, idempotencyKey)
	if p := args.Get(0); p != nil {
		return p.(*domain.Payment), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentService) GetPaymentForOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if p := args.Get(0); p != nil {
		return p.(*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}
