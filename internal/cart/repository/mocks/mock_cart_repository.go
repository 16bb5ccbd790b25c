package mocks

import (
	"context"
	"time"

	"github.com/danuarta/shop-microservices/internal/cart/domain"
	"github.com/stretchr/testify/mock"
)

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetCartByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if c := args.Get(0); c != nil {
		return c.(*domain.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	if cart != nil && args.Error(0) == nil && cart.ID == "" {
		cart.ID = "mock-cart-id"
		cart.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockCartRepository) DeleteCartByUserID(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteCartsIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
