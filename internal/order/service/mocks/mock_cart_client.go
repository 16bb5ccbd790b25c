package mocks

import (
	"context"

	cartDomain "github.com/danuarta/shop-microservices/internal/cart/domain"
	"github.com/stretchr/testify/mock"
)

type MockCartClient struct {
	mock.Mock
}

func (m *MockCartClient) GetCart(ctx context.Context, userID string) (*cartDomain.Cart, error) {
	args := m.Called(ctx, userID)
	if c := args.Get(0); c != nil {
		return c.(*cartDomain.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartClient) ClearCart(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
