package mocks

import (
	"context"

	invDomain "github.com/danuarta/shop-microservices/internal/inventory/domain"
	"github.com/stretchr/testify/mock"
)

type MockInventoryClient struct {
	mock.Mock
}

func (m *MockInventoryClient) GetProductAvailability(ctx context.Context, productID string) (*invDomain.ProductAvailability, error) {
	args := m.Called(ctx, productID)
	if a := args.Get(0); a != nil {
		return a.(*invDomain.ProductAvailability), args.Error(1)
	}
	return nil, args.Error(1)
}
