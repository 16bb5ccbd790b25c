package mocks

import (
	"context"

	inventoryDomain "github.com/danuarta/shop-microservices/internal/inventory/domain"
	"github.com/stretchr/testify/mock"
)

type MockInventoryClient struct {
	mock.Mock
}

func (m *MockInventoryClient) ReserveStock(ctx context.Context, productID string, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockInventoryClient) ReleaseStock(ctx context.Context, productID string, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockInventoryClient) FindReservations(ctx context.Context, productIDs []string) ([]inventoryDomain.ProductLocationReservation, error) {
	args := m.Called(ctx, productIDs)
	if infos := args.Get(0); infos != nil {
		return infos.([]inventoryDomain.ProductLocationReservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryClient) DeductStock(ctx context.Context, req inventoryDomain.DeductStockRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
