package mocks

import (
	"context"

	catalogDomain "github.com/danuarta/shop-microservices/internal/catalog/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) GetProduct(ctx context.Context, productID string) (*catalogDomain.Product, error) {
	args := m.Called(ctx, productID)
	if p := args.Get(0); p != nil {
		return p.(*catalogDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}
