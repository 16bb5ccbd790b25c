package mocks

import (
	"context"
	"time"

	"github.com/danuarta/shop-microservices/internal/inventory/domain"
	"github.com/danuarta/shop-microservices/internal/inventory/repository"
	"github.com/stretchr/testify/mock"
)

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) CreateLocation(ctx context.Context, location *domain.Location) error {
	args := m.Called(ctx, location)
	if location != nil && args.Error(0) == nil {
		location.ID = "mock-location-id"
		location.IsActive = true
		location.CreatedAt = time.Now()
		location.UpdatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockInventoryRepository) GetLocationByID(ctx context.Context, id string) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if l := args.Get(0); l != nil {
		return l.(*domain.Location), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	args := m.Called(ctx)
	if l := args.Get(0); l != nil {
		return l.([]domain.Location), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) UpdateLocationStatus(ctx context.Context, id string, isActive bool) error {
	args := m.Called(ctx, id, isActive)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpsertStock(ctx context.Context, level *domain.StockLevel) error {
	args := m.Called(ctx, level)
	if level != nil && args.Error(0) == nil {
		level.ID = "mock-stock-id"
	}
	return args.Error(0)
}

func (m *MockInventoryRepository) GetStockLevel(ctx context.Context, locationID, productID string) (*domain.StockLevel, error) {
	args := m.Called(ctx, locationID, productID)
	if s := args.Get(0); s != nil {
		return s.(*domain.StockLevel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) GetTotalAvailableByProductID(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.StockLevel, error) {
	args := m.Called(ctx, threshold)
	if s := args.Get(0); s != nil {
		return s.([]domain.StockLevel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) TransferStock(ctx context.Context, productID, sourceLocationID, targetLocationID string, quantity int) error {
	args := m.Called(ctx, productID, sourceLocationID, targetLocationID, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) FindLocationsWithReservations(ctx context.Context, productIDs []string) ([]domain.ProductLocationReservation, error) {
	args := m.Called(ctx, productIDs)
	if infos := args.Get(0); infos != nil {
		return infos.([]domain.ProductLocationReservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) GetStockLevelForUpdate(ctx context.Context, dbops repository.DBTX, locationID, productID string) (*domain.StockLevel, error) {
	args := m.Called(ctx, dbops, locationID, productID)
	if s := args.Get(0); s != nil {
		return s.(*domain.StockLevel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) AdjustOnHand(ctx context.Context, dbops repository.DBTX, locationID, productID string, delta int) error {
	args := m.Called(ctx, dbops, locationID, productID, delta)
	return args.Error(0)
}

func (m *MockInventoryRepository) IncreaseReserved(ctx context.Context, dbops repository.DBTX, locationID, productID string, amount int) error {
	args := m.Called(ctx, dbops, locationID, productID, amount)
	return args.Error(0)
}

func (m *MockInventoryRepository) DecreaseReserved(ctx context.Context, dbops repository.DBTX, locationID, productID string, amount int) error {
	args := m.Called(ctx, dbops, locationID, productID, amount)
	return args.Error(0)
}

func (m *MockInventoryRepository) DeductCommitted(ctx context.Context, dbops repository.DBTX, locationID, productID string, amount int) error {
	args := m.Called(ctx, dbops, locationID, productID, amount)
	return args.Error(0)
}

func (m *MockInventoryRepository) BeginTx(ctx context.Context) (repository.DBTX, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repository.DBTX), args.Error(1)
	}
	return nil, args.Error(1)
}
