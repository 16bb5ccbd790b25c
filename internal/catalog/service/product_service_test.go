package service

import (
	"context"
	"errors"
	"testing"

	"github.com/danuarta/shop-microservices/internal/catalog/domain"
	"github.com/danuarta/shop-microservices/internal/catalog/repository"
	repoMocks "github.com/danuarta/shop-microservices/internal/catalog/repository/mocks"
	clientMocks "github.com/danuarta/shop-microservices/internal/catalog/service/mocks"
	invDomain "github.com/danuarta/shop-microservices/internal/inventory/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(repoMocks.MockProductRepository)
	mockInv := new(clientMocks.MockInventoryClient)
	productService := NewProductService(mockRepo, mockInv)
	ctx := context.TODO()

	dbProducts := []domain.Product{
		{ID: "prod-1", Name: "Keyboard", Category: "peripherals", Price: 45.0},
		{ID: "prod-2", Name: "Mouse", Category: "peripherals", Price: 19.9},
	}

	t.Run("Stock enrichment from inventory", func(t *testing.T) {
		mockRepo.On("ListProducts", ctx, "").Return(dbProducts, nil).Once()
		mockInv.On("GetProductAvailability", ctx, "prod-1").
			Return(&invDomain.ProductAvailability{ProductID: "prod-1", TotalAvailable: 12}, nil).Once()
		mockInv.On("GetProductAvailability", ctx, "prod-2").
			Return(&invDomain.ProductAvailability{ProductID: "prod-2", TotalAvailable: 3}, nil).Once()

		products, err := productService.ListProducts(ctx, "")

		assert.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Equal(t, 12, products[0].StockQuantity)
		assert.Equal(t, 3, products[1].StockQuantity)
		mockRepo.AssertExpectations(t)
		mockInv.AssertExpectations(t)
	})

	t.Run("Availability lookup failure degrades to zero stock", func(t *testing.T) {
		mockRepo.On("ListProducts", ctx, "").Return(dbProducts, nil).Once()
		mockInv.On("GetProductAvailability", ctx, "prod-1").
			Return(&invDomain.ProductAvailability{ProductID: "prod-1", TotalAvailable: 7}, nil).Once()
		mockInv.On("GetProductAvailability", ctx, "prod-2").
			Return(nil, errors.New("inventory unreachable")).Once()

		products, err := productService.ListProducts(ctx, "")

		assert.NoError(t, err) // list tetap jalan walau satu lookup gagal
		assert.Equal(t, 7, products[0].StockQuantity)
		assert.Equal(t, 0, products[1].StockQuantity)
		mockInv.AssertExpectations(t)
	})

	t.Run("Category filter is forwarded to the repository", func(t *testing.T) {
		mockRepo.On("ListProducts", ctx, "peripherals").Return([]domain.Product{dbProducts[0]}, nil).Once()
		mockInv.On("GetProductAvailability", ctx, "prod-1").
			Return(&invDomain.ProductAvailability{ProductID: "prod-1", TotalAvailable: 1}, nil).Once()

		products, err := productService.ListProducts(ctx, "peripherals")

		assert.NoError(t, err)
		assert.Len(t, products, 1)
		mockRepo.AssertExpectations(t)
	})
}

func TestProductService_GetProductDetails(t *testing.T) {
	mockRepo := new(repoMocks.MockProductRepository)
	mockInv := new(clientMocks.MockInventoryClient)
	productService := NewProductService(mockRepo, mockInv)
	ctx := context.TODO()

	t.Run("Found with availability", func(t *testing.T) {
		mockRepo.On("GetProductByID", ctx, "prod-1").
			Return(&domain.Product{ID: "prod-1", Name: "Keyboard"}, nil).Once()
		mockInv.On("GetProductAvailability", ctx, "prod-1").
			Return(&invDomain.ProductAvailability{ProductID: "prod-1", TotalAvailable: 5}, nil).Once()

		product, err := productService.GetProductDetails(ctx, "prod-1")

		assert.NoError(t, err)
		assert.Equal(t, 5, product.StockQuantity)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo.On("GetProductByID", ctx, "ghost").Return(nil, repository.ErrProductNotFound).Once()

		product, err := productService.GetProductDetails(ctx, "ghost")

		assert.Nil(t, product)
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
	})
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(repoMocks.MockProductRepository)
	mockInv := new(clientMocks.MockInventoryClient)
	productService := NewProductService(mockRepo, mockInv)
	ctx := context.TODO()

	req := domain.CreateProductRequest{Name: "Webcam", Category: "peripherals", Price: 30.0}

	t.Run("Successful creation", func(t *testing.T) {
		mockRepo.On("CreateProduct", ctx, mock.MatchedBy(func(p *domain.Product) bool {
			return p.Name == req.Name && p.Category == req.Category && p.Price == req.Price
		})).Return(nil).Once()

		product, err := productService.CreateProduct(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "mock-product-id", product.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate name in category", func(t *testing.T) {
		mockRepo.On("CreateProduct", ctx, mock.AnythingOfType("*domain.Product")).
			Return(repository.ErrProductConflict).Once()

		product, err := productService.CreateProduct(ctx, req)

		assert.Nil(t, product)
		assert.ErrorIs(t, err, repository.ErrProductConflict)
	})
}
