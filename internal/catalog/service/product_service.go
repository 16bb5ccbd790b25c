package service

import (
	"context"
	"sync"

	"github.com/danuarta/shop-microservices/internal/catalog/domain"
	"github.com/danuarta/shop-microservices/internal/catalog/repository"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
)

type ProductService interface {
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	GetProductDetails(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

type productServiceImpl struct {
	repo            repository.ProductRepository
	inventoryClient InventoryClient
}

func NewProductService(repo repository.ProductRepository, invClient InventoryClient) ProductService {
	return &productServiceImpl{
		repo:            repo,
		inventoryClient: invClient,
	}
}

func (s *productServiceImpl) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx, category)
	if err != nil {
		return nil, err
	}

	// Fan-out: tanya inventory service untuk setiap produk secara concurrent.
	var wg sync.WaitGroup
	type result struct {
		index int
		stock int
		err   error
	}
	resultsChan := make(chan result, len(products))

	for i, p := range products {
		wg.Add(1)
		go func(idx int, prodID string) {
			defer wg.Done()
			availability, err := s.inventoryClient.GetProductAvailability(ctx, prodID)
			if err != nil {
				// Jangan gagalkan seluruh list hanya karena satu lookup gagal.
				logger.Error("ListProducts: failed to get availability for product "+prodID, err)
				resultsChan <- result{index: idx, err: err}
				return
			}
			resultsChan <- result{index: idx, stock: availability.TotalAvailable}
		}(i, p.ID)
	}

	wg.Wait()
	close(resultsChan)

	// Fan-in: error lookup didegradasi jadi stok 0.
	for res := range resultsChan {
		if res.err == nil {
			products[res.index].StockQuantity = res.stock
		} else {
			products[res.index].StockQuantity = 0
		}
	}

	return products, nil
}

func (s *productServiceImpl) GetProductDetails(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	availability, err := s.inventoryClient.GetProductAvailability(ctx, productID)
	if err != nil {
		logger.Error("GetProductDetails: failed to get availability for product "+productID, err)
		product.StockQuantity = 0
	} else {
		product.StockQuantity = availability.TotalAvailable
	}

	return product, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	product := &domain.Product{
		ID:          productID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	return s.repo.DeleteProduct(ctx, productID)
}
