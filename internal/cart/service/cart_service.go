package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danuarta/shop-microservices/internal/cart/domain"
	"github.com/danuarta/shop-microservices/internal/cart/repository"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

var (
	ErrUnknownProduct = errors.New("product is not in the catalog")
	ErrItemNotFound   = errors.New("item not found in cart")
	ErrCatalogLookup  = errors.New("failed to look up product in catalog")
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, req domain.AddItemRequest) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
	SweepIdleCarts(ctx context.Context)
}

type cartServiceImpl struct {
	repo          repository.CartRepository
	catalogClient CatalogClient
	scheduler     *cron.Cron
	idleTTL       time.Duration
}

func NewCartService(repo repository.CartRepository, catalogClient CatalogClient, idleTTL time.Duration) CartService {
	s := &cartServiceImpl{
		repo:          repo,
		catalogClient: catalogClient,
		scheduler:     cron.New(),
		idleTTL:       idleTTL,
	}
	s.initSweeper()
	return s
}

func (s *cartServiceImpl) initSweeper() {
	// Sekali per jam cukup; TTL default seminggu.
	spec := "@hourly"
	s.scheduler.AddFunc(spec, func() {
		s.SweepIdleCarts(context.Background())
	})
	s.scheduler.Start()
	logger.Info(fmt.Sprintf("Cart sweeper initialized with spec '%s' and idle TTL %v", spec, s.idleTTL))
}

func (s *cartServiceImpl) SweepIdleCarts(ctx context.Context) {
	cutoff := time.Now().Add(-s.idleTTL)
	deleted, err := s.repo.DeleteCartsIdleSince(ctx, cutoff)
	if err != nil {
		logger.Error("SweepIdleCarts: failed to delete idle carts", err)
		return
	}
	if deleted > 0 {
		logger.Info(fmt.Sprintf("SweepIdleCarts: removed %d carts idle since %v", deleted, cutoff))
	}
}

// GetCart membuat cart kosong saat user belum punya, jadi GET tidak pernah 404.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			return nil, err
		}
		cart = &domain.Cart{UserID: userID, Items: []domain.CartItem{}}
		if err := s.repo.SaveCart(ctx, cart); err != nil {
			return nil, err
		}
	}
	cart.ComputeSubtotal()
	return cart, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req domain.AddItemRequest) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Harga dan nama selalu dari catalog service, bukan dari client.
	product, err := s.catalogClient.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, errProductNotInCatalog) {
			return nil, ErrUnknownProduct
		}
		logger.Error("AddItem: catalog lookup failed for product "+req.ProductID, err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogLookup, err)
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			cart.Items[i].UnitPrice = product.Price // refresh harga saat item ditambah lagi
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  req.Quantity,
			AddedAt:   time.Now(),
		})
	}

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	cart.ComputeSubtotal()
	return cart, nil
}

func (s *cartServiceImpl) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	cart.ComputeSubtotal()
	return cart, nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	kept := cart.Items[:0]
	found := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, ErrItemNotFound
	}
	cart.Items = kept

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	cart.ComputeSubtotal()
	return cart, nil
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) error {
	err := s.repo.DeleteCartByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return err
	}
	// Menghapus cart yang memang tidak ada dianggap sukses (idempotent).
	return nil
}
