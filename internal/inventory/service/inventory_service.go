package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/danuarta/shop-microservices/internal/inventory/domain"
	"github.com/danuarta/shop-microservices/internal/inventory/repository"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
)

var (
	ErrStockOperationFailed = errors.New("stock operation failed")
	ErrSameLocationTransfer = errors.New("source and target location cannot be the same")
)

type InventoryService interface {
	CreateLocation(ctx context.Context, req domain.CreateLocationRequest) (*domain.Location, error)
	GetLocation(ctx context.Context, id string) (*domain.Location, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	ActivateLocation(ctx context.Context, id string) error
	DeactivateLocation(ctx context.Context, id string) error

	AddStock(ctx context.Context, locationID string, req domain.AddStockRequest) (*domain.StockLevel, error)
	GetStockLevel(ctx context.Context, locationID, productID string) (*domain.StockLevel, error)
	GetProductAvailability(ctx context.Context, productID string) (*domain.ProductAvailability, error)
	AdjustStock(ctx context.Context, req domain.AdjustStockRequest) error
	TransferStock(ctx context.Context, req domain.TransferStockRequest) error
	ListLowStock(ctx context.Context, threshold int) ([]domain.StockLevel, error)
	FindReservations(ctx context.Context, productIDs []string) ([]domain.ProductLocationReservation, error)

	// Dipakai order service; jalan dalam satu transaksi.
	ReserveStock(ctx context.Context, productID string, quantity int) error
	ReleaseStock(ctx context.Context, productID string, quantity int) error
	DeductStock(ctx context.Context, req domain.DeductStockRequest) error
}

type inventoryServiceImpl struct {
	repo repository.InventoryRepository
}

func NewInventoryService(repo repository.InventoryRepository) InventoryService {
	return &inventoryServiceImpl{repo: repo}
}

// --- Location management ---

func (s *inventoryServiceImpl) CreateLocation(ctx context.Context, req domain.CreateLocationRequest) (*domain.Location, error) {
	l := &domain.Location{
		Name:   req.Name,
		Region: req.Region,
	}
	if err := s.repo.CreateLocation(ctx, l); err != nil {
		logger.Error("Svc.CreateLocation: repo error", err)
		return nil, err
	}
	return l, nil
}

func (s *inventoryServiceImpl) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	return s.repo.GetLocationByID(ctx, id)
}

func (s *inventoryServiceImpl) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.repo.ListLocations(ctx)
}

func (s *inventoryServiceImpl) ActivateLocation(ctx context.Context, id string) error {
	if _, err := s.repo.GetLocationByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateLocationStatus(ctx, id, true)
}

func (s *inventoryServiceImpl) DeactivateLocation(ctx context.Context, id string) error {
	if _, err := s.repo.GetLocationByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateLocationStatus(ctx, id, false)
}

// --- Stock management ---

func (s *inventoryServiceImpl) AddStock(ctx context.Context, locationID string, req domain.AddStockRequest) (*domain.StockLevel, error) {
	level := &domain.StockLevel{
		LocationID: locationID,
		ProductID:  req.ProductID,
		OnHand:     req.Quantity, // jumlah yang DITAMBAHKAN, bukan nilai akhir
	}
	if err := s.repo.UpsertStock(ctx, level); err != nil {
		logger.Error("Svc.AddStock: repo error", err)
		return nil, err
	}
	return level, nil
}

func (s *inventoryServiceImpl) GetStockLevel(ctx context.Context, locationID, productID string) (*domain.StockLevel, error) {
	return s.repo.GetStockLevel(ctx, locationID, productID)
}

func (s *inventoryServiceImpl) GetProductAvailability(ctx context.Context, productID string) (*domain.ProductAvailability, error) {
	totalAvailable, err := s.repo.GetTotalAvailableByProductID(ctx, productID)
	if err != nil {
		logger.Error("Svc.GetProductAvailability: repo error", err)
		return nil, err
	}
	return &domain.ProductAvailability{
		ProductID:      productID,
		TotalAvailable: totalAvailable,
	}, nil
}

func (s *inventoryServiceImpl) AdjustStock(ctx context.Context, req domain.AdjustStockRequest) error {
	if req.Delta == 0 {
		return errors.New("delta must be non-zero")
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logger.Error("Svc.AdjustStock: begin tx failed", err)
		return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
	}
	defer tx.Rollback()

	if _, err := s.repo.GetStockLevelForUpdate(ctx, tx, req.LocationID, req.ProductID); err != nil {
		return err
	}
	if err := s.repo.AdjustOnHand(ctx, tx, req.LocationID, req.ProductID, req.Delta); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *inventoryServiceImpl) TransferStock(ctx context.Context, req domain.TransferStockRequest) error {
	if req.SourceLocationID == req.TargetLocationID {
		return ErrSameLocationTransfer
	}
	err := s.repo.TransferStock(ctx, req.ProductID, req.SourceLocationID, req.TargetLocationID, req.Quantity)
	if err != nil {
		logger.Error(fmt.Sprintf("Svc.TransferStock: repo error moving %d of product %s from %s to %s", req.Quantity, req.ProductID, req.SourceLocationID, req.TargetLocationID), err)
		return err
	}
	return nil
}

func (s *inventoryServiceImpl) ListLowStock(ctx context.Context, threshold int) ([]domain.StockLevel, error) {
	return s.repo.ListLowStock(ctx, threshold)
}

func (s *inventoryServiceImpl) FindReservations(ctx context.Context, productIDs []string) ([]domain.ProductLocationReservation, error) {
	return s.repo.FindLocationsWithReservations(ctx, productIDs)
}

// ReserveStock mengunci level stok lokasi aktif satu per satu dan mengambil
// sebanyak yang bisa dari masing-masing sampai kuantitas terpenuhi.
// Kalau tidak terpenuhi seluruhnya, transaksi di-rollback.
func (s *inventoryServiceImpl) ReserveStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity to reserve must be positive")
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logger.Error("Svc.ReserveStock: begin tx failed", err)
		return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
	}
	defer tx.Rollback()

	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		logger.Error("Svc.ReserveStock: list locations failed", err)
		return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
	}

	remaining := quantity
	reservedAny := false

	for _, loc := range locations {
		if !loc.IsActive {
			continue
		}
		if remaining <= 0 {
			break
		}

		level, err := s.repo.GetStockLevelForUpdate(ctx, tx, loc.ID, productID)
		if err != nil {
			if errors.Is(err, repository.ErrStockLevelNotFound) {
				continue // produk tidak ada di lokasi ini
			}
			logger.Error("Svc.ReserveStock: lock failed", err, fmt.Sprintf("location: %s, product: %s", loc.ID, productID))
			return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
		}

		available := level.Available()
		if available <= 0 {
			continue
		}

		take := available
		if take > remaining {
			take = remaining
		}

		if err := s.repo.IncreaseReserved(ctx, tx, loc.ID, productID, take); err != nil {
			logger.Error("Svc.ReserveStock: IncreaseReserved failed", err, fmt.Sprintf("location: %s, product: %s", loc.ID, productID))
			return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
		}
		remaining -= take
		reservedAny = true
	}

	if remaining > 0 {
		// Rollback jalan lewat defer.
		return repository.ErrInsufficientStock
	}
	if !reservedAny {
		return repository.ErrStockLevelNotFound
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Svc.ReserveStock: commit tx failed", err)
		return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
	}
	return nil
}

// ReleaseStock kebalikan dari ReserveStock: menurunkan reserved di lokasi aktif
// sampai kuantitas terpenuhi.
func (s *inventoryServiceImpl) ReleaseStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity to release must be positive")
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logger.Error("Svc.ReleaseStock: begin tx failed", err)
		return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
	}
	defer tx.Rollback()

	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		logger.Error("Svc.ReleaseStock: list locations failed", err)
		return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
	}

	remaining := quantity
	releasedAny := false

	for _, loc := range locations {
		if !loc.IsActive {
			continue
		}
		if remaining <= 0 {
			break
		}

		level, err := s.repo.GetStockLevelForUpdate(ctx, tx, loc.ID, productID)
		if err != nil {
			if errors.Is(err, repository.ErrStockLevelNotFound) {
				continue
			}
			logger.Error("Svc.ReleaseStock: lock failed", err, fmt.Sprintf("location: %s, product: %s", loc.ID, productID))
			return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
		}

		if level.Reserved <= 0 {
			continue
		}

		give := level.Reserved
		if give > remaining {
			give = remaining
		}

		if err := s.repo.DecreaseReserved(ctx, tx, loc.ID, productID, give); err != nil {
			logger.Error("Svc.ReleaseStock: DecreaseReserved failed", err, fmt.Sprintf("location: %s, product: %s", loc.ID, productID))
			return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
		}
		remaining -= give
		releasedAny = true
	}

	if remaining > 0 {
		// Bisa terjadi kalau yang direservasi memang lebih sedikit; tetap dianggap gagal
		// supaya pemanggil tahu ada selisih yang perlu direview.
		logger.Warn(fmt.Sprintf("Svc.ReleaseStock: could not release full quantity %d for product %s, %d remaining", quantity, productID, remaining))
		return fmt.Errorf("could not release full quantity, %d remaining", remaining)
	}
	if !releasedAny {
		return repository.ErrStockLevelNotFound
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Svc.ReleaseStock: commit tx failed", err)
		return fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
	}
	return nil
}

func (s *inventoryServiceImpl) DeductStock(ctx context.Context, req domain.DeductStockRequest) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for stock deduction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.repo.GetStockLevelForUpdate(ctx, tx, req.LocationID, req.ProductID); err != nil {
		return fmt.Errorf("failed to lock stock for deduction (location: %s, product: %s): %w", req.LocationID, req.ProductID, err)
	}

	if err := s.repo.DeductCommitted(ctx, tx, req.LocationID, req.ProductID, req.Quantity); err != nil {
		return fmt.Errorf("failed to deduct committed stock (location: %s, product: %s, qty: %d): %w", req.LocationID, req.ProductID, req.Quantity, err)
	}

	return tx.Commit()
}
