package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danuarta/shop-microservices/internal/inventory/domain"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/lib/pq"
)

var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrStockLevelNotFound = errors.New("stock level not found for this location and product")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStockConflict      = errors.New("stock level conflict")
	ErrStockOutOfBounds   = errors.New("update would make on-hand or reserved quantity negative")
)

// DBTX bisa berupa *sql.Tx; dibuat interface supaya transaksi bisa di-mock.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	Commit() error
	Rollback() error
}

type InventoryRepository interface {
	CreateLocation(ctx context.Context, location *domain.Location) error
	GetLocationByID(ctx context.Context, id string) (*domain.Location, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	UpdateLocationStatus(ctx context.Context, id string, isActive bool) error

	UpsertStock(ctx context.Context, level *domain.StockLevel) error
	GetStockLevel(ctx context.Context, locationID, productID string) (*domain.StockLevel, error)
	GetTotalAvailableByProductID(ctx context.Context, productID string) (int, error)
	ListLowStock(ctx context.Context, threshold int) ([]domain.StockLevel, error)
	TransferStock(ctx context.Context, productID, sourceLocationID, targetLocationID string, quantity int) error
	FindLocationsWithReservations(ctx context.Context, productIDs []string) ([]domain.ProductLocationReservation, error)

	// Operasi di dalam transaksi yang dikelola service layer.
	GetStockLevelForUpdate(ctx context.Context, dbops DBTX, locationID, productID string) (*domain.StockLevel, error)
	AdjustOnHand(ctx context.Context, dbops DBTX, locationID, productID string, delta int) error
	IncreaseReserved(ctx context.Context, dbops DBTX, locationID, productID string, amount int) error
	DecreaseReserved(ctx context.Context, dbops DBTX, locationID, productID string, amount int) error
	DeductCommitted(ctx context.Context, dbops DBTX, locationID, productID string, amount int) error

	BeginTx(ctx context.Context) (DBTX, error)
}

type postgresInventoryRepository struct {
	db *sql.DB
}

func NewPostgresInventoryRepository(db *sql.DB) InventoryRepository {
	return &postgresInventoryRepository{db: db}
}

// --- Locations ---

func (r *postgresInventoryRepository) CreateLocation(ctx context.Context, location *domain.Location) error {
	query := `INSERT INTO locations (name, region, is_active, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	location.IsActive = true
	location.CreatedAt = time.Now()
	location.UpdatedAt = time.Now()

	var region sql.NullString
	if location.Region != nil {
		region = sql.NullString{String: *location.Region, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query, location.Name, region, location.IsActive, location.CreatedAt, location.UpdatedAt).
		Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)
	if err != nil {
		logger.Error("CreateLocation: failed to insert location", err)
		return err
	}
	return nil
}

func (r *postgresInventoryRepository) GetLocationByID(ctx context.Context, id string) (*domain.Location, error) {
	query := `SELECT id, name, region, is_active, created_at, updated_at FROM locations WHERE id = $1`
	var l domain.Location
	var region sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.Name, &region, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		logger.Error("GetLocationByID: query failed", err)
		return nil, err
	}
	if region.Valid {
		l.Region = &region.String
	}
	return &l, nil
}

func (r *postgresInventoryRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	query := `SELECT id, name, region, is_active, created_at, updated_at FROM locations ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListLocations: query failed", err)
		return nil, err
	}
	defer rows.Close()

	locations := []domain.Location{}
	for rows.Next() {
		var l domain.Location
		var region sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &region, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			logger.Error("ListLocations: scan failed", err)
			return nil, err
		}
		if region.Valid {
			l.Region = &region.String
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *postgresInventoryRepository) UpdateLocationStatus(ctx context.Context, id string, isActive bool) error {
	query := `UPDATE locations SET is_active = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, isActive, id)
	if err != nil {
		logger.Error("UpdateLocationStatus: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// --- Stock levels ---

// UpsertStock menambah on_hand; baris dibuat kalau belum ada.
func (r *postgresInventoryRepository) UpsertStock(ctx context.Context, level *domain.StockLevel) error {
	query := `
        INSERT INTO stock_levels (location_id, product_id, on_hand, reserved, created_at, updated_at)
        VALUES ($1, $2, $3, 0, $4, $5)
        ON CONFLICT (location_id, product_id) DO UPDATE SET
        on_hand = stock_levels.on_hand + EXCLUDED.on_hand,
        updated_at = EXCLUDED.updated_at
        RETURNING id, on_hand, reserved, created_at, updated_at`

	level.CreatedAt = time.Now()
	level.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		level.LocationID, level.ProductID, level.OnHand, level.CreatedAt, level.UpdatedAt,
	).Scan(&level.ID, &level.OnHand, &level.Reserved, &level.CreatedAt, &level.UpdatedAt)

	if err != nil {
		// 23503 = foreign_key_violation (location tidak ada)
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("location does not exist: %w", ErrLocationNotFound)
		}
		logger.Error("UpsertStock: failed to upsert stock level", err)
		return err
	}
	return nil
}

func (r *postgresInventoryRepository) GetStockLevel(ctx context.Context, locationID, productID string) (*domain.StockLevel, error) {
	query := `SELECT id, location_id, product_id, on_hand, reserved, created_at, updated_at
              FROM stock_levels WHERE location_id = $1 AND product_id = $2`
	var s domain.StockLevel
	err := r.db.QueryRowContext(ctx, query, locationID, productID).Scan(
		&s.ID, &s.LocationID, &s.ProductID, &s.OnHand, &s.Reserved, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStockLevelNotFound
		}
		logger.Error("GetStockLevel: query failed", err)
		return nil, err
	}
	return &s, nil
}

func (r *postgresInventoryRepository) GetTotalAvailableByProductID(ctx context.Context, productID string) (int, error) {
	// Hanya lokasi aktif yang dihitung.
	query := `
        SELECT COALESCE(SUM(s.on_hand - s.reserved), 0)
        FROM stock_levels s
        JOIN locations l ON s.location_id = l.id
        WHERE s.product_id = $1 AND l.is_active = TRUE`
	var totalAvailable int
	if err := r.db.QueryRowContext(ctx, query, productID).Scan(&totalAvailable); err != nil {
		logger.Error("GetTotalAvailableByProductID: query failed for product_id "+productID, err)
		return 0, err
	}
	return totalAvailable, nil
}

func (r *postgresInventoryRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.StockLevel, error) {
	query := `SELECT s.id, s.location_id, s.product_id, s.on_hand, s.reserved, s.created_at, s.updated_at
              FROM stock_levels s
              JOIN locations l ON s.location_id = l.id
              WHERE l.is_active = TRUE AND (s.on_hand - s.reserved) <= $1
              ORDER BY (s.on_hand - s.reserved) ASC`
	rows, err := r.db.QueryContext(ctx, query, threshold)
	if err != nil {
		logger.Error("ListLowStock: query failed", err)
		return nil, err
	}
	defer rows.Close()

	levels := []domain.StockLevel{}
	for rows.Next() {
		var s domain.StockLevel
		if err := rows.Scan(&s.ID, &s.LocationID, &s.ProductID, &s.OnHand, &s.Reserved, &s.CreatedAt, &s.UpdatedAt); err != nil {
			logger.Error("ListLowStock: scan failed", err)
			return nil, err
		}
		levels = append(levels, s)
	}
	return levels, rows.Err()
}

// FindLocationsWithReservations mencari lokasi yang masih memegang reservasi untuk
// produk-produk tersebut. Dipakai order service saat konfirmasi pembayaran.
func (r *postgresInventoryRepository) FindLocationsWithReservations(ctx context.Context, productIDs []string) ([]domain.ProductLocationReservation, error) {
	query := `SELECT product_id, location_id, reserved FROM stock_levels
              WHERE product_id = ANY($1) AND reserved > 0
              ORDER BY product_id, reserved DESC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		logger.Error("FindLocationsWithReservations: query failed", err)
		return nil, err
	}
	defer rows.Close()

	infos := []domain.ProductLocationReservation{}
	for rows.Next() {
		var info domain.ProductLocationReservation
		if err := rows.Scan(&info.ProductID, &info.LocationID, &info.Reserved); err != nil {
			logger.Error("FindLocationsWithReservations: scan failed", err)
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// TransferStock memindahkan on_hand antar lokasi dalam satu transaksi.
// Stok yang sedang direservasi tidak boleh ikut pindah.
func (r *postgresInventoryRepository) TransferStock(ctx context.Context, productID, sourceLocationID, targetLocationID string, quantity int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("TransferStock: begin tx failed", err)
		return err
	}
	defer tx.Rollback()

	source, err := r.GetStockLevelForUpdate(ctx, tx, sourceLocationID, productID)
	if err != nil {
		return err
	}
	if source.Available() < quantity {
		return ErrInsufficientStock
	}

	if err := r.AdjustOnHand(ctx, tx, sourceLocationID, productID, -quantity); err != nil {
		return err
	}

	targetQuery := `
        INSERT INTO stock_levels (location_id, product_id, on_hand, reserved, created_at, updated_at)
        VALUES ($1, $2, $3, 0, NOW(), NOW())
        ON CONFLICT (location_id, product_id) DO UPDATE SET
        on_hand = stock_levels.on_hand + EXCLUDED.on_hand,
        updated_at = NOW()`
	if _, err := tx.ExecContext(ctx, targetQuery, targetLocationID, productID, quantity); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("target location does not exist: %w", ErrLocationNotFound)
		}
		logger.Error("TransferStock: target upsert failed", err)
		return err
	}

	return tx.Commit()
}

// --- Transactional stock ops ---

func (r *postgresInventoryRepository) BeginTx(ctx context.Context) (DBTX, error) {
	return r.db.BeginTx(ctx, nil)
}

func (r *postgresInventoryRepository) GetStockLevelForUpdate(ctx context.Context, dbops DBTX, locationID, productID string) (*domain.StockLevel, error) {
	query := `SELECT id, location_id, product_id, on_hand, reserved, created_at, updated_at
              FROM stock_levels WHERE location_id = $1 AND product_id = $2 FOR UPDATE`
	var s domain.StockLevel
	err := dbops.QueryRowContext(ctx, query, locationID, productID).Scan(
		&s.ID, &s.LocationID, &s.ProductID, &s.OnHand, &s.Reserved, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStockLevelNotFound
		}
		logger.Error("GetStockLevelForUpdate: query failed", err)
		return nil, err
	}
	return &s, nil
}

// AdjustOnHand menambah/mengurangi on_hand; guard di WHERE menjaga
// on_hand tidak turun di bawah reserved maupun di bawah nol.
func (r *postgresInventoryRepository) AdjustOnHand(ctx context.Context, dbops DBTX, locationID, productID string, delta int) error {
	query := `UPDATE stock_levels SET on_hand = on_hand + $1, updated_at = NOW()
              WHERE location_id = $2 AND product_id = $3 AND (on_hand + $1) >= reserved AND (on_hand + $1) >= 0`
	res, err := dbops.ExecContext(ctx, query, delta, locationID, productID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" { // check_violation
			return ErrStockOutOfBounds
		}
		logger.Error("AdjustOnHand: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrStockOutOfBounds
	}
	return nil
}

func (r *postgresInventoryRepository) IncreaseReserved(ctx context.Context, dbops DBTX, locationID, productID string, amount int) error {
	query := `UPDATE stock_levels SET reserved = reserved + $1, updated_at = NOW()
              WHERE location_id = $2 AND product_id = $3 AND (on_hand - (reserved + $1)) >= 0`
	res, err := dbops.ExecContext(ctx, query, amount, locationID, productID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return ErrInsufficientStock
		}
		logger.Error("IncreaseReserved: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *postgresInventoryRepository) DecreaseReserved(ctx context.Context, dbops DBTX, locationID, productID string, amount int) error {
	query := `UPDATE stock_levels SET reserved = reserved - $1, updated_at = NOW()
              WHERE location_id = $2 AND product_id = $3 AND (reserved - $1) >= 0`
	res, err := dbops.ExecContext(ctx, query, amount, locationID, productID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return ErrStockOutOfBounds
		}
		logger.Error("DecreaseReserved: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

// DeductCommitted mengubah reservasi menjadi pengurangan stok betulan setelah pembayaran.
func (r *postgresInventoryRepository) DeductCommitted(ctx context.Context, dbops DBTX, locationID, productID string, amount int) error {
	query := `UPDATE stock_levels SET on_hand = on_hand - $1, reserved = reserved - $1, updated_at = NOW()
              WHERE location_id = $2 AND product_id = $3 AND (reserved - $1) >= 0 AND (on_hand - $1) >= 0`
	res, err := dbops.ExecContext(ctx, query, amount, locationID, productID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return ErrStockOutOfBounds
		}
		logger.Error("DeductCommitted: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}
