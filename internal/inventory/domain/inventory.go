package domain

import (
	"time"
)

type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" binding:"required"`
	Region    *string   `json:"region,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateLocationRequest struct {
	Name   string  `json:"name" binding:"required"`
	Region *string `json:"region,omitempty"`
}

// Satu baris per (location, product). available = on_hand - reserved.
type StockLevel struct {
	ID         string    `json:"id"`
	LocationID string    `json:"location_id"`
	ProductID  string    `json:"product_id"` // UUID dari catalog service
	OnHand     int       `json:"on_hand"`
	Reserved   int       `json:"reserved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s StockLevel) Available() int {
	return s.OnHand - s.Reserved
}

type AddStockRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// Delta boleh negatif (koreksi stok), tapi tidak boleh membuat available negatif.
type AdjustStockRequest struct {
	LocationID string `json:"location_id" binding:"required"`
	ProductID  string `json:"product_id" binding:"required"`
	Delta      int    `json:"delta" binding:"required"`
}

type TransferStockRequest struct {
	ProductID        string `json:"product_id" binding:"required"`
	SourceLocationID string `json:"source_location_id" binding:"required"`
	TargetLocationID string `json:"target_location_id" binding:"required"`
	Quantity         int    `json:"quantity" binding:"required,gt=0"`
}

// Untuk reserve dan release dari order service.
type StockOperationRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type StockOperationResponse struct {
	Message   string `json:"message"`
	ProductID string `json:"product_id"`
}

type DeductStockRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	LocationID string `json:"location_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
}

// Dipakai catalog service untuk menampilkan ketersediaan agregat.
type ProductAvailability struct {
	ProductID      string `json:"product_id"`
	TotalAvailable int    `json:"total_available"`
}

// Dipakai order service untuk mencari lokasi tempat stok direservasi sebelum deduct.
type ProductLocationReservation struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Reserved   int    `json:"reserved"`
}

type FindReservationsRequest struct {
	ProductIDs []string `json:"product_ids" binding:"required,min=1,dive,required"`
}
