package domain

import (
	"time"
)

type OrderStatus string

const (
	StatusPendingPayment   OrderStatus = "PENDING_PAYMENT"
	StatusPaymentTimeout   OrderStatus = "PAYMENT_TIMEOUT"
	StatusAwaitingShipment OrderStatus = "AWAITING_SHIPMENT"
	StatusShipped          OrderStatus = "SHIPPED"
	StatusDelivered        OrderStatus = "DELIVERED"
	StatusCancelled        OrderStatus = "CANCELLED"
	StatusFailed           OrderStatus = "FAILED"
)

type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `json:"items,omitempty"` // Di-populate saat get order details
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID              string    `json:"id"`
	OrderID         string    `json:"-"`
	ProductID       string    `json:"product_id"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase float64   `json:"price_at_purchase"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateOrderItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"required,gt=0"` // Harga satuan produk
}

// Dua bentuk request: items eksplisit, atau from_cart untuk checkout isi cart user.
type CreateOrderRequest struct {
	UserID   string                   `json:"user_id" binding:"required"`
	FromCart bool                     `json:"from_cart"`
	Items    []CreateOrderItemRequest `json:"items" binding:"omitempty,dive"`
}

type CreateOrderResponse struct {
	Order
}
