package domain

import (
	"time"
)

// Satu dokumen cart per user di MongoDB.
type Cart struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	UserID    string     `json:"user_id" bson:"user_id"`
	Items     []CartItem `json:"items" bson:"items"`
	Subtotal  float64    `json:"subtotal" bson:"-"` // dihitung, tidak disimpan
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

type CartItem struct {
	ProductID string    `json:"product_id" bson:"product_id"`
	Name      string    `json:"name" bson:"name"`
	UnitPrice float64   `json:"unit_price" bson:"unit_price"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}

// Harga sengaja tidak ada di request: nama dan unit price selalu
// diambil server-side dari catalog service.
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

func (c *Cart) ComputeSubtotal() {
	var subtotal float64
	for _, item := range c.Items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	c.Subtotal = subtotal
}
