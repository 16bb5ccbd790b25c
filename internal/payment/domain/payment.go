package domain

import (
	"time"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "PENDING"
	StatusSucceeded PaymentStatus = "SUCCEEDED"
	StatusFailed    PaymentStatus = "FAILED"
)

// Metode pembayaran yang dikenal oleh simulator capture.
const (
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
	MethodWallet       = "wallet"
)

type Payment struct {
	ID             string        `json:"id"`
	OrderID        string        `json:"order_id"`
	Amount         float64       `json:"amount"`
	Method         string        `json:"method"`
	Status         PaymentStatus `json:"status"`
	FailureReason  string        `json:"failure_reason,omitempty"`
	IdempotencyKey string        `json:"idempotency_key"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Amount dan Method divalidasi di service, bukan lewat binding; pembayaran yang
// tidak valid (termasuk amount 0) tetap dicatat sebagai FAILED.
type CreatePaymentRequest struct {
	OrderID string  `json:"order_id" binding:"required"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method" binding:"required"`
}
