package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/danuarta/shop-microservices/internal/payment/domain"
	"github.com/danuarta/shop-microservices/internal/payment/repository"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/google/uuid"
)

var ErrPaymentDeclined = errors.New("payment was declined")

var knownMethods = map[string]bool{
	domain.MethodCard:         true,
	domain.MethodBankTransfer: true,
	domain.MethodWallet:       true,
}

type PaymentService interface {
	// CreatePayment mengembalikan created=false kalau key sudah pernah dipakai
	// dan record lama yang dikembalikan (idempotent replay).
	CreatePayment(ctx context.Context, req domain.CreatePaymentRequest, idempotencyKey string) (payment *domain.Payment, created bool, err error)
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	GetPaymentForOrder(ctx context.Context, orderID string) (*domain.Payment, error)
}

type paymentServiceImpl struct {
	paymentRepo repository.PaymentRepository
	orderClient OrderClient
}

func NewPaymentService(pr repository.PaymentRepository, oc OrderClient) PaymentService {
	return &paymentServiceImpl{paymentRepo: pr, orderClient: oc}
}

// simulateCapture menggantikan payment provider sungguhan: amount harus positif
// dan method harus dikenal, sisanya dianggap berhasil.
func simulateCapture(req domain.CreatePaymentRequest) (domain.PaymentStatus, string) {
	if req.Amount <= 0 {
		return domain.StatusFailed, "amount must be greater than zero"
	}
	if !knownMethods[req.Method] {
		return domain.StatusFailed, "unknown payment method: " + req.Method
	}
	return domain.StatusSucceeded, ""
}

func (s *paymentServiceImpl) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest, idempotencyKey string) (*domain.Payment, bool, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	status, failureReason := simulateCapture(req)

	payment := &domain.Payment{
		OrderID:        req.OrderID,
		Amount:         req.Amount,
		Method:         req.Method,
		Status:         status,
		FailureReason:  failureReason,
		IdempotencyKey: idempotencyKey,
	}

	err := s.paymentRepo.CreatePayment(ctx, payment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateIdempotencyKey) {
			// Replay: kembalikan hasil yang sudah tersimpan, jangan bikin record baru.
			existing, lookupErr := s.paymentRepo.GetPaymentByIdempotencyKey(ctx, idempotencyKey)
			if lookupErr != nil {
				logger.Error("CreatePayment: duplicate key but lookup failed for key "+idempotencyKey, lookupErr)
				return nil, false, lookupErr
			}
			logger.Info(fmt.Sprintf("CreatePayment: replayed payment %s for idempotency key %s", existing.ID, idempotencyKey))
			return existing, false, nil
		}
		logger.Error("CreatePayment: repo error", err)
		return nil, false, err
	}

	if payment.Status == domain.StatusFailed {
		return payment, true, fmt.Errorf("%w: %s", ErrPaymentDeclined, failureReason)
	}

	// Pembayaran sukses; kabari order service. Kalau konfirmasi gagal, payment
	// tetap SUCCEEDED dan selisihnya dibereskan lewat rekonsiliasi manual atau
	// payment timeout di order service.
	if err := s.orderClient.ConfirmPayment(ctx, payment.OrderID); err != nil {
		logger.Error(fmt.Sprintf("CRITICAL: payment %s succeeded but order %s confirmation failed", payment.ID, payment.OrderID), err)
	}

	return payment, true, nil
}

func (s *paymentServiceImpl) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return s.paymentRepo.GetPaymentByID(ctx, id)
}

func (s *paymentServiceImpl) GetPaymentForOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	return s.paymentRepo.GetPaymentByOrderID(ctx, orderID)
}
