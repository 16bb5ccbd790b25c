package service

import (
	"context"
	"errors"
	"testing"

	"github.com/danuarta/shop-microservices/internal/payment/domain"
	"github.com/danuarta/shop-microservices/internal/payment/repository"
	repoMocks "github.com/danuarta/shop-microservices/internal/payment/repository/mocks"
	clientMocks "github.com/danuarta/shop-microservices/internal/payment/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPaymentService_CreatePayment(t *testing.T) {
	ctx := context.TODO()
	req := domain.CreatePaymentRequest{OrderID: "order-1", Amount: 120.0, Method: domain.MethodCard}

	t.Run("Successful capture confirms the order", func(t *testing.T) {
		mockRepo := new(repoMocks.MockPaymentRepository)
		mockOrderClient := new(clientMocks.MockOrderClient)
		paymentService := NewPaymentService(mockRepo, mockOrderClient)

		mockRepo.On("CreatePayment", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.Status == domain.StatusSucceeded && p.IdempotencyKey == "key-1"
		})).Return(nil).Once()
		mockOrderClient.On("ConfirmPayment", ctx, "order-1").Return(nil).Once()

		payment, created, err := paymentService.CreatePayment(ctx, req, "key-1")

		assert.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "mock-payment-id", payment.ID)
		assert.Equal(t, domain.StatusSucceeded, payment.Status)
		mockRepo.AssertExpectations(t)
		mockOrderClient.AssertExpectations(t)
	})

	t.Run("Missing idempotency key gets a generated one", func(t *testing.T) {
		mockRepo := new(repoMocks.MockPaymentRepository)
		mockOrderClient := new(clientMocks.MockOrderClient)
		paymentService := NewPaymentService(mockRepo, mockOrderClient)

		mockRepo.On("CreatePayment", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.IdempotencyKey != ""
		})).Return(nil).Once()
		mockOrderClient.On("ConfirmPayment", ctx, "order-1").Return(nil).Once()

		payment, created, err := paymentService.CreatePayment(ctx, req, "")

		assert.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, payment.IdempotencyKey)
	})

	t.Run("Replay with known key returns stored outcome", func(t *testing.T) {
		mockRepo := new(repoMocks.MockPaymentRepository)
		mockOrderClient := new(clientMocks.MockOrderClient)
		paymentService := NewPaymentService(mockRepo, mockOrderClient)

		stored := &domain.Payment{ID: "payment-1", OrderID: "order-1", Amount: 120.0, Status: domain.StatusSucceeded, IdempotencyKey: "key-1"}
		mockRepo.On("CreatePayment", ctx, mock.AnythingOfType("*domain.Payment")).Return(repository.ErrDuplicateIdempotencyKey).Once()
		mockRepo.On("GetPaymentByIdempotencyKey", ctx, "key-1").Return(stored, nil).Once()

		payment, created, err := paymentService.CreatePayment(ctx, req, "key-1")

		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "payment-1", payment.ID)
		// Replay tidak boleh memicu konfirmasi order lagi.
		mockOrderClient.AssertNotCalled(t, "ConfirmPayment")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown method records a FAILED payment", func(t *testing.T) {
		mockRepo := new(repoMocks.MockPaymentRepository)
		mockOrderClient := new(clientMocks.MockOrderClient)
		paymentService := NewPaymentService(mockRepo, mockOrderClient)

		badReq := domain.CreatePaymentRequest{OrderID: "order-1", Amount: 120.0, Method: "cheque"}
		mockRepo.On("CreatePayment", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.Status == domain.StatusFailed && p.FailureReason != ""
		})).Return(nil).Once()

		payment, created, err := paymentService.CreatePayment(ctx, badReq, "key-2")

		assert.ErrorIs(t, err, ErrPaymentDeclined)
		assert.True(t, created)
		assert.NotNil(t, payment)
		assert.Equal(t, domain.StatusFailed, payment.Status)
		mockOrderClient.AssertNotCalled(t, "ConfirmPayment")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Non-positive amount records a FAILED payment", func(t *testing.T) {
		// Amount 0 dan negatif dua-duanya harus tembus sampai service dan
		// tercatat sebagai FAILED, bukan mental di binding.
		for _, amount := range []float64{0, -5.0} {
			mockRepo := new(repoMocks.MockPaymentRepository)
			mockOrderClient := new(clientMocks.MockOrderClient)
			paymentService := NewPaymentService(mockRepo, mockOrderClient)

			badReq := domain.CreatePaymentRequest{OrderID: "order-1", Amount: amount, Method: domain.MethodCard}
			mockRepo.On("CreatePayment", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
				return p.Status == domain.StatusFailed && p.Amount == amount
			})).Return(nil).Once()

			payment, _, err := paymentService.CreatePayment(ctx, badReq, "key-3")

			assert.ErrorIs(t, err, ErrPaymentDeclined)
			assert.Equal(t, domain.StatusFailed, payment.Status)
			mockRepo.AssertExpectations(t)
			mockOrderClient.AssertNotCalled(t, "ConfirmPayment")
		}
	})

	t.Run("Order confirmation failure keeps payment SUCCEEDED", func(t *testing.T) {
		mockRepo := new(repoMocks.MockPaymentRepository)
		mockOrderClient := new(clientMocks.MockOrderClient)
		paymentService := NewPaymentService(mockRepo, mockOrderClient)

		mockRepo.On("CreatePayment", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()
		mockOrderClient.On("ConfirmPayment", ctx, "order-1").Return(errors.New("order service down")).Once()

		payment, created, err := paymentService.CreatePayment(ctx, req, "key-4")

		assert.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, domain.StatusSucceeded, payment.Status)
		mockOrderClient.AssertExpectations(t)
	})
}

func TestPaymentService_GetPayment(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(repoMocks.MockPaymentRepository)
	mockOrderClient := new(clientMocks.MockOrderClient)
	paymentService := NewPaymentService(mockRepo, mockOrderClient)

	t.Run("By ID not found", func(t *testing.T) {
		mockRepo.On("GetPaymentByID", ctx, "ghost").Return(nil, repository.ErrPaymentNotFound).Once()

		payment, err := paymentService.GetPayment(ctx, "ghost")

		assert.Nil(t, payment)
		assert.ErrorIs(t, err, repository.ErrPaymentNotFound)
	})

	t.Run("By order ID", func(t *testing.T) {
		stored := &domain.Payment{ID: "payment-1", OrderID: "order-1", Status: domain.StatusSucceeded}
		mockRepo.On("GetPaymentByOrderID", ctx, "order-1").Return(stored, nil).Once()

		payment, err := paymentService.GetPaymentForOrder(ctx, "order-1")

		assert.NoError(t, err)
		assert.Equal(t, "payment-1", payment.ID)
	})
}
