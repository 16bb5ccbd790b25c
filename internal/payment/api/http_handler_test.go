package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danuarta/shop-microservices/internal/payment/domain"
	"github.com/danuarta/shop-microservices/internal/payment/service"
	svcMocks "github.com/danuarta/shop-microservices/internal/payment/service/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupPaymentRouter(mockService *svcMocks.MockPaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewPaymentHandler(mockService)
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestPaymentHandler_CreatePayment(t *testing.T) {
	t.Run("Zero amount passes binding and answers 422 with the FAILED record", func(t *testing.T) {
		mockService := new(svcMocks.MockPaymentService)
		router := setupPaymentRouter(mockService)

		declined := &domain.Payment{
			ID:            "payment-1",
			OrderID:       "order-1",
			Amount:        0,
			Method:        domain.MethodCard,
			Status:        domain.StatusFailed,
			FailureReason: "amount must be greater than zero",
		}
		mockService.On("CreatePayment", mock.Anything, domain.CreatePaymentRequest{OrderID: "order-1", Amount: 0, Method: domain.MethodCard}, "").
			Return(declined, true, fmt.Errorf("%w: amount must be greater than zero", service.ErrPaymentDeclined)).Once()

		body := `{"order_id":"order-1","amount":0,"method":"card"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"FAILED"`)
		mockService.AssertExpectations(t)
	})

	t.Run("Successful payment answers 201", func(t *testing.T) {
		mockService := new(svcMocks.MockPaymentService)
		router := setupPaymentRouter(mockService)

		succeeded := &domain.Payment{ID: "payment-2", OrderID: "order-1", Amount: 120.0, Method: domain.MethodCard, Status: domain.StatusSucceeded}
		mockService.On("CreatePayment", mock.Anything, mock.AnythingOfType("domain.CreatePaymentRequest"), "key-1").
			Return(succeeded, true, nil).Once()

		body := `{"order_id":"order-1","amount":120,"method":"card"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Replay answers 200", func(t *testing.T) {
		mockService := new(svcMocks.MockPaymentService)
		router := setupPaymentRouter(mockService)

		stored := &domain.Payment{ID: "payment-2", OrderID: "order-1", Amount: 120.0, Method: domain.MethodCard, Status: domain.StatusSucceeded}
		mockService.On("CreatePayment", mock.Anything, mock.AnythingOfType("domain.CreatePaymentRequest"), "key-1").
			Return(stored, false, nil).Once()

		body := `{"order_id":"order-1","amount":120,"method":"card"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Missing order_id still rejected by binding", func(t *testing.T) {
		mockService := new(svcMocks.MockPaymentService)
		router := setupPaymentRouter(mockService)

		body := `{"amount":120,"method":"card"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "CreatePayment")
	})
}
