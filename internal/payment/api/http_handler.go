package api

import (
	"errors"
	"net/http"

	"github.com/danuarta/shop-microservices/internal/payment/domain"
	"github.com/danuarta/shop-microservices/internal/payment/repository"
	"github.com/danuarta/shop-microservices/internal/payment/service"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(ps service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	paymentRoutes := router.Group("/payments")
	{
		paymentRoutes.POST("", h.CreatePayment)
		paymentRoutes.GET("/:id", h.GetPayment)
		paymentRoutes.GET("/order/:order_id", h.GetPaymentForOrder)
	}
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req domain.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")

	payment, created, err := h.paymentService.CreatePayment(c.Request.Context(), req, idempotencyKey)
	if err != nil {
		if errors.Is(err, service.ErrPaymentDeclined) {
			// Record FAILED tetap tersimpan; client dapat penjelasan kenapa ditolak.
			c.JSON(http.StatusUnprocessableEntity, payment)
			return
		}
		logger.Error("CreatePayment Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	if !created {
		// Replay idempotency key lama.
		c.JSON(http.StatusOK, payment)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		logger.Error("GetPayment Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payment"})
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) GetPaymentForOrder(c *gin.Context) {
	payment, err := h.paymentService.GetPaymentForOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No payment found for this order"})
			return
		}
		logger.Error("GetPaymentForOrder Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payment"})
		return
	}
	c.JSON(http.StatusOK, payment)
}
