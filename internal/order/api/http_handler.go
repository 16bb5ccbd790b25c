package api

import (
	"errors"
	"net/http"

	"github.com/danuarta/shop-microservices/internal/order/domain"
	"github.com/danuarta/shop-microservices/internal/order/repository"
	"github.com/danuarta/shop-microservices/internal/order/service"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(os service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orderRoutes := router.Group("/orders")
	{
		orderRoutes.POST("", h.CreateOrder)
		orderRoutes.GET("/:id", h.GetOrder)
		orderRoutes.GET("/user/:user_id", h.ListUserOrders)
		orderRoutes.POST("/:id/confirm-payment", h.ConfirmPayment)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("CreateOrder Hdl: bad request", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	resp, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrStockReservationFailed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrCartCheckoutFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrOrderCreationFailed):
			// Stok mungkin sudah direservasi tapi order gagal disimpan.
			logger.Error("CreateOrder Hdl: order creation failed after potential reservation", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Order creation failed after stock operations"})
		default:
			logger.Error("CreateOrder Hdl: unhandled service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrderDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		logger.Error("GetOrder Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	orders, err := h.orderService.ListUserOrders(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		logger.Error("ListUserOrders Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	order, err := h.orderService.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderCannotBeConfirmed) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("ConfirmPayment Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		return
	}
	c.JSON(http.StatusOK, order)
}
