package api

import (
	"errors"
	"net/http"

	"github.com/danuarta/shop-microservices/internal/cart/domain"
	"github.com/danuarta/shop-microservices/internal/cart/service"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cs service.CartService) *CartHandler {
	return &CartHandler{cartService: cs}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	cartRoutes := router.Group("/carts")
	{
		cartRoutes.GET("/:user_id", h.GetCart)
		cartRoutes.POST("/:user_id/items", h.AddItem)
		cartRoutes.PUT("/:user_id/items/:product_id", h.UpdateItem)
		cartRoutes.DELETE("/:user_id/items/:product_id", h.RemoveItem)
		cartRoutes.DELETE("/:user_id", h.ClearCart)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		logger.Error("Hdl.GetCart: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req domain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), c.Param("user_id"), req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProduct) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrCatalogLookup) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.AddItem: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req domain.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(c.Request.Context(), c.Param("user_id"), c.Param("product_id"), req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.UpdateItem: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.cartService.RemoveItem(c.Request.Context(), c.Param("user_id"), c.Param("product_id"))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.RemoveItem: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), c.Param("user_id")); err != nil {
		logger.Error("Hdl.ClearCart: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
