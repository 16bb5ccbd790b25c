package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/danuarta/shop-microservices/internal/inventory/domain"
	"github.com/danuarta/shop-microservices/internal/inventory/repository"
	"github.com/danuarta/shop-microservices/internal/inventory/service"
	"github.com/danuarta/shop-microservices/internal/platform/config"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(is service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	locationRoutes := router.Group("/locations")
	{
		locationRoutes.POST("", h.CreateLocation)
		locationRoutes.GET("", h.ListLocations)
		locationRoutes.GET("/:id", h.GetLocation)
		locationRoutes.PUT("/:id/activate", h.ActivateLocation)
		locationRoutes.PUT("/:id/deactivate", h.DeactivateLocation)

		locationRoutes.POST("/:id/stocks", h.AddStock)
		locationRoutes.GET("/:id/stocks/:product_id", h.GetStockLevel)
	}

	stockRoutes := router.Group("/stocks")
	{
		stockRoutes.POST("/adjust", h.AdjustStock)
		stockRoutes.POST("/transfer", h.TransferStock)
		stockRoutes.POST("/reserve", h.ReserveStock)
		stockRoutes.POST("/release", h.ReleaseStock)
		stockRoutes.POST("/deduct", h.DeductStock)
	}

	// Dipakai catalog service untuk menampilkan ketersediaan.
	stockInfoRoutes := router.Group("/stock-info")
	{
		stockInfoRoutes.GET("/products/:product_id", h.GetProductAvailability)
		stockInfoRoutes.GET("/low", h.ListLowStock)
		stockInfoRoutes.POST("/reservations", h.FindReservations)
	}
}

func (h *InventoryHandler) CreateLocation(c *gin.Context) {
	var req domain.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	location, err := h.inventoryService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		logger.Error("Hdl.CreateLocation: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create location"})
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (h *InventoryHandler) ListLocations(c *gin.Context) {
	locations, err := h.inventoryService.ListLocations(c.Request.Context())
	if err != nil {
		logger.Error("Hdl.ListLocations: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list locations"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *InventoryHandler) GetLocation(c *gin.Context) {
	location, err := h.inventoryService.GetLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.GetLocation: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get location"})
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *InventoryHandler) ActivateLocation(c *gin.Context) {
	if err := h.inventoryService.ActivateLocation(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.ActivateLocation: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location activated"})
}

func (h *InventoryHandler) DeactivateLocation(c *gin.Context) {
	if err := h.inventoryService.DeactivateLocation(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.DeactivateLocation: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location deactivated"})
}

func (h *InventoryHandler) AddStock(c *gin.Context) {
	locationID := c.Param("id")
	var req domain.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	level, err := h.inventoryService.AddStock(c.Request.Context(), locationID, req)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.AddStock: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add stock"})
		return
	}
	c.JSON(http.StatusCreated, level)
}

func (h *InventoryHandler) GetStockLevel(c *gin.Context) {
	level, err := h.inventoryService.GetStockLevel(c.Request.Context(), c.Param("id"), c.Param("product_id"))
	if err != nil {
		if errors.Is(err, repository.ErrStockLevelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.GetStockLevel: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stock level"})
		return
	}
	c.JSON(http.StatusOK, level)
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req domain.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.inventoryService.AdjustStock(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, repository.ErrStockLevelNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrStockOutOfBounds):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Hdl.AdjustStock: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock adjusted", "product_id": req.ProductID})
}

func (h *InventoryHandler) TransferStock(c *gin.Context) {
	var req domain.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.inventoryService.TransferStock(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrSameLocationTransfer):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrStockLevelNotFound), errors.Is(err, repository.ErrLocationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Hdl.TransferStock: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer stock"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock transferred", "product_id": req.ProductID})
}

func (h *InventoryHandler) ReserveStock(c *gin.Context) {
	h.stockOperation(c, "reserve", h.inventoryService.ReserveStock)
}

func (h *InventoryHandler) ReleaseStock(c *gin.Context) {
	h.stockOperation(c, "release", h.inventoryService.ReleaseStock)
}

func (h *InventoryHandler) stockOperation(c *gin.Context, name string, op func(ctx context.Context, productID string, quantity int) error) {
	var req domain.StockOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := op(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrStockLevelNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Hdl.stockOperation("+name+"): service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + name + " stock"})
		}
		return
	}
	c.JSON(http.StatusOK, domain.StockOperationResponse{
		Message:   "Stock " + name + " successful",
		ProductID: req.ProductID,
	})
}

func (h *InventoryHandler) DeductStock(c *gin.Context) {
	var req domain.DeductStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.inventoryService.DeductStock(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrStockLevelNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Hdl.DeductStock: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deduct stock"})
		}
		return
	}
	c.JSON(http.StatusOK, domain.StockOperationResponse{
		Message:   "Stock deducted",
		ProductID: req.ProductID,
	})
}

func (h *InventoryHandler) GetProductAvailability(c *gin.Context) {
	availability, err := h.inventoryService.GetProductAvailability(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		logger.Error("Hdl.GetProductAvailability: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get availability"})
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (h *InventoryHandler) FindReservations(c *gin.Context) {
	var req domain.FindReservationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	infos, err := h.inventoryService.FindReservations(c.Request.Context(), req.ProductIDs)
	if err != nil {
		logger.Error("Hdl.FindReservations: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find reservations"})
		return
	}
	c.JSON(http.StatusOK, infos)
}

func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	threshold := config.GetEnvAsInt("LOW_STOCK_THRESHOLD", 5)
	if q := c.Query("threshold"); q != "" {
		if v, err := strconv.Atoi(q); err == nil {
			threshold = v
		}
	}
	levels, err := h.inventoryService.ListLowStock(c.Request.Context(), threshold)
	if err != nil {
		logger.Error("Hdl.ListLowStock: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list low stock"})
		return
	}
	c.JSON(http.StatusOK, levels)
}
