package main

import (
	"time"

	"github.com/danuarta/shop-microservices/internal/order/api"
	"github.com/danuarta/shop-microservices/internal/order/repository"
	"github.com/danuarta/shop-microservices/internal/order/service"
	"github.com/danuarta/shop-microservices/internal/platform/config"
	"github.com/danuarta/shop-microservices/internal/platform/database"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	dbCfg := config.LoadOrderDBConfig()
	serverCfg := config.LoadServerConfig("8084")
	inventoryServiceURL := config.GetEnv("INVENTORY_SERVICE_URL", "http://localhost:8083")
	cartServiceURL := config.GetEnv("CART_SERVICE_URL", "http://localhost:8086")

	logger.Info("Starting Order Service...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database for Order Service", err)
	}
	defer db.Close()

	paymentTimeout := time.Duration(config.GetEnvAsInt("PAYMENT_TIMEOUT_MINUTES", 2)) * time.Minute

	orderRepository := repository.NewPostgresOrderRepository(db)
	inventoryClient := service.NewHTTPInventoryClient(inventoryServiceURL)
	cartClient := service.NewHTTPCartClient(cartServiceURL)
	ordService := service.NewOrderService(orderRepository, inventoryClient, cartClient, paymentTimeout)
	orderHandler := api.NewOrderHandler(ordService)

	router := gin.Default()
	apiV1 := router.Group("/api/v1")
	orderHandler.RegisterRoutes(apiV1)

	logger.Info("Order Service running on port " + serverCfg.Port)
	logger.Info("Order Service connecting to Inventory Service at " + inventoryServiceURL)
	logger.Info("Order Service connecting to Cart Service at " + cartServiceURL)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run Order Service server", errSrv)
	}
}
