package main

import (
	"github.com/danuarta/shop-microservices/internal/catalog/api"
	"github.com/danuarta/shop-microservices/internal/catalog/repository"
	"github.com/danuarta/shop-microservices/internal/catalog/service"
	"github.com/danuarta/shop-microservices/internal/platform/config"
	"github.com/danuarta/shop-microservices/internal/platform/database"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	dbCfg := config.LoadCatalogDBConfig()
	serverCfg := config.LoadServerConfig("8082")
	inventoryServiceURL := config.GetEnv("INVENTORY_SERVICE_URL", "http://localhost:8083")

	logger.Info("Starting Catalog Service...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database for Catalog Service", err)
	}
	defer db.Close()

	productRepository := repository.NewPostgresProductRepository(db)
	inventoryClient := service.NewHTTPInventoryClient(inventoryServiceURL)
	productService := service.NewProductService(productRepository, inventoryClient)
	productHandler := api.NewProductHandler(productService)

	router := gin.Default()
	apiV1 := router.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)

	logger.Info("Catalog Service running on port " + serverCfg.Port)
	logger.Info("Catalog Service connecting to Inventory Service at " + inventoryServiceURL)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run Catalog Service server", errSrv)
	}
}
