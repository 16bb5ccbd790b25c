package main

import (
	"github.com/danuarta/shop-microservices/internal/inventory/api"
	"github.com/danuarta/shop-microservices/internal/inventory/repository"
	"github.com/danuarta/shop-microservices/internal/inventory/service"
	"github.com/danuarta/shop-microservices/internal/platform/config"
	"github.com/danuarta/shop-microservices/internal/platform/database"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	dbCfg := config.LoadInventoryDBConfig()
	serverCfg := config.LoadServerConfig("8083")

	logger.Info("Starting Inventory Service...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database for Inventory Service", err)
	}
	defer db.Close()

	inventoryRepository := repository.NewPostgresInventoryRepository(db)
	inventoryService := service.NewInventoryService(inventoryRepository)
	inventoryHandler := api.NewInventoryHandler(inventoryService)

	router := gin.Default()
	apiV1 := router.Group("/api/v1")
	inventoryHandler.RegisterRoutes(apiV1)

	logger.Info("Inventory Service running on port " + serverCfg.Port)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run Inventory Service server", errSrv)
	}
}
