package main

import (
	"time"

	"github.com/danuarta/shop-microservices/internal/cart/api"
	"github.com/danuarta/shop-microservices/internal/cart/repository"
	"github.com/danuarta/shop-microservices/internal/cart/service"
	"github.com/danuarta/shop-microservices/internal/platform/config"
	"github.com/danuarta/shop-microservices/internal/platform/database"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	mongoCfg := config.LoadCartMongoConfig()
	serverCfg := config.LoadServerConfig("8086")
	catalogServiceURL := config.GetEnv("CATALOG_SERVICE_URL", "http://localhost:8082")
	idleTTL := time.Duration(config.GetEnvAsInt("CART_TTL_HOURS", 168)) * time.Hour

	logger.Info("Starting Cart Service...")

	mongoDB, err := database.ConnectMongo(mongoCfg.URI, mongoCfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB for Cart Service", err)
	}

	cartRepository := repository.NewMongoCartRepository(mongoDB)
	catalogClient := service.NewHTTPCatalogClient(catalogServiceURL)
	cartService := service.NewCartService(cartRepository, catalogClient, idleTTL)
	cartHandler := api.NewCartHandler(cartService)

	router := gin.Default()
	apiV1 := router.Group("/api/v1")
	cartHandler.RegisterRoutes(apiV1)

	logger.Info("Cart Service running on port " + serverCfg.Port)
	logger.Info("Cart Service connecting to Catalog Service at " + catalogServiceURL)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run Cart Service server", errSrv)
	}
}
