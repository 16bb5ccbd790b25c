package main

import (
	"github.com/danuarta/shop-microservices/internal/payment/api"
	"github.com/danuarta/shop-microservices/internal/payment/repository"
	"github.com/danuarta/shop-microservices/internal/payment/service"
	"github.com/danuarta/shop-microservices/internal/platform/config"
	"github.com/danuarta/shop-microservices/internal/platform/database"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	dbCfg := config.LoadPaymentDBConfig()
	serverCfg := config.LoadServerConfig("8085")
	orderServiceURL := config.GetEnv("ORDER_SERVICE_URL", "http://localhost:8084")

	logger.Info("Starting Payment Service...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database for Payment Service", err)
	}
	defer db.Close()

	paymentRepository := repository.NewPostgresPaymentRepository(db)
	orderClient := service.NewHTTPOrderClient(orderServiceURL)
	paymentService := service.NewPaymentService(paymentRepository, orderClient)
	paymentHandler := api.NewPaymentHandler(paymentService)

	router := gin.Default()
	apiV1 := router.Group("/api/v1")
	paymentHandler.RegisterRoutes(apiV1)

	logger.Info("Payment Service running on port " + serverCfg.Port)
	logger.Info("Payment Service connecting to Order Service at " + orderServiceURL)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run Payment Service server", errSrv)
	}
}
