package main

import (
	"github.com/danuarta/shop-microservices/internal/platform/config"
	"github.com/danuarta/shop-microservices/internal/platform/database"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/danuarta/shop-microservices/internal/user/api"
	"github.com/danuarta/shop-microservices/internal/user/repository"
	"github.com/danuarta/shop-microservices/internal/user/service"
	"github.com/gin-gonic/gin"
)

func main() {
	dbCfg := config.LoadUserDBConfig()
	serverCfg := config.LoadServerConfig("8081")

	logger.Info("Starting User Service...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database for User Service", err)
	}
	defer db.Close()

	userRepository := repository.NewPostgresUserRepository(db)
	userService := service.NewUserService(userRepository)
	userHandler := api.NewUserHandler(userService)

	router := gin.Default()
	apiV1 := router.Group("/api/v1")
	userHandler.RegisterRoutes(apiV1)

	logger.Info("User Service running on port " + serverCfg.Port)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run User Service server", errSrv)
	}
}
