package main

import (
	"os"

	"storefront_service/config"
	"storefront_service/internal/clients"
	"storefront_service/internal/delivery"
	"storefront_service/internal/middleware"
	"storefront_service/internal/repository"
	"storefront_service/internal/usecase"
	"storefront_service/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting Storefront Service...")
	logger.Infof("Log level set to: %s", logLevel.String())

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("FATAL: Could not connect to the database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	artifactStore, err := clients.NewLocalArtifactStore(cfg.ArtifactDir, logger)
	if err != nil {
		logger.Fatalf("FATAL: Could not initialize artifact storage at %s: %v", cfg.ArtifactDir, err)
	}
	logger.Infof("Artifact storage initialized at: %s", cfg.ArtifactDir)

	// --- Dependency Injection ---
	userRepo := repository.NewPostgresUserRepository(database, logger)
	categoryRepo := repository.NewPostgresCategoryRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)
	cartRepo := repository.NewPostgresCartRepository(database, logger)
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	orderStore := repository.NewPostgresOrderStore(database, logger)
	historyRepo := repository.NewPostgresHistoryRepository(database, logger)
	logger.Info("Repositories initialized.")

	userUseCase := usecase.NewUserUseCase(userRepo, logger)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, categoryRepo, logger)
	cartUseCase := usecase.NewCartUseCase(cartRepo, productRepo, logger)
	orderUseCase := usecase.NewOrderUseCase(orderStore, orderRepo, userRepo, artifactStore, cfg.RequirePaymentProof, logger)
	logger.Info("Use cases initialized.")

	userHandler := delivery.NewUserHandler(userUseCase, logger)
	categoryHandler := delivery.NewCategoryHandler(categoryUseCase, logger)
	productHandler := delivery.NewProductHandler(productUseCase, logger)
	cartHandler := delivery.NewCartHandler(cartUseCase, logger)
	orderHandler := delivery.NewOrderHandler(orderUseCase, logger)
	historyHandler := delivery.NewHistoryHandler(historyRepo, logger)
	logger.Info("Handlers initialized.")

	router := gin.Default()
	router.RedirectTrailingSlash = false
	router.Use(middleware.RequestLogger(logger))

	userHandler.RegisterPublicRoutes(router)
	categoryHandler.RegisterPublicRoutes(router)
	productHandler.RegisterPublicRoutes(router)

	authenticated := router.Group("")
	authenticated.Use(middleware.AuthMiddleware(userUseCase, logger))
	userHandler.RegisterPrivateRoutes(authenticated)
	categoryHandler.RegisterPrivateRoutes(authenticated)
	productHandler.RegisterPrivateRoutes(authenticated)
	cartHandler.RegisterRoutes(authenticated)
	orderHandler.RegisterRoutes(authenticated)
	historyHandler.RegisterRoutes(authenticated)
	logger.Info("Routes registered.")

	// --- Start Server ---
	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Errorf("Failed to start server on port %s: %v", cfg.Port, err)
		os.Exit(1)
	}
}
