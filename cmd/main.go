package main

import (
	"os"
	"store_service/config"
	"store_service/internal/delivery"
	"store_service/internal/repository"
	"store_service/internal/usecase"
	"store_service/pkg/db"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	//  Configuration and Logging Setup
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level %q, falling back to info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Starting Store Service...")

	// --- Database Connection ---
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	if err := db.Migrate(database, cfg.MigrationsDir); err != nil {
		logger.Fatalf("FATAL: Failed to run migrations: %v", err)
	}
	logger.Info("Database schema up to date.")

	// --- Dependency Injection ---
	// Repository Layer
	userRepo := repository.NewPostgresUserRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)
	customerRepo := repository.NewPostgresCustomerRepository(database, logger)
	purchaseRepo := repository.NewPostgresPurchaseRepository(database, logger)
	logger.Info("Repositories initialized.")

	// Usecase Layer
	userUseCase := usecase.NewUserUseCase(userRepo, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, logger)
	customerUseCase := usecase.NewCustomerUseCase(customerRepo, logger)
	purchaseUseCase := usecase.NewPurchaseUseCase(purchaseRepo, customerRepo, productRepo, logger)
	logger.Info("Use cases initialized.")

	authHandler := delivery.NewAuthHandler(userUseCase, logger)
	productHandler := delivery.NewProductHandler(productUseCase, logger)
	customerHandler := delivery.NewCustomerHandler(customerUseCase, logger)
	purchaseHandler := delivery.NewPurchaseHandler(purchaseUseCase, logger)
	logger.Info("Handlers initialized.")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(delivery.RequestID())
	router.Use(delivery.RequestLogger(logger))

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	router.Use(sessions.Sessions("session", sessionStore))

	router.LoadHTMLGlob("web/templates/*.html")

	// Route Registration
	authHandler.RegisterRoutes(router)

	authorized := router.Group("/", delivery.RequireAuth(userUseCase, logger))
	authHandler.RegisterProtectedRoutes(authorized)
	productHandler.RegisterRoutes(authorized)
	customerHandler.RegisterRoutes(authorized)
	purchaseHandler.RegisterRoutes(authorized)
	logger.Info("Routes registered.")

	//  Start Server
	logger.Infof("Starting server on %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
