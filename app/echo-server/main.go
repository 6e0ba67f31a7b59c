package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eswika/app/echo-server/router"
	"eswika/business/admin"
	"eswika/business/cart"
	"eswika/business/checkout"
	"eswika/business/inventory"
	"eswika/business/orders"
	"eswika/business/payments"
	"eswika/business/product"
	userService "eswika/business/user"
	"eswika/internal/middleware"
	"eswika/internal/repository/notification"
	psqlRepo "eswika/internal/repository/postgres"
	redisRepo "eswika/internal/repository/redis"
	"eswika/internal/rest"
	"eswika/pkg/config"
	"eswika/pkg/database"
	redisdb "eswika/pkg/database/redis"
	"eswika/pkg/logger"
	"eswika/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Eswika", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	metrics.Init()

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	adminRepo := psqlRepo.NewAdminRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	cartRepo := psqlRepo.NewCartRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	paymentsRepo := psqlRepo.NewPaymentsRepository(db)
	statsRepo := psqlRepo.NewStatsRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// Init service
	inventoryService := inventory.NewService(productRepo)
	converter := checkout.NewConverter(cartRepo, ordersRepo)

	usrService := userService.NewUserService(userRepo, validate, tokenRepo)
	productService := product.NewProductService(productRepo)
	cartService := cart.NewCartService(db, cartRepo, productRepo, inventoryService, converter)
	ordersService := orders.NewOrdersService(db, ordersRepo, productRepo, userRepo, inventoryService)
	paymentsService := payments.NewPaymentsService(db, paymentsRepo, cartRepo, ordersRepo, userRepo, mailjetEmail, converter)
	adminService := admin.NewAdminService(adminRepo, userRepo, productRepo, statsRepo)

	// Init handler
	userHandler := rest.NewUserHandler(usrService)
	productHandler := rest.NewProductHandler(productService)
	cartHandler := rest.NewCartHandler(cartService)
	ordersHandler := rest.NewOrdersHandler(ordersService)
	paymentsHandler := rest.NewPaymentsHandler(paymentsService)
	adminHandler := rest.NewAdminHandler(adminService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware. User sessions are revocable through Redis; admin
	// tokens are stateless JWTs.
	authRequired := middleware.AuthMiddlewareWithRedis(tokenRepo)
	adminAuth := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, authRequired)
	router.SetupCartRoutes(api, cartHandler, authRequired)
	router.SetOrdersRoutes(api, ordersHandler, authRequired)
	router.SetPaymentsRoutes(api, paymentsHandler, authRequired)
	router.SetupAdminRoutes(api, adminHandler, adminAuth, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
