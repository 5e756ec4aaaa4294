package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	gormLevel := gormlogger.Warn
	if cfg.IsProduction() {
		gormLevel = gormlogger.Error
	}
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, gormLevel)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	carts, closeCarts, err := newCartStore(ctx, cfg)
	cancel()
	if err != nil {
		zlog.Fatal("failed to initialize cart store", zap.Error(err))
	}
	defer closeCarts()

	// A nil publisher disables order events.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:        cfg.RabbitMQURL,
			Exchange:   services.OrderExchange,
			Queue:      "order_events",
			BindingKey: "order.*",
		}, zlog)
		if err != nil {
			zlog.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent(zlog)); err != nil {
			zlog.Error("failed to start order event consumer", zap.Error(err))
		}
	} else {
		zlog.Info("RABBITMQ_URL not set, order events disabled")
	}

	app := newApp(cfg, db, carts, publisher, zlog)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zlog.Info("starting server", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := app.Listen(cfg.AppPort); err != nil {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	zlog.Info("server gracefully stopped")
}

// newCartStore picks the cart backend named by CART_STORE. The returned
// func releases its connections.
func newCartStore(ctx context.Context, cfg *config.Config) (repositories.CartStore, func(), error) {
	if cfg.CartStore == "redis" {
		client, err := repositories.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewRedisCartStore(client, cfg.CartTTL), func() { client.Close() }, nil
	}
	return repositories.NewMemoryCartStore(cfg.CartTTL), func() {}, nil
}

// newApp wires repositories, services and handlers into a Fiber app.
func newApp(cfg *config.Config, db *gorm.DB, carts repositories.CartStore, publisher services.EventPublisher, zlog *zap.Logger) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	customerRepo := repositories.NewGORMCustomerRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	productService := services.NewProductService(productRepo)
	customerService := services.NewCustomerService(customerRepo, userRepo)
	cartService := services.NewCartService(carts, productRepo)
	checkoutService := services.NewCheckoutService(customerRepo, productRepo, orderRepo, carts, publisher, zlog)
	orderService := services.NewOrderService(orderRepo, customerRepo, productRepo, publisher, zlog)

	sessions := session.New(session.Config{
		Expiration:     cfg.CartTTL,
		KeyLookup:      "cookie:" + middleware.SessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.IsProduction(),
		CookieSameSite: "Lax",
	})

	guards := handlers.Guards{
		Auth:    middleware.AuthRequired(authService, zlog),
		Company: middleware.CompanyOnly(),
		Session: middleware.CartSession(sessions, zlog),
	}

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: errorHandler(zlog),
	})
	app.Use(recover.New())
	app.Use(logger.RequestLogger(zlog))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": publisher != nil,
		})
	})

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, zlog).RegisterRoutes(apiV1, middleware.NewRateLimiter(cfg.LoginRatePerMinute).Handler())
	handlers.NewProductHandler(productService, zlog).RegisterRoutes(apiV1, guards)
	handlers.NewCustomerHandler(customerService, zlog).RegisterRoutes(apiV1, guards)
	handlers.NewCartHandler(cartService, checkoutService, zlog).RegisterRoutes(apiV1, guards)
	handlers.NewOrderHandler(orderService, zlog).RegisterRoutes(apiV1, guards)

	return app
}

// errorHandler renders errors that escaped the handlers, such as unknown
// routes, in the same JSON shape the handlers use.
func errorHandler(zlog *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Something went wrong"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			zlog.Error("unhandled error",
				zap.String("request_id", logger.RequestID(c)),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{
			"message": message,
			"error":   "http",
		})
	}
}
