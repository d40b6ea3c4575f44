package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice/internal/config"
	"backoffice/internal/handlers"
	applogger "backoffice/internal/logger"
	"backoffice/internal/metrics"
	"backoffice/internal/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/rabbitmq"
	"backoffice/pkg/shopware"
	"backoffice/pkg/zalando"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl := applogger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = zl.Sync() }()

	// --- Document settings database ---
	db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		zl.Fatal("failed to open database", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
	}

	// --- RabbitMQ (optional) ---
	// publisher stays a nil interface when RabbitMQ is disabled.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:    cfg.RabbitMQURL,
			Queues: []string{services.SubmissionQueue},
		}, zl)
		if err != nil {
			zl.Fatal("failed to initialize rabbitmq client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		zl.Info("RABBITMQ_URL not set, submission events are not published")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(prometheus.NewRegistry())
	app, boards := newApp(ctx, cfg, zl, m, db, publisher)

	// --- Start HTTP Server ---
	zl.Info("starting server", zap.String("port", cfg.AppPort), zap.Bool("auth", cfg.AuthEnabled()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			zl.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zl.Info("shutting down server")

	boards.CloseAll()
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("error during fiber shutdown", zap.Error(err))
	}
	zl.Info("server gracefully stopped")
}

// newApp builds the upstream clients, services and routes. Board loads run on
// ctx and stop when it is cancelled.
func newApp(ctx context.Context, cfg config.Config, zl *zap.Logger, m *metrics.Metrics, db *gorm.DB, publisher services.EventPublisher) (*fiber.App, *services.BoardService) {
	// --- Upstream clients ---
	shop := shopware.NewClient(shopware.Config{
		Host:    cfg.ShopwareHost,
		User:    cfg.ShopwareUser,
		Key:     cfg.ShopwareKey,
		Timeout: cfg.UpstreamTimeout,
	}, zl.Named("shopware"), m)
	zal := zalando.NewClient(zalando.Config{
		Host:      cfg.ZalandoHost,
		MachineID: cfg.ZalandoMachineID,
		Timeout:   cfg.UpstreamTimeout,
	}, shop, zl.Named("zalando"), m)

	// --- Services ---
	orderService := services.NewOrderService(shop, zl)
	documentService := services.NewDocumentService(shop, orderService, repositories.NewGORMSettingsRepository(db), zl)
	productService := services.NewProductService(shop, zal, publisher, m, zl)
	boardService := services.NewBoardService(ctx, orderService, zl.Named("board"), m)
	authService := services.NewAuthService(cfg.Operators, cfg.JWTSecret, zl)

	app := fiber.New()

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// --- Health Check and Metrics ---
	mqState := "disabled"
	if publisher != nil {
		mqState = "connected"
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": mqState,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// --- API Routes ---
	api := app.Group("/api")
	handlers.NewAuthHandler(authService, zl).RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService, zl))
	handlers.NewOrderHandler(orderService, zl).RegisterRoutes(protected)
	handlers.NewDocumentHandler(documentService, zl).RegisterRoutes(protected)
	handlers.NewProductHandler(productService, zl).RegisterRoutes(protected)
	handlers.NewBoardHandler(boardService, zl).RegisterRoutes(protected)

	return app, boardService
}
