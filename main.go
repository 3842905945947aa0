package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pogo-accounts/internal/config"
	"pogo-accounts/internal/handlers"
	"pogo-accounts/internal/logger"
	"pogo-accounts/internal/middleware"
	"pogo-accounts/internal/models"
	"pogo-accounts/internal/repositories"
	"pogo-accounts/internal/services"
	"pogo-accounts/internal/storage"
	"pogo-accounts/pkg/events"
	"pogo-accounts/web"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		// No config means no DSN; nothing useful can start.
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)

	// --- Database ---
	// TranslateError turns driver duplicate-key errors into
	// gorm.ErrDuplicatedKey, which the repository maps to ErrDuplicateEmail.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- Event publisher (optional) ---
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		client, err := events.NewClient(events.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		publisher = client
		log.Info().Msg("account event publisher connected")
	}
	defer publisher.Close()

	// --- Rate limit storage (optional, shared across replicas) ---
	var rateStore fiber.Storage
	if cfg.RedisURL != "" {
		redisStore, err := storage.NewRedisStorage(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisStore.Close()
		rateStore = redisStore
		log.Info().Msg("rate limiter using shared Redis storage")
	}

	// --- Wiring ---
	accountRepo := repositories.NewGORMAccountRepository(db)
	accountService := services.NewAccountService(accountRepo, publisher, log)

	app := NewApp(cfg, log, accountService, rateStore)

	// --- Start HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}

// NewApp assembles the Fiber application: middleware stack, API routes, the
// embedded UI, and the JSON 404 fallback. It is exported so integration tests
// can build the full app around their own service wiring.
func NewApp(cfg *config.Config, log zerolog.Logger, accountService *services.AccountService, rateStore fiber.Storage) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: newErrorHandler(log),
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))
	app.Use(fiberlogger.New())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "default-src 'self'",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigin,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, rateStore))

	// --- API routes ---
	app.Get("/health", handlers.HandleHealth)
	accountHandler := handlers.NewAccountHandler(accountService, log)
	accountHandler.RegisterRoutes(app)

	// --- Embedded UI ---
	app.Use("/", filesystem.New(filesystem.Config{
		Root:       http.FS(web.Static),
		PathPrefix: "static",
		Index:      "index.html",
	}))

	// --- Fallback for unmatched routes ---
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})

	return app
}

// newErrorHandler maps errors escaping the handler chain (including panics
// recovered by the recover middleware) to JSON bodies. Anything 5xx gets a
// generic message; the cause is logged server-side only.
func newErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			if code < 500 {
				message = fiberErr.Message
			}
		}

		if code >= 500 {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}
