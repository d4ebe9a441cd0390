package handlers

import (
	"log/slog"
	"time"

	"propertyapi/internal/apperrors"
	"propertyapi/internal/middleware"
	"propertyapi/internal/services"
	"propertyapi/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/time/rate"
)

// RouterConfig holds the settings of the HTTP surface.
type RouterConfig struct {
	Logger           *slog.Logger
	CORSAllowOrigins string
	RateLimitRPS     float64 // zero disables rate limiting
	RateLimitBurst   int
}

// ErrorHandler renders every error returned by a handler as the standard error body.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := apperrors.Describe(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("request_id", middleware.RequestID(c)),
				slog.String("http_method", c.Method()),
				slog.String("http_path", c.Path()),
				slog.Any("error", err))
		}
		return c.Status(status).JSON(body)
	}
}

// NewApp builds the Fiber app serving the property API.
func NewApp(service *services.PropertyService, cfg RouterConfig) *fiber.App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "property-api",
		ErrorHandler:          ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	app.Use(compress.New())
	if cfg.RateLimitRPS > 0 {
		app.Use(middleware.RateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))
	}

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	NewPropertyHandler(service, validation.New()).RegisterRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewRouteNotFoundError(c.OriginalURL())
	})

	return app
}
