package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"propertyapi/internal/config"
	"propertyapi/internal/database"
	"propertyapi/internal/handlers"
	"propertyapi/internal/logging"
	"propertyapi/internal/models"
	"propertyapi/internal/repositories"
	"propertyapi/internal/services"
	"propertyapi/pkg/rabbitmq"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		slog.Error("property api stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)

	// --- Storage ---
	repo, db, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	if cfg.Database.Seed {
		if err := database.Seed(context.Background(), repo, logger); err != nil {
			return err
		}
	}

	// --- Events ---
	var events services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				logger.Error("failed to close RabbitMQ client", slog.Any("error", err))
			}
		}()
		events = mqClient

		if cfg.RabbitMQ.Consume {
			if err := mqClient.ConsumePropertyEvents(auditEvent(logger)); err != nil {
				return err
			}
			logger.Info("consuming property events", slog.String("queue", cfg.RabbitMQ.Queue))
		}
	}

	// --- HTTP Server ---
	service := services.NewPropertyService(repo, events, logger)
	app := handlers.NewApp(service, handlers.RouterConfig{
		Logger:           logger,
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
		RateLimitRPS:     cfg.Server.RateLimitRPS,
		RateLimitBurst:   cfg.Server.RateLimitBurst,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", cfg.Server.Port))
		listenErr <- app.Listen(cfg.Server.Port)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		logger.Error("error during shutdown", slog.Any("error", err))
	}
	logger.Info("server gracefully stopped")
	return nil
}

// openRepository builds the configured property store. The returned *gorm.DB is
// nil for the in-memory driver.
func openRepository(cfg *config.Config, logger *slog.Logger) (repositories.PropertyRepository, *gorm.DB, error) {
	var (
		repo repositories.PropertyRepository
		db   *gorm.DB
	)

	if cfg.Database.Driver == "memory" {
		repo = repositories.NewMemoryPropertyRepository()
	} else {
		var err error
		db, err = database.Open(cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		repo = repositories.NewGORMPropertyRepository(db)
	}

	if cfg.Cache.TTL > 0 {
		repo = repositories.NewCachedPropertyRepository(repo, cfg.Cache.TTL)
	}
	return repo, db, nil
}

// auditEvent logs every property event read back from the queue.
func auditEvent(logger *slog.Logger) func(models.PropertyEvent) error {
	return func(event models.PropertyEvent) error {
		logger.Info("property event",
			slog.String("event_id", event.ID),
			slog.String("event_type", event.Type),
			slog.Uint64("property_id", uint64(event.PropertyID)),
			slog.Time("occurred_at", event.OccurredAt))
		return nil
	}
}
