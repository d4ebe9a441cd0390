// Package config loads application settings from the environment, an optional
// .env file and an optional config file named by CONFIG_FILE.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Cache    CacheConfig
	RabbitMQ RabbitMQConfig
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port             string
	CORSAllowOrigins string
	RateLimitRPS     float64
	RateLimitBurst   int
	ShutdownTimeout  time.Duration
}

// DatabaseConfig holds the storage configuration.
type DatabaseConfig struct {
	Driver          string // sqlite, postgres or memory
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Seed            bool
}

// LogConfig holds the logger configuration.
type LogConfig struct {
	Level  slog.Level
	Format string // text, json or color
}

// CacheConfig holds the read cache configuration. A zero TTL disables the cache.
type CacheConfig struct {
	TTL time.Duration
}

// RabbitMQConfig holds the broker configuration. An empty URL disables events.
type RabbitMQConfig struct {
	URL     string
	Queue   string
	Consume bool
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "property.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_SEED", true)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	v.SetDefault("CACHE_TTL", "1m")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "property_events")
	v.SetDefault("RABBITMQ_CONSUME", false)
}

// Load reads configuration from the process environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return LoadFrom(v)
}

// LoadFrom builds a Config from an already prepared viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:             v.GetString("APP_PORT"),
			CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
			RateLimitRPS:     v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst:   v.GetInt("RATE_LIMIT_BURST"),
			ShutdownTimeout:  v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			Seed:            v.GetBool("DB_SEED"),
		},
		Log: LogConfig{
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Cache: CacheConfig{
			TTL: v.GetDuration("CACHE_TTL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:     v.GetString("RABBITMQ_URL"),
			Queue:   v.GetString("RABBITMQ_QUEUE"),
			Consume: v.GetBool("RABBITMQ_CONSUME"),
		},
	}

	if err := cfg.Log.Level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch cfg.Log.Format {
	case "text", "json", "color":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text, json or color", cfg.Log.Format)
	}

	switch cfg.Database.Driver {
	case "sqlite", "postgres", "memory":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: want sqlite, postgres or memory", cfg.Database.Driver)
	}

	if cfg.Server.RateLimitRPS < 0 || cfg.Server.RateLimitBurst < 1 {
		return nil, fmt.Errorf("invalid rate limit: RATE_LIMIT_RPS must be >= 0 and RATE_LIMIT_BURST >= 1")
	}
	if cfg.Cache.TTL < 0 {
		return nil, fmt.Errorf("invalid CACHE_TTL %s", cfg.Cache.TTL)
	}

	return cfg, nil
}
