package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	DatabaseDSN     string
	AppPort         string
	CORSAllowOrigin string
	RateLimitMax    int
	RateLimitWindow time.Duration
	RedisURL        string
	RabbitMQURL     string
	LogLevel        string
}

// Load reads configuration from the environment via Viper. DATABASE_DSN is
// required; everything else has a default. REDIS_URL and RABBITMQ_URL are
// optional and enable the shared rate-limit store and the event publisher.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_PORT", ":5200")
	v.SetDefault("CORS_ALLOW_ORIGIN", "http://localhost:4200")
	v.SetDefault("RATE_LIMIT_MAX", 50)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		AppPort:         normalizePort(v.GetString("APP_PORT")),
		CORSAllowOrigin: v.GetString("CORS_ALLOW_ORIGIN"),
		RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow: v.GetDuration("RATE_LIMIT_WINDOW"),
		RedisURL:        v.GetString("REDIS_URL"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}

	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}
	if cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	return cfg, nil
}

func normalizePort(port string) string {
	if port != "" && !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}
