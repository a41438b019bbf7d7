package config

import (
	"fmt"
	"time"

	"photointake/shared/config"
)

// Config holds all configuration for the worker service.
type Config struct {
	config.BaseConfig
	Consumer ConsumerConfig
}

// ConsumerConfig holds job consumption tuning.
type ConsumerConfig struct {
	// Prefetch is the number of unacknowledged deliveries the broker hands
	// this consumer at once.
	Prefetch int
	// RateLimit caps processed jobs per RateWindow; zero disables limiting.
	RateLimit  int
	RateWindow time.Duration
}

// Load loads worker configuration from environment variables.
func Load() (*Config, error) {
	loader := config.NewLoader(
		config.WithDefaults(map[string]interface{}{
			"WORKER_PREFETCH":       1,
			"WORKER_RATE_LIMIT":     10,
			"WORKER_RATE_WINDOW_MS": 1000,
		}),
		config.WithValidator(func(cfg *config.BaseConfig) error {
			if cfg.WordPress.BaseURL == "" {
				return fmt.Errorf("WP_URL is required")
			}
			if cfg.WordPress.User == "" {
				return fmt.Errorf("WP_USER is required")
			}
			if cfg.WordPress.Password == "" {
				return fmt.Errorf("WP_PASSWORD is required")
			}
			return nil
		}),
	)

	base, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	v := loader.Viper()
	cfg := &Config{
		BaseConfig: *base,
		Consumer: ConsumerConfig{
			Prefetch:   v.GetInt("WORKER_PREFETCH"),
			RateLimit:  v.GetInt("WORKER_RATE_LIMIT"),
			RateWindow: time.Duration(v.GetInt("WORKER_RATE_WINDOW_MS")) * time.Millisecond,
		},
	}

	if cfg.Consumer.Prefetch <= 0 {
		cfg.Consumer.Prefetch = 1
	}

	return cfg, nil
}
