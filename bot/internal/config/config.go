package config

import (
	"fmt"

	"photointake/shared/config"
)

// Config holds all configuration for the bot service.
type Config struct {
	config.BaseConfig
	Server    ServerConfig
	Transport TransportConfig
}

// ServerConfig holds webhook server configuration.
type ServerConfig struct {
	Host string
	Port int
}

// TransportConfig holds chat-transport endpoints.
type TransportConfig struct {
	// FileBase is the base URL attachments are fetched from.
	FileBase string
}

// Load loads bot configuration from environment variables.
func Load() (*Config, error) {
	loader := config.NewLoader(
		config.WithDefaults(map[string]interface{}{
			"BOT_HOST":            "0.0.0.0",
			"BOT_PORT":            8081,
			"TRANSPORT_FILE_BASE": "",
		}),
		config.WithValidator(func(cfg *config.BaseConfig) error {
			if cfg.Intake.AccessPassword == "" {
				return fmt.Errorf("ACCESS_PASSWORD is required")
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
		Server: ServerConfig{
			Host: v.GetString("BOT_HOST"),
			Port: v.GetInt("BOT_PORT"),
		},
		Transport: TransportConfig{
			FileBase: v.GetString("TRANSPORT_FILE_BASE"),
		},
	}

	if cfg.Transport.FileBase == "" {
		return nil, fmt.Errorf("TRANSPORT_FILE_BASE is required")
	}

	return cfg, nil
}
