package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	LogLevel    string
	API         APIConfig
	Sandbox     SandboxConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SandboxConfig struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("API_BASE_URL", "http://localhost:8001/api/v1")
	viper.SetDefault("API_TIMEOUT_SECONDS", "30")
	viper.SetDefault("SANDBOX_PORT", "8001")
	viper.SetDefault("SANDBOX_JWT_SECRET", "sandbox-secret-change-in-production")
	viper.SetDefault("SANDBOX_TOKEN_TTL_HOURS", "24")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeoutSecs, err := strconv.Atoi(getEnvOrViper("API_TIMEOUT_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT_SECONDS: %w", err)
	}
	ttlHours, err := strconv.Atoi(getEnvOrViper("SANDBOX_TOKEN_TTL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid SANDBOX_TOKEN_TTL_HOURS: %w", err)
	}

	cfg := &Config{
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		API: APIConfig{
			BaseURL: getEnvOrViper("API_BASE_URL", "http://localhost:8001/api/v1"),
			Timeout: time.Duration(timeoutSecs) * time.Second,
		},
		Sandbox: SandboxConfig{
			Port:      getEnvOrViper("SANDBOX_PORT", "8001"),
			JWTSecret: getEnvOrViper("SANDBOX_JWT_SECRET", "sandbox-secret-change-in-production"),
			TokenTTL:  time.Duration(ttlHours) * time.Hour,
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
