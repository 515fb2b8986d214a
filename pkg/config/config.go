package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string   `mapstructure:"PGSQL_URL"`
	Port              string   `mapstructure:"PORT"`
	IsProduction      bool     `mapstructure:"IS_PRODUCTION"`
	MigrationsPath    string   `mapstructure:"MIGRATIONS_PATH"`
	RateLimitRequests int64    `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   string   `mapstructure:"RATE_LIMIT_WINDOW"`
	CORSAllowOrigins  []string `mapstructure:"CORS_ALLOW_ORIGINS"`
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("RATE_LIMIT_REQUESTS", int64(100))
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("CORS_ALLOW_ORIGINS", []string{"*"})
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL environment variable is required")
	}

	return &cfg, nil
}
