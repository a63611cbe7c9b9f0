package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Recommend RecommendConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds catalog source configuration
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// RecommendConfig holds recommendation result limits. MaxResults is the
// selector cap; AccessoryDisplayLimit is the further truncation the delivery
// layer applies to the accessory list.
type RecommendConfig struct {
	MaxResults            int `mapstructure:"max_results"`
	AccessoryDisplayLimit int `mapstructure:"accessory_display_limit"`
}

// MatchingConfig holds fuzzy-matching configuration
type MatchingConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client IP
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopsense/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Catalog defaults
	v.SetDefault("catalog.path", "catalog.csv")

	// Recommendation defaults
	v.SetDefault("recommend.max_results", 5)
	v.SetDefault("recommend.accessory_display_limit", 4)

	// Matching defaults
	v.SetDefault("matching.enable_debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required (set SHOPSENSE_CATALOG_PATH)")
	}

	if config.Recommend.MaxResults <= 0 {
		return fmt.Errorf("recommend.max_results must be positive, got: %d", config.Recommend.MaxResults)
	}

	if config.Recommend.AccessoryDisplayLimit <= 0 {
		return fmt.Errorf("recommend.accessory_display_limit must be positive, got: %d", config.Recommend.AccessoryDisplayLimit)
	}

	if config.Recommend.AccessoryDisplayLimit > config.Recommend.MaxResults {
		return fmt.Errorf("recommend.accessory_display_limit (%d) cannot exceed recommend.max_results (%d)",
			config.Recommend.AccessoryDisplayLimit, config.Recommend.MaxResults)
	}

	if config.RateLimit.PerIP < 1 {
		return fmt.Errorf("ratelimit.per_ip must be at least 1, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
