package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT" validate:"oneof=development staging production"`
	Port        string `mapstructure:"PORT" validate:"required,numeric"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Backend API configuration
	APIBaseURL     string `mapstructure:"API_BASE_URL" validate:"required,url"`
	APIV1Str       string `mapstructure:"API_V1_STR" validate:"required,startswith=/"`
	HTTPTimeoutSec int    `mapstructure:"HTTP_TIMEOUT_SEC" validate:"gte=1,lte=600"`

	// Auth configuration
	TokenFile    string `mapstructure:"TOKEN_FILE"`
	AuthLoginURL string `mapstructure:"AUTH_LOGIN_URL" validate:"omitempty,url"`

	// Link configuration
	LinkIdempotencyKeys bool `mapstructure:"LINK_IDEMPOTENCY_KEYS"`

	// Document configuration
	MaxUploadSizeMB int `mapstructure:"MAX_UPLOAD_SIZE_MB" validate:"gte=0"`
}

// Load reads configuration from environment variables and an optional config file.
// An empty configPath searches for config.yaml in . and ./config.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Set default values
	setDefaults(v)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.APIBaseURL = strings.TrimSuffix(config.APIBaseURL, "/")

	tokenFile, err := expandHome(config.TokenFile)
	if err != nil {
		return nil, err
	}
	config.TokenFile = tokenFile

	// Validate required fields
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "7009")
	v.SetDefault("LOG_LEVEL", "info")

	// Backend defaults
	v.SetDefault("API_BASE_URL", "http://localhost:8000")
	v.SetDefault("API_V1_STR", "/api/v1")
	v.SetDefault("HTTP_TIMEOUT_SEC", 30)

	// Auth defaults
	v.SetDefault("TOKEN_FILE", "~/.config/codeme/token.yaml")
	v.SetDefault("AUTH_LOGIN_URL", "")

	v.SetDefault("LINK_IDEMPOTENCY_KEYS", false)
	v.SetDefault("MAX_UPLOAD_SIZE_MB", 20)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

func validate(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}

	if config.IsProduction() && strings.HasPrefix(config.APIBaseURL, "http://") {
		return fmt.Errorf("API_BASE_URL must use https in production")
	}

	return nil
}

// HTTPTimeout returns the outbound request timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// MaxUploadBytes returns the upload limit in bytes; zero means unlimited
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) * 1024 * 1024
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
