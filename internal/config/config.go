// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort           = 8080
	defaultServerHost           = "0.0.0.0"
	defaultReadTimeout          = 30 * time.Second
	defaultWriteTimeout         = 30 * time.Second
	defaultDatabasePath         = "./data/skyview.db"
	defaultLogLevel             = "info"
	defaultLogPretty            = false
	defaultAccessTokenTTL       = 30 * time.Minute
	defaultRefreshTokenTTL      = 7 * 24 * time.Hour
	defaultVerificationTokenTTL = 24 * time.Hour
	defaultResetTokenTTL        = time.Hour
	defaultFrontendURL          = "http://localhost:3000/"
	envPrefix                   = "SKYVIEW"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	Email    EmailConfig
	Xtream   XtreamConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// AuthConfig holds token issuance configuration
type AuthConfig struct {
	Secret               string
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	VerificationTokenTTL time.Duration
	ResetTokenTTL        time.Duration
	BaseURL              string // used in verification/reset links
}

// StripeConfig holds payment gateway configuration
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	FrontendURL   string // checkout success/cancel redirect base
}

// EmailConfig holds outbound email configuration
type EmailConfig struct {
	APIKey string
	From   string
}

// XtreamConfig holds upstream IPTV provider credentials for the catalog sync
// job. Injected here rather than read inside the sync package so tests can
// point it at a fake server.
type XtreamConfig struct {
	Host     string
	Username string
	Password string
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/skyview")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	// Auth defaults
	v.SetDefault("auth.secret", "dev-secret-change-in-production")
	v.SetDefault("auth.accesstokenttl", defaultAccessTokenTTL)
	v.SetDefault("auth.refreshtokenttl", defaultRefreshTokenTTL)
	v.SetDefault("auth.verificationtokenttl", defaultVerificationTokenTTL)
	v.SetDefault("auth.resettokenttl", defaultResetTokenTTL)
	v.SetDefault("auth.baseurl", "http://localhost:8080")

	// Secrets default to empty so AutomaticEnv can fill them in; viper only
	// reads env vars for keys it already knows about. Billing refuses to
	// start a checkout while the Stripe keys are empty.
	v.SetDefault("stripe.secretkey", "")
	v.SetDefault("stripe.webhooksecret", "")
	v.SetDefault("stripe.frontendurl", defaultFrontendURL)

	// Email defaults
	v.SetDefault("email.apikey", "")
	v.SetDefault("email.from", "no-reply@skyview.tv")

	// Xtream credentials, empty until a provider is configured
	v.SetDefault("xtream.host", "")
	v.SetDefault("xtream.username", "")
	v.SetDefault("xtream.password", "")
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret must not be empty")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("invalid access token TTL: %v (must be > 0)", c.Auth.AccessTokenTTL)
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("invalid refresh token TTL: %v (must be > 0)", c.Auth.RefreshTokenTTL)
	}

	// Xtream credentials are validated by the sync service when a sync is
	// actually requested; an instance without them simply serves the
	// existing catalog.

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
