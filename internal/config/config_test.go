package config

import (
	"os"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != defaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, defaultServerPort)
	}
	if cfg.Server.Host != defaultServerHost {
		t.Errorf("Server.Host = %s, want %s", cfg.Server.Host, defaultServerHost)
	}
	if cfg.Database.Path != defaultDatabasePath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, defaultDatabasePath)
	}
	if cfg.Logging.Level != defaultLogLevel {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, defaultLogLevel)
	}
	if cfg.Logging.Pretty != defaultLogPretty {
		t.Errorf("Logging.Pretty = %v, want %v", cfg.Logging.Pretty, defaultLogPretty)
	}
	if cfg.Auth.AccessTokenTTL != defaultAccessTokenTTL {
		t.Errorf("Auth.AccessTokenTTL = %v, want %v", cfg.Auth.AccessTokenTTL, defaultAccessTokenTTL)
	}
	if cfg.Auth.RefreshTokenTTL != defaultRefreshTokenTTL {
		t.Errorf("Auth.RefreshTokenTTL = %v, want %v", cfg.Auth.RefreshTokenTTL, defaultRefreshTokenTTL)
	}
	if cfg.Stripe.SecretKey != "" {
		t.Errorf("Stripe.SecretKey = %s, want empty", cfg.Stripe.SecretKey)
	}
	if cfg.Stripe.FrontendURL != defaultFrontendURL {
		t.Errorf("Stripe.FrontendURL = %s, want %s", cfg.Stripe.FrontendURL, defaultFrontendURL)
	}
}

func TestConfigEnvVars(t *testing.T) {
	_ = os.Setenv("SKYVIEW_SERVER_PORT", "9090")
	_ = os.Setenv("SKYVIEW_LOGGING_LEVEL", "debug")
	_ = os.Setenv("SKYVIEW_AUTH_SECRET", "env-secret")
	_ = os.Setenv("SKYVIEW_XTREAM_HOST", "http://provider.example.com")
	defer func() {
		_ = os.Unsetenv("SKYVIEW_SERVER_PORT")
		_ = os.Unsetenv("SKYVIEW_LOGGING_LEVEL")
		_ = os.Unsetenv("SKYVIEW_AUTH_SECRET")
		_ = os.Unsetenv("SKYVIEW_XTREAM_HOST")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("Auth.Secret = %s, want env-secret", cfg.Auth.Secret)
	}
	if cfg.Xtream.Host != "http://provider.example.com" {
		t.Errorf("Xtream.Host = %s, want http://provider.example.com", cfg.Xtream.Host)
	}
}

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		Database: DatabaseConfig{Path: defaultDatabasePath},
		Logging:  LoggingConfig{Level: "info"},
		Auth: AuthConfig{
			Secret:          "secret",
			AccessTokenTTL:  defaultAccessTokenTTL,
			RefreshTokenTTL: defaultRefreshTokenTTL,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid server port (too low)",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid server port (too high)",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "invalid read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "invalid" },
			wantErr: true,
		},
		{
			name:    "empty auth secret",
			mutate:  func(c *Config) { c.Auth.Secret = "" },
			wantErr: true,
		},
		{
			name:    "invalid access token TTL",
			mutate:  func(c *Config) { c.Auth.AccessTokenTTL = -time.Minute },
			wantErr: true,
		},
		{
			name:    "missing xtream credentials are allowed",
			mutate:  func(c *Config) { c.Xtream = XtreamConfig{} },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContains(t *testing.T) {
	if !contains([]string{"one", "two"}, "two") {
		t.Error("contains() = false, want true")
	}
	if contains([]string{"one", "two"}, "three") {
		t.Error("contains() = true, want false")
	}
	if contains(nil, "one") {
		t.Error("contains() on nil slice = true, want false")
	}
}
