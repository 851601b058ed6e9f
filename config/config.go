// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/TechHelpSeniors/techhelp-proxy/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Review storage backends.
const (
	ReviewsBackendFile     = "file"
	ReviewsBackendPostgres = "postgres"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
	Version        string      `mapstructure:"VERSION"`
	// StaticDir is the directory the site's HTML, CSS and JS are served from.
	StaticDir string `mapstructure:"STATIC_DIR"`
}

// UpstreamConfig describes the third-party API submissions are forwarded to.
type UpstreamConfig struct {
	APIBase string `mapstructure:"API_BASE"`
	// APIKeyFile is read on every submission, so replacing the file rotates the key.
	APIKeyFile     string `mapstructure:"API_KEY_FILE"`
	APIKeyHeader   string `mapstructure:"API_KEY_HEADER"`
	TimeoutSeconds int    `mapstructure:"TIMEOUT_SECONDS"`
}

// ReviewsConfig selects where reviews are persisted.
type ReviewsConfig struct {
	Backend string `mapstructure:"BACKEND"`
	File    string `mapstructure:"FILE"`
}

// DatabaseConfig holds PostgreSQL connection details for the postgres reviews backend.
type DatabaseConfig struct {
	URL      string `mapstructure:"URL"`
	MaxConns int    `mapstructure:"MAX_CONNS"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server   ServerConfig   `mapstructure:"SERVER"`
	Upstream UpstreamConfig `mapstructure:"UPSTREAM"`
	Reviews  ReviewsConfig  `mapstructure:"REVIEWS"`
	Database DatabaseConfig `mapstructure:"DATABASE"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// applies defaults, unmarshals and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "3000")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.STATIC_DIR", ".")
	v.SetDefault("UPSTREAM.API_BASE", "https://techhelpseniors-api-endpoint.onrender.com")
	v.SetDefault("UPSTREAM.API_KEY_FILE", "apikey.txt")
	v.SetDefault("UPSTREAM.API_KEY_HEADER", "X-API-Key")
	v.SetDefault("UPSTREAM.TIMEOUT_SECONDS", 30)
	v.SetDefault("REVIEWS.BACKEND", ReviewsBackendFile)
	v.SetDefault("REVIEWS.FILE", "data/reviews.json")
	v.SetDefault("DATABASE.URL", "")
	v.SetDefault("DATABASE.MAX_CONNS", 4)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.STATIC_DIR", "STATIC_DIR"},
		// Upstream API
		{"UPSTREAM.API_BASE", "API_BASE"},
		{"UPSTREAM.API_KEY_FILE", "API_KEY_FILE"},
		{"UPSTREAM.API_KEY_HEADER", "API_KEY_HEADER"},
		{"UPSTREAM.TIMEOUT_SECONDS", "UPSTREAM_TIMEOUT_SECONDS"},
		// Reviews
		{"REVIEWS.BACKEND", "REVIEWS_BACKEND"},
		{"REVIEWS.FILE", "REVIEWS_FILE"},
		// Database
		{"DATABASE.URL", "DATABASE_URL"},
		{"DATABASE.MAX_CONNS", "DATABASE_MAX_CONNS"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"static_dir", cfg.Server.StaticDir,
		"upstream", cfg.Upstream.APIBase,
		"api_key_file", cfg.Upstream.APIKeyFile,
		"reviews_backend", cfg.Reviews.Backend,
		"database_url", logger.MaskConnectionString(cfg.Database.URL),
	)

	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if cfg.Server.StaticDir == "" {
		return fmt.Errorf("static directory is required")
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			// "*.example.org" matches subdomains in the CORS middleware.
			if strings.HasPrefix(origin, "*.") {
				continue
			}
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	if cfg.Upstream.APIBase == "" {
		return fmt.Errorf("upstream API base URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.Upstream.APIBase); err != nil {
		return fmt.Errorf("invalid upstream API base URL: %w", err)
	}
	if cfg.Upstream.APIKeyFile == "" {
		return fmt.Errorf("API key file path is required")
	}
	if cfg.Upstream.APIKeyHeader == "" {
		return fmt.Errorf("API key header name is required")
	}
	if cfg.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}

	switch cfg.Reviews.Backend {
	case ReviewsBackendFile:
		if cfg.Reviews.File == "" {
			return fmt.Errorf("reviews file path is required for the file backend")
		}
	case ReviewsBackendPostgres:
		if cfg.Database.URL == "" {
			return fmt.Errorf("database URL is required for the postgres backend")
		}
		if cfg.Database.MaxConns <= 0 {
			return fmt.Errorf("database max connections must be positive")
		}
	default:
		return fmt.Errorf("unknown reviews backend %q", cfg.Reviews.Backend)
	}

	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
