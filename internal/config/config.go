// Package config provides configuration loading and validation for the job tracker.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// EnvPrefix is prepended to every environment variable, e.g. JOBTRACKER_PORT.
const EnvPrefix = "JOBTRACKER"

// Config is the resolved runtime configuration. Values are layered as
// defaults, then the optional config file, then the environment, then flags.
type Config struct {
	Port        int    `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`
	Store       string `mapstructure:"store"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`

	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	GeminiModel  string        `mapstructure:"gemini_model"`
	AITimeout    time.Duration `mapstructure:"ai_timeout"`

	DefaultUser        string `mapstructure:"default_user"`
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Whitelist and blacklist are comma-separated client IPs.
	RateLimitEnabled   bool   `mapstructure:"rate_limit_enabled"`
	RateLimitWhitelist string `mapstructure:"rate_limit_whitelist"`
	RateLimitBlacklist string `mapstructure:"rate_limit_blacklist"`
}

// legacyEnv maps config keys to the unprefixed variable names older
// deployments used.
var legacyEnv = map[string]string{
	"database_url":   "DATABASE_URL",
	"gemini_api_key": "GEMINI_API_KEY",
	"jwt_secret":     "JWT_SECRET",
}

// NewViper returns a viper instance with defaults and environment bindings
// applied. Callers may bind flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("store", StorePostgres)
	v.SetDefault("auto_migrate", true)
	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("ai_timeout", 30*time.Second)
	v.SetDefault("default_user", "demo-user")
	v.SetDefault("jwt_expiration_hours", 24)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_whitelist", "")
	v.SetDefault("rate_limit_blacklist", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		// BindEnv only fails when no key is given.
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), legacy)
	}

	return v
}

// Load reads the optional config file at path into v and decodes the result.
// An empty path skips the file.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	return &cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}

	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required when store is %q", StorePostgres)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config error: unknown store %q (want %q or %q)", c.Store, StorePostgres, StoreMemory)
	}

	if c.AITimeout <= 0 {
		return fmt.Errorf("config error: 'ai_timeout' must be positive")
	}
	if c.DefaultUser == "" {
		return fmt.Errorf("config error: 'default_user' cannot be empty")
	}
	if c.JWTSecret != "" && c.JWTExpirationHours < 1 {
		return fmt.Errorf("config error: 'jwt_expiration_hours' must be at least 1, got %d", c.JWTExpirationHours)
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AuthEnabled reports whether bearer tokens are required on the API.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
