package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, "demo-user", cfg.DefaultUser)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.AuthEnabled())
	assert.True(t, cfg.RateLimitEnabled)
	assert.Empty(t, cfg.RateLimitWhitelist)
}

func TestLoad_RateLimitEnvironment(t *testing.T) {
	t.Setenv("JOBTRACKER_RATE_LIMIT_ENABLED", "false")
	t.Setenv("JOBTRACKER_RATE_LIMIT_BLACKLIST", "10.0.0.1,10.0.0.2")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.False(t, cfg.RateLimitEnabled)
	assert.Equal(t, "10.0.0.1,10.0.0.2", cfg.RateLimitBlacklist)
}

func TestLoad_ConfigFile(t *testing.T) {
	content := `
port: 9090
store: Memory
ai_timeout: 5s
default_user: alice
log_format: json
`
	path := filepath.Join(t.TempDir(), "jobtracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, "alice", cfg.DefaultUser)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(NewViper(), "/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_PrefixedEnvironment(t *testing.T) {
	t.Setenv("JOBTRACKER_PORT", "7070")
	t.Setenv("JOBTRACKER_STORE", "memory")
	t.Setenv("JOBTRACKER_GEMINI_MODEL", "gemini-1.5-pro")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://legacy@localhost/jobs")
	t.Setenv("GEMINI_API_KEY", "legacy-key")
	t.Setenv("JWT_SECRET", "legacy-secret")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "postgres://legacy@localhost/jobs", cfg.DatabaseURL)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
	assert.Equal(t, "legacy-secret", cfg.JWTSecret)
	assert.True(t, cfg.AuthEnabled())
}

func TestLoad_PrefixedBeatsLegacy(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://legacy@localhost/jobs")
	t.Setenv("JOBTRACKER_DATABASE_URL", "postgres://new@localhost/jobs")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "postgres://new@localhost/jobs", cfg.DatabaseURL)
}

func validConfig() Config {
	return Config{
		Port:               8080,
		Store:              StorePostgres,
		DatabaseURL:        "postgres://localhost/jobs",
		AITimeout:          time.Second,
		DefaultUser:        "demo-user",
		JWTExpirationHours: 24,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"memory without url", func(c *Config) { c.Store = StoreMemory; c.DatabaseURL = "" }, ""},
		{"postgres without url", func(c *Config) { c.DatabaseURL = "" }, "database_url"},
		{"unknown store", func(c *Config) { c.Store = "mongo" }, "unknown store"},
		{"port zero", func(c *Config) { c.Port = 0 }, "port"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "port"},
		{"zero timeout", func(c *Config) { c.AITimeout = 0 }, "ai_timeout"},
		{"empty default user", func(c *Config) { c.DefaultUser = "" }, "default_user"},
		{"bad expiration with secret", func(c *Config) { c.JWTSecret = "s"; c.JWTExpirationHours = 0 }, "jwt_expiration_hours"},
		{"bad expiration without secret", func(c *Config) { c.JWTExpirationHours = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
