package config

import (
	"errors"
	"fmt"
	"time"
)

// JWTConfig holds the signing secret and token lifetime for bearer tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the token settings. It fails when no secret is configured, so
// callers use AuthEnabled to decide whether tokens are in play at all.
func (c *Config) JWT() (*JWTConfig, error) {
	jwtCfg := &JWTConfig{
		Secret:          c.JWTSecret,
		ExpirationHours: c.JWTExpirationHours,
	}
	switch {
	case jwtCfg.Secret == "":
		return nil, errors.New("JWT_SECRET cannot be empty")
	case jwtCfg.ExpirationHours < 1:
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", jwtCfg.ExpirationHours)
	}
	return jwtCfg, nil
}

// Lifetime is how long a freshly minted token stays valid.
func (c *JWTConfig) Lifetime() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
