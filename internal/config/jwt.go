package config

import (
	"fmt"
	"os"
	"strconv"
)

// JWTConfig holds configuration for API token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, &ConfigurationError{Key: "JWT_SECRET", Message: "required but not set"}
	}

	expirationStr := os.Getenv("JWT_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "24"
	}

	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, &ConfigurationError{Key: "JWT_EXPIRATION_HOURS", Message: "not an integer", Cause: err}
	}

	cfg := &JWTConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// OptionalJWTConfig returns nil without error when JWT_SECRET is unset, so the API can
// run unauthenticated on a trusted network.
func OptionalJWTConfig() (*JWTConfig, error) {
	if os.Getenv("JWT_SECRET") == "" {
		return nil, nil
	}
	return NewJWTConfig()
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return &ConfigurationError{Key: "JWT_SECRET", Message: "cannot be empty"}
	}
	if c.ExpirationHours < 1 {
		return &ConfigurationError{
			Key:     "JWT_EXPIRATION_HOURS",
			Message: fmt.Sprintf("must be at least 1 hour, got: %d", c.ExpirationHours),
		}
	}
	return nil
}
