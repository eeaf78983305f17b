package config

import (
	"fmt"
)

// DefaultSessionCookieName is the cookie checked when no Authorization header is sent
const DefaultSessionCookieName = "sb-access-token"

// JWTConfig holds configuration for JWT token validation and issuance.
type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
	CookieName      string `mapstructure:"cookie_name"`
}

// normalize validates the configuration and fills the cookie name.
func (c *JWTConfig) normalize() error {
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	if c.CookieName == "" {
		c.CookieName = DefaultSessionCookieName
	}
	return nil
}
