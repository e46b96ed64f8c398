package config

import (
	"errors"
	"fmt"
)

// Validate reports the first missing or unusable setting. The database URL
// and both JWT secrets have no defaults; everything else does.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if len(c.JWTSecret) == 0 {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTRefreshSecret) == 0 {
		return errors.New("JWT_REFRESH_SECRET is required")
	}
	if c.AccessTTLMin <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL_MIN must be positive, got %d", c.AccessTTLMin)
	}
	if c.RefreshTTLHours <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_TTL_H must be positive, got %d", c.RefreshTTLHours)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT %d is out of range", c.ServerPort)
	}
	return nil
}
