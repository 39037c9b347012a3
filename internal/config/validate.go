package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"json", "text"}
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if c.RateLimit.MutationsPerMinute <= 0 {
		return fmt.Errorf("ratelimit.mutations_per_minute must be > 0 (got %d)", c.RateLimit.MutationsPerMinute)
	}

	if c.Ritual.HistoryMaxLimit <= 0 {
		return fmt.Errorf("ritual.history_max_limit must be > 0 (got %d)", c.Ritual.HistoryMaxLimit)
	}

	return nil
}

// Validate checks the client subset. The token is optional here because
// the token command can mint one.
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.Client.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("client.base_url must be an absolute URL (got %q)", c.Client.BaseURL)
	}

	if c.Watchdog.Interval <= 0 {
		return fmt.Errorf("watchdog.interval must be > 0 (got %v)", c.Watchdog.Interval)
	}
	if c.Watchdog.SettleDelay < 0 {
		return fmt.Errorf("watchdog.settle_delay must be >= 0 (got %v)", c.Watchdog.SettleDelay)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

func (l LogConfig) validate() error {
	if !slices.Contains(validLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("level must be one of %v (got %q)", validLevels, l.Level)
	}
	if !slices.Contains(validFormats, strings.ToLower(l.Format)) {
		return fmt.Errorf("format must be one of %v (got %q)", validFormats, l.Format)
	}
	return nil
}
