package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.PasswordHashCost < 4 || c.Auth.PasswordHashCost > 31 {
		return fmt.Errorf("auth.password_hash_cost must be within 4..31 (got %d)", c.Auth.PasswordHashCost)
	}

	if (c.Store.ServiceEmail == "") != (c.Store.ServicePassword == "") {
		return fmt.Errorf("store: service_email and service_password must be set together")
	}

	if err := c.Realtime.validate(); err != nil {
		return fmt.Errorf("realtime: %w", err)
	}

	if c.Notifications.TTL <= 0 {
		return fmt.Errorf("notifications.ttl must be > 0 (got %v)", c.Notifications.TTL)
	}
	if c.Notifications.MaxRetained <= 0 {
		return fmt.Errorf("notifications.max_retained must be > 0 (got %d)", c.Notifications.MaxRetained)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("rate_limit.requests_per_min must be > 0 (got %d)", c.RateLimit.RequestsPerMin)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (r *RealtimeConfig) validate() error {
	if r.MinBackoff <= 0 {
		return fmt.Errorf("min_backoff must be > 0 (got %v)", r.MinBackoff)
	}
	if r.MaxBackoff < r.MinBackoff {
		return fmt.Errorf("max_backoff must be >= min_backoff (got %v < %v)", r.MaxBackoff, r.MinBackoff)
	}
	if r.SignalBuffer < 1 {
		return fmt.Errorf("signal_buffer must be >= 1 (got %d)", r.SignalBuffer)
	}
	return nil
}
