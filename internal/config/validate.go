package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Database.ConnectTimeout <= 0 {
		return fmt.Errorf("database.connect_timeout must be > 0 (got %s)", c.Database.ConnectTimeout)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	if err := c.Settings.validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	return nil
}

func (s *SettingsConfig) validate() error {
	if s.Capacity < 0 {
		return fmt.Errorf("capacity must be >= 0 (got %d)", s.Capacity)
	}

	fee, err := ParseDailyFee(s.DailyFeeRaw)
	if err != nil {
		return fmt.Errorf("daily_fee: %w", err)
	}
	s.DailyFee = fee

	return nil
}

// ParseDailyFee parses a non-negative decimal amount. An empty string is zero.
func ParseDailyFee(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}

	fee, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("must be >= 0 (got %s)", fee)
	}

	return fee, nil
}
