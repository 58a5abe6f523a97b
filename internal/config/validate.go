package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path must be set for the sqlite driver")
		}
	default:
		return fmt.Errorf("storage.driver %q: want %q or %q", c.Storage.Driver, DriverMemory, DriverSQLite)
	}

	if s := c.Playback.TimeScale; !ValidTimeScale(s) {
		return fmt.Errorf("playback.time_scale must be a positive number, got %v", s)
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case logger.FormatTint, logger.FormatJSON, logger.FormatText:
	default:
		return fmt.Errorf("logging.format %q: want tint, json or text", c.Logging.Format)
	}
	return nil
}

// Level returns the parsed logging level. Validate has already rejected
// unknown names.
func (c *Config) Level() logger.Level {
	lvl, _ := logger.ParseLevel(c.Logging.Level)
	return lvl
}

// ValidTimeScale reports whether s can scale a countdown: positive and
// finite.
func ValidTimeScale(s float64) bool {
	return s > 0 && !math.IsNaN(s) && !math.IsInf(s, 0)
}
