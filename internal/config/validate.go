package config

import (
	"errors"
	"fmt"
	"math"
	"time"
	// Capture-time zones must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCompress(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateRename(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCompress() error {
	if !qualityInRange(c.Compress.Quality) {
		return fmt.Errorf("compress.quality must be between %d and %d", minQuality, maxQuality)
	}
	if math.IsNaN(c.Compress.Scale) || c.Compress.Scale <= 0 || c.Compress.Scale > 1 {
		return errors.New("compress.scale must be greater than 0 and at most 1")
	}
	return nil
}

func (c *Config) validateConvert() error {
	if !qualityInRange(c.Convert.Quality) {
		return fmt.Errorf("convert.quality must be between %d and %d", minQuality, maxQuality)
	}
	return nil
}

func qualityInRange(q float64) bool {
	return !math.IsNaN(q) && q >= minQuality && q <= maxQuality
}

func (c *Config) validateRename() error {
	if _, err := time.LoadLocation(c.Rename.TimeZone); err != nil {
		return fmt.Errorf("rename.time_zone %q: %w", c.Rename.TimeZone, err)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers > maxWorkers {
		return fmt.Errorf("batch.workers must be at most %d", maxWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
