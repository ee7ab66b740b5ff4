package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// envOverrides lists the IMGOPT_* variables that take precedence over the
// config file. Zero values leave the file setting untouched.
type envOverrides struct {
	PicturesDir string `envconfig:"PICTURES_DIR"`
	LogDir      string `envconfig:"LOG_DIR"`
	Workers     int    `envconfig:"WORKERS"`
	TimeZone    string `envconfig:"TIME_ZONE"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	LogFormat   string `envconfig:"LOG_FORMAT"`
}

const envPrefix = "imgopt"

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if v := strings.TrimSpace(env.PicturesDir); v != "" {
		c.Paths.PicturesDir = v
	}
	if v := strings.TrimSpace(env.LogDir); v != "" {
		c.Paths.LogDir = v
	}
	if env.Workers != 0 {
		c.Batch.Workers = env.Workers
	}
	if v := strings.TrimSpace(env.TimeZone); v != "" {
		c.Rename.TimeZone = v
	}
	if v := strings.TrimSpace(env.LogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(env.LogFormat); v != "" {
		c.Logging.Format = v
	}
	return nil
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOperations()
	c.normalizeBatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PicturesDir) == "" {
		c.Paths.PicturesDir = defaultPicturesDir()
	}
	if c.Paths.PicturesDir, err = expandPath(strings.TrimSpace(c.Paths.PicturesDir)); err != nil {
		return fmt.Errorf("paths.pictures_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOperations() {
	c.Compress.OutputSubdir = strings.TrimSpace(c.Compress.OutputSubdir)
	if c.Compress.OutputSubdir == "" {
		c.Compress.OutputSubdir = defaultCompressSubdir
	}
	if c.Compress.Scale == 0 {
		c.Compress.Scale = defaultCompressScale
	}
	c.Convert.OutputSubdir = strings.TrimSpace(c.Convert.OutputSubdir)
	if c.Convert.OutputSubdir == "" {
		c.Convert.OutputSubdir = defaultConvertSubdir
	}
	c.Rename.OutputSubdir = strings.TrimSpace(c.Rename.OutputSubdir)
	if c.Rename.OutputSubdir == "" {
		c.Rename.OutputSubdir = defaultRenameSubdir
	}
	c.Rename.TimeZone = strings.TrimSpace(c.Rename.TimeZone)
	if c.Rename.TimeZone == "" {
		c.Rename.TimeZone = defaultRenameTimeZone
	}
}

func (c *Config) normalizeBatch() {
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = runtime.NumCPU()
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
