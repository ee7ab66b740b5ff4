package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	PicturesDir string `toml:"pictures_dir"`
	LogDir      string `toml:"log_dir"`
}

// Compress contains defaults for JPEG compression batches.
type Compress struct {
	Quality      float64 `toml:"quality"`
	Scale        float64 `toml:"scale"`
	OutputSubdir string  `toml:"output_subdir"`
}

// Convert contains defaults for WebP conversion batches.
type Convert struct {
	Quality      float64 `toml:"quality"`
	OutputSubdir string  `toml:"output_subdir"`
}

// Rename contains defaults for timestamp-based renaming.
type Rename struct {
	// TimeZone is the IANA zone capture timestamps are interpreted in.
	TimeZone     string `toml:"time_zone"`
	OutputSubdir string `toml:"output_subdir"`
}

// Batch contains worker pool settings shared by every operation.
type Batch struct {
	// Workers caps concurrent file transforms. Zero means one per CPU.
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for imgopt.
//
// Configuration sections by subsystem:
//   - Paths: pictures folder (default output root) and optional log directory
//   - Compress: JPEG quality, scale ratio, and output subdirectory
//   - Convert: WebP quality and output subdirectory
//   - Rename: capture time zone and output subdirectory
//   - Batch: worker pool size
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Compress Compress `toml:"compress"`
	Convert  Convert  `toml:"convert"`
	Rename   Rename   `toml:"rename"`
	Batch    Batch    `toml:"batch"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("imgopt.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory when file logging is enabled.
// Output folders are created per batch, not here.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// CompressOutputDir returns the default destination for compressed JPEGs.
func (c *Config) CompressOutputDir() string {
	return filepath.Join(c.Paths.PicturesDir, c.Compress.OutputSubdir)
}

// ConvertOutputDir returns the default destination for WebP conversions.
func (c *Config) ConvertOutputDir() string {
	return filepath.Join(c.Paths.PicturesDir, c.Convert.OutputSubdir)
}

// RenameOutputDir returns the default destination for renamed copies.
func (c *Config) RenameOutputDir() string {
	return filepath.Join(c.Paths.PicturesDir, c.Rename.OutputSubdir)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// defaultPicturesDir mirrors the XDG user-dirs lookup: XDG_PICTURES_DIR when
// set, otherwise ~/Pictures.
func defaultPicturesDir() string {
	if dir, ok := os.LookupEnv("XDG_PICTURES_DIR"); ok && strings.TrimSpace(dir) != "" {
		return strings.TrimSpace(dir)
	}
	return "~/Pictures"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
