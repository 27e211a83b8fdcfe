package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for configurations that cannot drive an export.
var ErrInvalid = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Textures.Quality < 1 || c.Textures.Quality > 100 {
		return fmt.Errorf("%w: textures.quality %d not in 1-100", ErrInvalid, c.Textures.Quality)
	}
	if c.Textures.MaxSize < 0 {
		return fmt.Errorf("%w: textures.max_size %d is negative", ErrInvalid, c.Textures.MaxSize)
	}
	if c.Textures.Dir == "" || filepath.IsAbs(c.Textures.Dir) {
		return fmt.Errorf("%w: textures.dir %q must be a relative path", ErrInvalid, c.Textures.Dir)
	}
	if c.Scene.MaxRecursionDepth < 0 {
		return fmt.Errorf("%w: scene.max_recursion_depth %d is negative", ErrInvalid, c.Scene.MaxRecursionDepth)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./scenexport.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "scenexport")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "scenexport")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "scenexport")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "scenexport")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
