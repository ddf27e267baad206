// Package config loads rseek settings from a TOML file with environment overrides.
//
// Lookup order for the file: RSEEK_CONFIG, $XDG_CONFIG_HOME/rseek/config.toml,
// ~/.config/rseek/config.toml. A missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	appName = "rseek"

	envConfig         = "RSEEK_CONFIG"
	envCache          = "RSEEK_CACHE"
	envRoots          = "RSEEK_ROOTS"
	envLogLevel       = "RSEEK_LOG_LEVEL"
	envLogFile        = "RSEEK_LOG_FILE"
	envFollowSymlinks = "RSEEK_FOLLOW_SYMLINKS"
)

// DefaultFolders are the home-relative directories scanned out of the box.
var DefaultFolders = []string{"Downloads", "Desktop", "Documents", "Pictures", "Music"}

// Config is the on-disk configuration.
type Config struct {
	// Folders are scanned relative to the home directory unless absolute.
	Folders []string `toml:"folders"`
	// Roots are extra absolute directories to scan.
	Roots []string `toml:"roots"`

	CachePath      string `toml:"cache_path"`
	FollowSymlinks bool   `toml:"follow_symlinks"`
	HideHidden     bool   `toml:"hide_hidden"`
	DefaultSort    string `toml:"default_sort"`
	ContentSearch  bool   `toml:"content_search"`

	Log LogConfig `toml:"log"`
}

// LogConfig controls the file logger. An empty File disables logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	folders := make([]string, len(DefaultFolders))
	copy(folders, DefaultFolders)
	return &Config{
		Folders:     folders,
		DefaultSort: "name",
		Log:         LogConfig{Level: "info"},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv(envConfig); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// DefaultCachePath returns where the index database lives unless configured.
func DefaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "index.db"), nil
}

// Load reads path (when it exists), applies environment overrides and defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating the directory as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	_, _ = fmt.Fprintln(tmp, "# rseek configuration")
	_, _ = fmt.Fprintln(tmp, "")
	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ApplyEnvOverrides applies RSEEK_* variables on top of the file settings.
func (c *Config) ApplyEnvOverrides() {
	if cache := os.Getenv(envCache); cache != "" {
		c.CachePath = cache
	}
	if roots := os.Getenv(envRoots); roots != "" {
		c.Roots = nil
		for _, r := range filepath.SplitList(roots) {
			if r = strings.TrimSpace(r); r != "" {
				c.Roots = append(c.Roots, r)
			}
		}
	}
	if level := os.Getenv(envLogLevel); level != "" {
		c.Log.Level = level
	}
	if file := os.Getenv(envLogFile); file != "" {
		c.Log.File = file
	}
	if follow := os.Getenv(envFollowSymlinks); follow != "" {
		c.FollowSymlinks = follow == "1" || strings.EqualFold(follow, "true")
	}
}

// SetDefaults fills values the file left empty.
func (c *Config) SetDefaults() error {
	if c.CachePath == "" {
		p, err := DefaultCachePath()
		if err != nil {
			return fmt.Errorf("failed to resolve cache directory: %w", err)
		}
		c.CachePath = p
	}
	if c.DefaultSort == "" {
		c.DefaultSort = "name"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.DefaultSort) {
	case "name", "size", "date":
	default:
		return fmt.Errorf("default_sort must be name, size or date, got %q", c.DefaultSort)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	for _, r := range c.Roots {
		if !filepath.IsAbs(r) {
			return fmt.Errorf("roots must be absolute paths, got %q", r)
		}
	}
	return nil
}

// RootPaths resolves folders against home and appends the extra roots, dropping
// duplicates while keeping first-seen order.
func (c *Config) RootPaths(home string) []string {
	seen := make(map[string]struct{}, len(c.Folders)+len(c.Roots))
	out := make([]string, 0, len(c.Folders)+len(c.Roots))
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, f := range c.Folders {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if filepath.IsAbs(f) {
			add(f)
			continue
		}
		add(filepath.Join(home, f))
	}
	for _, r := range c.Roots {
		add(r)
	}
	return out
}
