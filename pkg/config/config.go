// Package config handles loading and saving dv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/dv/config.yaml
//   - Cache:  ~/.cache/dv/ (offline dataset snapshots)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DataBaseEnvVar overrides the configured data base when set. It accepts
// either a URL ("https://example.org/ai-daily") or a local directory.
const DataBaseEnvVar = "DV_DATA_BASE"

// UIConfig holds UI preference settings.
type UIConfig struct {
	PageSize     int    `yaml:"page_size,omitempty"`     // Records per page (default 30)
	DefaultTab   string `yaml:"default_tab,omitempty"`   // papers or news
	GlamourStyle string `yaml:"glamour_style,omitempty"` // Markdown style name
}

// StalenessConfig overrides the cache staleness windows.
type StalenessConfig struct {
	Catalog  time.Duration `yaml:"catalog,omitempty"`
	Datasets time.Duration `yaml:"datasets,omitempty"`
	Jobs     time.Duration `yaml:"jobs,omitempty"`
}

// OfflineConfig controls the persistent snapshot cache.
type OfflineConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"` // Defaults to <cache dir>/snapshots.db
}

// Config is the top-level configuration for dv.
type Config struct {
	// Base is where the data tree lives: either the URL of the static host
	// serving it or a local directory the pipeline writes to.
	Base      string          `yaml:"base,omitempty"`
	Retries   int             `yaml:"retries,omitempty"` // Extra attempts on transport failure (0 or 1)
	UI        UIConfig        `yaml:"ui,omitempty"`
	Staleness StalenessConfig `yaml:"staleness,omitempty"`
	Offline   OfflineConfig   `yaml:"offline,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Retries: 1,
		UI: UIConfig{
			PageSize:   30,
			DefaultTab: "papers",
		},
		Staleness: StalenessConfig{
			Catalog:  time.Hour,
			Datasets: 10 * time.Minute,
			Jobs:     30 * time.Second,
		},
	}
}

// ConfigDir returns the XDG config directory for dv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dv")
}

// CacheDir returns the XDG cache directory for dv.
func CacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dv")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory and applies the
// environment override. Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return applyEnv(DefaultConfig()), nil
	}
	cfg, err := LoadFrom(path)
	return applyEnv(cfg), err
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Base = expandHome(cfg.Base)
	cfg.Offline.Path = expandHome(cfg.Offline.Path)
	if cfg.UI.PageSize <= 0 {
		cfg.UI.PageSize = DefaultConfig().UI.PageSize
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// OfflinePath returns the snapshot database path, defaulting into the cache
// directory, or "" when the offline cache is disabled or unresolvable.
func (c Config) OfflinePath() string {
	if !c.Offline.Enabled {
		return ""
	}
	if c.Offline.Path != "" {
		return c.Offline.Path
	}
	dir := CacheDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "snapshots.db")
}

func applyEnv(cfg Config) Config {
	if base := strings.TrimSpace(os.Getenv(DataBaseEnvVar)); base != "" {
		cfg.Base = expandHome(base)
	}
	return cfg
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
