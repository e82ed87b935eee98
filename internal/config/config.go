package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const appName = "lyricsync"

// Environment overrides, also read from a .env file in the working directory.
const (
	EnvOffsetMs = "LYRICSYNC_OFFSET_MS"
	EnvLogLevel = "LYRICSYNC_LOG_LEVEL"
)

type Config struct {
	LogLevel string `koanf:"log_level"` // logrus level name (default: "warn")

	Sync      SyncConfig      `koanf:"sync"`
	Animation AnimationConfig `koanf:"animation"`
	Layout    LayoutConfig    `koanf:"layout"`
	Cache     CacheConfig     `koanf:"cache"`
	Lrclib    LrclibConfig    `koanf:"lrclib"`
}

// SyncConfig holds playback synchronization settings.
type SyncConfig struct {
	OffsetMs int64 `koanf:"offset_ms"` // added to the playback position; positive shows lyrics earlier
}

// AnimationConfig controls per-character animation.
type AnimationConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// LayoutConfig controls line wrapping and placement.
type LayoutConfig struct {
	Width int    `koanf:"width"` // cells; 0 uses the terminal width
	Align string `koanf:"align"` // "left", "center", "right" (default: "center")
	RTL   *bool  `koanf:"rtl"`   // force direction; unset detects it per line
}

// CacheConfig holds the lyrics document cache settings.
type CacheConfig struct {
	Path    string `koanf:"path"`    // default: XDG cache dir
	Enabled *bool  `koanf:"enabled"` // default: true
}

// LrclibConfig holds lrclib.net lookup settings.
type LrclibConfig struct {
	Enabled        *bool `koanf:"enabled"`         // default: true
	TimeoutSeconds int   `koanf:"timeout_seconds"` // default: 10
}

// Load reads the config files, then the environment. An explicit path,
// when given, is loaded last and must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}
	if explicit != "" {
		if err := k.Load(file.Provider(expandPath(explicit)), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", explicit, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Cache.Path != "" {
		cfg.Cache.Path = expandPath(cfg.Cache.Path)
	}
	return cfg, nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvOffsetMs); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvOffsetMs, err)
		}
		c.Sync.OffsetMs = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/lyricsync/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Level returns the configured log level, defaulting to warn.
func (c *Config) Level() log.Level {
	if c.LogLevel == "" {
		return log.WarnLevel
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return level
}

// Offset returns the sync offset as a duration.
func (c *Config) Offset() time.Duration {
	return time.Duration(c.Sync.OffsetMs) * time.Millisecond
}

// AnimationsEnabled reports whether per-character animation is on.
func (c *Config) AnimationsEnabled() bool {
	return boolOr(c.Animation.Enabled, true)
}

// GetLayoutConfig returns the layout configuration with defaults applied.
func (c *Config) GetLayoutConfig() LayoutConfig {
	cfg := c.Layout
	switch cfg.Align {
	case "left", "center", "right":
	default:
		cfg.Align = "center"
	}
	cfg.Width = max(cfg.Width, 0)
	return cfg
}

// CacheEnabled reports whether fetched lyrics are cached.
func (c *Config) CacheEnabled() bool {
	return boolOr(c.Cache.Enabled, true)
}

// LrclibEnabled reports whether remote lookups are allowed.
func (c *Config) LrclibEnabled() bool {
	return boolOr(c.Lrclib.Enabled, true)
}

// LrclibTimeout returns the per-request timeout for lrclib.
func (c *Config) LrclibTimeout() time.Duration {
	if c.Lrclib.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Lrclib.TimeoutSeconds) * time.Second
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
