package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory with the environment
// overrides unset.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{EnvOffsetMs, EnvLogLevel} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func writeConfig(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0o600))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/library/albums",
			expected: filepath.Join(home, "music", "library", "albums"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
		{
			name:     "tilde with slash",
			input:    "~/",
			expected: filepath.Join(home, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(xdg.ConfigHome, "lyricsync", "config.toml"), paths[0])
	assert.Equal(t, "config.toml", paths[1])
}

func TestLoad_EmptyConfig(t *testing.T) {
	inTempDir(t)
	writeConfig(t, "config.toml", "")

	// Values may be inherited from the user config if it exists; only
	// check that loading succeeds.
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
}

func TestLoad_BasicConfig(t *testing.T) {
	inTempDir(t)
	writeConfig(t, "config.toml", `
log_level = "debug"

[sync]
offset_ms = 250

[animation]
enabled = false

[layout]
width = 60
align = "right"
rtl = true

[cache]
path = "~/lyrics.db"
enabled = false

[lrclib]
enabled = false
timeout_seconds = 3
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, 250*time.Millisecond, cfg.Offset())
	assert.False(t, cfg.AnimationsEnabled())

	layout := cfg.GetLayoutConfig()
	assert.Equal(t, 60, layout.Width)
	assert.Equal(t, "right", layout.Align)
	require.NotNil(t, layout.RTL)
	assert.True(t, *layout.RTL)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "lyrics.db"), cfg.Cache.Path)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.LrclibEnabled())
	assert.Equal(t, 3*time.Second, cfg.LrclibTimeout())
}

func TestLoad_ExplicitPathWins(t *testing.T) {
	dir := inTempDir(t)
	writeConfig(t, "config.toml", "[sync]\noffset_ms = 100\n")
	explicit := filepath.Join(dir, "other.toml")
	writeConfig(t, explicit, "[sync]\noffset_ms = -300\n")

	cfg, err := Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, int64(-300), cfg.Sync.OffsetMs)
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	inTempDir(t)

	_, err := Load("does-not-exist.toml")
	assert.Error(t, err)
}

func TestLoad_InvalidToml(t *testing.T) {
	inTempDir(t)
	writeConfig(t, "config.toml", "invalid = [[[")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	inTempDir(t)
	writeConfig(t, "config.toml", "log_level = \"info\"\n[sync]\noffset_ms = 100\n")
	t.Setenv(EnvOffsetMs, "-50")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(-50), cfg.Sync.OffsetMs)
	assert.Equal(t, log.ErrorLevel, cfg.Level())
}

func TestLoad_DotEnv(t *testing.T) {
	inTempDir(t)
	writeConfig(t, ".env", EnvOffsetMs+"=75\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(75), cfg.Sync.OffsetMs)
}

func TestLoad_InvalidEnvOffset(t *testing.T) {
	inTempDir(t)
	t.Setenv(EnvOffsetMs, "soon")

	_, err := Load("")
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	var cfg Config

	assert.Equal(t, log.WarnLevel, cfg.Level())
	assert.Equal(t, time.Duration(0), cfg.Offset())
	assert.True(t, cfg.AnimationsEnabled())
	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.LrclibEnabled())
	assert.Equal(t, 10*time.Second, cfg.LrclibTimeout())

	layout := cfg.GetLayoutConfig()
	assert.Equal(t, "center", layout.Align)
	assert.Equal(t, 0, layout.Width)
	assert.Nil(t, layout.RTL)
}

func TestGetLayoutConfig_InvalidValues(t *testing.T) {
	cfg := Config{
		LogLevel: "loud",
		Layout:   LayoutConfig{Width: -5, Align: "justify"},
	}

	assert.Equal(t, log.WarnLevel, cfg.Level())
	layout := cfg.GetLayoutConfig()
	assert.Equal(t, 0, layout.Width)
	assert.Equal(t, "center", layout.Align)
}
