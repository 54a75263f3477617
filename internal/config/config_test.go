//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
			input:    "~/logs/tunecrate.log",
			expected: filepath.Join(home, "logs", "tunecrate.log"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/log/tunecrate.log",
			expected: "/var/log/tunecrate.log",
		},
		{
			name:     "relative path unchanged",
			input:    "logs/tunecrate.log",
			expected: "logs/tunecrate.log",
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

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}

	expectedFirst := filepath.Join(xdg.ConfigHome, "tunecrate", "config.toml")
	if paths[0] != expectedFirst {
		t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
	}

	// Last path should be local config.toml
	if paths[1] != "config.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "config.toml")
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvLogLevel, "")

	dir := t.TempDir()
	path := filepath.Join(dir, "tunecrate.toml")
	content := `
notifications = false

[api]
base_url = "http://music.local:9000/"
upload_path = "songs/upload"
timeout = "5s"

[upload]
max_size = "1000MiB"
allowed_types = ["audio/mpeg"]

[log]
level = "debug"

[player]
volume = 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	api := cfg.GetAPIConfig()
	assert.Equal(t, "http://music.local:9000", api.BaseURL)
	assert.Equal(t, "/songs", api.SongsPath)
	assert.Equal(t, "/songs/upload", api.UploadPath)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())

	size, err := cfg.MaxUploadSize()
	require.NoError(t, err)
	assert.Equal(t, int64(1000*1024*1024), size)
	assert.Equal(t, []string{"audio/mpeg"}, cfg.Upload.AllowedTypes)

	assert.Equal(t, "debug", cfg.GetLogConfig().Level)
	assert.InDelta(t, 0.4, cfg.InitialVolume(), 0.0001)
	assert.False(t, cfg.NotificationsEnabled())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"http://file\"\n"), 0o600))

	t.Setenv(EnvAPIURL, "http://env:1234/")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env:1234", cfg.GetAPIConfig().BaseURL)
	assert.Equal(t, "warn", cfg.GetLogConfig().Level)
}

func TestGetAPIConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	api := cfg.GetAPIConfig()

	assert.Equal(t, DefaultBaseURL, api.BaseURL)
	assert.Equal(t, DefaultSongsPath, api.SongsPath)
	assert.Equal(t, DefaultUploadPath, api.UploadPath)
	assert.Equal(t, DefaultTimeout, cfg.RequestTimeout())
}

func TestMaxUploadSize(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int64
		wantErr  bool
	}{
		{name: "default is 10 MiB", value: "", expected: 10485760},
		{name: "binary units", value: "1000MiB", expected: 1048576000},
		{name: "decimal units", value: "5MB", expected: 5000000},
		{name: "plain bytes", value: "2048", expected: 2048},
		{name: "garbage", value: "lots", wantErr: true},
		{name: "zero", value: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Upload: UploadConfig{MaxSize: tt.value}}
			got, err := cfg.MaxUploadSize()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGetLogConfig_Defaults(t *testing.T) {
	cfg := (&Config{}).GetLogConfig()

	assert.Equal(t, DefaultLogLevel, cfg.Level)
	assert.Equal(t, filepath.Join(xdg.StateHome, "tunecrate", "tunecrate.log"), cfg.File)
	assert.Equal(t, DefaultLogMaxSize, cfg.MaxSizeMB)
	assert.Equal(t, DefaultLogBackups, cfg.MaxBackups)
	assert.Equal(t, DefaultLogMaxAge, cfg.MaxAgeDays)
}

func TestInitialVolume(t *testing.T) {
	tests := []struct {
		name     string
		volume   *float64
		expected float64
	}{
		{name: "unset", volume: nil, expected: 1.0},
		{name: "in range", volume: ptr(0.25), expected: 0.25},
		{name: "above range", volume: ptr(3), expected: 1.0},
		{name: "below range", volume: ptr(-1), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Player: PlayerConfig{Volume: tt.volume}}
			assert.InDelta(t, tt.expected, cfg.InitialVolume(), 0.0001)
		})
	}
}

func TestNotificationsEnabled(t *testing.T) {
	on, off := true, false

	assert.True(t, (&Config{}).NotificationsEnabled())
	assert.True(t, (&Config{Notifications: &on}).NotificationsEnabled())
	assert.False(t, (&Config{Notifications: &off}).NotificationsEnabled())
}

func ptr(v float64) *float64 { return &v }
