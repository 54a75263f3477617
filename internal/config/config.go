package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables that override file settings.
const (
	EnvAPIURL   = "TUNECRATE_API_URL"
	EnvLogLevel = "TUNECRATE_LOG_LEVEL"
)

// Defaults applied by the getters when a value is missing or out of range.
const (
	DefaultBaseURL     = "http://localhost:8080"
	DefaultSongsPath   = "/songs"
	DefaultUploadPath  = "/songs"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxSize     = 10 * 1024 * 1024
	DefaultLogLevel    = "info"
	DefaultLogMaxSize  = 10
	DefaultLogBackups  = 3
	DefaultLogMaxAge   = 28
	DefaultVolumeLevel = 1.0
)

type Config struct {
	API    APIConfig    `koanf:"api"`
	Upload UploadConfig `koanf:"upload"`
	Log    LogConfig    `koanf:"log"`
	Player PlayerConfig `koanf:"player"`

	// Desktop notifications on track change and upload (default: true)
	Notifications *bool `koanf:"notifications"`

	// StateFile overrides the state database location.
	StateFile string `koanf:"state_file"`
}

// APIConfig holds the remote song API settings.
type APIConfig struct {
	BaseURL    string `koanf:"base_url"`    // e.g., "http://localhost:8080"
	SongsPath  string `koanf:"songs_path"`  // list and delete path (default: "/songs")
	UploadPath string `koanf:"upload_path"` // upload path (default: "/songs")
	Timeout    string `koanf:"timeout"`     // Go duration, e.g. "30s"
}

// UploadConfig holds client-side upload validation settings.
type UploadConfig struct {
	MaxSize      string   `koanf:"max_size"`      // e.g. "10MiB", "1000MiB"
	AllowedTypes []string `koanf:"allowed_types"` // replaces the default allow-list when set
}

// LogConfig holds log file settings.
type LogConfig struct {
	Level      string `koanf:"level"` // debug, info, warn, error
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// PlayerConfig holds audio output settings.
type PlayerConfig struct {
	Volume *float64 `koanf:"volume"` // 0.0-1.0, initial level when no state is saved
}

// Load reads config files in priority order. When explicit is non-empty only
// that file is read and it must exist.
func Load(explicit string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	k := koanf.New(".")

	var paths []string
	if explicit != "" {
		path := expandPath(explicit)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		paths = []string{path}
	} else {
		paths = getConfigPaths()
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	cfg.API.BaseURL = strings.TrimSuffix(cfg.API.BaseURL, "/")
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	cfg.StateFile = expandPath(cfg.StateFile)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/tunecrate/config.toml
	paths = append(paths, filepath.Join(xdg.ConfigHome, "tunecrate", "config.toml"))

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetAPIConfig returns the API configuration with defaults applied.
func (c *Config) GetAPIConfig() APIConfig {
	cfg := c.API

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.SongsPath == "" {
		cfg.SongsPath = DefaultSongsPath
	}
	if cfg.UploadPath == "" {
		cfg.UploadPath = DefaultUploadPath
	}
	cfg.SongsPath = ensureLeadingSlash(cfg.SongsPath)
	cfg.UploadPath = ensureLeadingSlash(cfg.UploadPath)

	return cfg
}

// RequestTimeout returns the per-request timeout, falling back to the
// default when unset or invalid.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// MaxUploadSize returns the upload size ceiling in bytes.
func (c *Config) MaxUploadSize() (int64, error) {
	if c.Upload.MaxSize == "" {
		return DefaultMaxSize, nil
	}
	n, err := humanize.ParseBytes(c.Upload.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("upload.max_size %q: %w", c.Upload.MaxSize, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("upload.max_size %q: must be positive", c.Upload.MaxSize)
	}
	return int64(n), nil //nolint:gosec // bounded by humanize parsing
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	if cfg.Level == "" {
		cfg.Level = DefaultLogLevel
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, "tunecrate", "tunecrate.log")
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = DefaultLogMaxSize
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = DefaultLogBackups
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = DefaultLogMaxAge
	}

	return cfg
}

// InitialVolume returns the configured volume clamped to [0, 1].
func (c *Config) InitialVolume() float64 {
	if c.Player.Volume == nil {
		return DefaultVolumeLevel
	}
	return max(0, min(1, *c.Player.Volume))
}

// NotificationsEnabled reports whether desktop notifications are on.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

func ensureLeadingSlash(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
