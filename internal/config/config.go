// Package config handles loading the taskdash.toml configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tgienger/taskdash/internal/models"
)

// Config represents the taskdash configuration file.
type Config struct {
	Storage Storage       `toml:"storage"`
	Users   []models.User `toml:"users"`
	Sweep   Sweep         `toml:"sweep"`
	Log     Log           `toml:"log"`
	Metrics Metrics       `toml:"metrics"`
}

// Storage configures where snapshots are kept.
type Storage struct {
	// Path is the SQLite database file.
	Path string `toml:"path"`
	// CurrentUser is the id of the local user.
	CurrentUser string `toml:"current-user"`
}

// Sweep configures the due-date sweep.
type Sweep struct {
	// Interval is a Go duration string such as "24h" or "30m".
	Interval string `toml:"interval"`
}

// Log configures the file logger.
type Log struct {
	Level string `toml:"level"`
	// File is where logs are written. The terminal belongs to the UI.
	File string `toml:"file"`
}

// Metrics configures the optional prometheus endpoint.
type Metrics struct {
	// Addr, when set, serves /metrics on this address.
	Addr string `toml:"addr"`
}

// SweepInterval returns the parsed sweep interval
func (c *Config) SweepInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Sweep.Interval)
	if err != nil {
		return 0, fmt.Errorf("parse sweep interval %q: %w", c.Sweep.Interval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("sweep interval must be positive, got %s", d)
	}
	return d, nil
}

// DefaultUsers is the seed user directory
func DefaultUsers() []models.User {
	return []models.User{
		{
			ID:        "user-1",
			Name:      "John Doe",
			Email:     "john.doe@example.com",
			AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=John",
		},
		{
			ID:        "user-2",
			Name:      "Jane Smith",
			Email:     "jane.smith@example.com",
			AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Jane",
		},
	}
}

// Default returns the configuration used when no file exists
func Default() (*Config, error) {
	dataDir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Storage: Storage{
			Path:        filepath.Join(dataDir, "taskdash.db"),
			CurrentUser: "user-1",
		},
		Users: DefaultUsers(),
		Sweep: Sweep{Interval: "24h"},
		Log: Log{
			Level: "info",
			File:  filepath.Join(dataDir, "taskdash.log"),
		},
	}, nil
}

// DefaultPath returns the config file location under the XDG config dir
func DefaultPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "taskdash", "config.toml"), nil
}

// dataDir uses the XDG data directory or falls back to the home directory
func dataDir() (string, error) {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "taskdash"), nil
}

// Load reads the configuration at path, or DefaultPath when path is empty.
// Keys absent from the file keep their defaults; a missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var file Config
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}

	merge(cfg, &file, meta)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func merge(cfg, file *Config, meta toml.MetaData) {
	mergeString(&cfg.Storage.Path, meta.IsDefined("storage", "path"), file.Storage.Path)
	mergeString(&cfg.Storage.CurrentUser, meta.IsDefined("storage", "current-user"), file.Storage.CurrentUser)
	mergeString(&cfg.Sweep.Interval, meta.IsDefined("sweep", "interval"), file.Sweep.Interval)
	mergeString(&cfg.Log.Level, meta.IsDefined("log", "level"), file.Log.Level)
	mergeString(&cfg.Log.File, meta.IsDefined("log", "file"), file.Log.File)
	mergeString(&cfg.Metrics.Addr, meta.IsDefined("metrics", "addr"), file.Metrics.Addr)
	if meta.IsDefined("users") {
		cfg.Users = append([]models.User(nil), file.Users...)
		// A custom directory without a current user starts as its first user.
		if !meta.IsDefined("storage", "current-user") {
			cfg.Storage.CurrentUser = ""
		}
	}
}

func mergeString(dst *string, defined bool, value string) {
	if defined {
		*dst = strings.TrimSpace(value)
	}
}

func (c *Config) validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if len(c.Users) == 0 {
		return fmt.Errorf("at least one user is required")
	}
	seen := make(map[string]bool, len(c.Users))
	for _, u := range c.Users {
		if u.ID == "" || u.Name == "" {
			return fmt.Errorf("users need both id and name")
		}
		if seen[u.ID] {
			return fmt.Errorf("duplicate user id %q", u.ID)
		}
		seen[u.ID] = true
	}
	if c.Storage.CurrentUser != "" && !seen[c.Storage.CurrentUser] {
		return fmt.Errorf("current-user %q is not in users", c.Storage.CurrentUser)
	}
	if _, err := c.SweepInterval(); err != nil {
		return err
	}
	return nil
}
