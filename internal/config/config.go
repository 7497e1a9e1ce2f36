// Package config handles the XDG configuration directory and the optional config file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"todo/internal/storage"
	"todo/internal/task"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional YAML configuration filename.
	ConfigFile = "config.yaml"

	// DataDir is the file backend's default directory inside the config dir.
	DataDir = "data"

	// DatabaseFile is the sqlite backend's default database inside the config dir.
	DatabaseFile = "todo.db"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Storage selects and configures the durable storage backend.
	Storage StorageConfig

	// Log receives diagnostics. Nil discards them.
	Log *slog.Logger
}

// StorageConfig is the storage section of config.yaml.
type StorageConfig struct {
	// Backend is "file" or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the data directory (file) or database file (sqlite).
	// Empty means a default inside the config directory.
	Path string `yaml:"path,omitempty"`

	// Key is the storage key holding the task collection.
	Key string `yaml:"key"`
}

// fileConfig is the on-disk shape of config.yaml.
type fileConfig struct {
	Storage StorageConfig `yaml:"storage"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir: dir,
		Storage: StorageConfig{
			Backend: storage.BackendFile,
			Key:     task.DefaultKey,
		},
	}, nil
}

// Load is New followed by reading config.yaml from the directory, if present.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cfg.FilePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	fc := fileConfig{Storage: cfg.Storage}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigFile, err)
	}
	cfg.Storage = fc.Storage
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = storage.BackendFile
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = task.DefaultKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the storage settings.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	return storage.ValidateKey(c.Storage.Key)
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// StoragePath returns the configured storage path or the backend's default.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == storage.BackendSQLite {
		return filepath.Join(c.Dir, DatabaseFile)
	}
	return filepath.Join(c.Dir, DataDir)
}

// Logger returns the configured logger, or one that discards everything.
func (c *Config) Logger() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewLogger builds the CLI logger: debug level when debug is set, warn otherwise.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// EffectiveYAML renders the file configuration with defaults resolved.
func (c *Config) EffectiveYAML() ([]byte, error) {
	fc := fileConfig{Storage: c.Storage}
	fc.Storage.Path = c.StoragePath()
	return yaml.Marshal(fc)
}
