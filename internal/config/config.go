package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"wallswitch/internal/dimension"
	"wallswitch/internal/monitor"
	"wallswitch/internal/validate"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains image sources and output locations.
type Paths struct {
	Directories []string `toml:"directories"`
	Wallpaper   string   `toml:"wallpaper"`
	StateDir    string   `toml:"state_dir"`
}

// Selection contains the pool filters and rotation timing.
type Selection struct {
	Extensions   []string `toml:"extensions"`
	Interval     int      `toml:"interval"`
	Sort         bool     `toml:"sort"`
	MinSize      uint64   `toml:"min_size"`
	MaxSize      uint64   `toml:"max_size"`
	MinDimension uint64   `toml:"min_dimension"`
	MaxDimension uint64   `toml:"max_dimension"`
	// Concurrency bounds hashing and probing; 0 means unbounded.
	Concurrency int `toml:"concurrency"`
}

// Display describes the desktop and its monitors.
type Display struct {
	Desktop            string              `toml:"desktop"`
	MonitorOrientation monitor.Orientation `toml:"monitor_orientation"`
	Monitors           []monitor.Plan      `toml:"monitors"`
}

// Binaries names the external tools wallswitch invokes.
type Binaries struct {
	Magick      string `toml:"magick"`
	Identify    string `toml:"identify"`
	Feh         string `toml:"feh"`
	Gsettings   string `toml:"gsettings"`
	XfconfQuery string `toml:"xfconf_query"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format  string `toml:"format"`
	Level   string `toml:"level"`
	Verbose bool   `toml:"verbose"`
}

// History controls the emission history database.
type History struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// Config encapsulates all configuration values for wallswitch.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Selection Selection `toml:"selection"`
	Display   Display   `toml:"display"`
	Binaries  Binaries  `toml:"binaries"`
	Logging   Logging   `toml:"logging"`
	History   History   `toml:"history"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file.
func Load(path string) (*Config, string, bool, error) {
	return LoadWithOverrides(path, Overrides{})
}

// LoadWithOverrides behaves like Load but applies command-line overrides after
// the file is decoded and before validation.
func LoadWithOverrides(path string, overrides Overrides) (*Config, string, bool, error) {
	cfg := Default()
	// Array tables decode into existing elements, so configured monitors
	// must replace the defaults rather than merge with them.
	cfg.Display.Monitors = nil

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
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	overrides.Apply(&cfg)

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

	projectPath, err := filepath.Abs("wallswitch.toml")
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

// EnsureDirectories creates the state directory and the wallpaper's parent.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, filepath.Dir(c.Paths.Wallpaper)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath is the single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "wallswitch.lock")
}

// PIDPath records the pid of the running instance.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Paths.StateDir, "wallswitch.pid")
}

// LogPath is the file the run command logs to alongside stdout.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, "wallswitch.log")
}

// HistoryPath is the SQLite database of emitted wallpapers.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// Interval returns the wait between wallpaper updates.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Selection.Interval) * time.Second
}

// LogLevel resolves the effective level, with verbose forcing debug output.
func (c *Config) LogLevel() string {
	if c.Logging.Verbose {
		return "debug"
	}
	return c.Logging.Level
}

// Constraints returns the validation limits for emitted images. The output
// wallpaper's own file name is reserved so it is never fed back as input.
func (c *Config) Constraints() validate.Constraints {
	return validate.Constraints{
		MinSize: c.Selection.MinSize,
		MaxSize: c.Selection.MaxSize,
		Dimensions: dimension.Window{
			Min: c.Selection.MinDimension,
			Max: c.Selection.MaxDimension,
		},
		ReservedName: filepath.Base(c.Paths.Wallpaper),
	}
}

// Plans returns a copy of the configured monitor plans.
func (c *Config) Plans() []monitor.Plan {
	return append([]monitor.Plan(nil), c.Display.Monitors...)
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
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
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
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

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
