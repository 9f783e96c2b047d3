package config

import (
	"fmt"
	"strings"

	"wallswitch/internal/monitor"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSelection()
	c.normalizeDisplay()
	c.normalizeBinaries()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	dirs := make([]string, 0, len(c.Paths.Directories))
	seen := make(map[string]struct{}, len(c.Paths.Directories))
	for _, dir := range c.Paths.Directories {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(dir))
		if err != nil {
			return fmt.Errorf("paths.directories: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		dirs = append(dirs, expanded)
	}
	c.Paths.Directories = dirs

	var err error
	if strings.TrimSpace(c.Paths.Wallpaper) == "" {
		c.Paths.Wallpaper = defaultWallpaper
	}
	if c.Paths.Wallpaper, err = expandPath(strings.TrimSpace(c.Paths.Wallpaper)); err != nil {
		return fmt.Errorf("paths.wallpaper: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSelection() {
	exts := make([]string, 0, len(c.Selection.Extensions))
	for _, ext := range c.Selection.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	c.Selection.Extensions = exts
}

func (c *Config) normalizeDisplay() {
	c.Display.Desktop = strings.ToLower(strings.TrimSpace(c.Display.Desktop))
	if c.Display.Desktop == "" {
		c.Display.Desktop = DetectDesktop()
	}
	if len(c.Display.Monitors) == 0 {
		c.Display.Monitors = monitor.DefaultPlans(defaultMonitorCount, 0)
	}
	for i := range c.Display.Monitors {
		if c.Display.Monitors[i].Resolution.IsZero() {
			c.Display.Monitors[i].Resolution = monitor.Default().Resolution
		}
	}
}

func (c *Config) normalizeBinaries() {
	defaults := Default().Binaries
	fill := func(value *string, fallback string) {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			*value = fallback
		}
	}
	fill(&c.Binaries.Magick, defaults.Magick)
	fill(&c.Binaries.Feh, defaults.Feh)
	fill(&c.Binaries.Gsettings, defaults.Gsettings)
	fill(&c.Binaries.XfconfQuery, defaults.XfconfQuery)
	c.Binaries.Identify = strings.TrimSpace(c.Binaries.Identify)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
