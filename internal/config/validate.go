package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.History.RetentionDays < 0 {
		return errors.New("history.retention_days must be >= 0")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if len(c.Paths.Directories) == 0 {
		return errors.New("paths.directories must list at least one directory")
	}
	if c.Paths.Wallpaper == "" {
		return errors.New("paths.wallpaper must be set")
	}
	return nil
}

func (c *Config) validateSelection() error {
	s := c.Selection
	if len(s.Extensions) == 0 {
		return errors.New("selection.extensions must list at least one extension")
	}
	if s.Interval < MinInterval {
		return fmt.Errorf("selection.interval must be >= %d seconds (got %d)", MinInterval, s.Interval)
	}
	if s.MinSize < MinSize {
		return fmt.Errorf("selection.min_size must be >= %d", MinSize)
	}
	if s.MinSize > s.MaxSize {
		return fmt.Errorf("selection.min_size (%d) must not exceed selection.max_size (%d)", s.MinSize, s.MaxSize)
	}
	if s.MinDimension < MinDimension {
		return fmt.Errorf("selection.min_dimension must be >= %d", MinDimension)
	}
	if s.MinDimension > s.MaxDimension {
		return fmt.Errorf("selection.min_dimension (%d) must not exceed selection.max_dimension (%d)", s.MinDimension, s.MaxDimension)
	}
	if s.Concurrency < 0 {
		return errors.New("selection.concurrency must be >= 0")
	}
	return nil
}

func (c *Config) validateDisplay() error {
	if len(c.Display.Monitors) == 0 {
		return errors.New("display.monitors must describe at least one monitor")
	}
	for i, plan := range c.Display.Monitors {
		if plan.Pictures == 0 {
			return fmt.Errorf("display.monitors[%d].pictures must be >= 1", i)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error (got %q)", c.Logging.Level)
	}
	return nil
}
