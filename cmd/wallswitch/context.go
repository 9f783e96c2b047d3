package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"wallswitch/internal/config"
	"wallswitch/internal/monitor"
)

type commandContext struct {
	configFlag *string

	minSize      uint64
	maxSize      uint64
	minDimension uint64
	maxDimension uint64
	interval     int
	monitors     int
	orientation  string
	pictures     uint8
	sort         bool
	verbose      bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// bindOverrideFlags registers the flags that take precedence over the
// configuration file.
func (c *commandContext) bindOverrideFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.Uint64VarP(&c.minSize, "min-size", "b", 0, "Minimum file size in bytes")
	flags.Uint64VarP(&c.maxSize, "max-size", "B", 0, "Maximum file size in bytes")
	flags.Uint64VarP(&c.minDimension, "min-dimension", "d", 0, "Minimum image width and height in pixels")
	flags.Uint64VarP(&c.maxDimension, "max-dimension", "D", 0, "Maximum image width and height in pixels")
	flags.IntVarP(&c.interval, "interval", "i", 0, "Seconds between wallpaper changes")
	flags.IntVarP(&c.monitors, "monitors", "m", 0, "Number of monitors (replaces configured monitors)")
	flags.StringVarP(&c.orientation, "orientation", "o", "", "How monitors are arranged: horizontal or vertical")
	flags.Uint8VarP(&c.pictures, "pictures", "p", 0, "Pictures per monitor")
	flags.BoolVarP(&c.sort, "sort", "s", false, "Show images in path order instead of shuffling")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging and duplicate reports")
}

// overrides converts explicitly set flags into config overrides.
func (c *commandContext) overrides(cmd *cobra.Command) (config.Overrides, error) {
	var o config.Overrides
	if cmd == nil {
		return o, nil
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("min-size") {
		o.MinSize = &c.minSize
	}
	if changed("max-size") {
		o.MaxSize = &c.maxSize
	}
	if changed("min-dimension") {
		o.MinDimension = &c.minDimension
	}
	if changed("max-dimension") {
		o.MaxDimension = &c.maxDimension
	}
	if changed("interval") {
		o.Interval = &c.interval
	}
	if changed("monitors") {
		if c.monitors < 1 {
			return o, fmt.Errorf("--monitors must be at least 1, got %d", c.monitors)
		}
		o.Monitors = &c.monitors
	}
	if changed("orientation") {
		orientation, err := monitor.ParseOrientation(c.orientation)
		if err != nil {
			return o, fmt.Errorf("--orientation: %w", err)
		}
		o.Orientation = &orientation
	}
	if changed("pictures") {
		o.Pictures = &c.pictures
	}
	if changed("sort") {
		o.Sort = &c.sort
	}
	if changed("verbose") {
		o.Verbose = &c.verbose
	}
	return o, nil
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		overrides, err := c.overrides(cmd)
		if err != nil {
			c.configErr = err
			return
		}
		cfg, resolved, exists, err := config.LoadWithOverrides(path, overrides)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
