package config

import "wallswitch/internal/monitor"

// Overrides carries command-line values that take precedence over the file.
// Nil fields leave the configured value untouched.
type Overrides struct {
	MinSize      *uint64
	MaxSize      *uint64
	MinDimension *uint64
	MaxDimension *uint64
	Interval     *int
	Monitors     *int
	Orientation  *monitor.Orientation
	Pictures     *uint8
	Sort         *bool
	Verbose      *bool
}

// Apply writes every set override into cfg. A monitor count rebuilds the
// monitor list from defaults; a picture count then applies to every monitor.
func (o Overrides) Apply(cfg *Config) {
	if o.MinSize != nil {
		cfg.Selection.MinSize = *o.MinSize
	}
	if o.MaxSize != nil {
		cfg.Selection.MaxSize = *o.MaxSize
	}
	if o.MinDimension != nil {
		cfg.Selection.MinDimension = *o.MinDimension
	}
	if o.MaxDimension != nil {
		cfg.Selection.MaxDimension = *o.MaxDimension
	}
	if o.Interval != nil {
		cfg.Selection.Interval = *o.Interval
	}
	if o.Monitors != nil && *o.Monitors >= 0 {
		cfg.Display.Monitors = monitor.DefaultPlans(*o.Monitors, 0)
	}
	if o.Pictures != nil {
		if len(cfg.Display.Monitors) == 0 {
			cfg.Display.Monitors = monitor.DefaultPlans(defaultMonitorCount, 0)
		}
		for i := range cfg.Display.Monitors {
			cfg.Display.Monitors[i].Pictures = *o.Pictures
		}
	}
	if o.Orientation != nil {
		cfg.Display.MonitorOrientation = *o.Orientation
	}
	if o.Sort != nil {
		cfg.Selection.Sort = *o.Sort
	}
	if o.Verbose != nil {
		cfg.Logging.Verbose = *o.Verbose
	}
}
