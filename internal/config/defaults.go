package config

import (
	"os"
	"runtime"
	"strings"

	"wallswitch/internal/monitor"
)

const (
	defaultConfigPath    = "~/.config/wallswitch/config.toml"
	defaultWallpaper     = "~/wallswitch.jpg"
	defaultStateDir      = "~/.local/share/wallswitch"
	defaultInterval      = 30 * 60
	defaultMinSize       = 1024
	defaultMaxSize       = 1 << 30
	defaultMinDimension  = 600
	defaultMaxDimension  = 128000
	defaultMonitorCount  = 2
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultRetentionDays = 30

	// MinInterval is the shortest accepted rotation interval in seconds.
	MinInterval = 5
	// MinDimension is the smallest accepted min_dimension.
	MinDimension = 10
	// MinSize is the smallest accepted min_size.
	MinSize = 1
)

var defaultDirectories = []string{
	"~/Figures",
	"~/Images",
	"~/Pictures",
	"~/Wallpapers",
	"~/Imagens",
	"/usr/share/wallpapers",
	"/usr/share/backgrounds",
}

var defaultExtensions = []string{"avif", "jpg", "jpeg", "png", "svg", "tif", "webp"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Directories: append([]string(nil), defaultDirectories...),
			Wallpaper:   defaultWallpaper,
			StateDir:    defaultStateDir,
		},
		Selection: Selection{
			Extensions:   append([]string(nil), defaultExtensions...),
			Interval:     defaultInterval,
			MinSize:      defaultMinSize,
			MaxSize:      defaultMaxSize,
			MinDimension: defaultMinDimension,
			MaxDimension: defaultMaxDimension,
			Concurrency:  runtime.NumCPU() * 2,
		},
		Display: Display{
			MonitorOrientation: monitor.Horizontal,
			Monitors:           monitor.DefaultPlans(defaultMonitorCount, 0),
		},
		Binaries: Binaries{
			Magick:      "magick",
			Feh:         "feh",
			Gsettings:   "gsettings",
			XfconfQuery: "xfconf-query",
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultRetentionDays,
		},
	}
}

// DetectDesktop reads the XDG session variables and returns the longest
// lowercased value, which is usually the most specific one.
func DetectDesktop() string {
	var desktop string
	for _, key := range []string{"XDG_CURRENT_DESKTOP", "XDG_SESSION_DESKTOP", "DESKTOP_SESSION"} {
		value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		if len(value) > len(desktop) {
			desktop = value
		}
	}
	return desktop
}

// Desktop families that need distinct wallpaper setters.
const (
	DesktopGnome = "gnome"
	DesktopXfce  = "xfce"
	DesktopOther = "other"
)

// DesktopKind classifies the configured desktop name.
func (c *Config) DesktopKind() string {
	switch {
	case strings.Contains(c.Display.Desktop, "gnome"):
		return DesktopGnome
	case strings.Contains(c.Display.Desktop, "xfce"):
		return DesktopXfce
	default:
		return DesktopOther
	}
}
