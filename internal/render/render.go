package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"wallswitch/internal/config"
	"wallswitch/internal/deps"
	"wallswitch/internal/fileutil"
	"wallswitch/internal/logging"
	"wallswitch/internal/monitor"
	"wallswitch/internal/partition"
)

const gnomeBackgroundSchema = "org.gnome.desktop.background"

// Renderer turns a partitioned chunk into the desktop wallpaper.
type Renderer interface {
	Render(ctx context.Context, partitions []partition.Partition) error
}

// New picks the renderer for the configured desktop.
func New(cfg *config.Config, runner deps.Runner, logger *slog.Logger) Renderer {
	if runner == nil {
		runner = deps.ExecRunner{}
	}
	logger = logging.NewComponentLogger(logger, "render")
	switch cfg.DesktopKind() {
	case config.DesktopGnome:
		return &Composite{
			Magick:      cfg.Binaries.Magick,
			Gsettings:   cfg.Binaries.Gsettings,
			Wallpaper:   cfg.Paths.Wallpaper,
			Orientation: cfg.Display.MonitorOrientation,
			Runner:      runner,
			Logger:      logger,
		}
	case config.DesktopXfce:
		return &Xfce{Binary: cfg.Binaries.XfconfQuery, Runner: runner, Logger: logger}
	default:
		return &Feh{Binary: cfg.Binaries.Feh, Runner: runner, Logger: logger}
	}
}

// Composite joins every partition into one image and sets it as the GNOME
// background spanning all monitors.
type Composite struct {
	Magick      string
	Gsettings   string
	Wallpaper   string
	Orientation monitor.Orientation
	Runner      deps.Runner
	Logger      *slog.Logger
}

// Render builds the composite next to the wallpaper, moves it into place and
// points GNOME at it.
func (c *Composite) Render(ctx context.Context, partitions []partition.Partition) error {
	tmp := fileutil.TempSibling(c.Wallpaper)
	args := CompositeArgs(partitions, c.Orientation, tmp)
	if _, err := run(ctx, c.Runner, c.Logger, c.Magick, args...); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("composite wallpaper: %w", err)
	}
	if err := fileutil.Replace(tmp, c.Wallpaper); err != nil {
		return err
	}

	uri := "file://" + c.Wallpaper
	for _, key := range []string{"picture-uri", "picture-uri-dark"} {
		if _, err := run(ctx, c.Runner, c.Logger, c.Gsettings, "set", gnomeBackgroundSchema, key, uri); err != nil {
			return fmt.Errorf("gsettings %s: %w", key, err)
		}
	}
	if _, err := run(ctx, c.Runner, c.Logger, c.Gsettings, "set", gnomeBackgroundSchema, "picture-options", "spanned"); err != nil {
		return fmt.Errorf("gsettings picture-options: %w", err)
	}
	return nil
}

// CompositeArgs returns the magick arguments that resize every image to its
// tile, stacks the tiles of each monitor, and joins the monitors into output.
// Horizontal monitors stack their pictures top to bottom; Vertical monitors
// place them side by side.
func CompositeArgs(partitions []partition.Partition, orientation monitor.Orientation, output string) []string {
	var args []string
	for _, p := range partitions {
		args = append(args, "(", "-gravity", "Center")
		for i, record := range p.Records {
			tile := p.Plan.Resolution
			if i < len(p.Tiles) {
				tile = p.Tiles[i]
			}
			size := tile.String()
			args = append(args, "(", record.Path, "-resize", size+"^", "-extent", size, ")")
		}
		args = append(args, "-gravity", "South", stackFlag(p.Plan.Orientation), ")")
	}
	join := "+append"
	if orientation == monitor.Vertical {
		join = "-append"
	}
	return append(args, join, output)
}

func stackFlag(orientation monitor.Orientation) string {
	if orientation == monitor.Horizontal {
		return "-append"
	}
	return "+append"
}

// Xfce assigns one image per monitor backdrop.
type Xfce struct {
	Binary string
	Runner deps.Runner
	Logger *slog.Logger
}

// Render lists the workspace0 backdrop properties and sets them in order.
// Extra images or extra properties are left untouched.
func (x *Xfce) Render(ctx context.Context, partitions []partition.Partition) error {
	out, err := run(ctx, x.Runner, x.Logger, x.Binary, "--channel", "xfce4-desktop", "--property", "/backdrop", "--list")
	if err != nil {
		return fmt.Errorf("list xfce backdrops: %w", err)
	}
	properties := XfceBackdrops(string(out))
	records := partition.Flatten(partitions)
	for i := 0; i < len(properties) && i < len(records); i++ {
		if _, err := run(ctx, x.Runner, x.Logger, x.Binary,
			"--channel", "xfce4-desktop", "--property", properties[i], "--set", records[i].Path); err != nil {
			return fmt.Errorf("set xfce backdrop %s: %w", properties[i], err)
		}
	}
	return nil
}

// XfceBackdrops filters xfconf-query output down to the last-image
// properties of screen0, workspace0.
func XfceBackdrops(listing string) []string {
	var properties []string
	for _, field := range strings.Fields(listing) {
		if strings.Contains(field, "screen0") &&
			strings.Contains(field, "workspace0") &&
			strings.Contains(field, "last-image") {
			properties = append(properties, field)
		}
	}
	return properties
}

// Feh sets the X root window background on window managers without a
// desktop shell.
type Feh struct {
	Binary string
	Runner deps.Runner
	Logger *slog.Logger
}

// Render passes every image to feh; feh assigns them to monitors in order.
func (f *Feh) Render(ctx context.Context, partitions []partition.Partition) error {
	var args []string
	for _, record := range partition.Flatten(partitions) {
		args = append(args, "--bg-fill", record.Path)
	}
	if _, err := run(ctx, f.Runner, f.Logger, f.Binary, args...); err != nil {
		return fmt.Errorf("feh: %w", err)
	}
	return nil
}

func run(ctx context.Context, runner deps.Runner, logger *slog.Logger, name string, args ...string) ([]byte, error) {
	if logger != nil {
		logger.Debug("running command",
			logging.String("program", name),
			logging.String("args", strings.Join(args, " ")),
		)
	}
	return runner.Run(ctx, name, args...)
}
