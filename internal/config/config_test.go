package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"wallswitch/internal/config"
	"wallswitch/internal/dimension"
	"wallswitch/internal/monitor"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CURRENT_DESKTOP", "")
	t.Setenv("XDG_SESSION_DESKTOP", "")
	t.Setenv("DESKTOP_SESSION", "")
	t.Chdir(t.TempDir())
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wallswitch.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsExpandPaths(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(home, ".config", "wallswitch", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Paths.Wallpaper != filepath.Join(home, "wallswitch.jpg") {
		t.Fatalf("unexpected wallpaper path %q", cfg.Paths.Wallpaper)
	}
	if cfg.Paths.StateDir != filepath.Join(home, ".local", "share", "wallswitch") {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
	if cfg.Paths.Directories[0] != filepath.Join(home, "Figures") {
		t.Fatalf("directories not expanded: %v", cfg.Paths.Directories)
	}
	if len(cfg.Paths.Directories) != 7 {
		t.Fatalf("expected 7 default directories, got %d", len(cfg.Paths.Directories))
	}
	if cfg.Interval() != 30*time.Minute {
		t.Fatalf("unexpected interval %v", cfg.Interval())
	}
	if cfg.Selection.Concurrency != runtime.NumCPU()*2 {
		t.Fatalf("unexpected concurrency %d", cfg.Selection.Concurrency)
	}
	plans := cfg.Plans()
	if len(plans) != 2 || plans[0].Orientation != monitor.Vertical || plans[1].Orientation != monitor.Horizontal {
		t.Fatalf("unexpected default monitors: %+v", plans)
	}
	if monitor.ImagesPerCycle(plans) != 2 {
		t.Fatalf("unexpected images per cycle: %d", monitor.ImagesPerCycle(plans))
	}
	constraints := cfg.Constraints()
	if constraints.ReservedName != "wallswitch.jpg" || constraints.MinSize != 1024 || constraints.Dimensions.Min != 600 {
		t.Fatalf("unexpected constraints: %+v", constraints)
	}
	if !cfg.History.Enabled || cfg.History.RetentionDays != 30 {
		t.Fatalf("unexpected history defaults: %+v", cfg.History)
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
[paths]
directories = ["/srv/art", "/srv/art", ""]
wallpaper = "/tmp/out/wall.png"

[selection]
extensions = [".PNG", "jpg"]
interval = 60
sort = true
min_dimension = 800

[display]
desktop = "GNOME"
monitor_orientation = "vertical"

[[display.monitors]]
orientation = "Horizontal"
pictures = 3
resolution = "1920x1080"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if len(cfg.Paths.Directories) != 1 || cfg.Paths.Directories[0] != "/srv/art" {
		t.Fatalf("directories not normalized: %v", cfg.Paths.Directories)
	}
	if strings.Join(cfg.Selection.Extensions, ",") != "png,jpg" {
		t.Fatalf("extensions not normalized: %v", cfg.Selection.Extensions)
	}
	if cfg.Display.Desktop != "gnome" {
		t.Fatalf("desktop not lowercased: %q", cfg.Display.Desktop)
	}
	if cfg.Display.MonitorOrientation != monitor.Vertical {
		t.Fatalf("unexpected monitor orientation %v", cfg.Display.MonitorOrientation)
	}
	if len(cfg.Display.Monitors) != 1 {
		t.Fatalf("configured monitors merged with defaults: %+v", cfg.Display.Monitors)
	}
	want := monitor.Plan{Orientation: monitor.Horizontal, Pictures: 3, Resolution: dimension.Dimension{Width: 1920, Height: 1080}}
	if cfg.Display.Monitors[0] != want {
		t.Fatalf("unexpected monitor %+v", cfg.Display.Monitors[0])
	}
	if !cfg.Selection.Sort || cfg.Selection.Interval != 60 || cfg.Selection.MinDimension != 800 {
		t.Fatalf("unexpected selection: %+v", cfg.Selection)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"interval":      "[selection]\ninterval = 4\n",
		"min_dimension": "[selection]\nmin_dimension = 9\n",
		"min_size":      "[selection]\nmin_size = 0\n",
		"size order":    "[selection]\nmin_size = 10\nmax_size = 5\n",
		"dim order":     "[selection]\nmin_dimension = 900\nmax_dimension = 800\n",
		"pictures":      "[[display.monitors]]\npictures = 0\n",
		"orientation":   "[display]\nmonitor_orientation = \"diagonal\"\n",
		"resolution":    "[[display.monitors]]\npictures = 1\nresolution = \"1920x0\"\n",
		"format":        "[logging]\nformat = \"xml\"\n",
		"unknown key":   "[selection]\nshuffle = true\n",
		"concurrency":   "[selection]\nconcurrency = -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			isolateEnv(t)
			if _, _, _, err := config.Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestDesktopDetectionPrefersLongestValue(t *testing.T) {
	isolateEnv(t)
	t.Setenv("XDG_CURRENT_DESKTOP", "XFCE")
	t.Setenv("DESKTOP_SESSION", "xubuntu-xfce")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Display.Desktop != "xubuntu-xfce" {
		t.Fatalf("unexpected desktop %q", cfg.Display.Desktop)
	}
}

func TestOverridesTakePrecedence(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "[selection]\ninterval = 600\n")

	interval := 30
	monitors := 3
	pictures := uint8(2)
	orientation := monitor.Vertical
	minSize := uint64(2048)
	verbose := true
	cfg, _, _, err := config.LoadWithOverrides(path, config.Overrides{
		Interval:    &interval,
		Monitors:    &monitors,
		Pictures:    &pictures,
		Orientation: &orientation,
		MinSize:     &minSize,
		Verbose:     &verbose,
	})
	if err != nil {
		t.Fatalf("LoadWithOverrides returned error: %v", err)
	}
	if cfg.Selection.Interval != 30 || cfg.Selection.MinSize != 2048 {
		t.Fatalf("overrides not applied: %+v", cfg.Selection)
	}
	if len(cfg.Display.Monitors) != 3 || monitor.ImagesPerCycle(cfg.Display.Monitors) != 6 {
		t.Fatalf("unexpected monitors: %+v", cfg.Display.Monitors)
	}
	if cfg.Display.MonitorOrientation != monitor.Vertical {
		t.Fatalf("orientation override ignored")
	}
	if cfg.LogLevel() != "debug" {
		t.Fatalf("verbose should force debug, got %q", cfg.LogLevel())
	}

	tooShort := 2
	if _, _, _, err := config.LoadWithOverrides(path, config.Overrides{Interval: &tooShort}); err == nil {
		t.Fatal("expected interval override below minimum to fail validation")
	}
}

func TestSampleConfigLoads(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists || len(cfg.Display.Monitors) != 2 {
		t.Fatalf("unexpected sample result: exists=%v monitors=%d", exists, len(cfg.Display.Monitors))
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	isolateEnv(t)
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(encoded, `resolution = '3840x2160'`) && !strings.Contains(encoded, `resolution = "3840x2160"`) {
		t.Fatalf("resolution not encoded as text:\n%s", encoded)
	}

	var decoded config.Config
	if err := toml.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("decode encoded config: %v", err)
	}
	if len(decoded.Display.Monitors) != 2 || decoded.Display.Monitors[0].Orientation != monitor.Vertical {
		t.Fatalf("monitors lost in round trip: %+v", decoded.Display.Monitors)
	}
}

func TestEnsureDirectories(t *testing.T) {
	isolateEnv(t)
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.StateDir); err != nil || !info.IsDir() {
		t.Fatalf("state dir missing: %v", err)
	}
	if filepath.Dir(cfg.LockPath()) != cfg.Paths.StateDir || filepath.Base(cfg.HistoryPath()) != "history.db" {
		t.Fatalf("unexpected derived paths: %s %s", cfg.LockPath(), cfg.HistoryPath())
	}
}

func TestDesktopKind(t *testing.T) {
	cfg := config.Default()
	for desktop, want := range map[string]string{
		"ubuntu:gnome": config.DesktopGnome,
		"xfce":         config.DesktopXfce,
		"openbox":      config.DesktopOther,
		"":             config.DesktopOther,
	} {
		cfg.Display.Desktop = desktop
		if got := cfg.DesktopKind(); got != want {
			t.Fatalf("DesktopKind(%q) = %q, want %q", desktop, got, want)
		}
	}
}
