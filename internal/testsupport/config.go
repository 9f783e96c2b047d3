package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"wallswitch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Directories = []string{filepath.Join(base, "pictures")}
	cfgVal.Paths.Wallpaper = filepath.Join(base, "wallpaper", "wallpaper.jpg")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Display.Desktop = config.DesktopOther
	cfgVal.Binaries.Identify = "identify"
	cfgVal.Selection.Concurrency = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDesktop overrides the desktop name on the test config.
func WithDesktop(desktop string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Display.Desktop = desktop
	}
}

// WithDirectories replaces the image directories with paths under the base dir.
func WithDirectories(names ...string) ConfigOption {
	return func(b *configBuilder) {
		dirs := make([]string, 0, len(names))
		for _, name := range names {
			dirs = append(dirs, filepath.Join(b.baseDir, name))
		}
		b.cfg.Paths.Directories = dirs
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default wallswitch external
// binaries are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"magick", "identify", "feh", "gsettings", "xfconf-query"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
