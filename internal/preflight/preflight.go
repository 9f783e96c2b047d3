package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"wallswitch/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll checks every image directory, the state directory and the
// directory receiving the wallpaper.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := make([]Result, 0, len(cfg.Paths.Directories)+2)
	for _, dir := range cfg.Paths.Directories {
		result := CheckDirectoryAccess("Image directory", dir, unix.R_OK|unix.X_OK)
		result.Optional = true
		results = append(results, result)
	}
	results = append(results,
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir, unix.R_OK|unix.W_OK|unix.X_OK),
		CheckDirectoryAccess("Wallpaper directory", filepath.Dir(cfg.Paths.Wallpaper), unix.W_OK|unix.X_OK),
	)
	return results
}

// CheckDirectoryAccess verifies that path is a directory granting mode
// (a combination of unix.R_OK, unix.W_OK and unix.X_OK).
func CheckDirectoryAccess(name, path string, mode uint32) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, describeMode(mode))}
}

// Failed returns the required checks that did not pass. When every image
// directory failed, the first one is included as well.
func Failed(results []Result) []Result {
	var failed []Result
	var firstImageFailure *Result
	imageOK := false
	for i, result := range results {
		switch {
		case result.Passed:
			if result.Optional {
				imageOK = true
			}
		case !result.Optional:
			failed = append(failed, result)
		case firstImageFailure == nil:
			firstImageFailure = &results[i]
		}
	}
	if !imageOK && firstImageFailure != nil {
		failed = append(failed, *firstImageFailure)
	}
	return failed
}

func describeMode(mode uint32) string {
	switch {
	case mode&unix.R_OK != 0 && mode&unix.W_OK != 0:
		return "read/write"
	case mode&unix.W_OK != 0:
		return "write"
	default:
		return "read"
	}
}
