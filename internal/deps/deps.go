package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"wallswitch/internal/config"
)

// Requirement defines an external tool wallswitch invokes.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

// ForConfig lists the tools needed for the configured desktop. Probing always
// needs identify; the wallpaper setter depends on the desktop.
func ForConfig(cfg *config.Config) []Requirement {
	identify := cfg.Binaries.Identify
	if identify == "" {
		identify = cfg.Binaries.Magick
	}
	reqs := []Requirement{{
		Name:        "ImageMagick identify",
		Command:     identify,
		Description: "Reads image dimensions",
	}}

	switch cfg.DesktopKind() {
	case config.DesktopGnome:
		reqs = append(reqs,
			Requirement{Name: "ImageMagick", Command: cfg.Binaries.Magick, Description: "Composites the wallpaper"},
			Requirement{Name: "gsettings", Command: cfg.Binaries.Gsettings, Description: "Applies the GNOME background"},
		)
	case config.DesktopXfce:
		reqs = append(reqs,
			Requirement{Name: "xfconf-query", Command: cfg.Binaries.XfconfQuery, Description: "Applies the Xfce backdrop"},
		)
	default:
		reqs = append(reqs,
			Requirement{Name: "feh", Command: cfg.Binaries.Feh, Description: "Sets the X root window background"},
		)
	}
	return reqs
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
