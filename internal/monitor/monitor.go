package monitor

import (
	"errors"
	"fmt"
	"strings"

	"wallswitch/internal/dimension"
)

// Orientation controls how the pictures of one monitor are arranged.
type Orientation int

const (
	// Horizontal stacks pictures top to bottom, splitting the monitor height.
	Horizontal Orientation = iota
	// Vertical places pictures side by side, splitting the monitor width.
	Vertical
)

// ErrInvalidOrientation reports an unknown orientation name.
var ErrInvalidOrientation = errors.New("invalid orientation: valid options are Horizontal, Vertical")

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "Vertical"
	default:
		return "Horizontal"
	}
}

// ParseOrientation accepts orientation names case-insensitively.
func ParseOrientation(value string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	default:
		return Horizontal, fmt.Errorf("%w (got %q)", ErrInvalidOrientation, value)
	}
}

// Flip returns the opposite orientation.
func (o Orientation) Flip() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Plan describes one monitor and its per-update picture quota.
type Plan struct {
	Orientation Orientation         `toml:"orientation"`
	Pictures    uint8               `toml:"pictures"`
	Resolution  dimension.Dimension `toml:"resolution"`
}

// Default returns a single 4K monitor showing one picture.
func Default() Plan {
	return Plan{
		Orientation: Horizontal,
		Pictures:    1,
		Resolution:  dimension.Default,
	}
}

// DefaultPlans builds n default plans. Even-indexed plans are flipped to
// Vertical so neighbouring monitors alternate their arrangement. A non-zero
// pictures value overrides every plan's quota.
func DefaultPlans(n int, pictures uint8) []Plan {
	plans := make([]Plan, n)
	for i := range plans {
		plan := Default()
		if i%2 == 0 {
			plan.Orientation = plan.Orientation.Flip()
		}
		if pictures > 0 {
			plan.Pictures = pictures
		}
		plans[i] = plan
	}
	return plans
}

// ImagesPerCycle returns the number of images one wallpaper update consumes.
func ImagesPerCycle(plans []Plan) int {
	total := 0
	for _, plan := range plans {
		total += int(plan.Pictures)
	}
	return total
}

// TileSizes returns the target size of every picture composited on the
// monitor. Horizontal plans divide the height and Vertical plans divide the
// width by Pictures; the remainder pixels are handed out one per picture to
// the first pictures so the tiles cover the axis exactly.
func (p Plan) TileSizes() []dimension.Dimension {
	k := uint64(p.Pictures)
	if k == 0 {
		return nil
	}
	width, height := p.Resolution.Width, p.Resolution.Height
	var remainder uint64
	switch p.Orientation {
	case Horizontal:
		remainder = height % k
		height /= k
	case Vertical:
		remainder = width % k
		width /= k
	}

	tiles := make([]dimension.Dimension, k)
	for i := range tiles {
		w, h := width, height
		if uint64(i) < remainder {
			if p.Orientation == Horizontal {
				h++
			} else {
				w++
			}
		}
		tiles[i] = dimension.Dimension{Width: w, Height: h}
	}
	return tiles
}
