package validate

import (
	"fmt"
	"path/filepath"

	"wallswitch/internal/dimension"
	"wallswitch/internal/imagefile"
)

// Constraints bundles the limits every emitted image must satisfy.
type Constraints struct {
	MinSize      uint64
	MaxSize      uint64
	Dimensions   dimension.Window
	ReservedName string
}

// SizeError reports a file whose byte size is outside [Min, Max].
type SizeError struct {
	Path string
	Size uint64
	Min  uint64
	Max  uint64
}

func (e *SizeError) Error() string {
	if e.Size < e.Min {
		return fmt.Sprintf("%s: size %d bytes is below the minimum of %d", e.Path, e.Size, e.Min)
	}
	return fmt.Sprintf("%s: size %d bytes exceeds the maximum of %d", e.Path, e.Size, e.Max)
}

// DimensionError reports an image whose smaller or larger side falls outside
// the dimension window.
type DimensionError struct {
	Path      string
	Dimension dimension.Dimension
	Window    dimension.Window
}

// TooSmall reports whether the smaller side is below the window minimum.
func (e *DimensionError) TooSmall() bool {
	return e.Dimension.Min() < e.Window.Min
}

// TooLarge reports whether the larger side exceeds the window maximum.
func (e *DimensionError) TooLarge() bool {
	return e.Dimension.Max() > e.Window.Max
}

func (e *DimensionError) Error() string {
	switch {
	case e.TooSmall():
		return fmt.Sprintf("%s: dimension %s has a side of %d below the minimum of %d",
			e.Path, e.Dimension, e.Dimension.Min(), e.Window.Min)
	default:
		return fmt.Sprintf("%s: dimension %s has a side of %d above the maximum of %d",
			e.Path, e.Dimension, e.Dimension.Max(), e.Window.Max)
	}
}

// FilenameError reports an image that would overwrite the output wallpaper.
type FilenameError struct {
	Path string
	Name string
}

func (e *FilenameError) Error() string {
	return fmt.Sprintf("%s: file name matches the wallpaper output %q", e.Path, e.Name)
}

// CheckSize verifies the record size is within bounds.
func (c Constraints) CheckSize(record imagefile.Record) error {
	if record.Size < c.MinSize || record.Size > c.MaxSize {
		return &SizeError{Path: record.Path, Size: record.Size, Min: c.MinSize, Max: c.MaxSize}
	}
	return nil
}

// CheckDimension verifies both sides of the record dimension fit the window.
func (c Constraints) CheckDimension(record imagefile.Record) error {
	if !c.Dimensions.Fits(record.Dimension) {
		return &DimensionError{Path: record.Path, Dimension: record.Dimension, Window: c.Dimensions}
	}
	return nil
}

// CheckFilename rejects records whose base name equals the reserved name.
func (c Constraints) CheckFilename(record imagefile.Record) error {
	if c.ReservedName == "" {
		return nil
	}
	if filepath.Base(record.Path) == c.ReservedName {
		return &FilenameError{Path: record.Path, Name: c.ReservedName}
	}
	return nil
}

// Sizes applies CheckSize to every record and returns all failures.
func (c Constraints) Sizes(records []imagefile.Record) []error {
	var errs []error
	for _, record := range records {
		if err := c.CheckSize(record); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Figures applies the dimension and filename checks to every record and
// returns all failures.
func (c Constraints) Figures(records []imagefile.Record) []error {
	var errs []error
	for _, record := range records {
		if err := c.CheckDimension(record); err != nil {
			errs = append(errs, err)
		}
		if err := c.CheckFilename(record); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
