package dimension

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormat reports text that does not contain exactly two numbers.
	ErrInvalidFormat = errors.New("invalid dimension format: expected two numbers (width x height)")
	// ErrZeroDimension reports a width or height of zero.
	ErrZeroDimension = errors.New("zero is not a valid dimension component")
)

// ParseError wraps a token that failed integer parsing.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid dimension format %q: failed to parse integer: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Dimension is the width and height of an image in pixels.
type Dimension struct {
	Width  uint64
	Height uint64
}

// Default is the 4K UHD resolution used for monitors without an explicit size.
var Default = Dimension{Width: 3840, Height: 2160}

// Parse converts "<width>x<height>" into a Dimension.
func Parse(text string) (Dimension, error) {
	numbers, err := SplitString(text)
	if err != nil {
		return Dimension{}, err
	}
	return Dimension{Width: numbers[0], Height: numbers[1]}, nil
}

// SplitString splits text on 'x' and returns exactly two non-zero numbers.
// Whitespace around each token is ignored.
func SplitString(text string) ([]uint64, error) {
	parts := strings.Split(text, "x")
	numbers := make([]uint64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, &ParseError{Input: text, Err: err}
		}
		numbers = append(numbers, value)
	}
	if len(numbers) != 2 {
		return nil, ErrInvalidFormat
	}
	if numbers[0] == 0 || numbers[1] == 0 {
		return nil, ErrZeroDimension
	}
	return numbers, nil
}

// Min returns the shorter side.
func (d Dimension) Min() uint64 {
	return min(d.Width, d.Height)
}

// Max returns the longer side.
func (d Dimension) Max() uint64 {
	return max(d.Width, d.Height)
}

// IsZero reports whether the dimension has not been populated.
func (d Dimension) IsZero() bool {
	return d.Width == 0 || d.Height == 0
}

func (d Dimension) String() string {
	return strconv.FormatUint(d.Width, 10) + "x" + strconv.FormatUint(d.Height, 10)
}

// MarshalText renders the dimension as "<width>x<height>".
func (d Dimension) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses "<width>x<height>".
func (d *Dimension) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Window is an inclusive [Min, Max] range applied to both sides of a Dimension.
type Window struct {
	Min uint64
	Max uint64
}

// Contains reports whether Min <= value <= Max.
func (w Window) Contains(value uint64) bool {
	return w.Min <= value && value <= w.Max
}

// Fits reports whether both the shorter and the longer side of d lie in the window.
func (w Window) Fits(d Dimension) bool {
	return w.Contains(d.Min()) && w.Contains(d.Max())
}

func (w Window) String() string {
	return fmt.Sprintf("[%d, %d]", w.Min, w.Max)
}
