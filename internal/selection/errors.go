package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImages reports an empty pool after scanning and deduplication.
	ErrNoImages = errors.New("no images found in the configured directories")
	// ErrInsufficientValid reports a pass in which every chunk was rejected.
	ErrInsufficientValid = errors.New("no chunk of images passed validation")
)

// InsufficientImagesError reports a pool smaller than the monitor count.
type InsufficientImagesError struct {
	Found    int
	Monitors int
	Paths    []string
}

func (e *InsufficientImagesError) Error() string {
	return fmt.Sprintf("insufficient images: found %d, need at least %d (one per monitor)", e.Found, e.Monitors)
}

// IsFatal reports whether err ends the rotation loop.
func IsFatal(err error) bool {
	var short *InsufficientImagesError
	return errors.Is(err, ErrNoImages) || errors.Is(err, ErrInsufficientValid) || errors.As(err, &short)
}
