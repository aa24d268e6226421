// Package capture grabs screen pixels and persists them as lossless frames.
//
// The Capturer interface hides the OS capture call so the sequencer and the
// screenshot command can run against deterministic fakes. The Screen adapter
// guarantees that a returned Frame has exactly the requested dimensions and
// no row padding, whatever the native capture returned.
package capture

import (
	"fmt"

	"github.com/pagegrab/pagegrab/internal/model"
)

// Frame is one captured pixel buffer: tightly packed RGBA rows, no stride
// padding. Immutable after creation.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
	Format string // pixel format, always "rgba"
}

// Capturer produces frames from the screen.
type Capturer interface {
	// Capture grabs the given pixel rectangle. A nil region captures the
	// entire primary display. The returned frame's dimensions equal the
	// region's exactly.
	Capture(region *model.Region) (*Frame, error)
}

// CaptureError reports that the OS declined to produce pixels, typically a
// missing screen-recording grant. Fatal; never retried.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture: %v", e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }
