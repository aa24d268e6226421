package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
	xdraw "golang.org/x/image/draw"

	"github.com/pagegrab/pagegrab/internal/model"
)

// Screen captures pixels from the primary display via the OS.
type Screen struct{}

// NewScreen creates the OS-backed capturer.
func NewScreen() *Screen {
	return &Screen{}
}

// Capture grabs the requested rectangle, or the whole primary display when
// region is nil.
func (s *Screen) Capture(region *model.Region) (*Frame, error) {
	var rect image.Rectangle
	if region == nil {
		if screenshot.NumActiveDisplays() == 0 {
			return nil, &CaptureError{Err: fmt.Errorf("no active displays")}
		}
		rect = screenshot.GetDisplayBounds(0)
	} else {
		if err := region.Validate(); err != nil {
			return nil, &CaptureError{Err: err}
		}
		rect = image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	}

	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, &CaptureError{Err: err}
	}
	return conform(img, region), nil
}

// conform repacks a raw capture and, for region captures, pins the frame to
// the requested dimensions. HiDPI displays hand back more pixels than the
// logical rectangle asked for; those are resampled down so callers always
// get exactly the size they requested.
func conform(img *image.RGBA, region *model.Region) *Frame {
	f := normalize(img)
	if region == nil || (f.Width == region.Width && f.Height == region.Height) {
		return f
	}
	dst := image.NewRGBA(image.Rect(0, 0, region.Width, region.Height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), f.RGBA(), f.RGBA().Bounds(), xdraw.Src, nil)
	return normalize(dst)
}

// normalize repacks an RGBA image into a tightly packed frame, stripping any
// row stride padding and non-origin bounds so consumers never observe them.
func normalize(img *image.RGBA) *Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	f := &Frame{
		Pix:    make([]byte, 4*w*h),
		Width:  w,
		Height: h,
		Format: "rgba",
	}
	for y := 0; y < h; y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(f.Pix[4*w*y:4*w*(y+1)], img.Pix[src:src+4*w])
	}
	return f
}

// RGBA returns the frame as a stdlib image sharing the frame's pixel buffer.
func (f *Frame) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: 4 * f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
