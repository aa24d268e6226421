package capture

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/pagegrab/pagegrab/internal/model"
)

// paddedRGBA builds an image whose Stride exceeds 4*width and whose bounds
// do not start at the origin, the two artifacts normalize must strip.
func paddedRGBA(t *testing.T, w, h, pad int) *image.RGBA {
	t.Helper()
	stride := 4*w + pad
	img := &image.RGBA{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   image.Rect(0, 0, w, h),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(x, y)
			img.Pix[off] = byte(x % 256)
			img.Pix[off+1] = byte(y % 256)
			img.Pix[off+2] = 0x7f
			img.Pix[off+3] = 0xff
		}
	}
	return img
}

func TestNormalize_StripsRowPadding(t *testing.T) {
	img := paddedRGBA(t, 200, 300, 64)

	f := normalize(img)
	if f.Width != 200 || f.Height != 300 {
		t.Fatalf("expected 200x300, got %dx%d", f.Width, f.Height)
	}
	if len(f.Pix) != 4*200*300 {
		t.Fatalf("expected tightly packed buffer of %d bytes, got %d", 4*200*300, len(f.Pix))
	}
	// Spot-check a pixel away from the origin survives the repack.
	x, y := 150, 250
	off := 4 * (y*200 + x)
	if f.Pix[off] != byte(x%256) || f.Pix[off+1] != byte(y%256) {
		t.Fatalf("pixel (%d,%d) corrupted by normalization", x, y)
	}
}

func TestNormalize_SubImageBounds(t *testing.T) {
	base := paddedRGBA(t, 100, 100, 0)
	sub := base.SubImage(image.Rect(10, 20, 60, 90)).(*image.RGBA)

	f := normalize(sub)
	if f.Width != 50 || f.Height != 70 {
		t.Fatalf("expected 50x70, got %dx%d", f.Width, f.Height)
	}
	// (0,0) of the frame must be (10,20) of the base image.
	if f.Pix[0] != 10 || f.Pix[1] != 20 {
		t.Fatalf("frame origin does not map to sub-image origin: got (%d,%d)", f.Pix[0], f.Pix[1])
	}
}

func TestConform_ResamplesOversizedCapture(t *testing.T) {
	// A display at 2x scale returns four pixels for every logical one.
	img := paddedRGBA(t, 400, 600, 0)
	region := &model.Region{X: 0, Y: 0, Width: 200, Height: 300}

	f := conform(img, region)
	if f.Width != 200 || f.Height != 300 {
		t.Fatalf("expected frame pinned to 200x300, got %dx%d", f.Width, f.Height)
	}
	if len(f.Pix) != 4*200*300 {
		t.Fatalf("expected tightly packed buffer of %d bytes, got %d", 4*200*300, len(f.Pix))
	}
}

func TestConform_ExactCaptureUntouched(t *testing.T) {
	img := paddedRGBA(t, 200, 300, 32)
	region := &model.Region{X: 0, Y: 0, Width: 200, Height: 300}

	f := conform(img, region)
	if f.Width != 200 || f.Height != 300 {
		t.Fatalf("expected 200x300, got %dx%d", f.Width, f.Height)
	}
	// A matching capture passes through normalization only; pixels survive.
	x, y := 150, 250
	off := 4 * (y*200 + x)
	if f.Pix[off] != byte(x%256) || f.Pix[off+1] != byte(y%256) {
		t.Fatalf("pixel (%d,%d) altered for an exact-size capture", x, y)
	}
}

func TestConform_FullDisplayKeepsNativeSize(t *testing.T) {
	img := paddedRGBA(t, 120, 90, 0)
	f := conform(img, nil)
	if f.Width != 120 || f.Height != 90 {
		t.Fatalf("expected native 120x90, got %dx%d", f.Width, f.Height)
	}
}

func solidFrame(w, h int) *Frame {
	f := &Frame{Pix: make([]byte, 4*w*h), Width: w, Height: h, Format: "rgba"}
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i] = 0x10
		f.Pix[i+3] = 0xff
	}
	return f
}

func TestStore_SaveRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	path, err := s.Save(solidFrame(80, 120))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open saved frame: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode saved frame: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 80 || b.Dy() != 120 {
		t.Fatalf("expected 80x120, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestStore_NamesRecoverAcquisitionOrder(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	// Fixed clock: even identical timestamps must not collide, the counter
	// disambiguates.
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	var saved []string
	for i := 0; i < 3; i++ {
		p, err := s.Save(solidFrame(10, 10))
		if err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		saved = append(saved, filepath.Base(p))
	}

	lex := append([]string(nil), saved...)
	sort.Strings(lex)
	for i := range saved {
		if saved[i] != lex[i] {
			t.Fatalf("lexicographic order %v does not match acquisition order %v", lex, saved)
		}
	}
}
