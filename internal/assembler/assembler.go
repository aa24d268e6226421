// Package assembler turns a directory of captured page images into a single
// PDF without touching the pixel data.
//
// Each page is sized to the image's native dimensions at a fixed
// pixels-per-inch ratio and the encoded image bytes are embedded as-is —
// JPEG DCT data and PNG pixel data pass through without recompression or
// resampling. Only container framing is added.
package assembler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"time"

	// Dimension probing for the two formats gopdf can embed.
	_ "image/jpeg"
	_ "image/png"

	"github.com/signintech/gopdf"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pagegrab/pagegrab/internal/model"
	pgotel "github.com/pagegrab/pagegrab/internal/otel"
)

var tracer = otel.Tracer("pagegrab")

// DefaultDPI is the pixels-per-inch ratio mapping image pixels to PDF points
// (72 points per inch). At 150 DPI an 800x1000 capture becomes a 384x480 pt
// page; the embedded pixels are untouched either way.
const DefaultDPI = 150.0

// Options configures one assembly run.
type Options struct {
	// Dir is the directory holding captured images.
	Dir string
	// Pattern is the filename glob matched inside Dir (e.g. "*.jpeg").
	Pattern string
	// Sort is the policy resolving the page order.
	Sort model.SortPolicy
	// OutputPath is the destination PDF. Written atomically; an existing
	// file is replaced, never partially overwritten.
	OutputPath string
	// DPI is the pixels-per-inch page sizing ratio. Zero means DefaultDPI.
	DPI float64
}

// Report describes a successful assembly.
type Report struct {
	PageCount  int
	OutputPath string
}

// Assembler builds documents from captured images.
type Assembler struct {
	// Metrics are OTEL counters; nil-safe.
	Metrics *pgotel.Metrics
}

// imageFile pairs a matched path with the timestamp the sort policies use.
type imageFile struct {
	path    string
	modTime time.Time
}

// Assemble enumerates, orders, and embeds the matched images, writing the
// document atomically. On any failure no output file is produced and the
// destination is left untouched.
func (a *Assembler) Assemble(ctx context.Context, opts Options) (Report, error) {
	ctx, span := tracer.Start(ctx, "assemble",
		trace.WithAttributes(
			attribute.String("assembly.pattern", opts.Pattern),
			attribute.String("assembly.sort", string(opts.Sort)),
		))
	defer span.End()

	start := time.Now()

	files, err := matchFiles(opts.Dir, opts.Pattern)
	if err != nil {
		a.Metrics.RecordAssemblyFailure(ctx)
		return Report{}, err
	}
	sortFiles(files, opts.Sort)

	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{Unit: gopdf.UnitPT, PageSize: *gopdf.PageSizeA4})

	for _, f := range files {
		if err := appendPage(pdf, f.path, dpi); err != nil {
			a.Metrics.RecordAssemblyFailure(ctx)
			return Report{}, err
		}
	}

	if err := writeAtomic(pdf, opts.OutputPath); err != nil {
		a.Metrics.RecordAssemblyFailure(ctx)
		return Report{}, err
	}

	report := Report{PageCount: len(files), OutputPath: opts.OutputPath}
	span.SetAttributes(attribute.Int("assembly.pages", report.PageCount))
	a.Metrics.RecordAssembly(ctx, report.PageCount, time.Since(start).Milliseconds())
	return report, nil
}

// matchFiles globs pattern inside dir, keeping regular files only.
func matchFiles(dir, pattern string) ([]imageFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("assembler: bad pattern %q: %w", pattern, err)
	}

	var files []imageFile
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, fmt.Errorf("assembler: stat %s: %w", m, err)
		}
		if info.IsDir() {
			continue
		}
		files = append(files, imageFile{path: m, modTime: info.ModTime()})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w (%s in %s)", ErrEmptyInput, pattern, dir)
	}
	return files, nil
}

// sortFiles applies the policy. Time policies break ties by filename
// ascending so the order stays deterministic.
func sortFiles(files []imageFile, policy model.SortPolicy) {
	switch policy {
	case model.SortByTimeAsc:
		sort.Slice(files, func(i, j int) bool {
			if files[i].modTime.Equal(files[j].modTime) {
				return filepath.Base(files[i].path) < filepath.Base(files[j].path)
			}
			return files[i].modTime.Before(files[j].modTime)
		})
	case model.SortByTimeDesc:
		sort.Slice(files, func(i, j int) bool {
			if files[i].modTime.Equal(files[j].modTime) {
				return filepath.Base(files[i].path) < filepath.Base(files[j].path)
			}
			return files[i].modTime.After(files[j].modTime)
		})
	default: // SortByName
		sort.Slice(files, func(i, j int) bool {
			return filepath.Base(files[i].path) < filepath.Base(files[j].path)
		})
	}
}

// appendPage adds one page sized to the image's native dimensions and embeds
// the encoded bytes unmodified.
func appendPage(pdf *gopdf.GoPdf, path string, dpi float64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("assembler: read %s: %w", path, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return &UnsupportedFormatError{Path: path, Err: err}
	}

	w := float64(cfg.Width) * 72.0 / dpi
	h := float64(cfg.Height) * 72.0 / dpi
	pdf.AddPageWithOption(gopdf.PageOption{PageSize: &gopdf.Rect{W: w, H: h}})

	holder, err := gopdf.ImageHolderByBytes(data)
	if err != nil {
		return &UnsupportedFormatError{Path: path, Err: err}
	}
	if err := pdf.ImageByHolder(holder, 0, 0, &gopdf.Rect{W: w, H: h}); err != nil {
		return &UnsupportedFormatError{Path: path, Err: err}
	}
	return nil
}

// writeAtomic stages the document next to the destination and renames it
// into place, so a failure never leaves a partial file at the output path.
func writeAtomic(pdf *gopdf.GoPdf, outputPath string) error {
	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, ".pagegrab-*.pdf")
	if err != nil {
		return fmt.Errorf("assembler: stage output: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := pdf.WritePdf(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("assembler: write document: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("assembler: move into place: %w", err)
	}
	return nil
}
