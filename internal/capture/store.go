package capture

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Store persists frames as lossless PNG files in a single directory.
//
// Filenames embed both a zero-padded counter and a millisecond timestamp
// (page-0001-20060102-150405.000.png), so acquisition order is recoverable
// from either lexicographic order or file naming alone, independent of
// directory listing order or filesystem timestamps.
type Store struct {
	dir  string
	next int
	now  func() time.Time
}

// NewStore creates a frame store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("frame store: %w", err)
	}
	return &Store{dir: dir, next: 1, now: time.Now}, nil
}

// Save writes the frame durably and returns the path it was written to.
// The write is synced to disk before Save returns.
func (s *Store) Save(f *Frame) (string, error) {
	name := fmt.Sprintf("page-%04d-%s.png", s.next, s.now().Format("20060102-150405.000"))
	path := filepath.Join(s.dir, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("frame store: %w", err)
	}

	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(file, f.RGBA()); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("frame store: encode %s: %w", name, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return "", fmt.Errorf("frame store: sync %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("frame store: close %s: %w", name, err)
	}

	s.next++
	return path, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string { return s.dir }
