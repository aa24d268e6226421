// Package model holds the shared value types of the capture pipeline:
// screen coordinates, capture regions, and the sort policies the assembler
// understands. Everything here is a plain immutable value.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a screen coordinate in pixel space, used for synthesized clicks.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns the "x,y" form accepted by ParsePoint.
func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Region is a capture rectangle in pixel coordinates (not display points).
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate reports whether the region has positive dimensions.
func (r Region) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("region %dx%d: width and height must be positive", r.Width, r.Height)
	}
	return nil
}

// String returns the "x,y,w,h" form accepted by ParseRegion.
func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// ParsePoint parses "x,y" into a Point.
func ParsePoint(s string) (Point, error) {
	parts, err := splitInts(s, 2)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return Point{X: parts[0], Y: parts[1]}, nil
}

// ParseRegion parses "x,y,width,height" into a Region with positive dimensions.
func ParseRegion(s string) (Region, error) {
	parts, err := splitInts(s, 4)
	if err != nil {
		return Region{}, fmt.Errorf("invalid region %q: %w", s, err)
	}
	r := Region{X: parts[0], Y: parts[1], Width: parts[2], Height: parts[3]}
	if err := r.Validate(); err != nil {
		return Region{}, err
	}
	return r, nil
}

func splitInts(s string, n int) ([]int, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d comma-separated integers, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("value %q is not an integer", strings.TrimSpace(f))
		}
		out[i] = v
	}
	return out, nil
}

// SortPolicy determines the page order the assembler derives from a set of
// image files.
type SortPolicy string

const (
	// SortByName orders by full filename, lexicographic ascending.
	SortByName SortPolicy = "by-name"
	// SortByTimeAsc orders by file modification time, oldest first.
	SortByTimeAsc SortPolicy = "by-time-ascending"
	// SortByTimeDesc orders by file modification time, newest first.
	SortByTimeDesc SortPolicy = "by-time-descending"
)

// ParseSortPolicy accepts both the canonical policy names and the short CLI
// spellings (name, time, time-desc).
func ParseSortPolicy(s string) (SortPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", string(SortByName):
		return SortByName, nil
	case "time", string(SortByTimeAsc):
		return SortByTimeAsc, nil
	case "time-desc", string(SortByTimeDesc):
		return SortByTimeDesc, nil
	default:
		return "", fmt.Errorf("unknown sort policy %q (supported: name, time, time-desc)", s)
	}
}
