package assembler

import (
	"errors"
	"fmt"
)

// ErrEmptyInput indicates the glob matched no files. No output is written.
var ErrEmptyInput = errors.New("assembler: no images matched pattern")

// UnsupportedFormatError indicates a matched file could not be parsed as a
// supported image. The whole assembly fails; a document with a silently
// dropped page would break the page-count invariant.
type UnsupportedFormatError struct {
	Path string
	Err  error
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("assembler: unsupported image %s: %v", e.Path, e.Err)
}

func (e *UnsupportedFormatError) Unwrap() error { return e.Err }
