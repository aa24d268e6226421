// Package input synthesizes mouse and keyboard events against the OS.
//
// Every operation is a complete down+up pair with a short settle interval in
// between, so the target application registers a discrete press rather than a
// stuck key or button. Failures mean the OS refused to post the event, which
// almost always indicates a revoked accessibility grant; callers treat them
// as fatal.
package input

import (
	"fmt"

	"github.com/pagegrab/pagegrab/internal/model"
)

// Key names accepted by PressKey. These follow robotgo's naming; the advance
// key used by the sequencer defaults to KeyRight.
const (
	KeyRight  = "right"
	KeyLeft   = "left"
	KeyUp     = "up"
	KeyDown   = "down"
	KeyEnter  = "enter"
	KeySpace  = "space"
	KeyEscape = "esc"
	KeyPageUp = "pageup"
	KeyPageDn = "pagedown"
)

// Input posts synthesized pointer and keyboard events.
// Implementations exist for the real OS (Robot) and for tests.
type Input interface {
	// Click moves the pointer to p and issues a left-button down+up pair.
	Click(p model.Point) error

	// PressKey issues a down+up pair for the named key.
	PressKey(key string) error
}

// Error reports a failed event synthesis. Non-retryable: the usual cause is
// a permission revoked mid-run, and re-posting would only desync the page
// protocol.
type Error struct {
	Kind string // "click" or "key"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("input: %s event failed: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
