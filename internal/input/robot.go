package input

import (
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/pagegrab/pagegrab/internal/model"
)

// settleInterval separates the down and up phases of every synthesized event.
// Without it the target app may coalesce the pair into nothing.
const settleInterval = 50 * time.Millisecond

// Robot posts real OS events via robotgo.
type Robot struct{}

// NewRobot creates the OS-backed input port.
func NewRobot() *Robot {
	return &Robot{}
}

// Click moves the pointer to p, then issues left-button down and up with a
// settle interval between each phase, mirroring a human press.
func (r *Robot) Click(p model.Point) error {
	robotgo.Move(p.X, p.Y)
	time.Sleep(settleInterval)

	if err := robotgo.Toggle("left", "down"); err != nil {
		return &Error{Kind: "click", Err: err}
	}
	time.Sleep(settleInterval)

	if err := robotgo.Toggle("left", "up"); err != nil {
		return &Error{Kind: "click", Err: err}
	}
	time.Sleep(settleInterval)
	return nil
}

// PressKey issues a down+up pair for the named key.
func (r *Robot) PressKey(key string) error {
	if err := robotgo.KeyToggle(key, "down"); err != nil {
		return &Error{Kind: "key", Err: err}
	}
	time.Sleep(settleInterval)

	if err := robotgo.KeyToggle(key, "up"); err != nil {
		return &Error{Kind: "key", Err: err}
	}
	time.Sleep(settleInterval)
	return nil
}
