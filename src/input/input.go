// Package input wraps simulated keyboard input behind a capability
// interface. Simulated events land in whichever window holds focus, so while
// an automation run is active nothing else in the session may generate
// input; the engine documents but cannot enforce this.
package input

import (
	"github.com/go-vgo/robotgo"
)

// Source is the simulated-input capability.
type Source interface {
	// Tap presses and releases a single key ("enter", "down", "f4", ...).
	Tap(key string) error

	// Chord presses key while holding the given modifiers ("ctrl", "alt",
	// "shift").
	Chord(key string, modifiers ...string) error

	// TypeText types literal text character by character. Unsuitable for
	// arbitrary filesystem paths; use the clipboard transfer for those.
	TypeText(text string) error

	// Paste issues the platform paste chord.
	Paste() error
}

type robot struct{}

// New returns a robotgo-backed input source.
func New() Source { return robot{} }

func (robot) Tap(key string) error {
	return robotgo.KeyTap(key)
}

func (robot) Chord(key string, modifiers ...string) error {
	args := make([]interface{}, len(modifiers))
	for i, m := range modifiers {
		args[i] = m
	}
	return robotgo.KeyTap(key, args...)
}

func (robot) TypeText(text string) error {
	robotgo.TypeStr(text)
	return nil
}

func (robot) Paste() error {
	return robotgo.KeyTap("v", "ctrl")
}
