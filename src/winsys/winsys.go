// Package winsys exposes the OS window system behind a small capability
// interface so the automation engine can be unit-tested against fakes.
// Window references are transient: callers must re-enumerate on every poll
// because titles and existence change asynchronously with the inspected
// application's internal state.
package winsys

// Window is a non-owned snapshot of a top-level window at enumeration time.
type Window struct {
	Handle  uintptr
	Title   string
	Visible bool
}

// System is the window-inspection capability.
type System interface {
	// List returns all current top-level windows with a non-empty title.
	List() ([]Window, error)

	// SetForeground brings the window to the front so simulated input
	// reaches it.
	SetForeground(w Window) error
}

// New returns the platform window system.
func New() System { return newSystem() }
