// Package abort arms a global emergency hotkey during automation runs. The
// protocol forbids the user touching mouse or keyboard, so the hotkey is the
// one sanctioned escape hatch: it force-kills the application under
// automation, which is always safe and idempotent.
package abort

import (
	"log"
	"strings"

	hook "github.com/robotn/gohook"
)

// Arm starts a background listener for the configured hotkey (e.g.
// "ctrl+alt+x") and invokes stop each time it fires. Call Disarm to stop
// listening.
func Arm(hotkey string, stop func()) {
	keys := parseHotkey(hotkey)
	if len(keys) == 0 {
		log.Printf("Abort hotkey %q could not be parsed, abort key disabled", hotkey)
		return
	}
	log.Printf("Abort hotkey armed: %s", hotkey)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in abort hotkey goroutine: %v", r)
			}
		}()

		hook.Register(hook.KeyDown, keys, func(e hook.Event) {
			log.Printf("Abort hotkey pressed")
			stop()
		})
		s := hook.Start()
		<-hook.Process(s)
	}()
}

// Disarm stops the global listener.
func Disarm() {
	hook.End()
}

// parseHotkey splits "ctrl+alt+x" into the key names gohook expects, the
// plain key last. Returns nil when no non-modifier key is present.
func parseHotkey(hotkey string) []string {
	var modifiers []string
	var key string

	for _, part := range strings.Split(hotkey, "+") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		switch name {
		case "ctrl", "control":
			modifiers = append(modifiers, "ctrl")
		case "alt":
			modifiers = append(modifiers, "alt")
		case "shift":
			modifiers = append(modifiers, "shift")
		case "cmd", "win", "super":
			modifiers = append(modifiers, "cmd")
		default:
			key = name
		}
	}

	if key == "" {
		return nil
	}
	return append([]string{key}, modifiers...)
}
