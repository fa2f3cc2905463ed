package automation

import (
	"log"
	"time"
)

// triggerStrategy is one way of opening the Save As dialog. Strategies are
// data: the cascade tries them in order and the dialog detector confirms
// each attempt, so adding or reordering one is a slice edit.
type triggerStrategy struct {
	name    string
	attempt func(e *Engine) error
}

func (e *Engine) triggerStrategies() []triggerStrategy {
	return []triggerStrategy{
		{
			// Direct keyboard shortcut.
			name: "ctrl+shift+s shortcut",
			attempt: func(e *Engine) error {
				return e.deps.Input.Chord("s", "ctrl", "shift")
			},
		},
		{
			// File menu, then the Save As accelerator.
			name: "file menu accelerator",
			attempt: func(e *Engine) error {
				if err := e.deps.Input.Chord("f", "alt"); err != nil {
					return err
				}
				time.Sleep(e.cfg.MenuSettleDelay)
				return e.deps.Input.Tap("a")
			},
		},
		{
			// File menu, then descend by arrow keys past Save to Save As.
			name: "file menu arrow navigation",
			attempt: func(e *Engine) error {
				if err := e.deps.Input.Chord("f", "alt"); err != nil {
					return err
				}
				time.Sleep(e.cfg.MenuSettleDelay)
				for i := 0; i < 3; i++ {
					if err := e.deps.Input.Tap("down"); err != nil {
						return err
					}
				}
				return e.deps.Input.Tap("enter")
			},
		},
	}
}

// triggerSaveDialog cascades through the ordered strategies until the dialog
// detector confirms one. Exhausting the cascade is the expected boundary
// condition for menu-layout drift across application versions and surfaces
// as TriggerFailed rather than retrying indefinitely.
func (e *Engine) triggerSaveDialog() error {
	strategies := e.triggerStrategies()
	for i, s := range strategies {
		log.Printf("Trigger strategy: %s", s.name)
		if err := s.attempt(e); err != nil {
			log.Printf("Trigger strategy %q could not send input: %v", s.name, err)
			continue
		}
		// While fallbacks remain, confirm with the short budget; the last
		// strategy gets the full dialog budget.
		budget := e.cfg.TriggerConfirmTimeout
		if i == len(strategies)-1 {
			budget = e.cfg.DialogTimeout
		}
		if e.awaitDialog(budget) {
			log.Printf("Save As dialog confirmed via %s", s.name)
			return nil
		}
		log.Printf("No dialog after %s, falling back", s.name)
	}
	return failf(KindTriggerFailed,
		"could not open the Save As dialog: none of %d trigger strategies was confirmed", len(strategies))
}
