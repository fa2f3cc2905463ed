package automation

import (
	"strings"
	"time"

	"pbix-converter/src/poll"
)

// awaitDialog polls for a visible transient dialog matching one of the known
// exact titles, falling back to a looser substring match. It is the
// confirmation oracle between trigger strategies: absence of a dialog is a
// normal negative outcome, never an error.
func (e *Engine) awaitDialog(timeout time.Duration) bool {
	return poll.True(e.cfg.DialogPollInterval, timeout, func() bool {
		wins, err := e.deps.Windows.List()
		if err != nil {
			return false
		}
		for _, w := range wins {
			if !w.Visible {
				continue
			}
			if e.isDialogTitle(w.Title) {
				return true
			}
		}
		return false
	})
}

// awaitDialogByMarker watches for any visible window whose title carries the
// given substring. Used for the don't-save prompt during graceful close.
func (e *Engine) awaitDialogByMarker(marker string, timeout time.Duration) bool {
	return poll.True(e.cfg.DialogPollInterval, timeout, func() bool {
		wins, err := e.deps.Windows.List()
		if err != nil {
			return false
		}
		for _, w := range wins {
			if w.Visible && containsFold(w.Title, marker) {
				return true
			}
		}
		return false
	})
}

func (e *Engine) isDialogTitle(title string) bool {
	for _, exact := range e.cfg.DialogTitles {
		if strings.EqualFold(title, exact) {
			return true
		}
	}
	return e.cfg.DialogTitleHint != "" && containsFold(title, e.cfg.DialogTitleHint)
}
