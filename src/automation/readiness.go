package automation

import (
	"errors"
	"log"
	"time"

	"pbix-converter/src/poll"
	"pbix-converter/src/winsys"
)

// awaitReady polls for a visible top-level window whose title carries both
// the file's base name and the product marker. Window references are
// re-resolved on every cycle; lookup failures count as "not yet ready", only
// the timeout is a hard failure. On the first visible match a settle delay
// absorbs post-load rendering.
func (e *Engine) awaitReady(baseName string) (winsys.Window, error) {
	start := time.Now()
	var found winsys.Window

	err := poll.Until(e.cfg.ReadyPollInterval, e.cfg.StartupTimeout, func() (bool, error) {
		wins, err := e.deps.Windows.List()
		if err != nil {
			log.Printf("Window enumeration failed, treating as not ready: %v", err)
			return false, nil
		}
		for _, w := range wins {
			if w.Visible && containsFold(w.Title, baseName) && containsFold(w.Title, e.cfg.ProductMarker) {
				found = w
				return true, nil
			}
		}
		return false, nil
	})
	if errors.Is(err, poll.ErrTimeout) {
		return winsys.Window{}, failf(KindReadinessTimeout,
			"timed out waiting for %s to load %q (waited %s)",
			e.cfg.ProductMarker, baseName, time.Since(start).Round(time.Second))
	}
	if err != nil {
		return winsys.Window{}, &Failure{Kind: KindUnexpected, Msg: "readiness poll aborted", Err: err}
	}

	log.Printf("Main window ready after %s: %q", time.Since(start).Round(time.Second), found.Title)
	time.Sleep(e.cfg.ReadySettleDelay)
	return found, nil
}
