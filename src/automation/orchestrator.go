package automation

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"pbix-converter/src/winsys"
)

// Convert runs the end-to-end single-file conversion protocol. It never
// panics and never launches a second instance next to a running one; once
// the external process has been launched, teardown is guaranteed on every
// exit path, including faults raised mid-protocol.
func (e *Engine) Convert(req Request) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Conversion panicked: %v", r)
			out = Outcome{Success: false, Message: fmt.Sprintf("unexpected fault during conversion: %v", r)}
		}
	}()

	exePath, found := e.Locate()
	if !found {
		return Outcome{
			Success: false,
			Message: "Power BI Desktop not found. Please ensure it is installed (https://powerbi.microsoft.com/desktop/).",
		}
	}

	// A running instance may hold unrelated unsaved work, so refuse rather
	// than kill it.
	if e.IsRunning() {
		return Outcome{
			Success: false,
			Message: "Power BI Desktop is already running. Please close it before starting the conversion.",
		}
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return Outcome{
			Success: false,
			Message: fmt.Sprintf("cannot create output directory %s: %v", req.OutputDir, err),
		}
	}

	snap := e.snapshotArtifacts(req.OutputDir, req.ProjectName)

	handle, err := e.Launch(exePath, req.SourcePath)
	if err != nil {
		return e.failureOutcome(req, err)
	}
	defer func() {
		// Guaranteed teardown: kill by name first (the app may have
		// re-spawned under its own process tree), then release the handle.
		e.KillAll()
		handle.Release()
		log.Printf("Teardown complete for %s", req.SourcePath)
	}()

	win, err := e.awaitReady(req.baseName())
	if err != nil {
		return e.failureOutcome(req, err)
	}

	if err := e.saveAsProject(win, req, snap); err != nil {
		return e.failureOutcome(req, err)
	}

	return Outcome{Success: true, Message: fmt.Sprintf("successfully saved to %s", req.OutputDir)}
}

func (e *Engine) failureOutcome(req Request, err error) Outcome {
	var f *Failure
	if !errors.As(err, &f) {
		f = &Failure{Kind: KindUnexpected, Msg: "conversion failed", Err: err}
	}
	log.Printf("Conversion of %s failed (%s): %s", req.SourcePath, f.Kind, f.Error())
	if e.OnFailure != nil {
		e.OnFailure(req, f.Error())
	}
	return Outcome{Success: false, Message: f.Error()}
}

// CloseGracefully asks a running instance to close itself: foreground, the
// platform close chord, a bounded watch for the don't-save prompt, then a
// process-scan verification with forced kill as the fallback. Returns true
// once no instance is detected running.
func (e *Engine) CloseGracefully() bool {
	if win, ok := e.findMainWindow(); ok {
		if err := e.deps.Windows.SetForeground(win); err != nil {
			log.Printf("Could not focus window for graceful close: %v", err)
		}
	}

	if err := e.deps.Input.Chord("f4", "alt"); err != nil {
		log.Printf("Could not send close chord: %v", err)
		return e.KillAll() || !e.IsRunning()
	}
	time.Sleep(e.cfg.CloseSettleDelay)

	// A "do you want to save?" prompt may block the close. Decline it.
	if e.awaitDialogByMarker(e.cfg.ProductMarker, 3*e.cfg.DialogPollInterval) {
		_ = e.deps.Input.Tap("tab")
		_ = e.deps.Input.Tap("enter")
	}
	time.Sleep(e.cfg.CloseSettleDelay)

	if !e.IsRunning() {
		return true
	}
	return e.KillAll() || !e.IsRunning()
}

// findMainWindow resolves the current main application window, if any.
func (e *Engine) findMainWindow() (winsys.Window, bool) {
	wins, err := e.deps.Windows.List()
	if err != nil {
		return winsys.Window{}, false
	}
	for _, w := range wins {
		if w.Visible && containsFold(w.Title, e.cfg.ProductMarker) {
			return w, true
		}
	}
	return winsys.Window{}, false
}
