package automation

import (
	"log"
	"path/filepath"
	"time"

	"pbix-converter/src/winsys"
)

// saveAsProject walks the Save As dialog end to end: focus the main window,
// open the dialog through the trigger cascade, populate the filename field,
// select the project format, issue the save, and block until filesystem
// evidence appears. Every externally-observable wait is bounded.
func (e *Engine) saveAsProject(win winsys.Window, req Request, snap artifactSnapshot) error {
	if err := e.deps.Windows.SetForeground(win); err != nil {
		// Focus is best effort: the freshly launched instance usually owns
		// the foreground already.
		log.Printf("Could not bring main window to foreground: %v", err)
	}
	time.Sleep(e.cfg.FocusSettleDelay)

	if err := e.triggerSaveDialog(); err != nil {
		return err
	}

	if err := e.populateFilename(req); err != nil {
		return err
	}

	if err := e.selectProjectType(); err != nil {
		return err
	}

	if err := e.deps.Input.Chord("s", "alt"); err != nil {
		return &Failure{Kind: KindUnexpected, Msg: "failed to issue save", Err: err}
	}
	log.Printf("Save issued, watching %s for artifacts", req.OutputDir)

	return e.awaitArtifacts(req.OutputDir, req.ProjectName, snap)
}

// populateFilename focuses the filename field, clears it, and injects the
// fully-qualified output path through the clipboard transfer.
func (e *Engine) populateFilename(req Request) error {
	if err := e.deps.Input.Chord("n", "alt"); err != nil {
		return &Failure{Kind: KindFieldPopulation, Msg: "failed to focus filename field", Err: err}
	}
	time.Sleep(e.cfg.FieldSettleDelay)

	if err := e.deps.Input.Chord("a", "ctrl"); err != nil {
		return &Failure{Kind: KindFieldPopulation, Msg: "failed to select field contents", Err: err}
	}

	target := filepath.Join(req.OutputDir, req.ProjectName)
	if err := e.injectPath(target); err != nil {
		return err
	}
	log.Printf("Filename field populated with %s", target)
	time.Sleep(e.cfg.FieldSettleDelay)
	return nil
}

// selectProjectType opens the file-type selector and lands on the project
// format: jump to the top of the list, step down a fixed offset, then type
// the format's first letter a few times to disambiguate same-initial
// entries, and confirm.
func (e *Engine) selectProjectType() error {
	if err := e.deps.Input.Chord("t", "alt"); err != nil {
		return &Failure{Kind: KindUnexpected, Msg: "failed to open file-type selector", Err: err}
	}
	time.Sleep(e.cfg.FieldSettleDelay)

	if err := e.deps.Input.Tap("home"); err != nil {
		return &Failure{Kind: KindUnexpected, Msg: "failed to navigate file-type list", Err: err}
	}
	for i := 0; i < e.cfg.TypeListSteps; i++ {
		if err := e.deps.Input.Tap("down"); err != nil {
			return &Failure{Kind: KindUnexpected, Msg: "failed to navigate file-type list", Err: err}
		}
	}
	for i := 0; i < e.cfg.TypePrefixRepeat; i++ {
		if err := e.deps.Input.Tap(e.cfg.TypePrefixKey); err != nil {
			return &Failure{Kind: KindUnexpected, Msg: "failed to navigate file-type list", Err: err}
		}
	}
	if err := e.deps.Input.Tap("enter"); err != nil {
		return &Failure{Kind: KindUnexpected, Msg: "failed to confirm file type", Err: err}
	}
	time.Sleep(e.cfg.FieldSettleDelay)
	return nil
}
