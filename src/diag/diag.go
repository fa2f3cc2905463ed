// Package diag captures post-mortem evidence when a conversion fails. UI
// automation failures are rarely reproducible, so a screenshot of the moment
// of failure is often the only way to see which dialog the protocol was
// actually looking at.
package diag

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/kbinani/screenshot"
)

// CaptureFailure writes a PNG of the primary display into dir and returns
// the file path. Best effort: callers log, not propagate, its errors.
func CaptureFailure(dir, name string) (string, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return "", fmt.Errorf("no active displays")
	}

	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
	if err != nil {
		return "", fmt.Errorf("failed to capture display: %w", err)
	}

	path := filepath.Join(dir, name+"_failure.png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return path, nil
}
