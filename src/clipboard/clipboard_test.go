package clipboard

import (
	"testing"
)

func TestWriteRead(t *testing.T) {
	// Clipboard access needs a display server; tolerate its absence so the
	// suite stays green on headless CI.
	if err := Write("test text"); err != nil {
		t.Skipf("Clipboard not available in this environment: %v", err)
	}
	got, err := Read()
	if err != nil {
		t.Fatalf("Failed to read clipboard: %v", err)
	}
	if got != "test text" {
		t.Errorf("Expected clipboard to hold 'test text', got %q", got)
	}
}
