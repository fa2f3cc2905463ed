package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Set test environment variables
	os.Setenv("STARTUP_TIMEOUT_SEC", "30")
	os.Setenv("SAVE_TIMEOUT_SEC", "15")
	os.Setenv("ENABLE_FILE_LOGGING", "true")
	os.Setenv("ABORT_HOTKEY", "ctrl+shift+q")

	defer func() {
		// Clean up environment variables
		os.Unsetenv("STARTUP_TIMEOUT_SEC")
		os.Unsetenv("SAVE_TIMEOUT_SEC")
		os.Unsetenv("ENABLE_FILE_LOGGING")
		os.Unsetenv("ABORT_HOTKEY")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.StartupTimeoutSec != 30 {
		t.Errorf("Expected StartupTimeoutSec to be 30, got %d", cfg.StartupTimeoutSec)
	}
	if cfg.SaveTimeoutSec != 15 {
		t.Errorf("Expected SaveTimeoutSec to be 15, got %d", cfg.SaveTimeoutSec)
	}
	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true, got %v", cfg.EnableFileLogging)
	}
	if cfg.AbortHotkey != "ctrl+shift+q" {
		t.Errorf("Expected AbortHotkey to be 'ctrl+shift+q', got '%s'", cfg.AbortHotkey)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"STARTUP_TIMEOUT_SEC", "DIALOG_TIMEOUT_SEC", "SAVE_TIMEOUT_SEC",
		"ENABLE_FILE_LOGGING", "FAILURE_SCREENSHOTS", "ABORT_HOTKEY",
		"OUTPUT_FOLDER_NAME", "PBI_INSTALL_PATHS",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.StartupTimeoutSec != 120 {
		t.Errorf("Expected default StartupTimeoutSec 120, got %d", cfg.StartupTimeoutSec)
	}
	if cfg.DialogTimeoutSec != 30 {
		t.Errorf("Expected default DialogTimeoutSec 30, got %d", cfg.DialogTimeoutSec)
	}
	if cfg.SaveTimeoutSec != 60 {
		t.Errorf("Expected default SaveTimeoutSec 60, got %d", cfg.SaveTimeoutSec)
	}
	if cfg.OutputFolderName != DefaultOutputFolderName {
		t.Errorf("Expected default output folder '%s', got '%s'", DefaultOutputFolderName, cfg.OutputFolderName)
	}
	if cfg.AbortHotkey != DefaultAbortHotkey {
		t.Errorf("Expected default abort hotkey '%s', got '%s'", DefaultAbortHotkey, cfg.AbortHotkey)
	}
	if !cfg.FailureScreenshots {
		t.Error("Expected failure screenshots to default to enabled")
	}
	if cfg.EnableFileLogging {
		t.Error("Expected file logging to default to disabled")
	}
	if len(cfg.InstallPaths) != 0 {
		t.Errorf("Expected no install-path overrides, got %v", cfg.InstallPaths)
	}
}

func TestLoadInstallPathOverrides(t *testing.T) {
	os.Setenv("PBI_INSTALL_PATHS", `C:\One\PBIDesktop.exe; C:\Two\PBIDesktop.exe ;`)
	defer os.Unsetenv("PBI_INSTALL_PATHS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	want := []string{`C:\One\PBIDesktop.exe`, `C:\Two\PBIDesktop.exe`}
	if len(cfg.InstallPaths) != len(want) {
		t.Fatalf("Expected %d install paths, got %v", len(want), cfg.InstallPaths)
	}
	for i, p := range want {
		if cfg.InstallPaths[i] != p {
			t.Errorf("InstallPaths[%d] = %q, want %q", i, cfg.InstallPaths[i], p)
		}
	}
}

func TestLoadWithOptionsOverrides(t *testing.T) {
	os.Setenv("ABORT_HOTKEY", "ctrl+shift+q")
	os.Setenv("OUTPUT_FOLDER_NAME", "env_output")
	defer func() {
		os.Unsetenv("ABORT_HOTKEY")
		os.Unsetenv("OUTPUT_FOLDER_NAME")
	}()

	cfg, err := LoadWithOptions(LoadOptions{
		AbortHotkeyOverride:  "alt+esc",
		OutputFolderOverride: "custom_output",
	})
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.AbortHotkey != "alt+esc" {
		t.Errorf("Expected option override to win, got '%s'", cfg.AbortHotkey)
	}
	if cfg.OutputFolderName != "custom_output" {
		t.Errorf("Expected option override to win, got '%s'", cfg.OutputFolderName)
	}
}
