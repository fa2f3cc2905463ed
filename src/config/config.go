package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvPointerVar names an environment variable that may point at an
	// alternative config file when no .env sits next to the executable.
	EnvPointerVar = "PBIX_CONVERTER_ENV"

	DefaultOutputFolderName = "pbip_output"
	DefaultAbortHotkey      = "ctrl+alt+x"
)

type LoadOptions struct {
	AbortHotkeyOverride  string
	OutputFolderOverride string
}

type Config struct {
	// InstallPaths overrides the built-in executable search list when set.
	InstallPaths []string

	OutputFolderName string

	StartupTimeoutSec int
	DialogTimeoutSec  int
	SaveTimeoutSec    int

	EnableFileLogging  bool
	FailureScreenshots bool
	AbortHotkey        string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use PBIX_CONVERTER_ENV as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	// Parse install-path overrides from a semicolon-separated string
	// (Windows paths carry drive colons, so semicolons are the separator).
	var installPaths []string
	if pathsStr := os.Getenv("PBI_INSTALL_PATHS"); pathsStr != "" {
		for _, p := range strings.Split(pathsStr, ";") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				installPaths = append(installPaths, trimmed)
			}
		}
	}

	cfg := &Config{
		InstallPaths:       installPaths,
		OutputFolderName:   resolveOutputFolder(opts),
		StartupTimeoutSec:  intEnvWithDefault("STARTUP_TIMEOUT_SEC", 120),
		DialogTimeoutSec:   intEnvWithDefault("DIALOG_TIMEOUT_SEC", 30),
		SaveTimeoutSec:     intEnvWithDefault("SAVE_TIMEOUT_SEC", 60),
		EnableFileLogging:  strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		FailureScreenshots: strings.ToLower(os.Getenv("FAILURE_SCREENSHOTS")) != "false",
		AbortHotkey:        resolveAbortHotkey(opts),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvPointerVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveOutputFolder(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.OutputFolderOverride); override != "" {
		return override
	}
	return getEnvWithDefault("OUTPUT_FOLDER_NAME", DefaultOutputFolderName)
}

func resolveAbortHotkey(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.AbortHotkeyOverride); override != "" {
		return override
	}
	return getEnvWithDefault("ABORT_HOTKEY", DefaultAbortHotkey)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnvWithDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
