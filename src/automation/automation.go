// Package automation drives Power BI Desktop through its interactive UI to
// convert a PBIX report to the PBIP project format. The application exposes
// no programmatic conversion path, so the engine launches it, waits for the
// main window, walks the Save As dialog with simulated keyboard input, and
// treats filesystem artifacts as the only completion signal.
package automation

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pbix-converter/src/input"
	"pbix-converter/src/procsys"
	"pbix-converter/src/winsys"
)

// Clipboard is the shared-clipboard capability used by the field injector.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// Config carries the protocol constants. It is immutable for the lifetime of
// an Engine; tests substitute shortened timeouts and zero settle delays.
type Config struct {
	// Executable discovery.
	InstallPaths []string
	ExeName      string

	// Process and window identification.
	ProcessName   string // case-insensitive substring of the process name
	ProductMarker string // substring of the main window title

	// Save As dialog identification.
	DialogTitles    []string // exact titles, matched case-insensitively
	DialogTitleHint string   // looser substring fallback

	// Output artifact naming.
	ProjectExtension    string
	ReportSuffix        string
	SemanticModelSuffix string

	// Timeout budgets.
	StartupTimeout        time.Duration
	DialogTimeout         time.Duration
	TriggerConfirmTimeout time.Duration
	SaveTimeout           time.Duration

	// Poll intervals.
	ReadyPollInterval  time.Duration
	DialogPollInterval time.Duration
	SavePollInterval   time.Duration

	// Settle delays absorbing UI latency after an action.
	ReadySettleDelay   time.Duration
	FocusSettleDelay   time.Duration
	MenuSettleDelay    time.Duration
	FieldSettleDelay   time.Duration
	PasteSettleDelay   time.Duration
	KillSettleDelay    time.Duration
	ArtifactGraceDelay time.Duration
	CloseSettleDelay   time.Duration

	// Save As file-type list navigation.
	TypeListSteps    int    // down presses after jumping to the top
	TypePrefixKey    string // distinguishing first letter of the entry
	TypePrefixRepeat int    // repeats to skip same-initial entries
}

// Default returns the production protocol constants.
func Default() Config {
	return Config{
		InstallPaths: []string{
			`C:\Program Files\Microsoft Power BI Desktop\bin\PBIDesktop.exe`,
			`C:\Program Files (x86)\Microsoft Power BI Desktop\bin\PBIDesktop.exe`,
			`${LOCALAPPDATA}\Microsoft\WindowsApps\PBIDesktopStore.exe`,
			`${LOCALAPPDATA}\Microsoft\WindowsApps\Microsoft.MicrosoftPowerBIDesktop_8wekyb3d8bbwe\PBIDesktop.exe`,
		},
		ExeName: "PBIDesktop.exe",

		ProcessName:   "pbidesktop",
		ProductMarker: "Power BI Desktop",

		DialogTitles:    []string{"Save As", "Save as"},
		DialogTitleHint: "Save",

		ProjectExtension:    ".pbip",
		ReportSuffix:        ".Report",
		SemanticModelSuffix: ".SemanticModel",

		StartupTimeout:        120 * time.Second,
		DialogTimeout:         30 * time.Second,
		TriggerConfirmTimeout: 10 * time.Second,
		SaveTimeout:           60 * time.Second,

		ReadyPollInterval:  2 * time.Second,
		DialogPollInterval: time.Second,
		SavePollInterval:   time.Second,

		ReadySettleDelay:   3 * time.Second,
		FocusSettleDelay:   500 * time.Millisecond,
		MenuSettleDelay:    time.Second,
		FieldSettleDelay:   500 * time.Millisecond,
		PasteSettleDelay:   300 * time.Millisecond,
		KillSettleDelay:    2 * time.Second,
		ArtifactGraceDelay: 2 * time.Second,
		CloseSettleDelay:   2 * time.Second,

		TypeListSteps:    2,
		TypePrefixKey:    "p",
		TypePrefixRepeat: 2,
	}
}

// Deps are the OS capabilities the engine drives. Production wiring uses the
// real winsys/input/clipboard/procsys backends; tests pass fakes.
type Deps struct {
	Windows winsys.System
	Input   input.Source
	Clip    Clipboard
	Procs   procsys.System
}

// Engine runs the conversion protocol. The inspected application is an
// exclusive resource: one conversion at a time, strictly sequential steps.
type Engine struct {
	cfg  Config
	deps Deps

	// OnFailure, when set, is invoked after a conversion fails and before
	// teardown completes. Used for failure screenshots.
	OnFailure func(req Request, reason string)
}

// NewEngine builds an engine from a config and capability set.
func NewEngine(cfg Config, deps Deps) *Engine {
	return &Engine{cfg: cfg, deps: deps}
}

// Request describes one conversion attempt. Immutable once constructed.
type Request struct {
	SourcePath  string
	OutputDir   string
	ProjectName string
}

// NewRequest validates the source path, makes it absolute, and defaults the
// project name to the source's base name.
func NewRequest(sourcePath, outputDir, projectName string) (Request, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return Request{}, fmt.Errorf("cannot resolve source path %q: %w", sourcePath, err)
	}
	if projectName == "" {
		projectName = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	return Request{
		SourcePath:  abs,
		OutputDir:   outputDir,
		ProjectName: projectName,
	}, nil
}

func (r Request) baseName() string {
	return strings.TrimSuffix(filepath.Base(r.SourcePath), filepath.Ext(r.SourcePath))
}

// Outcome is the terminal result of one conversion.
type Outcome struct {
	Success bool
	Message string
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
