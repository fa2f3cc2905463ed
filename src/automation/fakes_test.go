package automation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"pbix-converter/src/procsys"
	"pbix-converter/src/winsys"
)

// testConfig returns protocol constants shrunk so the polling loops resolve
// in milliseconds.
func testConfig() Config {
	cfg := Default()
	cfg.StartupTimeout = 200 * time.Millisecond
	cfg.DialogTimeout = 100 * time.Millisecond
	cfg.TriggerConfirmTimeout = 40 * time.Millisecond
	cfg.SaveTimeout = 150 * time.Millisecond
	cfg.ReadyPollInterval = 10 * time.Millisecond
	cfg.DialogPollInterval = 5 * time.Millisecond
	cfg.SavePollInterval = 10 * time.Millisecond
	cfg.ReadySettleDelay = 0
	cfg.FocusSettleDelay = 0
	cfg.MenuSettleDelay = 0
	cfg.FieldSettleDelay = 0
	cfg.PasteSettleDelay = 0
	cfg.KillSettleDelay = 0
	cfg.ArtifactGraceDelay = 20 * time.Millisecond
	cfg.CloseSettleDelay = 0
	return cfg
}

type fakeWindows struct {
	mu      sync.Mutex
	windows []winsys.Window
	listErr error
}

func (f *fakeWindows) List() ([]winsys.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]winsys.Window, len(f.windows))
	copy(out, f.windows)
	return out, nil
}

func (f *fakeWindows) SetForeground(winsys.Window) error { return nil }

func (f *fakeWindows) add(title string, visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, winsys.Window{
		Handle:  uintptr(len(f.windows) + 1),
		Title:   title,
		Visible: visible,
	})
}

// fakeInput records every simulated event as a string ("chord:s+ctrl+shift",
// "tap:down", "paste", "type:x") and lets tests react to events to script
// windows appearing or artifacts being written.
type fakeInput struct {
	mu      sync.Mutex
	events  []string
	onEvent func(ev string)
	errOn   map[string]error
	panicOn string
}

func (f *fakeInput) record(ev string) error {
	f.mu.Lock()
	f.events = append(f.events, ev)
	hook := f.onEvent
	f.mu.Unlock()

	if f.panicOn != "" && ev == f.panicOn {
		panic("simulated input fault on " + ev)
	}
	if hook != nil {
		hook(ev)
	}
	if err, ok := f.errOn[ev]; ok {
		return err
	}
	return nil
}

func (f *fakeInput) Tap(key string) error { return f.record("tap:" + key) }

func (f *fakeInput) Chord(key string, modifiers ...string) error {
	return f.record("chord:" + strings.Join(append([]string{key}, modifiers...), "+"))
}

func (f *fakeInput) TypeText(text string) error { return f.record("type:" + text) }

func (f *fakeInput) Paste() error { return f.record("paste") }

func (f *fakeInput) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeInput) saw(ev string) bool {
	for _, e := range f.recorded() {
		if e == ev {
			return true
		}
	}
	return false
}

type fakeClip struct {
	mu       sync.Mutex
	content  string
	history  []string
	readErr  error
	writeErr error
}

func (f *fakeClip) Read() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.content, nil
}

func (f *fakeClip) Write(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.content = text
	f.history = append(f.history, text)
	return nil
}

type fakeHandle struct {
	killed   bool
	released bool
}

func (h *fakeHandle) Kill() error { h.killed = true; return nil }

func (h *fakeHandle) Release() { h.released = true }

type spawnCall struct {
	exe  string
	args []string
}

type fakeProcs struct {
	mu         sync.Mutex
	procs      []procsys.Proc
	spawned    []spawnCall
	killed     []int32
	lastHandle *fakeHandle
	spawnErr   error
	onSpawn    func(exe string, args []string)
}

func (f *fakeProcs) List() ([]procsys.Proc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]procsys.Proc, len(f.procs))
	copy(out, f.procs)
	return out, nil
}

func (f *fakeProcs) Spawn(exe string, args ...string) (procsys.Handle, error) {
	f.mu.Lock()
	if f.spawnErr != nil {
		defer f.mu.Unlock()
		return nil, f.spawnErr
	}
	f.spawned = append(f.spawned, spawnCall{exe: exe, args: args})
	h := &fakeHandle{}
	f.lastHandle = h
	hook := f.onSpawn
	f.mu.Unlock()

	if hook != nil {
		hook(exe, args)
	}
	return h, nil
}

func (f *fakeProcs) Kill(pid int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killed = append(f.killed, pid)
	kept := f.procs[:0]
	for _, p := range f.procs {
		if p.Pid != pid {
			kept = append(kept, p)
		}
	}
	f.procs = kept
	return nil
}

func (f *fakeProcs) addProc(pid int32, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs = append(f.procs, procsys.Proc{Pid: pid, Name: name})
}

func (f *fakeProcs) spawnCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.spawned)
}

func (f *fakeProcs) killedPids() []int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int32, len(f.killed))
	copy(out, f.killed)
	return out
}

// fixture wires an engine to one fake of each capability.
type fixture struct {
	cfg     Config
	windows *fakeWindows
	input   *fakeInput
	clip    *fakeClip
	procs   *fakeProcs
	engine  *Engine
}

func newFixture(cfg Config) *fixture {
	fx := &fixture{
		cfg:     cfg,
		windows: &fakeWindows{},
		input:   &fakeInput{},
		clip:    &fakeClip{},
		procs:   &fakeProcs{},
	}
	fx.engine = NewEngine(cfg, Deps{
		Windows: fx.windows,
		Input:   fx.input,
		Clip:    fx.clip,
		Procs:   fx.procs,
	})
	return fx
}

func (fx *fixture) String() string {
	return fmt.Sprintf("events=%v", fx.input.recorded())
}
