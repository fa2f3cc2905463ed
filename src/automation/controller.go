package automation

import (
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"pbix-converter/src/procsys"
)

// Locate searches the known install locations in order, then falls back to a
// PATH lookup. It has no side effects.
func (e *Engine) Locate() (string, bool) {
	for _, p := range e.cfg.InstallPaths {
		expanded := os.ExpandEnv(p)
		if st, err := os.Stat(expanded); err == nil && !st.IsDir() {
			return expanded, true
		}
	}
	if p, err := exec.LookPath(e.cfg.ExeName); err == nil {
		return p, true
	}
	return "", false
}

// IsRunning reports whether an instance of the application is currently
// running, matched by case-insensitive substring on the process name.
func (e *Engine) IsRunning() bool {
	procs, err := e.deps.Procs.List()
	if err != nil {
		log.Printf("Process enumeration failed: %v", err)
		return false
	}
	for _, p := range procs {
		if strings.Contains(strings.ToLower(p.Name), e.cfg.ProcessName) {
			return true
		}
	}
	return false
}

// KillAll force-terminates every matching process and blocks briefly to let
// OS teardown complete. Returns whether anything was killed; calling it with
// nothing running is a no-op, not an error.
func (e *Engine) KillAll() bool {
	procs, err := e.deps.Procs.List()
	if err != nil {
		log.Printf("Process enumeration failed during kill: %v", err)
		return false
	}
	killed := false
	for _, p := range procs {
		if !strings.Contains(strings.ToLower(p.Name), e.cfg.ProcessName) {
			continue
		}
		if err := e.deps.Procs.Kill(p.Pid); err != nil {
			log.Printf("Failed to kill pid %d (%s): %v", p.Pid, p.Name, err)
			continue
		}
		log.Printf("Killed %s (pid %d)", p.Name, p.Pid)
		killed = true
	}
	if killed {
		time.Sleep(e.cfg.KillSettleDelay)
	}
	return killed
}

// Launch starts the executable with the source file as its single argument.
func (e *Engine) Launch(exePath, sourcePath string) (procsys.Handle, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, failf(KindLaunch, "source file not found: %s", sourcePath)
	}
	handle, err := e.deps.Procs.Spawn(exePath, sourcePath)
	if err != nil {
		return nil, &Failure{Kind: KindLaunch, Msg: "failed to start " + exePath, Err: err}
	}
	log.Printf("Launched %s with %s", exePath, sourcePath)
	return handle, nil
}
