// Package procsys exposes OS process enumeration, spawning and termination
// behind a capability interface.
package procsys

import (
	"fmt"
	"os/exec"

	"github.com/shirou/gopsutil/v4/process"
)

// Proc is one entry of a process listing.
type Proc struct {
	Pid  int32
	Name string
}

// Handle owns a spawned OS process. It is invalid once the process exits or
// is killed and must never be shared across concurrent owners.
type Handle interface {
	// Kill force-terminates the process and reaps it.
	Kill() error

	// Release gives up ownership without terminating. The process is
	// reaped in the background if it has already exited.
	Release()
}

// System is the process capability.
type System interface {
	// List enumerates running processes. Entries whose name cannot be
	// read (access denied on system processes) are skipped, not fatal.
	List() ([]Proc, error)

	// Spawn starts exe with the given arguments and returns a live handle.
	Spawn(exe string, args ...string) (Handle, error)

	// Kill terminates the process with the given pid. Unknown pids are
	// not an error.
	Kill(pid int32) error
}

type sysImpl struct{}

// New returns the real process system.
func New() System { return sysImpl{} }

func (sysImpl) List() ([]Proc, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate processes: %w", err)
	}
	out := make([]Proc, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			// Access denied on privileged processes; skip and keep scanning.
			continue
		}
		out = append(out, Proc{Pid: p.Pid, Name: name})
	}
	return out, nil
}

func (sysImpl) Spawn(exe string, args ...string) (Handle, error) {
	cmd := exec.Command(exe, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", exe, err)
	}
	return &cmdHandle{cmd: cmd}, nil
}

func (sysImpl) Kill(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil // already gone
	}
	if err := p.Kill(); err != nil {
		return fmt.Errorf("failed to kill pid %d: %w", pid, err)
	}
	return nil
}

type cmdHandle struct{ cmd *exec.Cmd }

func (h *cmdHandle) Kill() error {
	if err := h.cmd.Process.Kill(); err != nil {
		return err
	}
	_ = h.cmd.Wait()
	return nil
}

func (h *cmdHandle) Release() {
	// Reap asynchronously so a process killed by name does not linger as a
	// zombie child.
	go func() { _ = h.cmd.Wait() }()
}
