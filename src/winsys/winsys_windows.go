//go:build windows

package winsys

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows          = user32.NewProc("EnumWindows")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procIsWindowVisible      = user32.NewProc("IsWindowVisible")
	procSetForegroundWindow  = user32.NewProc("SetForegroundWindow")
)

// EnumWindows callbacks are never released, so a single callback is created
// once and the result slice is handed over under a lock.
var (
	enumMu     sync.Mutex
	enumResult []Window

	enumCallback = windows.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
		title := getWindowText(hwnd)
		if title == "" {
			return 1 // continue enumeration
		}
		vis, _, _ := procIsWindowVisible.Call(hwnd)
		enumResult = append(enumResult, Window{
			Handle:  hwnd,
			Title:   title,
			Visible: vis != 0,
		})
		return 1
	})
)

type winSystem struct{}

func newSystem() System { return winSystem{} }

func (winSystem) List() ([]Window, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumResult = nil
	r, _, err := procEnumWindows.Call(enumCallback, 0)
	if r == 0 {
		return nil, fmt.Errorf("EnumWindows failed: %v", err)
	}
	out := make([]Window, len(enumResult))
	copy(out, enumResult)
	return out, nil
}

func (winSystem) SetForeground(w Window) error {
	r, _, err := procSetForegroundWindow.Call(w.Handle)
	if r == 0 {
		return fmt.Errorf("SetForegroundWindow failed: %v", err)
	}
	return nil
}

func getWindowText(hwnd uintptr) string {
	l, _, _ := procGetWindowTextLengthW.Call(hwnd)
	length := int(l)
	if length == 0 {
		return ""
	}
	buf := make([]uint16, length+1)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}
