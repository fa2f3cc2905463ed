//go:build !windows

package winsys

import "errors"

var errUnsupported = errors.New("window inspection is only supported on Windows")

type stubSystem struct{}

func newSystem() System { return stubSystem{} }

func (stubSystem) List() ([]Window, error) { return nil, errUnsupported }

func (stubSystem) SetForeground(Window) error { return errUnsupported }
