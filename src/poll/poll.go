package poll

import (
	"errors"
	"time"
)

// ErrTimeout is returned by Until when the deadline elapses before the
// condition reports done.
var ErrTimeout = errors.New("poll: timed out")

// Condition is evaluated once per poll cycle. Returning done=true stops the
// loop successfully. Returning a non-nil error aborts the loop immediately;
// transient problems should be swallowed by the condition and reported as
// "not done yet".
type Condition func() (done bool, err error)

// Until evaluates fn immediately and then every interval until it reports
// done, returns an error, or timeout elapses. The wait is always bounded:
// there is no path through this function that blocks past timeout plus one
// final evaluation.
func Until(interval, timeout time.Duration, fn Condition) error {
	deadline := time.Now().Add(timeout)
	for {
		done, err := fn()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		remaining := time.Until(deadline)
		if remaining < interval {
			time.Sleep(remaining)
			continue
		}
		time.Sleep(interval)
	}
}

// True is a convenience wrapper for conditions that cannot fail. It returns
// true if the condition became true before timeout.
func True(interval, timeout time.Duration, fn func() bool) bool {
	err := Until(interval, timeout, func() (bool, error) { return fn(), nil })
	return err == nil
}
