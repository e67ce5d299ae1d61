// File: lifecycle/terminate.go
// Terminate(pid): send SIGTERM, then
// poll kill(pid, 0) once per second up to ten times waiting for the
// process to disappear. kill/sleep are injected so tests can drive the
// retry loop without real wall-clock delays or real processes.
// Author: trema-go
// License: Apache-2.0
package lifecycle

import (
	"time"

	"golang.org/x/sys/unix"
)

const (
	terminatePollInterval = time.Second
	terminatePollAttempts = 10
)

type killFunc func(pid int, sig unix.Signal) error
type sleepFunc func(time.Duration)

func defaultKill(pid int, sig unix.Signal) error {
	return unix.Kill(pid, sig)
}

// Terminate sends SIGTERM to pid, then polls signal 0 once per second
// up to ten times waiting for the process to disappear. It returns
// true if the process is gone, either because it exited during the
// poll loop or because it never existed in the first place (ESRCH on
// the initial signal is treated as success), and false on permission
// failure or timeout.
func (c *Coordinator) Terminate(pid int) bool {
	return terminate(pid, defaultKill, time.Sleep)
}

func terminate(pid int, kill killFunc, sleep sleepFunc) bool {
	err := kill(pid, unix.SIGTERM)
	if err != nil {
		if err == unix.ESRCH {
			return true
		}
		return false
	}

	for i := 0; i < terminatePollAttempts; i++ {
		if pollErr := kill(pid, 0); pollErr != nil {
			return true
		}
		sleep(terminatePollInterval)
	}
	return false
}
