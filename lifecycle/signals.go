// File: lifecycle/signals.go
// Signal wiring for the lifecycle coordinator: signal.Notify feeding a
// dedicated goroutine, which keeps every handler body off the actual
// signal-delivery path and therefore free of async-signal-safety
// concerns. The stats dump is deferred further, to the timer's next
// tick; the messenger dump toggle runs on that goroutine directly.
// Author: trema-go
// License: Apache-2.0
package lifecycle

import (
	"os"
	"os/signal"
	"syscall"
)

// installSignals starts the coordinator's signal-handling goroutine
// and returns a function that stops it. SIGPIPE is ignored outright;
// SIGINT/SIGTERM invoke Stop; SIGUSR1 arms a one-shot stat dump on the
// timer's next tick; SIGUSR2 toggles messenger dump.
func (c *Coordinator) installSignals() func() {
	ch := make(chan os.Signal, 8)
	signal.Notify(ch,
		syscall.SIGPIPE,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGUSR1,
		syscall.SIGUSR2,
	)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig, ok := <-ch:
				if !ok {
					return
				}
				c.handleSignal(sig)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

func (c *Coordinator) handleSignal(sig os.Signal) {
	switch sig {
	case syscall.SIGPIPE:
		// ignored
	case syscall.SIGINT, syscall.SIGTERM:
		_ = c.Stop()
	case syscall.SIGUSR1:
		c.armStatDump()
	case syscall.SIGUSR2:
		c.toggleMessengerDump()
	}
}
