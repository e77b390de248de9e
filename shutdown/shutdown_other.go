//go:build !windows

// Package shutdown runs a cleanup hook when the process is interrupted,
// giving the session controller a chance to stop playback and flush the
// transcript logs before the terminal is restored.
package shutdown

import (
	"os"
	"os/signal"
	"syscall"
)

// OnSignal invokes fn once, on its own goroutine, after the first
// interrupt or termination signal.
func OnSignal(fn func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		fn()
	}()
}
