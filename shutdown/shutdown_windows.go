//go:build windows

package shutdown

import (
	"os"
	"os/signal"
)

// OnSignal invokes fn once, on its own goroutine, after the first
// interrupt. Windows has no SIGTERM.
func OnSignal(fn func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		<-ch
		fn()
	}()
}
