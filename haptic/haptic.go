// Package haptic stands in for a phone's vibration motor. In a terminal
// the closest physical channel is the bell, so a pulse rings it once.
// Pulses are fire-and-forget: they never block the caller and never
// surface an error.
package haptic

import (
	"os"
	"time"
)

var disabled bool

// Disable silences all pulses, used in headless runs and tests.
func Disable() { disabled = true }

// DefaultPulse matches the selection feedback duration used on toggles.
const DefaultPulse = 50 * time.Millisecond

// Pulse fires one feedback pulse of roughly the given duration. Zero or
// negative durations use DefaultPulse.
func Pulse(d time.Duration) {
	if disabled {
		return
	}
	if d <= 0 {
		d = DefaultPulse
	}
	go func() {
		os.Stdout.Write([]byte("\a"))
		time.Sleep(d)
	}()
}
