// Package gpio provides the dryer's hardware surface with hardware
// abstraction: two output lines (fan transistor, indicator LED) and one
// button input delivering debounced falling-edge events.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// Board drives the dryer's outputs and owns the button line.
type Board interface {
	// SetFan switches the fan transistor. Write failures are logged, not
	// returned; the control core treats outputs as infallible.
	SetFan(on bool)

	// SetLED switches the indicator LED.
	SetLED(on bool)

	// Close releases GPIO resources.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinButton = 26
	DefaultPinFan    = 16
	DefaultPinLED    = 12
)

// BlinkInterval is the half-cycle length for blocking blinks (startup
// greeting and the fatal alarm).
const BlinkInterval = 200 * time.Millisecond

// Blink flashes the LED n times, blocking between toggles. Used at startup
// only; runtime acknowledgments are paced by the control core's tick-driven
// pulser instead.
func Blink(b Board, n int, interval time.Duration) {
	for i := 0; i < n; i++ {
		b.SetLED(false)
		time.Sleep(interval)
		b.SetLED(true)
		time.Sleep(interval)
		b.SetLED(false)
	}
}

// Alarm signals an unrecoverable initialization failure: a repeated single
// blink, forever. It never returns.
func Alarm(b Board, interval time.Duration) {
	for {
		Blink(b, 1, interval)
		time.Sleep(interval)
	}
}
