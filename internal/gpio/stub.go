//go:build !linux

package gpio

import (
	"errors"
	"time"
)

// RealBoard is not available on non-Linux platforms.
type RealBoard struct{}

// Pins selects the board's GPIO lines (BCM numbering).
type Pins struct {
	Button int
	Fan    int
	LED    int
}

// DefaultPins returns the default wiring.
func DefaultPins() Pins {
	return Pins{Button: DefaultPinButton, Fan: DefaultPinFan, LED: DefaultPinLED}
}

// NewRealBoard returns an error on non-Linux platforms.
func NewRealBoard(pins Pins, debounce time.Duration, onPress func()) (*RealBoard, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetFan is not implemented on non-Linux platforms.
func (b *RealBoard) SetFan(on bool) {}

// SetLED is not implemented on non-Linux platforms.
func (b *RealBoard) SetLED(on bool) {}

// Close is not implemented on non-Linux platforms.
func (b *RealBoard) Close() error {
	return nil
}
