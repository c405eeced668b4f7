//go:build linux

package gpio

import (
	"fmt"
	"log"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealBoard drives actual hardware through the Linux GPIO character device.
// The button line is requested with falling-edge events and kernel debounce,
// so onPress fires once per qualifying physical press, on the chardev event
// goroutine.
type RealBoard struct {
	chip   *gpiocdev.Chip
	fan    *gpiocdev.Line
	led    *gpiocdev.Line
	button *gpiocdev.Line
}

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

// NewRealBoard opens the GPIO lines. onPress is called once per debounced
// falling edge of the button.
func NewRealBoard(pins Pins, debounce time.Duration, onPress func()) (*RealBoard, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	fan, err := chip.RequestLine(pins.Fan, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request fan pin %d: %w", pins.Fan, err)
	}

	led, err := chip.RequestLine(pins.LED, gpiocdev.AsOutput(0))
	if err != nil {
		fan.Close()
		chip.Close()
		return nil, fmt.Errorf("request led pin %d: %w", pins.LED, err)
	}

	// Button to ground with internal pull-up; a press is a falling edge.
	button, err := chip.RequestLine(pins.Button,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithDebounce(debounce),
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			onPress()
		}))
	if err != nil {
		led.Close()
		fan.Close()
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pins.Button, err)
	}

	return &RealBoard{chip: chip, fan: fan, led: led, button: button}, nil
}

// SetFan switches the fan transistor.
func (b *RealBoard) SetFan(on bool) {
	if err := b.fan.SetValue(boolToValue(on)); err != nil {
		log.Printf("gpio: set fan: %v", err)
	}
}

// SetLED switches the indicator LED.
func (b *RealBoard) SetLED(on bool) {
	if err := b.led.SetValue(boolToValue(on)); err != nil {
		log.Printf("gpio: set led: %v", err)
	}
}

// Close drops both outputs and releases the lines. Outputs are reconfigured
// low first so the fan is never left running after shutdown.
func (b *RealBoard) Close() error {
	var errs []error

	if b.fan != nil {
		if err := b.fan.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("drop fan pin: %w", err))
		}
		if err := b.fan.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close fan pin: %w", err))
		}
	}
	if b.led != nil {
		if err := b.led.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("drop led pin: %w", err))
		}
		if err := b.led.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close led pin: %w", err))
		}
	}
	if b.button != nil {
		if err := b.button.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func boolToValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
