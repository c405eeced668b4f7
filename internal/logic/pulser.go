package logic

import "sync/atomic"

// Pulser emits acknowledgment blinks without blocking the main loop: each
// requested blink is an on half-cycle then an off half-cycle, advanced one
// half-cycle per slow tick.
//
// Request runs on the main loop, Tick on the slow tick producer. The counter
// is a single atomic word; a Request landing mid-sequence restarts the
// acknowledgment, which is the desired behavior for a new selection.
type Pulser struct {
	halves atomic.Uint32
	led    func(on bool)
}

func newPulser(led func(on bool)) *Pulser {
	return &Pulser{led: led}
}

// Request schedules n blinks. n <= 0 schedules nothing.
func (p *Pulser) Request(n int) {
	if n <= 0 {
		return
	}
	p.halves.Store(uint32(2 * n))
}

// Idle reports whether all scheduled pulses have been emitted.
func (p *Pulser) Idle() bool {
	return p.halves.Load() == 0
}

// Tick advances the sequence one half-cycle: LED on while an even count
// remains, off on the odd counts, so every blink ends dark.
func (p *Pulser) Tick() {
	for {
		v := p.halves.Load()
		if v == 0 {
			return
		}
		if p.halves.CompareAndSwap(v, v-1) {
			p.led(v%2 == 0)
			return
		}
	}
}
