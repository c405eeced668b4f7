package logic

import "sync/atomic"

// RunTimer owns the countdown that decides how long the fan stays on.
// The main loop arms and stops it; the fast tick source decrements it.
// The 1→0 transition is the only edge, and it requests RunOff exactly once;
// at zero further ticks are no-ops.
type RunTimer struct {
	remaining atomic.Int32
	base      int32
	step      int32
	request   *runRequest
}

func newRunTimer(base, step int, request *runRequest) *RunTimer {
	return &RunTimer{base: int32(base), step: int32(step), request: request}
}

// Arm loads the countdown for the given run level (1..MaxLevels).
func (t *RunTimer) Arm(level int) {
	t.remaining.Store(t.base + t.step*int32(level-1))
}

// Stop clears the countdown without requesting anything.
func (t *RunTimer) Stop() {
	t.remaining.Store(0)
}

// Remaining returns the ticks left before expiry.
func (t *RunTimer) Remaining() int {
	return int(t.remaining.Load())
}

// Tick consumes one tick period. Called from the fast tick producer.
func (t *RunTimer) Tick() {
	for {
		v := t.remaining.Load()
		if v <= 0 {
			return
		}
		if t.remaining.CompareAndSwap(v, v-1) {
			if v == 1 {
				t.request.Set(RunOff)
			}
			return
		}
	}
}

// uiTimerInactive marks a UI countdown with no window open. Only the
// consumer (the UI state machine) writes it.
const uiTimerInactive = -1

// UITimer owns the input-window countdown. The UI state machine arms it on
// entering Input and disarms it after consuming the timeout; the slow tick
// source decrements it while positive. Zero is the timeout signal.
type UITimer struct {
	remaining atomic.Int32
	window    int32
}

func newUITimer(window int) *UITimer {
	t := &UITimer{window: int32(window)}
	t.remaining.Store(uiTimerInactive)
	return t
}

// Arm opens the input window.
func (t *UITimer) Arm() {
	t.remaining.Store(t.window)
}

// Disarm returns the timer to the inactive sentinel. Consumer side only.
func (t *UITimer) Disarm() {
	t.remaining.Store(uiTimerInactive)
}

// Expired reports whether the window has timed out and not yet been consumed.
func (t *UITimer) Expired() bool {
	return t.remaining.Load() == 0
}

// Tick consumes one tick period. Called from the slow tick producer.
func (t *UITimer) Tick() {
	for {
		v := t.remaining.Load()
		if v <= 0 {
			return
		}
		if t.remaining.CompareAndSwap(v, v-1) {
			return
		}
	}
}
