package logic

import "sync/atomic"

// clickCounter is the click-accumulation cell shared between the button-edge
// producer and the UI state machine consumer. The consumer's read-and-clear
// is a single atomic exchange, so a click landing during consumption is
// carried into the next cycle rather than lost or double-counted.
type clickCounter struct {
	n atomic.Uint32
}

// Add registers one click. Producer side.
func (c *clickCounter) Add() {
	c.n.Add(1)
}

// Peek returns the current count without consuming it.
func (c *clickCounter) Peek() uint32 {
	return c.n.Load()
}

// TakeAll returns the accumulated count and zeroes it in one step.
func (c *clickCounter) TakeAll() uint32 {
	return c.n.Swap(0)
}

// runRequest is the pending run-state cell. The run-timer expiry path and
// the UI state machine both write via Set; the run state machine consumes
// via Take, which swaps the cell back to empty so a request is applied
// exactly once. A later Set overwrites an unconsumed request; last writer
// wins.
type runRequest struct {
	v atomic.Uint32
}

// Set stores a pending request, replacing any unconsumed one.
func (r *runRequest) Set(s RunState) {
	r.v.Store(uint32(s))
}

// Take consumes the pending request. ok is false when no request is pending.
func (r *runRequest) Take() (s RunState, ok bool) {
	v := RunState(r.v.Swap(uint32(runNone)))
	return v, v != runNone
}

// Pending reports whether a request is waiting, without consuming it.
func (r *runRequest) Pending() bool {
	return RunState(r.v.Load()) != runNone
}
