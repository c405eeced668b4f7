// Package logic contains the pure control core of the dryer: the input
// (click-collection) state machine, the run-duration state machine, the two
// tick-driven countdowns, the acknowledgment pulser, and the idle/sleep
// tracker. This package has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Ticks and button edges are injected calls; time only appears
// as timestamps on emitted events via an injectable clock.
//
// Concurrency contract: OnButtonEdge, OnRunTick, and OnUITick may be called
// from arbitrary goroutines at any point during a Step. Every value they
// touch is a single atomic word with one producer and one consumer; the core
// holds no locks. Step itself must be called from a single goroutine.
package logic

import "time"

// RunState is the fan run state. The zero value is reserved as the "no
// pending request" marker for the request cell and is never a resting state.
type RunState uint8

const (
	runNone RunState = iota // empty request cell, not a real state
	RunOff
	RunShort
	RunMed
	RunLong
)

// String returns the wire/display name of the state.
func (s RunState) String() string {
	switch s {
	case RunOff:
		return "OFF"
	case RunShort:
		return "SHORT"
	case RunMed:
		return "MED"
	case RunLong:
		return "LONG"
	}
	return "UNKNOWN"
}

// Level returns the run level (0 for Off, 1..MaxLevels for Short..Long).
func (s RunState) Level() int {
	if s < RunShort || s > RunLong {
		return 0
	}
	return int(s-RunShort) + 1
}

// StateForLevel maps a run level (1..MaxLevels) to its run state.
// Level 0 or anything out of range maps to RunOff.
func StateForLevel(level int) RunState {
	if level < 1 || level > int(RunLong-RunShort)+1 {
		return RunOff
	}
	return RunShort + RunState(level-1)
}

// UIState is the input-collection state. Off is both the initial state and
// the terminal state of every cycle; Timeout is a one-shot transitional
// state, never a resting state.
type UIState uint8

const (
	UIOff UIState = iota
	UIInput
	UITimeout
)

// String returns the display name of the UI state.
func (s UIState) String() string {
	switch s {
	case UIOff:
		return "OFF"
	case UIInput:
		return "INPUT"
	case UITimeout:
		return "TIMEOUT"
	}
	return "UNKNOWN"
}

// EventType identifies a controller event for telemetry.
type EventType string

const (
	EventInputOpen EventType = "INPUT_OPEN" // input window opened by a click
	EventSelect    EventType = "SELECT"     // input window closed, level chosen
	EventFanOn     EventType = "FAN_ON"     // fan switched on for a duration preset
	EventFanOff    EventType = "FAN_OFF"    // fan switched off (expiry or level 0)
)

// Event is a state transition to be published. Emitted by Step in the order
// the transitions happened within the iteration.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Level     int      // run level for SELECT/FAN_ON, 0 otherwise
	State     RunState // current run state after the transition
}

// Counts tracks controller activity since startup.
type Counts struct {
	Clicks     int // button edges registered (waking presses excluded)
	Windows    int // input windows opened
	Selections int // input windows resolved to a level (including 0)
	FanRuns    int // fan-on transitions
	Sleeps     int // low-power entries
}

// Board is the output surface the core drives. Calls are synchronous and
// repeating a value is harmless; failures are the driver's problem (logged
// there), never the core's.
type Board interface {
	SetFan(on bool)
	SetLED(on bool)
}

// Config holds the core's tuning knobs, all in tick units except the idle
// threshold, which is in loop iterations. Defaults mirror the reference
// firmware (20+20 ticks per level, 3 levels, 1-tick window, 255 idle).
type Config struct {
	BaseTicks     int // run ticks for level 1
	StepTicks     int // additional run ticks per level above 1
	MaxLevels     int // highest selectable run level
	WindowTicks   int // UI ticks the input window stays open
	IdleThreshold int // inactive iterations before sleeping
}

// DefaultConfig returns the reference firmware's tuning.
func DefaultConfig() Config {
	return Config{
		BaseTicks:     20,
		StepTicks:     20,
		MaxLevels:     3,
		WindowTicks:   1,
		IdleThreshold: 255,
	}
}

// ClampLevel saturates a click-derived run level into [0, maxLevels].
// Out-of-range input is never an error, only saturation.
func ClampLevel(level, maxLevels int) int {
	if level < 0 {
		return 0
	}
	if level > maxLevels {
		return maxLevels
	}
	return level
}
