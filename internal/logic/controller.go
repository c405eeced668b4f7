package logic

import (
	"sync"
	"sync/atomic"
	"time"
)

// Hooks are optional callbacks fired around the low-power boundary. They run
// on the main loop goroutine; OnSleep runs just before the controller blocks
// and OnWake just after it resumes.
type Hooks struct {
	OnSleep func()
	OnWake  func()
}

// Controller wires the two state machines, the timers, the pulser, and the
// idle tracker together and owns every shared cell. The tick and button
// handlers are safe to call from any goroutine; Step and Stop belong to the
// orchestrating loop.
type Controller struct {
	cfg   Config
	board Board
	now   func() time.Time
	hooks Hooks

	clicks  clickCounter
	request runRequest

	runTimer *RunTimer
	uiTimer  *UITimer
	pulser   *Pulser
	ui       *UIMachine
	run      *RunMachine
	idle     *IdleTracker

	sleeping atomic.Bool
	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once

	// counters shared with the button producer
	clickCount atomic.Uint32
	sleepCount atomic.Uint32
	windows    int
	selections int
	fanRuns    int

	events []Event // transitions collected during the current Step
}

// New creates a Controller driving the given board. now is used to stamp
// emitted events; nil means time.Now.
func New(cfg Config, board Board, now func() time.Time, hooks Hooks) *Controller {
	if now == nil {
		now = time.Now
	}
	c := &Controller{
		cfg:   cfg,
		board: board,
		now:   now,
		hooks: hooks,
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
	}
	c.runTimer = newRunTimer(cfg.BaseTicks, cfg.StepTicks, &c.request)
	c.uiTimer = newUITimer(cfg.WindowTicks)
	c.pulser = newPulser(board.SetLED)
	c.ui = &UIMachine{
		state:     UIOff,
		maxLevels: cfg.MaxLevels,
		clicks:    &c.clicks,
		timer:     c.uiTimer,
		request:   &c.request,
		pulser:    c.pulser,
		board:     board,
		emit:      c.emit,
	}
	c.run = &RunMachine{
		current: RunOff,
		request: &c.request,
		timer:   c.runTimer,
		board:   board,
		emit:    c.emit,
	}
	c.idle = newIdleTracker(cfg.IdleThreshold, c.lowPower)
	return c
}

// OnButtonEdge registers one debounced button press. Safe from any
// goroutine. A press that arrives while sleeping only wakes the device and
// is not counted as a click.
func (c *Controller) OnButtonEdge() {
	if c.sleeping.Load() {
		select {
		case c.wake <- struct{}{}:
		default:
		}
		return
	}
	c.clicks.Add()
	c.clickCount.Add(1)
}

// OnRunTick consumes one fast tick period. Safe from any goroutine.
func (c *Controller) OnRunTick() {
	c.runTimer.Tick()
}

// OnUITick consumes one slow tick period. Safe from any goroutine.
func (c *Controller) OnUITick() {
	c.uiTimer.Tick()
	c.pulser.Tick()
}

// Step runs one orchestrator iteration: run machine, then UI machine, then
// the idle tracker. It returns whether the iteration was active and the
// transitions it produced. Step blocks while the device sleeps and returns
// after wakeup (or after Stop).
func (c *Controller) Step() (active bool, events []Event) {
	c.events = nil

	active = c.run.Step()
	if c.ui.Step() {
		active = true
	}
	// Keep the device awake until a pending acknowledgment finishes.
	if !c.pulser.Idle() {
		active = true
	}

	c.idle.Observe(active)

	events = c.events
	c.events = nil
	return active, events
}

// Stop unblocks a sleeping controller and makes further sleeps return
// immediately. Idempotent.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Done is closed once Stop has been called.
func (c *Controller) Done() <-chan struct{} {
	return c.stop
}

// RunState returns the current run state. Main loop goroutine only.
func (c *Controller) RunState() RunState {
	return c.run.State()
}

// UIState returns the current input-collection state. Main loop only.
func (c *Controller) UIState() UIState {
	return c.ui.State()
}

// RemainingRunTicks returns the fast ticks left on the current run.
func (c *Controller) RemainingRunTicks() int {
	return c.runTimer.Remaining()
}

// AckPending reports whether an acknowledgment blink is still draining.
func (c *Controller) AckPending() bool {
	return !c.pulser.Idle()
}

// Sleeping reports whether the controller is in low power.
func (c *Controller) Sleeping() bool {
	return c.sleeping.Load()
}

// Counts returns a snapshot of the activity counters.
func (c *Controller) Counts() Counts {
	return Counts{
		Clicks:     int(c.clickCount.Load()),
		Windows:    c.windows,
		Selections: c.selections,
		FanRuns:    c.fanRuns,
		Sleeps:     int(c.sleepCount.Load()),
	}
}

func (c *Controller) emit(t EventType, level int) {
	switch t {
	case EventInputOpen:
		c.windows++
	case EventSelect:
		c.selections++
	case EventFanOn:
		c.fanRuns++
	}
	c.events = append(c.events, Event{
		Timestamp: c.now(),
		Type:      t,
		Level:     level,
		State:     c.run.State(),
	})
}

// lowPower blocks until the next button edge. All cells survive the call
// untouched; the press that wakes the device is swallowed by OnButtonEdge.
func (c *Controller) lowPower() {
	if c.hooks.OnSleep != nil {
		c.hooks.OnSleep()
	}
	c.sleepCount.Add(1)
	// Discard a wake token left over from an earlier sleep; presses outside
	// the sleep window go to the click counter, not here.
	select {
	case <-c.wake:
	default:
	}
	c.sleeping.Store(true)
	select {
	case <-c.wake:
	case <-c.stop:
	}
	c.sleeping.Store(false)
	if c.hooks.OnWake != nil {
		c.hooks.OnWake()
	}
}
