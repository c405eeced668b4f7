// Package status provides a thread-safe status tracker for the skate-dryer
// daemon. It is read by the HTTP status server and snapshotted into system
// telemetry events.
package status

import (
	"sync"
	"time"

	"github.com/ml8/attiny85-skate-dryer/internal/logic"
)

// NetworkInfo contains network state reported by the pi-helper service.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	RunTickMs     int64
	UITickMs      int64
	PollMs        int64
	DebounceMs    int64
	HeartbeatMs   int64
	BaseTicks     int
	StepTicks     int
	MaxLevels     int
	WindowTicks   int
	IdleThreshold int
	Broker        string
	HTTPAddr      string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	RunState       logic.RunState
	UIState        logic.UIState
	RemainingTicks int
	Sleeping       bool
	Counts         logic.Counts
	StartTime      time.Time
	Now            time.Time
	MQTTConnected  bool
	Network        *NetworkInfo
	Config         Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			RunState:  logic.RunOff,
		},
	}
}

// Update sets the controller state and activity counts.
// Called from the run loop on every iteration.
func (t *Tracker) Update(run logic.RunState, ui logic.UIState, remaining int, counts logic.Counts) {
	t.mu.Lock()
	t.snap.RunState = run
	t.snap.UIState = ui
	t.snap.RemainingTicks = remaining
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetSleeping marks the controller as in (or out of) low power.
func (t *Tracker) SetSleeping(sleeping bool) {
	t.mu.Lock()
	t.snap.Sleeping = sleeping
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
