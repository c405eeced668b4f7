package main

import (
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/ml8/attiny85-skate-dryer/internal/gpio"
	"github.com/ml8/attiny85-skate-dryer/internal/logic"
	"github.com/ml8/attiny85-skate-dryer/internal/mqtt"
	"github.com/ml8/attiny85-skate-dryer/internal/status"
)

func testOptions() options {
	return options{
		poll:      50 * time.Millisecond,
		runTick:   time.Minute,
		uiTick:    2 * time.Second,
		debounce:  100 * time.Millisecond,
		base:      20,
		step:      20,
		levels:    3,
		window:    1,
		idle:      255,
		pins:      gpio.DefaultPins(),
		broker:    "tcp://broker:1883",
		heartbeat: 15 * time.Minute,
		httpAddr:  ":8080",
	}
}

func TestSignalName(t *testing.T) {
	if got := signalName(syscall.SIGINT); got != "SIGINT" {
		t.Errorf("SIGINT -> %q", got)
	}
	if got := signalName(syscall.SIGTERM); got != "SIGTERM" {
		t.Errorf("SIGTERM -> %q", got)
	}
	if got := signalName(syscall.SIGHUP); got != "UNKNOWN" {
		t.Errorf("SIGHUP -> %q", got)
	}
}

func TestLogicConfigMapping(t *testing.T) {
	cfg := logicConfig(testOptions())
	want := logic.Config{BaseTicks: 20, StepTicks: 20, MaxLevels: 3, WindowTicks: 1, IdleThreshold: 255}
	if cfg != want {
		t.Errorf("logicConfig = %+v, want %+v", cfg, want)
	}
}

func TestStatusConfigMapping(t *testing.T) {
	cfg := statusConfig(testOptions())
	if cfg.RunTickMs != 60000 || cfg.UITickMs != 2000 || cfg.PollMs != 50 {
		t.Errorf("tick config = %+v", cfg)
	}
	if cfg.Broker != "tcp://broker:1883" || cfg.HTTPAddr != ":8080" {
		t.Errorf("endpoint config = %+v", cfg)
	}
	if cfg.BaseTicks != 20 || cfg.MaxLevels != 3 || cfg.IdleThreshold != 255 {
		t.Errorf("tuning config = %+v", cfg)
	}
}

func TestReadNetworkInfo(t *testing.T) {
	t.Setenv(envNetworkStatus, "")
	if readNetworkInfo() != nil {
		t.Error("expected nil without NETWORK_STATUS")
	}

	t.Setenv(envNetworkStatus, "up")
	t.Setenv(envNetworkType, "wifi")
	t.Setenv(envNetworkIP, "192.168.1.50")
	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected network info")
	}
	if info.Status != "up" || info.Type != "wifi" || info.IP != "192.168.1.50" {
		t.Errorf("network info = %+v", info)
	}
}

func TestPressHandlerBeforeController(t *testing.T) {
	var cell atomic.Pointer[logic.Controller]
	handler := pressHandler(&cell)

	// The board can deliver edges before the controller exists.
	handler()
	handler()

	board := gpio.NewFakeBoard(handler)
	ctrl := logic.New(logic.DefaultConfig(), board, time.Now, logic.Hooks{})
	cell.Store(ctrl)

	board.Press()
	board.Press()
	if got := ctrl.Counts().Clicks; got != 2 {
		t.Errorf("clicks = %d, want 2 (startup presses must be dropped, later ones counted)", got)
	}
}

// loopHarness wires a controller with fakes to a running runLoop. The tick
// channel is unbuffered, so two consecutive sends guarantee the first
// iteration finished.
type loopHarness struct {
	ctrl      *logic.Controller
	board     *gpio.FakeBoard
	publisher *mqtt.FakePublisher
	tracker   *status.Tracker
	tick      chan time.Time
	sig       chan os.Signal
	done      chan error
}

func startLoop(t *testing.T, cfg logic.Config, heartbeat time.Duration, now func() time.Time) *loopHarness {
	t.Helper()

	h := &loopHarness{
		board:     gpio.NewFakeBoard(nil),
		publisher: mqtt.NewFakePublisher(),
		tracker:   status.NewTracker(time.Now(), status.Config{}),
		tick:      make(chan time.Time),
		sig:       make(chan os.Signal, 1),
		done:      make(chan error, 1),
	}
	h.ctrl = logic.New(cfg, h.board, now, logic.Hooks{})
	h.board.SetPressHandler(h.ctrl.OnButtonEdge)

	go func() {
		h.done <- runLoop(h.ctrl, h.publisher, h.publisher, h.tracker, heartbeat, now, h.tick, h.sig)
	}()
	return h
}

// step drives one loop iteration to completion.
func (h *loopHarness) step() {
	h.tick <- time.Time{}
}

func (h *loopHarness) shutdown(t *testing.T, s os.Signal) {
	t.Helper()
	h.sig <- s
	select {
	case err := <-h.done:
		if err != nil {
			t.Fatalf("runLoop returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runLoop did not return after signal")
	}
}

func TestRunLoopFullSelection(t *testing.T) {
	h := startLoop(t, logic.DefaultConfig(), 0, time.Now)

	// Three presses, then the window expires: level 2 (MED).
	h.board.Press()
	h.board.Press()
	h.board.Press()
	h.step() // opens input window
	h.ctrl.OnUITick()
	h.step() // input -> timeout
	h.step() // timeout -> off, selection posted
	h.step() // run machine starts the fan
	h.step() // settle; guarantees previous iteration synced the tracker

	h.shutdown(t, syscall.SIGTERM)

	if !h.board.Fan() {
		t.Error("fan not running after selection")
	}

	published := h.publisher.Events()
	types := make([]logic.EventType, len(published))
	for i, e := range published {
		types[i] = e.Type
	}
	want := []logic.EventType{logic.EventInputOpen, logic.EventSelect, logic.EventFanOn}
	if len(types) != len(want) {
		t.Fatalf("published events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("published events = %v, want %v", types, want)
		}
	}

	snap := h.tracker.Snapshot()
	if snap.RunState != logic.RunMed {
		t.Errorf("tracker run state = %s, want MED", snap.RunState)
	}
	if snap.Counts.Clicks != 3 {
		t.Errorf("tracker clicks = %d, want 3", snap.Counts.Clicks)
	}
}

func TestRunLoopShutdownPublishesRetainedEvent(t *testing.T) {
	h := startLoop(t, logic.DefaultConfig(), 0, time.Now)
	h.step()
	h.shutdown(t, syscall.SIGINT)

	system := h.publisher.SystemEvents()
	if len(system) != 1 {
		t.Fatalf("system events = %+v, want one SHUTDOWN", system)
	}
	ev := system[0]
	if ev.Event != "SHUTDOWN" || ev.Reason != "SIGINT" {
		t.Errorf("shutdown event = %+v", ev)
	}
	if !ev.Retained {
		t.Error("shutdown event not retained")
	}
	if ev.RawPayload == nil {
		t.Error("shutdown event missing status snapshot")
	}
}

func TestRunLoopHeartbeat(t *testing.T) {
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	var offset atomic.Int64
	now := func() time.Time { return base.Add(time.Duration(offset.Load())) }

	h := startLoop(t, logic.DefaultConfig(), time.Minute, now)

	h.step() // within the interval: no heartbeat
	offset.Store(int64(61 * time.Second))
	h.step() // interval elapsed: heartbeat fires
	h.step()
	h.shutdown(t, syscall.SIGTERM)

	heartbeats := 0
	for _, ev := range h.publisher.SystemEvents() {
		if ev.Event == "HEARTBEAT" {
			heartbeats++
		}
	}
	if heartbeats != 1 {
		t.Errorf("published %d heartbeats, want 1", heartbeats)
	}
}

func TestRunLoopWithoutPublisher(t *testing.T) {
	h := &loopHarness{
		board:   gpio.NewFakeBoard(nil),
		tracker: status.NewTracker(time.Now(), status.Config{}),
		tick:    make(chan time.Time),
		sig:     make(chan os.Signal, 1),
		done:    make(chan error, 1),
	}
	h.ctrl = logic.New(logic.DefaultConfig(), h.board, time.Now, logic.Hooks{})
	h.board.SetPressHandler(h.ctrl.OnButtonEdge)

	go func() {
		h.done <- runLoop(h.ctrl, nil, nil, h.tracker, 0, time.Now, h.tick, h.sig)
	}()

	h.board.Press()
	h.step()
	h.step()
	h.shutdown(t, syscall.SIGTERM)
}
