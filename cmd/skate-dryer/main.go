// Command skate-dryer runs the one-button skate/boot dryer controller: button
// presses within an input window select a fan run duration, the fan runs for
// the selected preset, and the controller idles in low power between uses.
// State changes are published to MQTT and served on an HTTP status page.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ml8/attiny85-skate-dryer/internal/gpio"
	"github.com/ml8/attiny85-skate-dryer/internal/logic"
	"github.com/ml8/attiny85-skate-dryer/internal/mqtt"
	"github.com/ml8/attiny85-skate-dryer/internal/status"
	"github.com/ml8/attiny85-skate-dryer/internal/web"
)

// startupBlinks is the visual greeting on boot.
const startupBlinks = 5

type options struct {
	poll     time.Duration
	runTick  time.Duration
	uiTick   time.Duration
	debounce time.Duration

	base    int
	step    int
	levels  int
	window  int
	idle    int

	pins gpio.Pins

	broker    string
	heartbeat time.Duration
	httpAddr  string
}

func main() {
	var opts options
	flag.DurationVar(&opts.poll, "poll", 50*time.Millisecond, "Control loop interval")
	flag.DurationVar(&opts.runTick, "run-tick", time.Minute, "Run timer tick period")
	flag.DurationVar(&opts.uiTick, "ui-tick", 2*time.Second, "UI timer tick period (input window and blink pacing)")
	flag.DurationVar(&opts.debounce, "debounce", 100*time.Millisecond, "Button debounce duration")
	flag.IntVar(&opts.base, "base", 20, "Run ticks for level 1")
	flag.IntVar(&opts.step, "step", 20, "Additional run ticks per level")
	flag.IntVar(&opts.levels, "levels", 3, "Number of run levels")
	flag.IntVar(&opts.window, "window", 1, "Input window length in UI ticks")
	flag.IntVar(&opts.idle, "idle", 255, "Idle loop iterations before sleeping")
	flag.IntVar(&opts.pins.Button, "pin-button", gpio.DefaultPinButton, "BCM pin number for the button")
	flag.IntVar(&opts.pins.Fan, "pin-fan", gpio.DefaultPinFan, "BCM pin number for the fan transistor")
	flag.IntVar(&opts.pins.LED, "pin-led", gpio.DefaultPinLED, "BCM pin number for the indicator LED")
	flag.StringVar(&opts.broker, "broker", "", "MQTT broker address (empty to disable)")
	flag.DurationVar(&opts.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&opts.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(opts options) error {
	// Initialize GPIO. The button handler fires on the chardev event
	// goroutine before the controller exists, so the hand-off goes through
	// an atomic cell.
	var ctrlCell atomic.Pointer[logic.Controller]
	board, err := gpio.NewRealBoard(opts.pins, opts.debounce, pressHandler(&ctrlCell))
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer board.Close()

	// Initialize MQTT (optional)
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if opts.broker != "" {
		real := mqtt.NewRealPublisher(opts.broker)
		defer real.Close()
		publisher = real
		mqttStatus = real
	}

	tracker := status.NewTracker(time.Now(), statusConfig(opts))
	if info := readNetworkInfo(); info != nil {
		tracker.SetNetwork(info)
	}

	hooks := logic.Hooks{
		OnSleep: func() {
			log.Printf("entering low power")
			tracker.SetSleeping(true)
			publishStatusEvent(publisher, tracker, "SLEEP", "")
		},
		OnWake: func() {
			log.Printf("woke from low power")
			tracker.SetSleeping(false)
			publishStatusEvent(publisher, tracker, "WAKE", "")
		},
	}
	ctrl := logic.New(logicConfig(opts), board, time.Now, hooks)
	ctrlCell.Store(ctrl)

	// Publish startup event with full status snapshot
	publishRetainedStatusEvent(publisher, tracker, "STARTUP", "")

	// Start HTTP status server. A bad listen address is an unrecoverable
	// configuration failure: fail loud and stay visibly failed.
	if opts.httpAddr != "" {
		ln, err := net.Listen("tcp", opts.httpAddr)
		if err != nil {
			log.Printf("http listen on %s: %v", opts.httpAddr, err)
			gpio.Alarm(board, gpio.BlinkInterval)
		}
		srv := web.New(tracker)
		go func() {
			if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	log.Printf("started: run-tick=%v ui-tick=%v base=%d step=%d levels=%d idle=%d broker=%s",
		opts.runTick, opts.uiTick, opts.base, opts.step, opts.levels, opts.idle, opts.broker)

	gpio.Blink(board, startupBlinks, gpio.BlinkInterval)

	// Tick producers. They keep running while the controller sleeps; with
	// both countdowns drained the ticks are no-ops, matching the idle MCU.
	runTicker := time.NewTicker(opts.runTick)
	defer runTicker.Stop()
	go func() {
		for range runTicker.C {
			ctrl.OnRunTick()
		}
	}()

	uiTicker := time.NewTicker(opts.uiTick)
	defer uiTicker.Stop()
	go func() {
		for range uiTicker.C {
			ctrl.OnUITick()
		}
	}()

	poll := time.NewTicker(opts.poll)
	defer poll.Stop()

	// Stop the controller as soon as a signal lands so a sleeping loop
	// unblocks, then hand the signal to the loop for a clean shutdown.
	raw := make(chan os.Signal, 1)
	signal.Notify(raw, syscall.SIGINT, syscall.SIGTERM)
	sigCh := make(chan os.Signal, 1)
	go func() {
		s := <-raw
		ctrl.Stop()
		sigCh <- s
	}()

	return runLoop(ctrl, publisher, mqttStatus, tracker, opts.heartbeat, time.Now, poll.C, sigCh)
}

// pressHandler returns the button callback for the board. Presses arriving
// before the controller is stored in cell are dropped.
func pressHandler(cell *atomic.Pointer[logic.Controller]) func() {
	return func() {
		if ctrl := cell.Load(); ctrl != nil {
			ctrl.OnButtonEdge()
		}
	}
}

func runLoop(ctrl *logic.Controller, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			syncTracker(ctrl, mqttStatus, tracker)
			publishRetainedStatusEvent(publisher, tracker, "SHUTDOWN", signalName(s))
			return nil

		case <-tick:
			_, events := ctrl.Step()

			for _, event := range events {
				log.Printf("event: %s level=%d state=%s", event.Type, event.Level, event.State)
				if publisher != nil {
					if err := publisher.Publish(event); err != nil {
						log.Printf("publish error: %v", err)
					}
				}
			}

			syncTracker(ctrl, mqttStatus, tracker)

			if heartbeat > 0 && now().Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = now()
				counts := ctrl.Counts()
				log.Printf("heartbeat: state=%s clicks=%d runs=%d sleeps=%d",
					ctrl.RunState(), counts.Clicks, counts.FanRuns, counts.Sleeps)
				if info := readNetworkInfo(); info != nil {
					tracker.SetNetwork(info)
				}
				publishStatusEvent(publisher, tracker, "HEARTBEAT", "")
			}
		}
	}
}

func syncTracker(ctrl *logic.Controller, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker) {
	tracker.Update(ctrl.RunState(), ctrl.UIState(), ctrl.RemainingRunTicks(), ctrl.Counts())
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}
}

func publishStatusEvent(publisher mqtt.Publisher, tracker *status.Tracker, event, reason string) {
	publishSystem(publisher, tracker, event, reason, false)
}

func publishRetainedStatusEvent(publisher mqtt.Publisher, tracker *status.Tracker, event, reason string) {
	publishSystem(publisher, tracker, event, reason, true)
}

func publishSystem(publisher mqtt.Publisher, tracker *status.Tracker, event, reason string, retained bool) {
	if publisher == nil {
		return
	}
	snap := tracker.Snapshot()
	sysEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      event,
		Reason:     reason,
		Retained:   retained,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := publisher.PublishSystem(sysEvent); err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
	} else {
		log.Printf("published %s event", event)
	}
}

func logicConfig(opts options) logic.Config {
	return logic.Config{
		BaseTicks:     opts.base,
		StepTicks:     opts.step,
		MaxLevels:     opts.levels,
		WindowTicks:   opts.window,
		IdleThreshold: opts.idle,
	}
}

func statusConfig(opts options) status.Config {
	return status.Config{
		RunTickMs:     opts.runTick.Milliseconds(),
		UITickMs:      opts.uiTick.Milliseconds(),
		PollMs:        opts.poll.Milliseconds(),
		DebounceMs:    opts.debounce.Milliseconds(),
		HeartbeatMs:   opts.heartbeat.Milliseconds(),
		BaseTicks:     opts.base,
		StepTicks:     opts.step,
		MaxLevels:     opts.levels,
		WindowTicks:   opts.window,
		IdleThreshold: opts.idle,
		Broker:        opts.broker,
		HTTPAddr:      opts.httpAddr,
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
