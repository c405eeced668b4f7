package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string       `json:"event,omitempty"`
	Reason         string       `json:"reason,omitempty"`
	Fan            string       `json:"fan"`
	RunState       string       `json:"run_state"`
	Level          int          `json:"level"`
	RemainingTicks int          `json:"remaining_ticks"`
	UIState        string       `json:"ui_state"`
	Sleeping       bool         `json:"sleeping"`
	UptimeSeconds  int64        `json:"uptime_seconds"`
	StartTime      string       `json:"start_time"`
	Timestamp      string       `json:"timestamp"`
	MQTT           MQTTStatus   `json:"mqtt"`
	Counts         CountsJSON   `json:"counts"`
	Network        *NetworkJSON `json:"network,omitempty"`
	Config         ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of activity counts.
type CountsJSON struct {
	Clicks     int `json:"clicks"`
	Windows    int `json:"windows"`
	Selections int `json:"selections"`
	FanRuns    int `json:"fan_runs"`
	Sleeps     int `json:"sleeps"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	RunTickMs     int64  `json:"run_tick_ms"`
	UITickMs      int64  `json:"ui_tick_ms"`
	PollMs        int64  `json:"poll_ms"`
	DebounceMs    int64  `json:"debounce_ms"`
	HeartbeatMs   int64  `json:"heartbeat_ms"`
	BaseTicks     int    `json:"base_ticks"`
	StepTicks     int    `json:"step_ticks"`
	MaxLevels     int    `json:"max_levels"`
	WindowTicks   int    `json:"window_ticks"`
	IdleThreshold int    `json:"idle_threshold"`
	Broker        string `json:"broker,omitempty"`
	HTTPAddr      string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	fan := "OFF"
	if snap.RunState.Level() > 0 {
		fan = "ON"
	}

	return StatusInner{
		Fan:            fan,
		RunState:       snap.RunState.String(),
		Level:          snap.RunState.Level(),
		RemainingTicks: snap.RemainingTicks,
		UIState:        snap.UIState.String(),
		Sleeping:       snap.Sleeping,
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		MQTT:           MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Clicks:     snap.Counts.Clicks,
			Windows:    snap.Counts.Windows,
			Selections: snap.Counts.Selections,
			FanRuns:    snap.Counts.FanRuns,
			Sleeps:     snap.Counts.Sleeps,
		},
		Config: ConfigJSON{
			RunTickMs:     snap.Config.RunTickMs,
			UITickMs:      snap.Config.UITickMs,
			PollMs:        snap.Config.PollMs,
			DebounceMs:    snap.Config.DebounceMs,
			HeartbeatMs:   snap.Config.HeartbeatMs,
			BaseTicks:     snap.Config.BaseTicks,
			StepTicks:     snap.Config.StepTicks,
			MaxLevels:     snap.Config.MaxLevels,
			WindowTicks:   snap.Config.WindowTicks,
			IdleThreshold: snap.Config.IdleThreshold,
			Broker:        snap.Config.Broker,
			HTTPAddr:      snap.Config.HTTPAddr,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
