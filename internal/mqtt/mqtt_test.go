package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ml8/attiny85-skate-dryer/internal/logic"
)

func TestFormatPayload(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC),
		Type:      logic.EventFanOn,
		Level:     2,
		State:     logic.RunMed,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Dryer.Event != "FAN_ON" {
		t.Errorf("event = %q, want FAN_ON", p.Dryer.Event)
	}
	if p.Dryer.Level != 2 {
		t.Errorf("level = %d, want 2", p.Dryer.Level)
	}
	if p.Dryer.RunState != "MED" {
		t.Errorf("run_state = %q, want MED", p.Dryer.RunState)
	}
	if p.Dryer.Timestamp != "2026-02-01T08:30:00Z" {
		t.Errorf("timestamp = %q", p.Dryer.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var p SystemPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.System.Event != "SHUTDOWN" || p.System.Reason != "SIGTERM" {
		t.Errorf("system payload = %+v", p.System)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{}}`)
	event := SystemEvent{Event: "HEARTBEAT", RawPayload: raw}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("raw payload not passed through: %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	event := logic.Event{Type: logic.EventSelect, Level: 1, State: logic.RunOff}
	if err := f.Publish(event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("publish system: %v", err)
	}

	events := f.Events()
	if len(events) != 1 || events[0].Type != logic.EventSelect {
		t.Errorf("events = %+v", events)
	}
	system := f.SystemEvents()
	if len(system) != 1 || system[0].Event != "STARTUP" {
		t.Errorf("system events = %+v", system)
	}

	if f.IsConnected() {
		t.Error("new fake reports connected")
	}
	f.SetConnected(true)
	if !f.IsConnected() {
		t.Error("SetConnected not reflected")
	}
	if err := f.Close(); err != nil || !f.Closed() {
		t.Error("Close not recorded")
	}
}
