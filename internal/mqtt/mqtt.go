// Package mqtt publishes display samples, insights and system events to an
// MQTT broker and receives sensor events from a bridge.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/partheniadis/r-node-nRF/internal/logic"
	"github.com/partheniadis/r-node-nRF/internal/source"
)

// TopicSamples is the MQTT topic for chart samples.
const TopicSamples = "rnode/sensor/samples"

// TopicInsight is the MQTT topic for insight changes.
const TopicInsight = "rnode/sensor/insight"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "rnode/sensor/system"

// TopicSensorEvents is the default topic a sensor bridge publishes events on.
const TopicSensorEvents = "rnode/sensor/events"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishSample sends one chart sample. It must not block the caller
	// on network I/O.
	PublishSample(s Sample) error

	// PublishInsight sends an insight change.
	PublishInsight(i InsightEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Sample is one point appended to the chart.
type Sample struct {
	Timestamp time.Time
	Index     int
	Reading   logic.Reading
}

// InsightEvent is a change of the displayed insight text.
type InsightEvent struct {
	Timestamp time.Time
	Text      string
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, reconnected).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "RECONNECTED", "RESET"
	Reason     string // e.g., "SIGTERM", "SIGINT", "MQTT_DISCONNECT"
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// SamplePayload represents the MQTT message payload for a chart sample.
type SamplePayload struct {
	Sample SamplePayloadInner `json:"sample"`
}

// SamplePayloadInner contains the sample details.
type SamplePayloadInner struct {
	Timestamp   string `json:"timestamp"`
	Index       int    `json:"index"`
	Finger      int    `json:"finger"`
	Environment int    `json:"environment"`
	Object      int    `json:"object"`
}

// FormatSamplePayload creates the JSON payload for a chart sample.
func FormatSamplePayload(s Sample) ([]byte, error) {
	payload := SamplePayload{
		Sample: SamplePayloadInner{
			Timestamp:   s.Timestamp.UTC().Format(time.RFC3339),
			Index:       s.Index,
			Finger:      s.Reading.Finger,
			Environment: s.Reading.Environment,
			Object:      s.Reading.Object,
		},
	}
	return json.Marshal(payload)
}

// InsightPayload represents the MQTT message payload for an insight change.
type InsightPayload struct {
	Insight InsightPayloadInner `json:"insight"`
}

// InsightPayloadInner contains the insight details.
type InsightPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// FormatInsightPayload creates the JSON payload for an insight change.
func FormatInsightPayload(i InsightEvent) ([]byte, error) {
	payload := InsightPayload{
		Insight: InsightPayloadInner{
			Timestamp: i.Timestamp.UTC().Format(time.RFC3339),
			Text:      i.Text,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// DecodeSensorEvent parses a bridge message into a sensor event.
func DecodeSensorEvent(payload []byte) (source.Event, error) {
	var ev source.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return source.Event{}, fmt.Errorf("decode sensor event: %w", err)
	}
	switch ev.Type {
	case source.EventServices, source.EventReady, source.EventPosition,
		source.EventReading, source.EventDisconnected:
		return ev, nil
	}
	return source.Event{}, fmt.Errorf("decode sensor event: %w: %q", source.ErrUnknownEvent, ev.Type)
}
