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
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Channels      ChannelsJSON `json:"channels"`
	Position      string       `json:"position"`
	Insight       string       `json:"insight"`
	Session       SessionJSON  `json:"session"`
	Chart         ChartJSON    `json:"chart"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Config        ConfigJSON   `json:"config"`
}

// ChannelsJSON holds the displayed channel texts.
type ChannelsJSON struct {
	Finger      string `json:"finger"`
	Environment string `json:"environment"`
	Object      string `json:"object"`
}

// SessionJSON is the JSON representation of the display session.
type SessionJSON struct {
	InProgress  bool `json:"in_progress"`
	Counter     int  `json:"counter"`
	Finger      int  `json:"finger"`
	Environment int  `json:"environment"`
	Object      int  `json:"object"`
}

// ChartJSON describes the chart buffer.
type ChartJSON struct {
	Points  int    `json:"points"`
	Version uint64 `json:"version"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	RefreshMs   int64  `json:"refresh_ms"`
	Broker      string `json:"broker"`
	SensorTopic string `json:"sensor_topic,omitempty"`
	SerialPort  string `json:"serial_port,omitempty"`
	BaudRate    int    `json:"baud_rate,omitempty"`
	HTTPPort    string `json:"http_port"`
	StatePath   string `json:"state_path"`
	ResetPin    int    `json:"reset_pin,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Channels: ChannelsJSON{
			Finger:      snap.Channels[0],
			Environment: snap.Channels[1],
			Object:      snap.Channels[2],
		},
		Position: snap.Position,
		Insight:  snap.Insight,
		Session: SessionJSON{
			InProgress:  snap.Session.InProgress,
			Counter:     snap.Session.Counter,
			Finger:      snap.Session.Latest.Finger,
			Environment: snap.Session.Latest.Environment,
			Object:      snap.Session.Latest.Object,
		},
		Chart:         ChartJSON{Points: snap.Points, Version: snap.ChartVersion},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			RefreshMs:   snap.Config.RefreshMs,
			Broker:      snap.Config.Broker,
			SensorTopic: snap.Config.SensorTopic,
			SerialPort:  snap.Config.SerialPort,
			BaudRate:    snap.Config.BaudRate,
			HTTPPort:    snap.Config.HTTPPort,
			StatePath:   snap.Config.StatePath,
			ResetPin:    snap.Config.ResetPin,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
