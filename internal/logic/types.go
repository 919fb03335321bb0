// Package logic contains the pure business logic of the sensor display.
// This package has NO external dependencies (no MQTT, serial, GPIO, OS or timers).
package logic

import "strconv"

// Channel identifies one of the three sensor readings.
type Channel int

const (
	ChannelFinger Channel = iota
	ChannelEnvironment
	ChannelObject
)

// Channels lists every channel in display order.
var Channels = []Channel{ChannelFinger, ChannelEnvironment, ChannelObject}

// String returns the series name used in charts and payloads.
func (c Channel) String() string {
	switch c {
	case ChannelFinger:
		return "Finger"
	case ChannelEnvironment:
		return "Environment"
	case ChannelObject:
		return "Object"
	default:
		return "Channel(" + strconv.Itoa(int(c)) + ")"
	}
}

// Key returns the lowercase identifier used in JSON and MQTT payloads.
func (c Channel) Key() string {
	switch c {
	case ChannelFinger:
		return "finger"
	case ChannelEnvironment:
		return "environment"
	case ChannelObject:
		return "object"
	default:
		return "channel" + strconv.Itoa(int(c))
	}
}

// Reading bounds. Every component of a reading is a 16-bit magnitude.
const (
	MinValue = 0
	MaxValue = 65535
)

// Reading is one sample of all three channels as delivered by the sensor.
type Reading struct {
	Finger      int
	Environment int
	Object      int
}

// Value returns the component for the given channel.
func (r Reading) Value(ch Channel) int {
	switch ch {
	case ChannelFinger:
		return r.Finger
	case ChannelEnvironment:
		return r.Environment
	case ChannelObject:
		return r.Object
	default:
		return 0
	}
}

// InRange reports whether every component lies within [MinValue, MaxValue].
// Out-of-range readings are shown as "not available".
func (r Reading) InRange() bool {
	return inRange(r.Finger) && inRange(r.Environment) && inRange(r.Object)
}

// Positive reports whether every component is strictly positive.
// Only positive readings are sampled into the chart.
func (r Reading) Positive() bool {
	return r.Finger > 0 && r.Environment > 0 && r.Object > 0
}

// Valid reports whether the reading carries real data: in range and positive.
func (r Reading) Valid() bool {
	return r.InRange() && r.Positive()
}

func inRange(v int) bool {
	return v >= MinValue && v <= MaxValue
}
