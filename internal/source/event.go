package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/partheniadis/r-node-nRF/internal/logic"
)

// EventType names a sensor event on the wire.
type EventType string

const (
	EventServices     EventType = "services"
	EventReady        EventType = "ready"
	EventPosition     EventType = "position"
	EventReading      EventType = "reading"
	EventDisconnected EventType = "disconnected"
)

// Event is one sensor event as carried by the serial line protocol and the
// MQTT bridge.
type Event struct {
	Type        EventType `json:"type"`
	Optional    bool      `json:"optional,omitempty"`
	Position    string    `json:"position,omitempty"`
	Finger      int       `json:"finger,omitempty"`
	Environment int       `json:"environment,omitempty"`
	Object      int       `json:"object,omitempty"`
}

// ErrMalformedLine is returned by ParseLine for lines it cannot decode.
var ErrMalformedLine = errors.New("malformed line")

// ErrUnknownEvent is returned by Dispatch for an unrecognised event type.
var ErrUnknownEvent = errors.New("unknown event type")

// Reading returns the three channel values carried by a reading event.
func (e Event) Reading() logic.Reading {
	return logic.Reading{Finger: e.Finger, Environment: e.Environment, Object: e.Object}
}

// ParseLine decodes one line of the serial protocol:
//
//	SVC 0|1      services discovered, optional services absent/present
//	READY        device ready
//	POS [text]   sensor position, empty when unknown
//	R f e o      reading of the finger, environment and object channels
//	DISC         disconnected
//
// Commands are case-insensitive. Blank lines are malformed.
func ParseLine(line string) (Event, error) {
	line = strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToUpper(cmd) {
	case "SVC":
		switch rest {
		case "0":
			return Event{Type: EventServices}, nil
		case "1":
			return Event{Type: EventServices, Optional: true}, nil
		}
	case "READY":
		if rest == "" {
			return Event{Type: EventReady}, nil
		}
	case "POS":
		return Event{Type: EventPosition, Position: rest}, nil
	case "R":
		fields := strings.Fields(rest)
		if len(fields) != 3 {
			break
		}
		var v [3]int
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return Event{}, fmt.Errorf("%w: %q: %v", ErrMalformedLine, line, err)
			}
			v[i] = n
		}
		return Event{Type: EventReading, Finger: v[0], Environment: v[1], Object: v[2]}, nil
	case "DISC":
		if rest == "" {
			return Event{Type: EventDisconnected}, nil
		}
	}
	return Event{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
}

// Dispatch delivers e to cb.
func Dispatch(e Event, cb Callbacks) error {
	switch e.Type {
	case EventServices:
		cb.OnServicesDiscovered(e.Optional)
	case EventReady:
		cb.OnDeviceReady()
	case EventPosition:
		cb.OnPositionFound(e.Position)
	case EventReading:
		cb.OnReadingReceived(e.Reading())
	case EventDisconnected:
		cb.OnDisconnected()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
	return nil
}
