// Package status provides a thread-safe view of the display for the
// r-node daemon. The tracker is a display sink written from the display
// loop and read by HTTP handlers and the terminal UI.
package status

import (
	"sync"
	"time"

	"github.com/partheniadis/r-node-nRF/internal/display"
	"github.com/partheniadis/r-node-nRF/internal/logic"
	"github.com/partheniadis/r-node-nRF/internal/samples"
)

// Config contains daemon configuration for display.
type Config struct {
	RefreshMs   int64
	Broker      string
	SensorTopic string
	SerialPort  string
	BaudRate    int
	HTTPPort    string
	StatePath   string
	ResetPin    int // 0 = disabled
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Channels      [3]string // indexed by logic.Channel
	Position      string
	Insight       string
	Session       display.SessionState
	Points        int
	ChartVersion  uint64 // bumped on every repaint or clear
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Channel returns the displayed text for ch.
func (s Snapshot) Channel(ch logic.Channel) string {
	if ch < 0 || int(ch) >= len(s.Channels) {
		return ""
	}
	return s.Channels[ch]
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable display state behind an RWMutex.
type Tracker struct {
	mu     sync.RWMutex
	snap   Snapshot
	buffer *samples.Buffer
	now    func() time.Time
}

// NewTracker creates a Tracker with the given start time and config showing
// placeholders everywhere. buf is the chart buffer shared with the display;
// it may be nil.
func NewTracker(startTime time.Time, cfg Config, buf *samples.Buffer) *Tracker {
	t := &Tracker{
		snap: Snapshot{
			Position:  display.NotAvailable,
			StartTime: startTime,
			Config:    cfg,
		},
		buffer: buf,
		now:    time.Now,
	}
	for i := range t.snap.Channels {
		t.snap.Channels[i] = display.NotAvailableValue
	}
	return t
}

// SetChannelText implements display.Sink.
func (t *Tracker) SetChannelText(ch logic.Channel, text string) {
	if ch < 0 || int(ch) >= len(t.snap.Channels) {
		return
	}
	t.mu.Lock()
	t.snap.Channels[ch] = text
	t.mu.Unlock()
}

// SetPositionText implements display.Sink.
func (t *Tracker) SetPositionText(text string) {
	t.mu.Lock()
	t.snap.Position = text
	t.mu.Unlock()
}

// SetInsightText implements display.Sink.
func (t *Tracker) SetInsightText(text string) {
	t.mu.Lock()
	t.snap.Insight = text
	t.mu.Unlock()
}

// RepaintChart implements display.Sink.
func (t *Tracker) RepaintChart() {
	t.bumpChart()
}

// ClearChart implements display.Sink.
func (t *Tracker) ClearChart() {
	t.bumpChart()
}

func (t *Tracker) bumpChart() {
	points := 0
	if t.buffer != nil {
		points = t.buffer.Len()
	}
	t.mu.Lock()
	t.snap.Points = points
	t.snap.ChartVersion++
	t.mu.Unlock()
}

// SetSession implements display.SessionSink.
func (t *Tracker) SetSession(s display.SessionState) {
	t.mu.Lock()
	t.snap.Session = s
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
