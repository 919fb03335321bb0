package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/partheniadis/r-node-nRF/internal/logic"
	"github.com/partheniadis/r-node-nRF/internal/samples"
	"github.com/partheniadis/r-node-nRF/internal/source"
)

var ts = time.Date(2026, 10, 19, 9, 15, 30, 0, time.UTC)

func TestFormatSamplePayloadExactJSON(t *testing.T) {
	payload, err := FormatSamplePayload(Sample{
		Timestamp: ts,
		Index:     7,
		Reading:   logic.Reading{Finger: 29, Environment: 21, Object: 24},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"sample":{"timestamp":"2026-10-19T09:15:30Z","index":7,"finger":29,"environment":21,"object":24}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatInsightPayloadExactJSON(t *testing.T) {
	payload, err := FormatInsightPayload(InsightEvent{Timestamp: ts, Text: string(logic.InsightLuckyWarm)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"insight":{"timestamp":"2026-10-19T09:15:30Z","text":"Lucky you! So warm!"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)
	payload, err := FormatSamplePayload(Sample{Timestamp: time.Date(2026, 10, 19, 11, 15, 30, 0, loc), Index: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var parsed SamplePayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Sample.Timestamp != "2026-10-19T09:15:30Z" {
		t.Errorf("timestamp should be UTC, got %s", parsed.Sample.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	tests := []struct {
		name  string
		event SystemEvent
		want  string
	}{
		{
			"shutdown with reason",
			SystemEvent{Timestamp: ts, Event: "SHUTDOWN", Reason: "SIGTERM"},
			`{"system":{"timestamp":"2026-10-19T09:15:30Z","event":"SHUTDOWN","reason":"SIGTERM"}}`,
		},
		{
			"will",
			SystemEvent{Timestamp: ts, Event: "SHUTDOWN", Reason: "MQTT_DISCONNECT"},
			`{"system":{"timestamp":"2026-10-19T09:15:30Z","event":"SHUTDOWN","reason":"MQTT_DISCONNECT"}}`,
		},
		{
			"reconnected omits reason",
			SystemEvent{Timestamp: ts, Event: "RECONNECTED"},
			`{"system":{"timestamp":"2026-10-19T09:15:30Z","event":"RECONNECTED"}}`,
		},
		{
			"raw payload passes through",
			SystemEvent{Timestamp: ts, Event: "STARTUP", RawPayload: []byte(`{"status":{}}`)},
			`{"status":{}}`,
		},
	}
	for _, tt := range tests {
		payload, err := FormatSystemPayload(tt.event)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if string(payload) != tt.want {
			t.Errorf("%s:\ngot:  %s\nwant: %s", tt.name, payload, tt.want)
		}
	}
}

func TestDecodeSensorEvent(t *testing.T) {
	tests := []struct {
		payload string
		want    source.Event
	}{
		{`{"type":"services","optional":true}`, source.Event{Type: source.EventServices, Optional: true}},
		{`{"type":"ready"}`, source.Event{Type: source.EventReady}},
		{`{"type":"position","position":"thumb"}`, source.Event{Type: source.EventPosition, Position: "thumb"}},
		{`{"type":"position"}`, source.Event{Type: source.EventPosition}},
		{`{"type":"reading","finger":30,"environment":22,"object":5}`, source.Event{Type: source.EventReading, Finger: 30, Environment: 22, Object: 5}},
		{`{"type":"disconnected"}`, source.Event{Type: source.EventDisconnected}},
	}
	for _, tt := range tests {
		got, err := DecodeSensorEvent([]byte(tt.payload))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.payload, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.payload, got, tt.want)
		}
	}
}

func TestDecodeSensorEventErrors(t *testing.T) {
	if _, err := DecodeSensorEvent([]byte(`{"type":"explode"}`)); !errors.Is(err, source.ErrUnknownEvent) {
		t.Errorf("unknown type: got %v, want ErrUnknownEvent", err)
	}
	if _, err := DecodeSensorEvent([]byte(`{"type":`)); err == nil {
		t.Error("truncated JSON: expected error")
	}
	if _, err := DecodeSensorEvent([]byte(`{}`)); !errors.Is(err, source.ErrUnknownEvent) {
		t.Errorf("missing type: got %v, want ErrUnknownEvent", err)
	}
}

// fakeMessage implements paho.Message.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

type callRecorder struct {
	calls []string
}

func (r *callRecorder) OnServicesDiscovered(bool)       { r.calls = append(r.calls, "services") }
func (r *callRecorder) OnDeviceReady()                  { r.calls = append(r.calls, "ready") }
func (r *callRecorder) OnPositionFound(p string)        { r.calls = append(r.calls, "pos:"+p) }
func (r *callRecorder) OnReadingReceived(logic.Reading) { r.calls = append(r.calls, "reading") }
func (r *callRecorder) OnDisconnected()                 { r.calls = append(r.calls, "disc") }

func TestSensorHandler(t *testing.T) {
	rec := &callRecorder{}
	handle := NewSensorHandler(rec, zaptest.NewLogger(t))

	for _, p := range []string{
		`{"type":"ready"}`,
		`not json`,
		`{"type":"position","position":"palm"}`,
		`{"type":"unknown"}`,
		`{"type":"reading","finger":1,"environment":2,"object":3}`,
		`{"type":"disconnected"}`,
	} {
		handle(nil, &fakeMessage{topic: TopicSensorEvents, payload: []byte(p)})
	}

	want := "ready pos:palm reading disc"
	if got := strings.Join(rec.calls, " "); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()
	if err := f.PublishSample(Sample{Timestamp: ts, Index: 1}); err != nil {
		t.Fatalf("PublishSample: %v", err)
	}
	if err := f.PublishInsight(InsightEvent{Timestamp: ts, Text: "x"}); err != nil {
		t.Fatalf("PublishInsight: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Timestamp: ts, Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}
	if len(f.Samples) != 1 || len(f.Insights) != 1 || len(f.SystemEvents) != 1 {
		t.Errorf("unexpected recordings: %+v", f)
	}
	if got := strings.Join(f.Topics(), ","); got != TopicSamples+","+TopicInsight+","+TopicSystem {
		t.Errorf("topics: got %s", got)
	}
	if m := f.Messages[1]; m.QoS != 1 || !m.Retained {
		t.Errorf("insight message: got qos=%d retained=%v", m.QoS, m.Retained)
	}

	f.PublishError = errors.New("broker down")
	if err := f.PublishSample(Sample{}); err == nil {
		t.Error("expected PublishError")
	}
	if len(f.Samples) != 1 {
		t.Errorf("failed publish should not be recorded, got %d samples", len(f.Samples))
	}

	f.Close()
	if !f.Closed {
		t.Error("expected Closed")
	}
	f.Reset()
	if f.Closed || f.PublishError != nil || f.Samples != nil {
		t.Errorf("Reset did not clear: %+v", f)
	}
}

func TestSinkPublishesNewSamples(t *testing.T) {
	pub := NewFakePublisher()
	buf := samples.NewBuffer()
	s := NewSink(pub, buf, func() time.Time { return ts }, zaptest.NewLogger(t))

	s.RepaintChart() // empty buffer
	buf.Append(1, logic.Reading{Finger: 25, Environment: 22, Object: 20})
	s.RepaintChart()
	s.RepaintChart() // nothing new
	buf.Append(2, logic.Reading{Finger: 26, Environment: 22, Object: 21})
	s.RepaintChart()

	if len(pub.Samples) != 2 {
		t.Fatalf("samples: got %d, want 2", len(pub.Samples))
	}
	if got := pub.Samples[1]; got.Index != 2 || got.Reading.Finger != 26 || !got.Timestamp.Equal(ts) {
		t.Errorf("second sample: got %+v", got)
	}

	// counter restarts at 1 after a reset
	buf.Clear()
	s.ClearChart()
	s.RepaintChart()
	buf.Append(1, logic.Reading{Finger: 24, Environment: 22, Object: 20})
	s.RepaintChart()
	if len(pub.Samples) != 3 || pub.Samples[2].Index != 1 {
		t.Errorf("after reset: got %+v", pub.Samples)
	}
}

func TestSinkPublishesInsightChanges(t *testing.T) {
	pub := NewFakePublisher()
	s := NewSink(pub, samples.NewBuffer(), func() time.Time { return ts }, nil)

	s.SetInsightText(string(logic.InsightHotFingers))
	s.SetInsightText(string(logic.InsightHotFingers))
	s.SetInsightText(string(logic.InsightGettingRisky))
	s.SetChannelText(logic.ChannelFinger, "30")
	s.SetPositionText("thumb")

	if len(pub.Insights) != 2 {
		t.Fatalf("insights: got %d, want 2", len(pub.Insights))
	}
	if pub.Insights[1].Text != string(logic.InsightGettingRisky) {
		t.Errorf("second insight: got %q", pub.Insights[1].Text)
	}
	if len(pub.Samples) != 0 {
		t.Errorf("texts should not publish samples, got %d", len(pub.Samples))
	}
}

func TestSinkLogsPublishErrors(t *testing.T) {
	pub := NewFakePublisher()
	pub.PublishError = errors.New("broker down")
	buf := samples.NewBuffer()
	s := NewSink(pub, buf, nil, zaptest.NewLogger(t))

	buf.Append(1, logic.Reading{Finger: 1, Environment: 1, Object: 1})
	s.RepaintChart()
	s.SetInsightText("x")
	if len(pub.Samples) != 0 || len(pub.Insights) != 0 {
		t.Error("nothing should be recorded when publishing fails")
	}
}
