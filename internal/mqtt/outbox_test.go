package mqtt

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func pushN(o *outbox, from, to int) {
	for i := from; i < to; i++ {
		o.push(outboxMsg{topic: TopicSamples, payload: []byte{byte(i)}})
	}
}

func payloads(msgs []outboxMsg) []byte {
	out := make([]byte, len(msgs))
	for i, m := range msgs {
		out[i] = m.payload[0]
	}
	return out
}

func TestOutboxDrainOrder(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		pushed   int
		want     []byte
	}{
		{"empty", 10, 0, nil},
		{"partial", 10, 5, []byte{0, 1, 2, 3, 4}},
		{"full", 4, 4, []byte{0, 1, 2, 3}},
		{"overflow keeps newest", 5, 8, []byte{3, 4, 5, 6, 7}},
		{"overflow wraps twice", 3, 10, []byte{7, 8, 9}},
	}
	for _, tt := range tests {
		o := newOutbox(tt.capacity, nil)
		pushN(o, 0, tt.pushed)

		got := o.drain()
		if tt.want == nil {
			if got != nil {
				t.Errorf("%s: expected nil drain, got %d items", tt.name, len(got))
			}
			continue
		}
		if string(payloads(got)) != string(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, payloads(got), tt.want)
		}
		if o.len() != 0 || o.drain() != nil {
			t.Errorf("%s: outbox not empty after drain", tt.name)
		}
	}
}

func TestOutboxReuseAfterOverflow(t *testing.T) {
	o := newOutbox(3, nil)
	pushN(o, 0, 5)
	o.drain()

	pushN(o, 10, 12)
	if o.len() != 2 {
		t.Fatalf("len: got %d, want 2", o.len())
	}
	if got := payloads(o.drain()); string(got) != string([]byte{10, 11}) {
		t.Errorf("second cycle: got %v", got)
	}
}

func TestOutboxDefaultCapacity(t *testing.T) {
	if got := newOutbox(0, nil).capacity(); got != DefaultBufferSize {
		t.Errorf("capacity: got %d, want %d", got, DefaultBufferSize)
	}
}

func TestOutboxPreservesFields(t *testing.T) {
	o := newOutbox(10, nil)
	o.push(outboxMsg{topic: TopicSystem, payload: []byte(`{"system":{}}`), qos: 1, retained: true})

	got := o.drain()
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].topic != TopicSystem || got[0].qos != 1 || !got[0].retained {
		t.Errorf("fields not preserved: %+v", got[0])
	}
	if string(got[0].payload) != `{"system":{}}` {
		t.Errorf("payload: got %s", got[0].payload)
	}
}

func TestOutboxLogsOverflow(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	o := newOutbox(2, zap.New(core))

	pushN(o, 0, 6)
	if n := logs.FilterLevelExact(zap.WarnLevel).Len(); n != 1 {
		t.Errorf("warnings after first overflow: got %d, want 1", n)
	}

	o.drain()
	replay := logs.FilterMessage("[mqtt] replaying offline buffer").All()
	if len(replay) != 1 {
		t.Fatalf("replay logs: got %d, want 1", len(replay))
	}
	if got := replay[0].ContextMap()["dropped"]; got != int64(4) {
		t.Errorf("dropped: got %v, want 4", got)
	}

	pushN(o, 0, 3)
	if n := logs.FilterLevelExact(zap.WarnLevel).Len(); n != 2 {
		t.Errorf("warnings after second overflow: got %d, want 2", n)
	}
}
