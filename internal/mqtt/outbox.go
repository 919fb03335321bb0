package mqtt

import "go.uber.org/zap"

// DefaultBufferSize is the number of messages kept while disconnected.
// At one sample per second this covers five minutes offline.
const DefaultBufferSize = 300

// outboxMsg is a serialized message waiting for the broker.
type outboxMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox keeps the newest messages produced while offline, oldest first.
// The caller synchronizes access.
type outbox struct {
	msgs    []outboxMsg
	start   int // oldest message
	n       int
	dropped int // since the last drain
	logger  *zap.Logger
}

func newOutbox(capacity int, logger *zap.Logger) *outbox {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &outbox{msgs: make([]outboxMsg, capacity), logger: logger}
}

func (o *outbox) capacity() int {
	return len(o.msgs)
}

// push appends m, evicting the oldest message when full.
func (o *outbox) push(m outboxMsg) {
	c := len(o.msgs)
	if o.n < c {
		o.msgs[(o.start+o.n)%c] = m
		o.n++
		return
	}
	if o.dropped == 0 {
		o.logger.Warn("[mqtt] offline buffer full, dropping oldest", zap.Int("capacity", c))
	}
	o.dropped++
	o.msgs[o.start] = m
	o.start = (o.start + 1) % c
}

// drain returns the queued messages oldest first and empties the outbox.
func (o *outbox) drain() []outboxMsg {
	if o.n == 0 {
		return nil
	}
	out := make([]outboxMsg, 0, o.n)
	for i := 0; i < o.n; i++ {
		out = append(out, o.msgs[(o.start+i)%len(o.msgs)])
	}
	if o.dropped > 0 {
		o.logger.Info("[mqtt] replaying offline buffer", zap.Int("queued", o.n), zap.Int("dropped", o.dropped))
	}
	o.start, o.n, o.dropped = 0, 0, 0
	return out
}

func (o *outbox) len() int {
	return o.n
}
