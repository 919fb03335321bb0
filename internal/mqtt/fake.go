package mqtt

// FakeMessage is one message as RealPublisher would put it on the wire.
type FakeMessage struct {
	Topic    string
	Payload  []byte
	QoS      byte
	Retained bool
}

// FakePublisher records published events for test assertions. It is not
// safe for concurrent use.
type FakePublisher struct {
	Samples      []Sample
	Insights     []InsightEvent
	SystemEvents []SystemEvent

	// SystemPayloads holds the JSON of every system event, in order.
	SystemPayloads [][]byte

	// Messages holds every recorded message with its topic, in order.
	Messages []FakeMessage

	// PublishError is returned by PublishSample and PublishInsight when set.
	PublishError error
	// PublishSystemError is returned by PublishSystem when set.
	PublishSystemError error

	Closed    bool
	Connected bool // returned by IsConnected
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) record(topic string, qos byte, retained bool, payload []byte) {
	f.Messages = append(f.Messages, FakeMessage{Topic: topic, Payload: payload, QoS: qos, Retained: retained})
}

func (f *FakePublisher) PublishSample(s Sample) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatSamplePayload(s)
	if err != nil {
		return err
	}
	f.Samples = append(f.Samples, s)
	f.record(TopicSamples, 0, false, payload)
	return nil
}

func (f *FakePublisher) PublishInsight(i InsightEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatInsightPayload(i)
	if err != nil {
		return err
	}
	f.Insights = append(f.Insights, i)
	f.record(TopicInsight, 1, true, payload)
	return nil
}

func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	f.record(TopicSystem, 1, event.Retained, payload)
	return nil
}

// Topics returns the topic of every recorded message, in order.
func (f *FakePublisher) Topics() []string {
	out := make([]string, len(f.Messages))
	for i, m := range f.Messages {
		out[i] = m.Topic
	}
	return out
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears everything, including injected errors.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
