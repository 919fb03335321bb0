package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/partheniadis/r-node-nRF/internal/source"
)

// Options configures a RealPublisher.
type Options struct {
	Broker   string
	ClientID string

	// SensorTopic is subscribed on every (re)connect once a sensor is set,
	// either here or later with Subscribe.
	SensorTopic string
	Sensor      source.Callbacks

	// BufferSize bounds the messages held while disconnected.
	BufferSize int
}

// RealPublisher publishes to an actual MQTT broker. Messages published
// while the connection is down are buffered and replayed on reconnect.
type RealPublisher struct {
	client paho.Client
	logger *zap.Logger

	sensorTopic string
	sensor      source.Callbacks

	mu            sync.Mutex
	outbox        *outbox
	connectedOnce bool
	replaying     bool // outbox not yet flushed after a connect
}

// NewRealPublisher creates a publisher for the given broker. If the broker
// is not reachable within the connect timeout the publisher is still
// returned and keeps retrying in the background.
func NewRealPublisher(opts Options, logger *zap.Logger) (*RealPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ClientID == "" {
		opts.ClientID = "rnode"
	}
	if opts.SensorTopic == "" {
		opts.SensorTopic = TopicSensorEvents
	}

	p := &RealPublisher{
		logger:      logger,
		sensorTopic: opts.SensorTopic,
		sensor:      opts.Sensor,
		outbox:      newOutbox(opts.BufferSize, logger),
	}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	clientOpts := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, false).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Warn("[mqtt] connection lost", zap.Error(err))
		})

	p.client = paho.NewClient(clientOpts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		logger.Warn("[mqtt] broker not reachable yet, buffering", zap.String("broker", opts.Broker))
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

func (p *RealPublisher) onConnect(c paho.Client) {
	p.mu.Lock()
	reconnect := p.connectedOnce
	p.connectedOnce = true
	p.replaying = true
	buffered := p.outbox.len()
	sensor := p.sensor
	p.mu.Unlock()

	p.logger.Info("[mqtt] connected", zap.Bool("reconnect", reconnect), zap.Int("buffered", buffered))

	if sensor != nil {
		p.subscribe(c, sensor)
	}
	p.replay(c)

	if reconnect {
		if err := p.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"}); err != nil {
			p.logger.Warn("[mqtt] reconnect event failed", zap.Error(err))
		}
	}
}

// replay publishes the outbox until it stays empty. Messages sent meanwhile
// are queued behind the backlog.
func (p *RealPublisher) replay(c paho.Client) {
	for {
		p.mu.Lock()
		pending := p.outbox.drain()
		if len(pending) == 0 {
			p.replaying = false
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		for _, msg := range pending {
			p.await(c.Publish(msg.topic, msg.qos, msg.retained, msg.payload), msg.topic)
		}
	}
}

// queued reports whether a message must go to the outbox. Caller holds mu.
func (p *RealPublisher) queued() bool {
	return p.replaying || !p.client.IsConnectionOpen()
}

func (p *RealPublisher) subscribe(c paho.Client, cb source.Callbacks) {
	token := c.Subscribe(p.sensorTopic, 1, NewSensorHandler(cb, p.logger))
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		p.logger.Error("[mqtt] subscribe failed", zap.String("topic", p.sensorTopic), zap.Error(token.Error()))
	}
}

// Subscribe delivers events from the sensor topic to cb, now if connected
// and again after every reconnect.
func (p *RealPublisher) Subscribe(cb source.Callbacks) {
	p.mu.Lock()
	p.sensor = cb
	open := p.client.IsConnectionOpen()
	p.mu.Unlock()

	if open {
		p.subscribe(p.client, cb)
	}
}

// send publishes without waiting for the broker, or buffers the message if
// the connection is down.
func (p *RealPublisher) send(topic string, qos byte, retained bool, payload []byte) {
	p.mu.Lock()
	if p.queued() {
		p.outbox.push(outboxMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	token := p.client.Publish(topic, qos, retained, payload)
	go p.await(token, topic)
}

func (p *RealPublisher) await(token paho.Token, topic string) {
	if !token.WaitTimeout(5 * time.Second) {
		p.logger.Warn("[mqtt] publish timeout", zap.String("topic", topic))
		return
	}
	if err := token.Error(); err != nil {
		p.logger.Warn("[mqtt] publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

// PublishSample sends a chart sample. QoS 0, not retained.
func (p *RealPublisher) PublishSample(s Sample) error {
	payload, err := FormatSamplePayload(s)
	if err != nil {
		return fmt.Errorf("format sample payload: %w", err)
	}
	p.send(TopicSamples, 0, false, payload)
	return nil
}

// PublishInsight sends an insight change. Retained so new subscribers see
// the current insight.
func (p *RealPublisher) PublishInsight(i InsightEvent) error {
	payload, err := FormatInsightPayload(i)
	if err != nil {
		return fmt.Errorf("format insight payload: %w", err)
	}
	p.send(TopicInsight, 1, true, payload)
	return nil
}

// PublishSystem sends a system lifecycle event and waits for delivery when
// connected.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	p.mu.Lock()
	if p.queued() {
		p.outbox.push(outboxMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	// QoS 1 (at-least-once) - we want lifecycle events delivered
	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Buffered returns the number of messages waiting for a connection.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outbox.len()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

// NewSensorHandler returns a message handler that decodes bridge events and
// delivers them to cb. Undecodable messages are logged and dropped.
func NewSensorHandler(cb source.Callbacks, logger *zap.Logger) paho.MessageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(_ paho.Client, msg paho.Message) {
		ev, err := DecodeSensorEvent(msg.Payload())
		if err != nil {
			logger.Warn("[mqtt] dropping sensor message", zap.String("topic", msg.Topic()), zap.Error(err))
			return
		}
		if err := source.Dispatch(ev, cb); err != nil {
			logger.Warn("[mqtt] dispatch failed", zap.Error(err))
		}
	}
}
