package display

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/partheniadis/r-node-nRF/internal/lifecycle"
	"github.com/partheniadis/r-node-nRF/internal/logic"
	"github.com/partheniadis/r-node-nRF/internal/refresh"
	"github.com/partheniadis/r-node-nRF/internal/samples"
)

// Snapshot keys.
const (
	KeyGraphStatus  = "graph_status"
	KeyGraphCounter = "graph_counter"
	KeyFingerValue  = "finger_value"
	KeyEnvValue     = "env_value"
	KeyObjValue     = "obj_value"
)

// Config configures the refresh cadence and how ticks reach the loop.
type Config struct {
	// Interval is the chart refresh period (refresh.DefaultInterval if zero).
	Interval time.Duration
	// Clock schedules refresh ticks (refresh.RealClock if nil).
	Clock refresh.Clock
	// Post marshals a function onto the goroutine that owns the controller.
	Post func(func())
}

// Controller owns the session state and drives the sample buffer, the
// insight classifier and the refresh scheduler from sensor callbacks.
//
// Controller is not safe for concurrent use. Every method, including the
// scheduler's ticks, must run on the loop goroutine given by Config.Post.
type Controller struct {
	sink      Sink
	buffer    *samples.Buffer
	scheduler *refresh.Scheduler
	logger    *zap.Logger

	counter int
	latest  logic.Reading
}

// New creates a controller drawing into buf and reporting to sink.
func New(sink Sink, buf *samples.Buffer, cfg Config, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		sink:   sink,
		buffer: buf,
		logger: logger,
	}
	c.scheduler = refresh.New(cfg.Interval, cfg.Clock, cfg.Post, c.tick, logger)
	return c
}

// Buffer returns the chart buffer shared with the sinks.
func (c *Controller) Buffer() *samples.Buffer {
	return c.buffer
}

// State returns the current session state.
func (c *Controller) State() SessionState {
	return SessionState{
		InProgress: c.scheduler.Running(),
		Counter:    c.counter,
		Latest:     c.latest,
	}
}

// OnServicesDiscovered is called once the sensor's services are known.
func (c *Controller) OnServicesDiscovered(optionalServicesFound bool) {
	c.logger.Info("[display] services discovered", zap.Bool("optional", optionalServicesFound))
}

// OnDeviceReady starts the chart refresh.
func (c *Controller) OnDeviceReady() {
	c.logger.Info("[display] device ready")
	c.scheduler.Start()
	c.publishSession()
}

// OnPositionFound shows the sensor position, or a placeholder if empty.
func (c *Controller) OnPositionFound(position string) {
	if position == "" {
		c.sink.SetPositionText(NotAvailable)
		return
	}
	c.sink.SetPositionText(position)
}

// OnReadingReceived stores r as the latest reading and updates the channel
// and insight texts. Out-of-range readings show placeholders and leave the
// insight as it was.
func (c *Controller) OnReadingReceived(r logic.Reading) {
	c.latest = r

	if !r.InRange() {
		c.logger.Debug("[display] reading out of range",
			zap.Int("finger", r.Finger),
			zap.Int("environment", r.Environment),
			zap.Int("object", r.Object),
		)
		c.setChannelPlaceholders()
		return
	}

	for _, ch := range logic.Channels {
		c.sink.SetChannelText(ch, strconv.Itoa(r.Value(ch)))
	}
	if insight, ok := logic.Classify(r); ok {
		c.sink.SetInsightText(string(insight))
	}
}

// OnDisconnected shows placeholders and stops the chart refresh.
func (c *Controller) OnDisconnected() {
	c.logger.Info("[display] device disconnected")
	c.setChannelPlaceholders()
	c.sink.SetPositionText(NotAvailable)
	c.scheduler.Stop()
	c.publishSession()
}

// ResetToDefault shows placeholders, empties the chart and zeroes the
// counter and cached readings.
func (c *Controller) ResetToDefault() {
	c.logger.Info("[display] reset to default", zap.Int("counter", c.counter))
	c.setChannelPlaceholders()
	c.sink.SetPositionText(NotAvailable)

	c.buffer.Clear()
	c.sink.ClearChart()
	c.sink.RepaintChart()
	c.counter = 0
	c.latest = logic.Reading{}
	c.publishSession()
}

// Save captures the session state into a snapshot.
func (c *Controller) Save() *lifecycle.Bundle {
	b := lifecycle.NewBundle()
	b.PutBool(KeyGraphStatus, c.scheduler.Running())
	b.PutInt(KeyGraphCounter, c.counter)
	b.PutInt(KeyFingerValue, c.latest.Finger)
	b.PutInt(KeyEnvValue, c.latest.Environment)
	b.PutInt(KeyObjValue, c.latest.Object)
	return b
}

// Restore loads a snapshot taken by Save. If the chart was refreshing when
// the snapshot was taken, refreshing resumes and the counter continues from
// the saved value.
func (c *Controller) Restore(b *lifecycle.Bundle) {
	c.counter = b.Int(KeyGraphCounter)
	c.latest = logic.Reading{
		Finger:      b.Int(KeyFingerValue),
		Environment: b.Int(KeyEnvValue),
		Object:      b.Int(KeyObjValue),
	}
	inProgress := b.Bool(KeyGraphStatus)
	c.logger.Info("[display] session restored",
		zap.Bool("in_progress", inProgress),
		zap.Int("counter", c.counter),
	)
	if inProgress {
		c.scheduler.Start()
	}
	c.publishSession()
}

// Destroy stops the chart refresh for good.
func (c *Controller) Destroy() {
	c.scheduler.Stop()
	c.publishSession()
}

// tick samples the latest reading into the chart. Readings with any
// non-positive channel are not sampled.
func (c *Controller) tick() {
	if !c.latest.Positive() {
		return
	}
	c.counter++
	c.buffer.Append(c.counter, c.latest)
	c.sink.RepaintChart()
	c.publishSession()
}

func (c *Controller) setChannelPlaceholders() {
	for _, ch := range logic.Channels {
		c.sink.SetChannelText(ch, NotAvailableValue)
	}
}

func (c *Controller) publishSession() {
	if ss, ok := c.sink.(SessionSink); ok {
		ss.SetSession(c.State())
	}
}
