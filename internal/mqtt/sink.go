package mqtt

import (
	"time"

	"go.uber.org/zap"

	"github.com/partheniadis/r-node-nRF/internal/logic"
	"github.com/partheniadis/r-node-nRF/internal/samples"
)

// Sink mirrors the display to MQTT: every new chart sample and every
// insight change is published. It runs on the display loop.
type Sink struct {
	pub    Publisher
	buffer *samples.Buffer
	now    func() time.Time
	logger *zap.Logger

	lastIndex   int
	lastInsight string
}

// NewSink creates a sink that reads new samples from buf.
func NewSink(pub Publisher, buf *samples.Buffer, now func() time.Time, logger *zap.Logger) *Sink {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{pub: pub, buffer: buf, now: now, logger: logger}
}

func (s *Sink) SetChannelText(logic.Channel, string) {}

func (s *Sink) SetPositionText(string) {}

// SetInsightText publishes the insight if it changed.
func (s *Sink) SetInsightText(text string) {
	if text == s.lastInsight {
		return
	}
	s.lastInsight = text
	if err := s.pub.PublishInsight(InsightEvent{Timestamp: s.now(), Text: text}); err != nil {
		s.logger.Warn("[mqtt] insight publish failed", zap.Error(err))
	}
}

// RepaintChart publishes the newest sample if it has not been sent yet.
func (s *Sink) RepaintChart() {
	index, r, ok := s.buffer.Last()
	if !ok || index == s.lastIndex {
		return
	}
	s.lastIndex = index
	if err := s.pub.PublishSample(Sample{Timestamp: s.now(), Index: index, Reading: r}); err != nil {
		s.logger.Warn("[mqtt] sample publish failed", zap.Error(err))
	}
}

// ClearChart forgets the last published sample so a restarted counter is
// published from its first index.
func (s *Sink) ClearChart() {
	s.lastIndex = 0
}
