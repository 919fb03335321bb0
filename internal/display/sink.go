// Package display mediates between sensor callbacks and the view layer.
package display

import "github.com/partheniadis/r-node-nRF/internal/logic"

// Placeholder texts shown when there is no data.
const (
	NotAvailableValue = "N/A"
	NotAvailable      = "not available"
)

// Sink is the view layer. Chart points are not pushed through the sink:
// the controller appends them to the samples.Buffer it shares with the
// sink and then asks for a repaint.
type Sink interface {
	SetChannelText(ch logic.Channel, text string)
	SetPositionText(text string)
	SetInsightText(text string)
	RepaintChart()
	ClearChart()
}

// SessionState is the controller state that survives a suspension.
type SessionState struct {
	InProgress bool
	Counter    int
	Latest     logic.Reading
}

// SessionSink is implemented by sinks that also display session state.
type SessionSink interface {
	SetSession(s SessionState)
}

// Tee fans every call out to all sinks in order.
func Tee(sinks ...Sink) Sink {
	return teeSink(sinks)
}

type teeSink []Sink

func (t teeSink) SetChannelText(ch logic.Channel, text string) {
	for _, s := range t {
		s.SetChannelText(ch, text)
	}
}

func (t teeSink) SetPositionText(text string) {
	for _, s := range t {
		s.SetPositionText(text)
	}
}

func (t teeSink) SetInsightText(text string) {
	for _, s := range t {
		s.SetInsightText(text)
	}
}

func (t teeSink) RepaintChart() {
	for _, s := range t {
		s.RepaintChart()
	}
}

func (t teeSink) ClearChart() {
	for _, s := range t {
		s.ClearChart()
	}
}

func (t teeSink) SetSession(st SessionState) {
	for _, s := range t {
		if ss, ok := s.(SessionSink); ok {
			ss.SetSession(st)
		}
	}
}
