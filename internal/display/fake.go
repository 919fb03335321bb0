package display

import (
	"sync"

	"github.com/partheniadis/r-node-nRF/internal/logic"
)

// FakeSink records the latest texts and counts chart calls for tests.
type FakeSink struct {
	mu       sync.Mutex
	channels map[logic.Channel]string
	position string
	insight  string
	repaints int
	clears   int
	session  SessionState
	sessions int
}

// NewFakeSink creates an empty FakeSink.
func NewFakeSink() *FakeSink {
	return &FakeSink{channels: make(map[logic.Channel]string)}
}

func (f *FakeSink) SetChannelText(ch logic.Channel, text string) {
	f.mu.Lock()
	f.channels[ch] = text
	f.mu.Unlock()
}

func (f *FakeSink) SetPositionText(text string) {
	f.mu.Lock()
	f.position = text
	f.mu.Unlock()
}

func (f *FakeSink) SetInsightText(text string) {
	f.mu.Lock()
	f.insight = text
	f.mu.Unlock()
}

func (f *FakeSink) RepaintChart() {
	f.mu.Lock()
	f.repaints++
	f.mu.Unlock()
}

func (f *FakeSink) ClearChart() {
	f.mu.Lock()
	f.clears++
	f.mu.Unlock()
}

func (f *FakeSink) SetSession(s SessionState) {
	f.mu.Lock()
	f.session = s
	f.sessions++
	f.mu.Unlock()
}

// Channel returns the last text set for ch.
func (f *FakeSink) Channel(ch logic.Channel) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channels[ch]
}

// Position returns the last position text.
func (f *FakeSink) Position() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

// Insight returns the last insight text.
func (f *FakeSink) Insight() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insight
}

// Repaints returns the number of RepaintChart calls.
func (f *FakeSink) Repaints() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.repaints
}

// Clears returns the number of ClearChart calls.
func (f *FakeSink) Clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

// Session returns the last session state and how many times it was set.
func (f *FakeSink) Session() (SessionState, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.sessions
}
