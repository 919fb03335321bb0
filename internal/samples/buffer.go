// Package samples holds the per-channel point sequences that feed the chart.
package samples

import (
	"sync"

	"github.com/partheniadis/r-node-nRF/internal/logic"
)

// Point is one chart sample: the shared tick index and the channel value.
type Point struct {
	Index int
	Value int
}

// Buffer stores three parallel point sequences, one per channel.
// Points are never evicted; the buffer lives for one session and is emptied
// by Clear. Writers run on the UI loop, renderers read copies from their own
// goroutines.
type Buffer struct {
	mu     sync.RWMutex
	series [3][]Point
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds one point per channel at the given index.
// The caller guarantees the index is monotonic.
func (b *Buffer) Append(index int, r logic.Reading) {
	b.mu.Lock()
	for _, ch := range logic.Channels {
		b.series[ch] = append(b.series[ch], Point{Index: index, Value: r.Value(ch)})
	}
	b.mu.Unlock()
}

// Clear empties all three sequences.
func (b *Buffer) Clear() {
	b.mu.Lock()
	for i := range b.series {
		b.series[i] = nil
	}
	b.mu.Unlock()
}

// Len returns the number of points in each sequence.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.series[logic.ChannelFinger])
}

// Series returns a copy of the points for one channel.
func (b *Buffer) Series(ch logic.Channel) []Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if ch < 0 || int(ch) >= len(b.series) {
		return nil
	}
	out := make([]Point, len(b.series[ch]))
	copy(out, b.series[ch])
	return out
}

// LastN returns copies of the last n points of every channel, indexed by channel.
func (b *Buffer) LastN(n int) [3][]Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out [3][]Point
	if n <= 0 {
		return out
	}
	for i, pts := range b.series {
		start := len(pts) - n
		if start < 0 {
			start = 0
		}
		out[i] = make([]Point, len(pts)-start)
		copy(out[i], pts[start:])
	}
	return out
}

// Last returns the most recent point of every channel as a reading together
// with its index. ok is false when the buffer is empty.
func (b *Buffer) Last() (index int, r logic.Reading, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := len(b.series[logic.ChannelFinger])
	if n == 0 {
		return 0, logic.Reading{}, false
	}
	f := b.series[logic.ChannelFinger][n-1]
	r = logic.Reading{
		Finger:      f.Value,
		Environment: b.series[logic.ChannelEnvironment][n-1].Value,
		Object:      b.series[logic.ChannelObject][n-1].Value,
	}
	return f.Index, r, true
}
