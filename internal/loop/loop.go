// Package loop provides the single goroutine that owns all display state.
//
// Sensor callbacks, timer ticks and button presses arrive on arbitrary
// goroutines; they Post closures here and the owner drains Queue from its
// select loop, so controller state is only ever touched from one goroutine.
package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("loop closed")

// DefaultQueueSize is the posted-work buffer used by New when size <= 0.
const DefaultQueueSize = 64

// Loop is a queue of work executed in order by its owner.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a loop with room for size queued functions.
func New(size int) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post queues f to run on the loop goroutine. It blocks while the queue is
// full and returns false once the loop is closed.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- f:
		return true
	case <-l.done:
		return false
	}
}

// Queue returns the channel the owner receives posted functions from.
func (l *Loop) Queue() <-chan func() {
	return l.queue
}

// Done is closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Close stops accepting work. Queued functions are discarded.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Run executes posted functions until ctx is cancelled or the loop is closed.
// It is the simplest owner; daemons with extra event sources select on
// Queue themselves.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrClosed
		case f := <-l.queue:
			f()
		}
	}
}

// Call runs f on the loop and waits for it to finish. It returns false if
// the loop closed before f ran.
func (l *Loop) Call(f func()) bool {
	ran := make(chan struct{})
	if !l.Post(func() {
		f()
		close(ran)
	}) {
		return false
	}
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}
