// Package refresh provides the periodic chart refresh task.
//
// A Scheduler is owned by a single loop goroutine: Start, Stop and the tick
// function all run there. Timer callbacks never touch scheduler state
// directly; they post a tick back onto the loop, where the liveness flag and
// generation are checked before the tick runs.
package refresh

import (
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the chart refresh period.
const DefaultInterval = 1000 * time.Millisecond

// Scheduler runs a tick function immediately on Start and then every
// interval until Stop.
type Scheduler struct {
	interval time.Duration
	clock    Clock
	post     func(func())
	tick     func()
	logger   *zap.Logger

	running bool
	gen     uint64 // bumped on Stop so queued ticks from an old run are dropped
	pending Timer
}

// New creates a stopped scheduler. post marshals a function onto the loop
// goroutine that owns the scheduler; tick is the work done on every tick.
func New(interval time.Duration, clock Clock, post func(func()), tick func(), logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		interval: interval,
		clock:    clock,
		post:     post,
		tick:     tick,
		logger:   logger,
	}
}

// Running reports whether the scheduler is started.
func (s *Scheduler) Running() bool {
	return s.running
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start marks the scheduler running and performs the first tick
// synchronously. Calling Start while running is a no-op.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.logger.Debug("[refresh] started", zap.Duration("interval", s.interval))
	s.fire(s.gen)
}

// Stop cancels the pending tick. No tick runs after Stop returns.
// Calling Stop while stopped is a no-op.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.logger.Debug("[refresh] stopped")
}

func (s *Scheduler) fire(gen uint64) {
	if !s.running || gen != s.gen {
		return
	}
	s.tick()
	// tick may have stopped the scheduler
	if !s.running || gen != s.gen {
		return
	}
	s.pending = s.clock.AfterFunc(s.interval, func() {
		s.post(func() { s.fire(gen) })
	})
}
