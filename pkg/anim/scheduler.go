// Package anim provides the frame scheduler that drives the renderer
// while the viewer is visible. The scheduler wraps the start/stop
// lifecycle as an explicit object owned by the viewer instance, so
// teardown paths cannot leak a callback against a destroyed canvas.
package anim

import (
	"sync"
	"time"
)

// DefaultInterval approximates one display refresh at 60 Hz.
const DefaultInterval = time.Second / 60

// Scheduler invokes a frame callback once per interval between Start and
// Stop. Start and Stop are both idempotent; Stop is safe to call multiple
// times and from teardown paths that may run after the viewer closed.
//
// When constructed without a callback the scheduler acts as a frame
// clock: shells that own their own draw loop (the ebiten viewer) call
// Elapsed for the animation time and Running to gate drawing.
type Scheduler struct {
	mu       sync.Mutex
	running  bool
	done     chan struct{}
	stopped  chan struct{}
	start    time.Time
	frozen   time.Duration
	interval time.Duration
	onFrame  func(elapsed time.Duration)
}

// NewScheduler creates a scheduler firing onFrame every interval.
// A nil onFrame yields a clock-only scheduler; a non-positive interval
// falls back to DefaultInterval.
func NewScheduler(interval time.Duration, onFrame func(elapsed time.Duration)) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, onFrame: onFrame}
}

// Start begins frame scheduling. Calling Start on a running scheduler is
// a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.start = time.Now()
	s.frozen = 0
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})

	if s.onFrame == nil {
		close(s.stopped)
		return
	}

	done, stopped := s.done, s.stopped
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.onFrame(s.Elapsed())
			}
		}
	}()
}

// Stop halts frame scheduling and freezes the clock. Idempotent; returns
// after the frame goroutine has exited so no callback can fire against a
// torn-down canvas.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.frozen = time.Since(s.start)
	close(s.done)
	stopped := s.stopped
	s.mu.Unlock()

	<-stopped
}

// Running reports whether the scheduler is between Start and Stop.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Elapsed returns the animation clock: time since Start while running,
// frozen at the Stop instant afterward, zero before the first Start.
func (s *Scheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return s.frozen
	}
	return time.Since(s.start)
}
