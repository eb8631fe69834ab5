package anim

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerFiresFrames(t *testing.T) {
	var frames atomic.Int64
	s := NewScheduler(time.Millisecond, func(elapsed time.Duration) {
		frames.Add(1)
	})

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if frames.Load() == 0 {
		t.Error("scheduler never fired")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewScheduler(time.Millisecond, func(time.Duration) {})
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()

	if s.Running() {
		t.Error("scheduler still running after Stop")
	}
}

func TestStopBeforeStart(t *testing.T) {
	s := NewScheduler(time.Millisecond, nil)
	s.Stop() // must not panic or block
	if s.Elapsed() != 0 {
		t.Errorf("Elapsed before Start = %v, want 0", s.Elapsed())
	}
}

func TestStartIsIdempotent(t *testing.T) {
	s := NewScheduler(time.Millisecond, nil)
	s.Start()
	first := s.Elapsed()
	time.Sleep(5 * time.Millisecond)
	s.Start() // no-op: must not reset the clock
	if s.Elapsed() < first {
		t.Error("second Start reset the clock")
	}
	s.Stop()
}

func TestNoFramesAfterStop(t *testing.T) {
	var frames atomic.Int64
	s := NewScheduler(time.Millisecond, func(time.Duration) {
		frames.Add(1)
	})

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop() // blocks until the frame goroutine exits

	after := frames.Load()
	time.Sleep(20 * time.Millisecond)
	if frames.Load() != after {
		t.Error("callback fired after Stop returned")
	}
}

func TestElapsedFreezesOnStop(t *testing.T) {
	s := NewScheduler(0, nil) // clock-only mode
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	frozen := s.Elapsed()
	if frozen <= 0 {
		t.Fatalf("Elapsed after stop = %v, want > 0", frozen)
	}
	time.Sleep(10 * time.Millisecond)
	if s.Elapsed() != frozen {
		t.Errorf("Elapsed advanced after Stop: %v vs %v", s.Elapsed(), frozen)
	}
}

func TestClockOnlyMode(t *testing.T) {
	s := NewScheduler(DefaultInterval, nil)
	s.Start()
	if !s.Running() {
		t.Fatal("clock-only scheduler should report running")
	}
	time.Sleep(5 * time.Millisecond)
	if s.Elapsed() <= 0 {
		t.Error("clock-only Elapsed should advance")
	}
	s.Stop()
}

func TestRestartResetsClock(t *testing.T) {
	s := NewScheduler(time.Millisecond, nil)
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	s.Start()
	if s.Elapsed() > 15*time.Millisecond {
		t.Errorf("restart should reset the clock, Elapsed = %v", s.Elapsed())
	}
	s.Stop()
}
