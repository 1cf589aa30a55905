// Package anim drives time-based transitions. Progress is derived from
// a monotonic clock, not from frame counts, so motion takes the same
// wall time at any display refresh rate.
package anim

import (
	"time"

	"github.com/wudi/flipkit/geom"
)

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// FrameScheduler registers a callback to run at the host's next display
// refresh. The callback receives the time it actually runs at.
type FrameScheduler interface {
	Schedule(fn func(now time.Time))
}

type Scheduler struct {
	clock  Clock
	frames FrameScheduler
}

func New(clock Clock, frames FrameScheduler) *Scheduler {
	return &Scheduler{clock: clock, frames: frames}
}

// Animate invokes frame with t climbing from 0 to 1 over duration,
// re-registering itself each refresh until t reaches 1, then calls done
// exactly once. Easing is the frame callback's business; t is linear
// elapsed time.
func (s *Scheduler) Animate(duration time.Duration, frame func(t float64), done func()) {
	if duration <= 0 {
		frame(1)
		if done != nil {
			done()
		}
		return
	}
	start := s.clock.Now()
	var step func(now time.Time)
	step = func(now time.Time) {
		t := geom.Clamp(float64(now.Sub(start))/float64(duration), 0, 1)
		frame(t)
		if t >= 1 {
			if done != nil {
				done()
			}
			return
		}
		s.frames.Schedule(step)
	}
	s.frames.Schedule(step)
}

// ManualClock is a test clock advanced by hand.
type ManualClock struct {
	now time.Time
}

func NewManualClock() *ManualClock { return &ManualClock{now: time.Unix(0, 0)} }

func (c *ManualClock) Now() time.Time            { return c.now }
func (c *ManualClock) Advance(d time.Duration)   { c.now = c.now.Add(d) }

// StepScheduler queues callbacks and runs them only when stepped,
// giving tests full control over frame timing.
type StepScheduler struct {
	clock   Clock
	pending []func(now time.Time)
}

func NewStepScheduler(clock Clock) *StepScheduler { return &StepScheduler{clock: clock} }

func (s *StepScheduler) Schedule(fn func(now time.Time)) {
	s.pending = append(s.pending, fn)
}

func (s *StepScheduler) Pending() int { return len(s.pending) }

// Step runs all currently queued callbacks. Callbacks scheduled during
// the step run on the next Step call.
func (s *StepScheduler) Step() {
	batch := s.pending
	s.pending = nil
	now := s.clock.Now()
	for _, fn := range batch {
		fn(now)
	}
}

// RunToCompletion steps repeatedly, advancing the clock by interval
// before each step, until nothing remains scheduled.
func (s *StepScheduler) RunToCompletion(clock *ManualClock, interval time.Duration) {
	for len(s.pending) > 0 {
		clock.Advance(interval)
		s.Step()
	}
}
