package fsm

import "time"

// DefaultEvaluationInterval caps input latency for states that are only
// polled periodically.
const DefaultEvaluationInterval = 20 * time.Millisecond

// EventFlags are one-shot notifications that force an evaluation on the next tick.
type EventFlags uint8

const (
	GroundedChanged EventFlags = 1 << iota
	MovementInputChanged
	AttackRequested
	SkillRequested
	DamageReceived
)

func (e EventFlags) Has(flag EventFlags) bool {
	return e&flag != 0
}

// Clock is the monotonic time source used by the scheduler.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Scheduler decides once per tick whether the rule table is scanned.
type Scheduler struct {
	clock    Clock
	flags    *CapabilityFlags
	interval time.Duration

	events   EventFlags
	lastEval time.Time
}

func newScheduler(clock Clock, flags *CapabilityFlags, interval time.Duration) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	if interval <= 0 {
		interval = DefaultEvaluationInterval
	}
	return &Scheduler{clock: clock, flags: flags, interval: interval}
}

// Raise sets event flags. It never evaluates.
func (s *Scheduler) Raise(flags EventFlags) {
	s.events |= flags
}

// Pending returns the event flags raised since the last evaluation.
func (s *Scheduler) Pending() EventFlags {
	return s.events
}

func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultEvaluationInterval
	}
	s.interval = d
}

// ShouldEvaluate applies the hybrid policy: events, then the dirty marker,
// then the minimum interval, then the volatile-state rule.
func (s *Scheduler) ShouldEvaluate(current State) bool {
	if s.events != 0 {
		return true
	}
	if s.flags != nil && s.flags.dirty {
		return true
	}
	if s.lastEval.IsZero() || s.clock.Now().Sub(s.lastEval) >= s.interval {
		return true
	}
	return current.Volatile()
}

// evaluated clears the one-shot state after a scan, whether or not it transitioned.
func (s *Scheduler) evaluated() {
	s.events = 0
	if s.flags != nil {
		s.flags.takeDirty()
	}
	s.lastEval = s.clock.Now()
}

func (s *Scheduler) reset() {
	s.events = 0
	s.lastEval = time.Time{}
}
