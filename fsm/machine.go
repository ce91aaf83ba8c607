package fsm

import (
	"log"
	"time"
)

// Config tunes a Machine. Zero values select the defaults.
type Config struct {
	Initial            State
	EvaluationInterval time.Duration
	HistoryCapacity    int
	// MoveDeadzone is the input magnitude below which the character is not moving.
	MoveDeadzone float64
	Clock        Clock
	Logger       *log.Logger
	// Debug logs rejected transition queries.
	Debug bool
}

const DefaultMoveDeadzone = 0.1

// Machine is the per-character action state controller. It is driven by a
// single goroutine, once per simulation tick.
type Machine struct {
	current  State
	previous State

	flags   CapabilityFlags
	ctx     Context
	table   *RuleTable
	sched   *Scheduler
	history *History
	clock   Clock
	logger  *log.Logger
	debug   bool

	enteredAt [stateCount]time.Time

	onChanged []func(from, to State)
	onEnter   []func(s State)
	onExit    []func(s State)

	committing bool
}

// New creates a machine in cfg.Initial and runs that state's enter hook.
// No notifications are emitted for the initial state.
func New(cfg Config, collab Collaborators) *Machine {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	deadzone := cfg.MoveDeadzone
	if deadzone <= 0 {
		deadzone = DefaultMoveDeadzone
	}
	initial := cfg.Initial
	if !initial.Valid() {
		logger.Printf("fsm: invalid initial state %s, using %s", initial, Idle)
		initial = Idle
	}

	m := &Machine{
		current:  initial,
		previous: initial,
		flags:    newCapabilityFlags(),
		table:    BuildTable(),
		history:  NewHistory(cfg.HistoryCapacity),
		clock:    clock,
		logger:   logger,
		debug:    cfg.Debug,
	}
	m.sched = newScheduler(clock, &m.flags, cfg.EvaluationInterval)
	m.ctx = Context{collab: collab, flags: &m.flags, sched: m.sched, moveDeadzone: deadzone}

	runEnter(initial, &m.flags)
	m.enteredAt[initial] = clock.Now()
	return m
}

func (m *Machine) Current() State  { return m.current }
func (m *Machine) Previous() State { return m.previous }

// Flags returns the capability flags. Consumers only read them.
func (m *Machine) Flags() *CapabilityFlags { return &m.flags }

func (m *Machine) Table() *RuleTable { return m.table }

func (m *Machine) Scheduler() *Scheduler { return m.sched }

func (m *Machine) SetEvaluationInterval(d time.Duration) {
	m.sched.SetInterval(d)
}

func (m *Machine) IsInState(s State) bool {
	return m.current == s
}

func (m *Machine) IsInAnyState(states ...State) bool {
	for _, s := range states {
		if m.current == s {
			return true
		}
	}
	return false
}

// CurrentStateDuration is the time since the current state was entered.
func (m *Machine) CurrentStateDuration() time.Duration {
	return m.clock.Now().Sub(m.enteredAt[m.current])
}

// History returns the recent transitions, oldest first.
func (m *Machine) History() []HistoryEntry {
	return m.history.Entries()
}

// LastTransition returns the most recent history entry. Inside a state
// change listener it is the transition being notified.
func (m *Machine) LastTransition() (HistoryEntry, bool) {
	return m.history.Last()
}

func (m *Machine) OnStateChanged(fn func(from, to State)) {
	if fn != nil {
		m.onChanged = append(m.onChanged, fn)
	}
}

func (m *Machine) OnStateEnter(fn func(s State)) {
	if fn != nil {
		m.onEnter = append(m.onEnter, fn)
	}
}

func (m *Machine) OnStateExit(fn func(s State)) {
	if fn != nil {
		m.onExit = append(m.onExit, fn)
	}
}

func (m *Machine) NotifyGroundedStateChanged(grounded bool) {
	m.flags.set(&m.flags.isGrounded, grounded)
	if grounded {
		m.flags.set(&m.flags.isFalling, false)
	}
	m.sched.Raise(GroundedChanged)
}

func (m *Machine) NotifyMovementInputChanged() { m.sched.Raise(MovementInputChanged) }
func (m *Machine) NotifyAttackRequested()      { m.sched.Raise(AttackRequested) }
func (m *Machine) NotifySkillRequested()       { m.sched.Raise(SkillRequested) }
func (m *Machine) NotifyDamageReceived()       { m.sched.Raise(DamageReceived) }

// EndInvincibility is called by the timer that owns the invincibility window.
func (m *Machine) EndInvincibility() {
	m.flags.setInvincible(false)
}

// ShouldEvaluate reports whether the next Evaluate call will scan the rule table.
func (m *Machine) ShouldEvaluate() bool {
	return m.sched.ShouldEvaluate(m.current)
}

// Update runs one tick: it mirrors grounding from the physics collaborator
// and evaluates the rule table if the scheduler allows it.
func (m *Machine) Update() bool {
	m.syncPhysics()
	return m.Evaluate()
}

func (m *Machine) syncPhysics() {
	physics := m.ctx.collab.Physics
	if physics == nil {
		m.flags.mirror(true, false)
		return
	}
	grounded := physics.IsGrounded()
	// matches the apex rule, so a body at rest in the air marks the flags dirty
	m.flags.mirror(grounded, !grounded && physics.VerticalVelocity() <= 0)
}

// Evaluate scans the current state's rules and commits the first one whose
// condition holds. At most one transition is committed per call.
func (m *Machine) Evaluate() bool {
	if m.committing {
		m.logger.Printf("fsm: evaluate called during %s transition, ignored", m.current)
		return false
	}
	if !m.sched.ShouldEvaluate(m.current) {
		return false
	}

	rule, ok := m.match()
	m.sched.evaluated()
	if !ok {
		return false
	}
	m.commit(rule.To, rule.Label)
	// flag changes made by the hooks are part of this evaluation
	m.flags.takeDirty()
	return true
}

func (m *Machine) match() (TransitionRule, bool) {
	for _, r := range m.table.rows[m.current] {
		if r.holds(&m.ctx) {
			return r, true
		}
	}
	return TransitionRule{}, false
}

// CanTransitionTo reports whether a rule from the current state to target
// exists and holds right now.
func (m *Machine) CanTransitionTo(target State) bool {
	found := false
	for _, r := range m.table.rows[m.current] {
		if r.To != target {
			continue
		}
		found = true
		if r.holds(&m.ctx) {
			return true
		}
	}
	if !found && m.debug {
		m.logger.Printf("fsm: no rule %s -> %s", m.current, target)
	}
	return false
}

// ForceTransition changes state without consulting the rules, running the
// same hooks and notifications. It is a no-op when target is current.
func (m *Machine) ForceTransition(target State) bool {
	if !target.Valid() {
		m.logger.Printf("fsm: force transition to %s ignored", target)
		return false
	}
	if m.committing {
		m.logger.Printf("fsm: force transition to %s during %s transition, ignored", target, m.current)
		return false
	}
	if target == m.current {
		return false
	}
	if m.current == Death {
		m.logger.Printf("fsm: leaving terminal state %s for %s", Death, target)
	}
	m.commit(target, "force")
	return true
}

// Reset is a diagnostic recovery: it forces Idle and clears the history and
// pending events.
func (m *Machine) Reset() {
	if m.committing {
		m.logger.Printf("fsm: reset during %s transition, ignored", m.current)
		return
	}
	if m.current != Idle {
		m.commit(Idle, "reset")
	}
	m.history.Clear()
	m.sched.reset()
}

// commit runs exit hooks, swaps state, runs enter hooks, records history and
// notifies Changed, Exit, Enter in that order.
func (m *Machine) commit(to State, label string) {
	m.committing = true
	defer func() { m.committing = false }()

	from := m.current
	runExit(from, &m.flags)
	m.previous = from
	m.current = to
	now := m.clock.Now()
	m.enteredAt[to] = now
	runEnter(to, &m.flags)

	m.history.Append(HistoryEntry{Time: now, From: from, To: to, Label: label})

	for _, fn := range m.onChanged {
		fn(from, to)
	}
	for _, fn := range m.onExit {
		fn(from)
	}
	for _, fn := range m.onEnter {
		fn(to)
	}
}
