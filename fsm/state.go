package fsm

import (
	"errors"
	"fmt"
	"strings"
)

// State is one mutually exclusive high-level activity of a character.
type State uint8

const (
	Idle State = iota
	Walking
	Jumping
	Falling
	Attacking
	Skill
	Hurt
	Death

	stateCount
)

var ErrUnknownState = errors.New("fsm: unknown state")

var stateNames = [stateCount]string{
	Idle:      "idle",
	Walking:   "walking",
	Jumping:   "jumping",
	Falling:   "falling",
	Attacking: "attacking",
	Skill:     "skill",
	Hurt:      "hurt",
	Death:     "death",
}

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("state(%d)", uint8(s))
	}
	return stateNames[s]
}

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	return s < stateCount
}

// Volatile states finish on timers owned outside the machine, so the
// scheduler evaluates them every tick.
func (s State) Volatile() bool {
	switch s {
	case Attacking, Skill, Hurt:
		return true
	default:
		return false
	}
}

// ParseState resolves a state by its lower-case name.
func ParseState(name string) (State, error) {
	clean := strings.ToLower(strings.TrimSpace(name))
	for i, n := range stateNames {
		if n == clean {
			return State(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownState, name)
}

// States returns every state in declaration order.
func States() []State {
	out := make([]State, 0, stateCount)
	for s := State(0); s < stateCount; s++ {
		out = append(out, s)
	}
	return out
}
