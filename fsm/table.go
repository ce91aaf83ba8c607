package fsm

import (
	"errors"
	"fmt"
)

var (
	ErrSelfTransition = errors.New("fsm: rule targets its own source state")
	ErrTerminalRule   = errors.New("fsm: rule leaves the terminal state")
	ErrNilCondition   = errors.New("fsm: rule has no condition")
)

// RuleTable holds the transition rules per source state in priority order.
// It is immutable once built.
type RuleTable struct {
	rows [stateCount][]TransitionRule
}

// Rules returns a copy of the ordered rules leaving from.
func (t *RuleTable) Rules(from State) []TransitionRule {
	if t == nil || !from.Valid() {
		return nil
	}
	return append([]TransitionRule(nil), t.rows[from]...)
}

// Len returns the total number of rules.
func (t *RuleTable) Len() int {
	n := 0
	for _, row := range t.rows {
		n += len(row)
	}
	return n
}

// Validate checks the table contract: no self transitions, nothing out of
// Death, and every rule has a condition.
func (t *RuleTable) Validate() error {
	for from, row := range t.rows {
		for _, r := range row {
			if r.From != State(from) {
				return fmt.Errorf("fsm: rule %q filed under %s but leaves %s", r.Label, State(from), r.From)
			}
			if r.From == r.To {
				return fmt.Errorf("%w: %s (%s)", ErrSelfTransition, r.From, r.Label)
			}
			if r.From == Death {
				return fmt.Errorf("%w: %s -> %s (%s)", ErrTerminalRule, r.From, r.To, r.Label)
			}
			if r.Condition == nil {
				return fmt.Errorf("%w: %s -> %s (%s)", ErrNilCondition, r.From, r.To, r.Label)
			}
		}
	}
	return nil
}

// find returns the first rule from -> to.
func (t *RuleTable) find(from, to State) (TransitionRule, bool) {
	if !from.Valid() {
		return TransitionRule{}, false
	}
	for _, r := range t.rows[from] {
		if r.To == to {
			return r, true
		}
	}
	return TransitionRule{}, false
}

func (t *RuleTable) add(from, to State, label string, cond Condition) {
	t.rows[from] = append(t.rows[from], TransitionRule{From: from, To: to, Condition: cond, Label: label})
}

// BuildTable builds the character rule table. Insertion order is priority:
// universal death rules, universal hurt rules, then per-state rules.
func BuildTable() *RuleTable {
	t := &RuleTable{}

	for _, s := range States() {
		if s == Death {
			continue
		}
		t.add(s, Death, "death", func(ctx *Context) bool { return ctx.Dead() })
	}

	for _, s := range States() {
		if s == Hurt || s == Death {
			continue
		}
		t.add(s, Hurt, "hurt", func(ctx *Context) bool {
			return ctx.DamageReceived() && ctx.IsAlive() && !ctx.IsInvincible()
		})
	}

	for _, s := range []State{Idle, Walking} {
		t.addActionRules(s)
		t.addFallRules(s)
	}
	t.add(Idle, Walking, "move", func(ctx *Context) bool {
		return ctx.HasMoveInput() && ctx.Grounded() && ctx.CanMove()
	})
	t.add(Walking, Idle, "stop", func(ctx *Context) bool {
		return !ctx.HasMoveInput() && ctx.Grounded()
	})

	t.add(Jumping, Falling, "apex", func(ctx *Context) bool {
		return ctx.VerticalVelocity() <= 0
	})
	t.add(Jumping, Attacking, "air_attack", airAttack)

	t.add(Falling, Idle, "land", func(ctx *Context) bool {
		return ctx.Grounded() && !ctx.HasMoveInput()
	})
	t.add(Falling, Walking, "land_moving", func(ctx *Context) bool {
		return ctx.Grounded() && ctx.HasMoveInput()
	})
	t.add(Falling, Attacking, "air_attack", airAttack)

	t.addExitRules(Attacking, (*Context).AttackFinished)
	t.addExitRules(Skill, (*Context).SkillFinished)
	t.addExitRules(Hurt, (*Context).HurtFinished)

	if err := t.Validate(); err != nil {
		panic(err)
	}
	return t
}

func (t *RuleTable) addActionRules(from State) {
	t.add(from, Jumping, "jump", func(ctx *Context) bool {
		return ctx.JumpRequested() && ctx.Grounded()
	})
	t.add(from, Attacking, "attack", func(ctx *Context) bool {
		return ctx.AttackRequested() && ctx.CanAttackNow()
	})
	t.add(from, Skill, "skill", func(ctx *Context) bool {
		return ctx.SkillRequested() && ctx.CanCastNow()
	})
}

func (t *RuleTable) addFallRules(from State) {
	t.add(from, Falling, "fall", func(ctx *Context) bool {
		return !ctx.Grounded() && ctx.Falling()
	})
}

// addExitRules adds the three exits of an externally timed activity, in order.
func (t *RuleTable) addExitRules(from State, finished func(*Context) bool) {
	t.add(from, Idle, "finish_idle", func(ctx *Context) bool {
		return finished(ctx) && ctx.Grounded() && !ctx.HasMoveInput()
	})
	t.add(from, Walking, "finish_walking", func(ctx *Context) bool {
		return finished(ctx) && ctx.Grounded() && ctx.HasMoveInput()
	})
	t.add(from, Falling, "finish_falling", func(ctx *Context) bool {
		return finished(ctx) && !ctx.Grounded()
	})
}

func airAttack(ctx *Context) bool {
	return ctx.AttackRequested() && ctx.CanAttackNow()
}
