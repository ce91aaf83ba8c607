package fsm

// Condition is a transition predicate. It must not mutate the machine.
type Condition func(ctx *Context) bool

// TransitionRule is one row of the rule table.
type TransitionRule struct {
	From      State
	To        State
	Condition Condition
	Label     string
}

func (r TransitionRule) holds(ctx *Context) bool {
	return r.Condition != nil && r.Condition(ctx)
}

// Context is the read-only view rule conditions evaluate against.
type Context struct {
	collab       Collaborators
	flags        *CapabilityFlags
	sched        *Scheduler
	moveDeadzone float64
}

// IsAlive treats a missing health model as alive.
func (c *Context) IsAlive() bool {
	if c.collab.Health == nil {
		return true
	}
	return c.collab.Health.IsAlive()
}

func (c *Context) Dead() bool {
	return c.collab.Health != nil && !c.collab.Health.IsAlive()
}

// DamageReceived is false without a health model, since damage is its notification.
func (c *Context) DamageReceived() bool {
	return c.collab.Health != nil && c.sched.Pending().Has(DamageReceived)
}

func (c *Context) IsInvincible() bool { return c.flags.IsInvincible() }
func (c *Context) CanMove() bool      { return c.flags.IsMovementAllowed() }
func (c *Context) CanAttack() bool    { return c.flags.IsAttackAllowed() }
func (c *Context) Grounded() bool     { return c.flags.IsGrounded() }
func (c *Context) Falling() bool      { return c.flags.IsFalling() }

func (c *Context) VerticalVelocity() float64 {
	if c.collab.Physics == nil {
		return 0
	}
	return c.collab.Physics.VerticalVelocity()
}

func (c *Context) MoveVector() Vector2 {
	if c.collab.Input == nil {
		return Vector2{}
	}
	return c.collab.Input.MoveVector()
}

// HasMoveInput reports movement input beyond the deadzone.
func (c *Context) HasMoveInput() bool {
	return c.MoveVector().Len() > c.moveDeadzone
}

func (c *Context) JumpRequested() bool {
	return c.collab.Input != nil && c.collab.Input.JumpRequested()
}

// AttackRequested is true for a pending attack notification or a held attack intent.
func (c *Context) AttackRequested() bool {
	if c.sched.Pending().Has(AttackRequested) {
		return true
	}
	return c.collab.Input != nil && c.collab.Input.AttackRequested()
}

func (c *Context) SkillRequested() bool {
	if c.sched.Pending().Has(SkillRequested) {
		return true
	}
	return c.collab.Input != nil && c.collab.Input.SkillRequested()
}

func (c *Context) CanAttackNow() bool {
	return c.collab.Attacks != nil && c.flags.IsAttackAllowed()
}

func (c *Context) CanCastNow() bool {
	return c.collab.Skills != nil && c.flags.IsAttackAllowed() && c.collab.Skills.SkillReady()
}

func (c *Context) AttackFinished() bool {
	return c.collab.Attacks != nil && !c.collab.Attacks.IsAttacking()
}

func (c *Context) SkillFinished() bool {
	return c.collab.Skills != nil && !c.collab.Skills.IsExecutingSkill()
}

func (c *Context) HurtFinished() bool {
	return c.collab.Health != nil && !c.collab.Health.IsStunned()
}
