package fsm

import "math"

// Vector2 is a 2D input vector.
type Vector2 struct {
	X, Y float64
}

func (v Vector2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// InputSource exposes the intents for the current tick. Requests are
// consumed and reset by the caller; the machine only reads them.
type InputSource interface {
	MoveVector() Vector2
	JumpRequested() bool
	AttackRequested() bool
	SkillRequested() bool
	InteractRequested() bool
}

// PhysicsQuery reports grounding. VerticalVelocity is positive when moving up.
type PhysicsQuery interface {
	IsGrounded() bool
	VerticalVelocity() float64
}

// SkillRunner owns skill execution and cooldowns.
type SkillRunner interface {
	IsExecutingSkill() bool
	SkillReady() bool
}

// AttackDriver owns the attack animation timing.
type AttackDriver interface {
	IsAttacking() bool
}

// HealthModel owns hit points, death and hit-stun.
type HealthModel interface {
	IsAlive() bool
	IsStunned() bool
}

// Collaborators groups the external systems a machine reads from. Any field
// may be nil; rules depending on a missing collaborator evaluate to false.
type Collaborators struct {
	Input   InputSource
	Physics PhysicsQuery
	Skills  SkillRunner
	Attacks AttackDriver
	Health  HealthModel
}
