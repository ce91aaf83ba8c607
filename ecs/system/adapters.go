package system

import (
	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
	"github.com/milk9111/charfsm/fsm"
)

// CharacterCollaborators binds the state machine's collaborators to the
// components of e. A collaborator is only wired when its backing component
// exists, so characters without health never enter Hurt or Death.
func CharacterCollaborators(w *ecs.World, e ecs.Entity) fsm.Collaborators {
	var c fsm.Collaborators
	if ecs.Has(w, e, component.InputComponent.Kind()) {
		c.Input = inputSource{w: w, e: e}
	}
	if ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) && ecs.Has(w, e, component.GroundComponent.Kind()) {
		c.Physics = physicsQuery{w: w, e: e}
	}
	if ecs.Has(w, e, component.SkillSetComponent.Kind()) {
		c.Skills = skillRunner{w: w, e: e}
	}
	if ecs.Has(w, e, component.AttackComponent.Kind()) {
		c.Attacks = attackDriver{w: w, e: e}
	}
	if ecs.Has(w, e, component.HealthComponent.Kind()) {
		c.Health = healthModel{w: w, e: e}
	}
	return c
}

type inputSource struct {
	w *ecs.World
	e ecs.Entity
}

func (s inputSource) get() component.Input {
	if in, ok := ecs.Get(s.w, s.e, component.InputComponent.Kind()); ok {
		return *in
	}
	return component.Input{}
}

func (s inputSource) MoveVector() fsm.Vector2 {
	in := s.get()
	return fsm.Vector2{X: in.MoveX, Y: in.MoveY}
}

func (s inputSource) JumpRequested() bool     { return s.get().JumpPressed }
func (s inputSource) AttackRequested() bool   { return s.get().AttackPressed }
func (s inputSource) SkillRequested() bool    { return s.get().SkillPressed }
func (s inputSource) InteractRequested() bool { return s.get().InteractPressed }

type physicsQuery struct {
	w *ecs.World
	e ecs.Entity
}

func (q physicsQuery) IsGrounded() bool {
	g, ok := ecs.Get(q.w, q.e, component.GroundComponent.Kind())
	return ok && g.Grounded
}

// VerticalVelocity is positive upward. Chipmunk runs in screen space, so the
// body's Y velocity is negated.
func (q physicsQuery) VerticalVelocity() float64 {
	body, ok := ecs.Get(q.w, q.e, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil {
		return 0
	}
	return -body.Body.Velocity().Y
}

type skillRunner struct {
	w *ecs.World
	e ecs.Entity
}

func (r skillRunner) IsExecutingSkill() bool {
	set, ok := ecs.Get(r.w, r.e, component.SkillSetComponent.Kind())
	return ok && set.Executing()
}

func (r skillRunner) SkillReady() bool {
	set, ok := ecs.Get(r.w, r.e, component.SkillSetComponent.Kind())
	return ok && set.Ready()
}

type attackDriver struct {
	w *ecs.World
	e ecs.Entity
}

func (d attackDriver) IsAttacking() bool {
	a, ok := ecs.Get(d.w, d.e, component.AttackComponent.Kind())
	return ok && a.Active()
}

type healthModel struct {
	w *ecs.World
	e ecs.Entity
}

func (h healthModel) IsAlive() bool {
	hp, ok := ecs.Get(h.w, h.e, component.HealthComponent.Kind())
	return !ok || hp.Alive()
}

func (h healthModel) IsStunned() bool {
	hp, ok := ecs.Get(h.w, h.e, component.HealthComponent.Kind())
	return ok && hp.StunFrames > 0
}

func machineFor(w *ecs.World, e ecs.Entity) *fsm.Machine {
	cs, ok := ecs.Get(w, e, component.CharacterStateComponent.Kind())
	if !ok || cs.Machine == nil {
		return nil
	}
	return cs.Machine
}
