package system

import (
	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
	"github.com/milk9111/charfsm/fsm"
)

// ActionSystem binds state side effects to each character's machine: the
// jump impulse on entering Jumping, the attack swing on Attacking, the skill
// cast on Skill. Leaving an activity early cancels it.
type ActionSystem struct {
	bound map[ecs.Entity]*fsm.Machine
}

func NewActionSystem() *ActionSystem {
	return &ActionSystem{bound: make(map[ecs.Entity]*fsm.Machine)}
}

func (a *ActionSystem) Update(w *ecs.World) {
	if a == nil || w == nil {
		return
	}

	for e := range a.bound {
		if !ecs.IsAlive(w, e) {
			delete(a.bound, e)
		}
	}

	ecs.ForEach(w, component.CharacterStateComponent.Kind(), func(e ecs.Entity, cs *component.CharacterState) {
		if cs.Machine == nil || a.bound[e] == cs.Machine {
			return
		}
		a.bound[e] = cs.Machine
		bindActions(w, e, cs.Machine)
	})
}

func bindActions(w *ecs.World, e ecs.Entity, m *fsm.Machine) {
	m.OnStateEnter(func(s fsm.State) {
		if !ecs.IsAlive(w, e) {
			return
		}
		switch s {
		case fsm.Jumping:
			jump(w, e)
		case fsm.Attacking:
			char, okC := ecs.Get(w, e, component.CharacterComponent.Kind())
			attack, okA := ecs.Get(w, e, component.AttackComponent.Kind())
			if okC && okA {
				attack.Frames = char.AttackFrames
			}
		case fsm.Skill:
			if set, ok := ecs.Get(w, e, component.SkillSetComponent.Kind()); ok {
				StartSkill(set)
			}
		case fsm.Death:
			if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
				body.Body.SetVelocity(0, body.Body.Velocity().Y)
			}
		}
	})

	m.OnStateExit(func(s fsm.State) {
		if !ecs.IsAlive(w, e) {
			return
		}
		switch s {
		case fsm.Attacking:
			if attack, ok := ecs.Get(w, e, component.AttackComponent.Kind()); ok {
				attack.Frames = 0
			}
		case fsm.Skill:
			if set, ok := ecs.Get(w, e, component.SkillSetComponent.Kind()); ok {
				CancelSkill(set)
			}
		}
	})
}

func jump(w *ecs.World, e ecs.Entity) {
	char, ok := ecs.Get(w, e, component.CharacterComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil {
		return
	}
	vel := body.Body.Velocity()
	body.Body.SetVelocity(vel.X, -char.JumpSpeed)
	ClearGroundGrace(w, e)
}
