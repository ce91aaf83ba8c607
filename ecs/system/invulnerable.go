package system

import (
	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
)

// InvulnerabilitySystem owns the lifetime of a character's invincibility
// window. The machine raises the flag on entering Hurt; this system counts
// the window down and ends it, independent of how long Hurt lasts.
type InvulnerabilitySystem struct{}

func NewInvulnerabilitySystem() *InvulnerabilitySystem {
	return &InvulnerabilitySystem{}
}

func (s *InvulnerabilitySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.CharacterStateComponent.Kind(), func(e ecs.Entity, cs *component.CharacterState) {
		if cs.Machine == nil {
			return
		}
		inv, has := ecs.Get(w, e, component.InvulnerableComponent.Kind())

		if !cs.Machine.Flags().IsInvincible() {
			if has {
				ecs.Remove(w, e, component.InvulnerableComponent.Kind())
			}
			return
		}

		if !has {
			frames := 0
			if char, ok := ecs.Get(w, e, component.CharacterComponent.Kind()); ok {
				frames = char.InvulnFrames
			}
			_ = ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{Frames: frames})
			return
		}

		// an unset window still ends, one tick after it opened
		inv.Frames--
		if inv.Frames <= 0 {
			cs.Machine.EndInvincibility()
			ecs.Remove(w, e, component.InvulnerableComponent.Kind())
		}
	})
}

// EndInvulnerability ends the window early, whatever its length.
func EndInvulnerability(w *ecs.World, e ecs.Entity) {
	if m := machineFor(w, e); m != nil {
		m.EndInvincibility()
	}
	ecs.Remove(w, e, component.InvulnerableComponent.Kind())
}
