package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
)

// MovementSystem drives horizontal velocity from input. It is the consumer
// of the machine's movement flag: while movement is disallowed the body
// keeps only its vertical velocity.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, char *component.Character) {
		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || body.Body == nil {
			return
		}
		m := machineFor(w, e)
		if m == nil {
			return
		}

		moveX := 0.0
		if input, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			moveX = input.MoveX
		}

		vx := 0.0
		if m.Flags().IsMovementAllowed() {
			vx = moveX * char.SpeedFor(m.Current())
		}
		vel := body.Body.Velocity()
		body.Body.SetVelocity(vx, vel.Y)

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok && vx != 0 {
			if vx < 0 {
				t.Facing = -1
			} else {
				t.Facing = 1
			}
		}
	})
}

// Velocity returns the body velocity of e in screen space.
func Velocity(w *ecs.World, e ecs.Entity) cp.Vector {
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil {
		return cp.Vector{}
	}
	return body.Body.Velocity()
}
