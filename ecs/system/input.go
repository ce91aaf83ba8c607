package system

import (
	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
)

// InputSampler reads the device state for the current tick.
type InputSampler func() component.Input

type InputSystem struct {
	sample InputSampler
}

func NewInputSystem(sample InputSampler) *InputSystem {
	return &InputSystem{sample: sample}
}

// Update copies the sampled input into every Input component and raises the
// matching machine events on edges. Jump edges count as movement input so
// the machine notices them between interval ticks.
func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil || i.sample == nil {
		return
	}

	next := i.sample()

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		moved := input.MoveX != next.MoveX || input.MoveY != next.MoveY
		*input = next

		m := machineFor(w, e)
		if m == nil {
			return
		}
		if moved || next.JumpPressed {
			m.NotifyMovementInputChanged()
		}
		if next.AttackPressed {
			m.NotifyAttackRequested()
		}
		if next.SkillPressed {
			m.NotifySkillRequested()
		}
	})
}
