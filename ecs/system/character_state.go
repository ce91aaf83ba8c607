package system

import (
	"log"

	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
	"github.com/milk9111/charfsm/fsm"
)

// CharacterStateSystem ticks every character's state machine once per frame
// after consuming any pending StateInterrupt.
type CharacterStateSystem struct {
	logger *log.Logger
}

func NewCharacterStateSystem(logger *log.Logger) *CharacterStateSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &CharacterStateSystem{logger: logger}
}

func (s *CharacterStateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.CharacterStateComponent.Kind(), func(e ecs.Entity, cs *component.CharacterState) {
		if cs.Machine == nil {
			return
		}

		if interrupt, ok := ecs.Get(w, e, component.StateInterruptComponent.Kind()); ok {
			ecs.Remove(w, e, component.StateInterruptComponent.Kind())
			target, err := fsm.ParseState(interrupt.State)
			if err != nil {
				s.logger.Printf("system: entity=%s state interrupt: %v", e, err)
			} else {
				cs.Machine.ForceTransition(target)
			}
		}

		cs.Machine.Update()
	})
}

// Interrupt requests a forced transition of e on the next state pass.
func Interrupt(w *ecs.World, e ecs.Entity, state fsm.State) error {
	return ecs.Add(w, e, component.StateInterruptComponent.Kind(), &component.StateInterrupt{State: state.String()})
}
