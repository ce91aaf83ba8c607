package system

import (
	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
)

// CombatSystem counts basic attack swings down. An attack is running while
// its frame counter is positive.
type CombatSystem struct{}

func NewCombatSystem() *CombatSystem {
	return &CombatSystem{}
}

func (c *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.AttackComponent.Kind(), func(e ecs.Entity, a *component.Attack) {
		if a.Frames > 0 {
			a.Frames--
		}
	})
}
