package system

import (
	"log"

	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
)

// DamageSystem applies queued DamageRequests to Health and counts hit-stun
// down. Requests against an invincible character are dropped.
type DamageSystem struct {
	logger *log.Logger
}

func NewDamageSystem(logger *log.Logger) *DamageSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &DamageSystem{logger: logger}
}

func (d *DamageSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.HealthComponent.Kind(), func(e ecs.Entity, hp *component.Health) {
		if hp.StunFrames > 0 {
			hp.StunFrames--
		}
	})

	ecs.ForEach(w, component.DamageRequestComponent.Kind(), func(e ecs.Entity, req *component.DamageRequest) {
		ecs.Remove(w, e, component.DamageRequestComponent.Kind())

		hp, ok := ecs.Get(w, e, component.HealthComponent.Kind())
		if !ok || !hp.Alive() {
			return
		}
		m := machineFor(w, e)
		if m != nil && m.Flags().IsInvincible() {
			return
		}
		if req.Amount <= 0 {
			d.logger.Printf("system: entity=%s ignoring damage %d", e, req.Amount)
			return
		}

		hp.Current -= req.Amount
		if hp.Current < 0 {
			hp.Current = 0
		}
		stun := req.StunFrames
		if stun <= 0 {
			if char, ok := ecs.Get(w, e, component.CharacterComponent.Kind()); ok {
				stun = char.HurtStunFrames
			}
		}
		if stun > hp.StunFrames {
			hp.StunFrames = stun
		}
		if m != nil {
			m.NotifyDamageReceived()
		}
	})
}

// Damage queues a hit against e for the next damage pass.
func Damage(w *ecs.World, e ecs.Entity, amount, stunFrames int) error {
	return ecs.Add(w, e, component.DamageRequestComponent.Kind(), &component.DamageRequest{
		Amount:     amount,
		StunFrames: stunFrames,
	})
}
