package system

import (
	"log"

	"github.com/milk9111/charfsm/ecs"
)

// Systems are the character systems in tick order.
type Systems struct {
	Action          *ActionSystem
	Input           *InputSystem
	Movement        *MovementSystem
	Skill           *SkillSystem
	Physics         *PhysicsSystem
	Combat          *CombatSystem
	Damage          *DamageSystem
	State           *CharacterStateSystem
	Invulnerability *InvulnerabilitySystem
}

func NewSystems(sample InputSampler, load ScriptLoader, logger *log.Logger) *Systems {
	return &Systems{
		Action:          NewActionSystem(),
		Input:           NewInputSystem(sample),
		Movement:        NewMovementSystem(),
		Skill:           NewSkillSystem(load, logger),
		Physics:         NewPhysicsSystem(),
		Combat:          NewCombatSystem(),
		Damage:          NewDamageSystem(logger),
		State:           NewCharacterStateSystem(logger),
		Invulnerability: NewInvulnerabilitySystem(),
	}
}

// Scheduler orders the systems so a tick reads input, moves and steps
// physics, advances timers, then evaluates the machines. Invulnerability
// runs last so a window opened by this tick's Hurt starts counting at once.
func (s *Systems) Scheduler() *ecs.Scheduler {
	return ecs.NewScheduler(
		s.Action,
		s.Input,
		s.Movement,
		s.Skill,
		s.Physics,
		s.Combat,
		s.Damage,
		s.State,
		s.Invulnerability,
	)
}
