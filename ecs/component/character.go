package component

import "github.com/milk9111/charfsm/fsm"

// Character holds the tuning loaded from a character prefab.
type Character struct {
	Name           string
	MoveSpeed      float64
	JumpSpeed      float64
	AttackFrames   int
	InvulnFrames   int
	HurtStunFrames int
	// SpeedMultipliers scales MoveSpeed per state. Missing states use 1.
	SpeedMultipliers map[fsm.State]float64
}

var CharacterComponent = NewComponent[Character]()

// SpeedFor returns the horizontal speed for the given state.
func (c *Character) SpeedFor(s fsm.State) float64 {
	if m, ok := c.SpeedMultipliers[s]; ok {
		return c.MoveSpeed * m
	}
	return c.MoveSpeed
}

// CharacterState owns the state machine driving an entity.
type CharacterState struct {
	Machine *fsm.Machine
}

var CharacterStateComponent = NewComponent[CharacterState]()
