package fsm

// lifecycle holds the capability side effects of entering and leaving a state.
type lifecycle struct {
	enter func(f *CapabilityFlags)
	exit  func(f *CapabilityFlags)
}

// Hooks only assign absolute values, so running one twice is harmless.
var lifecycles = [stateCount]lifecycle{
	Idle:    {enter: allowAll},
	Walking: {enter: allowAll},
	Attacking: {enter: func(f *CapabilityFlags) {
		// speed reduction is the movement consumer's multiplier
		f.setCanMove(true)
	}},
	Skill: {
		// TODO: confirm with design whether casting should also lock movement.
		enter: func(f *CapabilityFlags) {
			f.setCanAttack(false)
		},
		exit: allowAll,
	},
	Hurt: {
		enter: func(f *CapabilityFlags) {
			f.setCanMove(true)
			f.setCanAttack(false)
			f.setInvincible(true)
		},
		// invincibility is cleared by its own timer, not here
		exit: func(f *CapabilityFlags) {
			f.setCanAttack(true)
		},
	},
	Death: {enter: func(f *CapabilityFlags) {
		f.setCanMove(false)
		f.setCanAttack(false)
	}},
}

func allowAll(f *CapabilityFlags) {
	f.setCanMove(true)
	f.setCanAttack(true)
}

func runEnter(s State, f *CapabilityFlags) {
	if s.Valid() && lifecycles[s].enter != nil {
		lifecycles[s].enter(f)
	}
}

func runExit(s State, f *CapabilityFlags) {
	if s.Valid() && lifecycles[s].exit != nil {
		lifecycles[s].exit(f)
	}
}
