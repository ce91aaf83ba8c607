package fsm

// CapabilityFlags are the gates read by movement and combat consumers.
// The machine writes canMove, canAttack and isInvincible; isGrounded and
// isFalling are mirrored from the physics collaborator every tick.
type CapabilityFlags struct {
	canMove      bool
	canAttack    bool
	isInvincible bool
	isGrounded   bool
	isFalling    bool

	dirty bool
}

func newCapabilityFlags() CapabilityFlags {
	return CapabilityFlags{canMove: true, canAttack: true, isGrounded: true}
}

func (f *CapabilityFlags) IsMovementAllowed() bool { return f.canMove }
func (f *CapabilityFlags) IsAttackAllowed() bool   { return f.canAttack }
func (f *CapabilityFlags) IsInvincible() bool      { return f.isInvincible }
func (f *CapabilityFlags) IsGrounded() bool        { return f.isGrounded }
func (f *CapabilityFlags) IsFalling() bool         { return f.isFalling }

func (f *CapabilityFlags) setCanMove(v bool) {
	f.set(&f.canMove, v)
}

func (f *CapabilityFlags) setCanAttack(v bool) {
	f.set(&f.canAttack, v)
}

func (f *CapabilityFlags) setInvincible(v bool) {
	f.set(&f.isInvincible, v)
}

func (f *CapabilityFlags) mirror(grounded, falling bool) {
	f.set(&f.isGrounded, grounded)
	f.set(&f.isFalling, falling)
}

func (f *CapabilityFlags) set(field *bool, v bool) {
	if *field == v {
		return
	}
	*field = v
	f.dirty = true
}

// takeDirty reports whether any flag changed since the last call and clears the marker.
func (f *CapabilityFlags) takeDirty() bool {
	d := f.dirty
	f.dirty = false
	return d
}
