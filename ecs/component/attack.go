package component

// Attack tracks the remaining frames of a basic attack swing.
type Attack struct {
	Frames int
}

var AttackComponent = NewComponent[Attack]()

func (a *Attack) Active() bool {
	return a.Frames > 0
}
