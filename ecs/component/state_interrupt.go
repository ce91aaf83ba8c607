package component

// StateInterrupt is a one-shot request to force a character into the named
// state. The character state system consumes and removes it.
type StateInterrupt struct {
	State string
}

var StateInterruptComponent = NewComponent[StateInterrupt]()
