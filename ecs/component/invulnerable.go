package component

// Invulnerable mirrors a character's invincibility window. The
// invulnerability system counts Frames down and ends the window at zero; a
// window opened with Frames <= 0 ends on the following tick.
type Invulnerable struct {
	Frames int
}

var InvulnerableComponent = NewComponent[Invulnerable]()
