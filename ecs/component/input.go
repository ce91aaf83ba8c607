package component

// Input stores per-frame input state for an entity. The *Pressed fields are
// edges and only hold for the tick the button went down.
type Input struct {
	MoveX           float64
	MoveY           float64
	Jump            bool
	JumpPressed     bool
	AttackPressed   bool
	SkillPressed    bool
	InteractPressed bool
}

var InputComponent = NewComponent[Input]()
