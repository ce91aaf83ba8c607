package component

type SkillSlot struct {
	Name           string
	Script         string
	CooldownFrames int
	MaxFrames      int
}

// SkillSet lists the scripted skills an entity can cast. Active is -1 when no
// skill is running.
type SkillSet struct {
	Skills      []SkillSlot
	Selected    int
	Active      int
	ActiveFrame int
	Cooldowns   []int
}

var SkillSetComponent = NewComponent[SkillSet]()

func (s *SkillSet) Executing() bool {
	return s.Active >= 0
}

// Ready reports whether the selected skill exists and is off cooldown.
func (s *SkillSet) Ready() bool {
	if s.Selected < 0 || s.Selected >= len(s.Skills) {
		return false
	}
	if s.Selected < len(s.Cooldowns) && s.Cooldowns[s.Selected] > 0 {
		return false
	}
	return true
}
