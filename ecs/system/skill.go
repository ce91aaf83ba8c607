package system

import (
	"log"

	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
	"github.com/milk9111/charfsm/prefabs"
)

// defaultSkillMaxFrames ends a skill whose script never calls finish.
const defaultSkillMaxFrames = 120

// ScriptLoader returns the source of a skill script by path.
type ScriptLoader func(path string) ([]byte, error)

// SkillSystem runs the active skill script of every SkillSet and counts
// cooldowns down. It is the machine's skill runner: a skill executes from
// StartSkill until its script calls finish or it runs out of frames.
type SkillSystem struct {
	load     ScriptLoader
	runtimes map[ecs.Entity]map[string]*skillRuntime
	logger   *log.Logger
}

func NewSkillSystem(load ScriptLoader, logger *log.Logger) *SkillSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SkillSystem{
		load:     load,
		runtimes: make(map[ecs.Entity]map[string]*skillRuntime),
		logger:   logger,
	}
}

func (s *SkillSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.runtimes {
		if !ecs.IsAlive(w, e) {
			delete(s.runtimes, e)
		}
	}

	ecs.ForEach(w, component.SkillSetComponent.Kind(), func(e ecs.Entity, set *component.SkillSet) {
		for i := range set.Cooldowns {
			if set.Cooldowns[i] > 0 {
				set.Cooldowns[i]--
			}
		}
		if !set.Executing() {
			return
		}
		if set.Active >= len(set.Skills) {
			set.Active = -1
			return
		}

		slot := set.Skills[set.Active]
		rt, err := s.runtime(e, slot.Script)
		if err != nil {
			s.logger.Printf("skill: entity=%s load %s error: %v", e, slot.Script, err)
			endSkill(set)
			return
		}

		done, err := rt.update(newSkillEngine(w, e, set, rt))
		if err != nil {
			s.logger.Printf("skill: entity=%s %s update error: %v", e, slot.Name, err)
			endSkill(set)
			return
		}
		set.ActiveFrame++

		maxFrames := slot.MaxFrames
		if maxFrames <= 0 {
			maxFrames = defaultSkillMaxFrames
		}
		if done || set.ActiveFrame >= maxFrames {
			endSkill(set)
		}
	})
}

// Invalidate drops compiled scripts for path so the next update reloads it.
func (s *SkillSystem) Invalidate(path string) {
	clean := prefabs.CleanScriptPath(path)
	for _, byPath := range s.runtimes {
		for p := range byPath {
			if prefabs.CleanScriptPath(p) == clean {
				delete(byPath, p)
			}
		}
	}
}

func (s *SkillSystem) runtime(e ecs.Entity, path string) (*skillRuntime, error) {
	byPath := s.runtimes[e]
	if byPath == nil {
		byPath = make(map[string]*skillRuntime)
		s.runtimes[e] = byPath
	}
	if rt, ok := byPath[path]; ok {
		return rt, nil
	}
	src, err := s.load(path)
	if err != nil {
		return nil, err
	}
	rt, err := compileSkill(path, src)
	if err != nil {
		return nil, err
	}
	byPath[path] = rt
	return rt, nil
}

// StartSkill activates the selected skill if it is ready. The script state
// of the skill starts empty.
func StartSkill(set *component.SkillSet) bool {
	if set == nil || set.Executing() || !set.Ready() {
		return false
	}
	for len(set.Cooldowns) < len(set.Skills) {
		set.Cooldowns = append(set.Cooldowns, 0)
	}
	set.Active = set.Selected
	set.ActiveFrame = 0
	return true
}

// CancelSkill stops the running skill and starts its cooldown.
func CancelSkill(set *component.SkillSet) {
	if set != nil && set.Executing() {
		endSkill(set)
	}
}

func endSkill(set *component.SkillSet) {
	if set.Active >= 0 && set.Active < len(set.Skills) && set.Active < len(set.Cooldowns) {
		set.Cooldowns[set.Active] = set.Skills[set.Active].CooldownFrames
	}
	set.Active = -1
	set.ActiveFrame = 0
}
