package entity

import (
	"fmt"
	"log"
	"time"

	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
	"github.com/milk9111/charfsm/ecs/system"
	"github.com/milk9111/charfsm/fsm"
	"github.com/milk9111/charfsm/prefabs"
)

// CharacterOptions are the process-level knobs applied on top of a prefab.
type CharacterOptions struct {
	Player bool
	Clock  fsm.Clock
	Logger *log.Logger
	// Debug overrides the prefab's machine.debug when true.
	Debug bool
	// EvalInterval overrides the prefab's machine.eval_interval_ms when
	// positive, including on hot reload.
	EvalInterval time.Duration
}

func (o CharacterOptions) evalInterval(spec prefabs.CharacterSpec) time.Duration {
	if o.EvalInterval > 0 {
		return o.EvalInterval
	}
	return spec.Machine.EvalInterval()
}

// NewCharacter builds a character from a prefab file.
func NewCharacter(w *ecs.World, prefab string, opts CharacterOptions) (ecs.Entity, error) {
	spec, err := prefabs.LoadCharacterSpec(prefab)
	if err != nil {
		return 0, err
	}
	return BuildCharacter(w, spec, opts)
}

// BuildCharacter creates a character entity with its components and state
// machine. The machine is wired last so its collaborators see every
// component the prefab provided.
func BuildCharacter(w *ecs.World, spec prefabs.CharacterSpec, opts CharacterOptions) (ecs.Entity, error) {
	char, err := characterFromSpec(spec)
	if err != nil {
		return 0, err
	}
	initial := fsm.Idle
	if spec.InitialState != "" {
		if initial, err = fsm.ParseState(spec.InitialState); err != nil {
			return 0, fmt.Errorf("character %s: initial state: %w", spec.Name, err)
		}
	}

	e := ecs.CreateEntity(w)
	fail := func(what string, err error) (ecs.Entity, error) {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("character %s: add %s: %w", spec.Name, what, err)
	}

	if err := ecs.Add(w, e, component.CharacterComponent.Kind(), char); err != nil {
		return fail("character", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:      spec.Transform.X,
		Y:      spec.Transform.Y,
		Facing: 1,
	}); err != nil {
		return fail("transform", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:    spec.Collider.Width,
		Height:   spec.Collider.Height,
		Mass:     spec.Collider.Mass,
		Friction: spec.Collider.Friction,
	}); err != nil {
		return fail("physics body", err)
	}
	if err := ecs.Add(w, e, component.GroundComponent.Kind(), &component.Ground{}); err != nil {
		return fail("ground", err)
	}
	if err := ecs.Add(w, e, component.AttackComponent.Kind(), &component.Attack{}); err != nil {
		return fail("attack", err)
	}
	if spec.Health > 0 {
		if err := ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{
			Current: spec.Health,
			Max:     spec.Health,
		}); err != nil {
			return fail("health", err)
		}
	}
	if len(spec.Skills) > 0 {
		if err := ecs.Add(w, e, component.SkillSetComponent.Kind(), skillSetFromSpec(spec.Skills)); err != nil {
			return fail("skills", err)
		}
	}
	if opts.Player {
		if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
			return fail("input", err)
		}
		if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
			return fail("player tag", err)
		}
	}

	m := fsm.New(fsm.Config{
		Initial:            initial,
		EvaluationInterval: opts.evalInterval(spec),
		HistoryCapacity:    spec.Machine.HistoryCapacity,
		MoveDeadzone:       spec.Machine.MoveDeadzone,
		Clock:              opts.Clock,
		Logger:             opts.Logger,
		Debug:              spec.Machine.Debug || opts.Debug,
	}, system.CharacterCollaborators(w, e))
	if err := ecs.Add(w, e, component.CharacterStateComponent.Kind(), &component.CharacterState{Machine: m}); err != nil {
		return fail("state", err)
	}

	return e, nil
}

func characterFromSpec(spec prefabs.CharacterSpec) (*component.Character, error) {
	char := &component.Character{
		Name:             spec.Name,
		MoveSpeed:        spec.MoveSpeed,
		JumpSpeed:        spec.JumpSpeed,
		AttackFrames:     spec.AttackFrames,
		InvulnFrames:     spec.InvulnFrames,
		HurtStunFrames:   spec.HurtStunFrames,
		SpeedMultipliers: make(map[fsm.State]float64, len(spec.SpeedMultipliers)),
	}
	for name, mult := range spec.SpeedMultipliers {
		s, err := fsm.ParseState(name)
		if err != nil {
			return nil, fmt.Errorf("character %s: speed multiplier: %w", spec.Name, err)
		}
		char.SpeedMultipliers[s] = mult
	}
	return char, nil
}

func skillSetFromSpec(skills []prefabs.SkillSpec) *component.SkillSet {
	set := &component.SkillSet{
		Active:    -1,
		Cooldowns: make([]int, len(skills)),
	}
	for _, s := range skills {
		set.Skills = append(set.Skills, component.SkillSlot{
			Name:           s.Name,
			Script:         s.Script,
			CooldownFrames: s.CooldownFrames,
			MaxFrames:      s.MaxFrames,
		})
	}
	return set
}

// ApplyTuning copies reloaded prefab values onto a live character. Skills
// and health are left alone so a reload never resets a fight.
func ApplyTuning(w *ecs.World, e ecs.Entity, spec prefabs.CharacterSpec, opts CharacterOptions) error {
	current, ok := ecs.Get(w, e, component.CharacterComponent.Kind())
	if !ok {
		return fmt.Errorf("character %s: %w", e, component.ErrEntityNotAlive)
	}
	next, err := characterFromSpec(spec)
	if err != nil {
		return err
	}
	*current = *next
	if cs, ok := ecs.Get(w, e, component.CharacterStateComponent.Kind()); ok && cs.Machine != nil {
		cs.Machine.SetEvaluationInterval(opts.evalInterval(spec))
	}
	return nil
}
