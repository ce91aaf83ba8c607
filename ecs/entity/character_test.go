package entity

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
	"github.com/milk9111/charfsm/fsm"
	"github.com/milk9111/charfsm/prefabs"
)

var quietLogger = log.New(io.Discard, "", 0)

func testSpec() prefabs.CharacterSpec {
	return prefabs.CharacterSpec{
		Name:             "squire",
		InitialState:     "falling",
		MoveSpeed:        2,
		JumpSpeed:        7,
		AttackFrames:     10,
		InvulnFrames:     30,
		HurtStunFrames:   12,
		Health:           4,
		SpeedMultipliers: map[string]float64{"attacking": 0.5, "Hurt": 0.25},
		Machine:          prefabs.MachineSpec{EvalIntervalMS: 40, HistoryCapacity: 8},
		Transform:        prefabs.TransformSpec{X: 10, Y: 20},
		Collider:         prefabs.ColliderSpec{Width: 12, Height: 24, Mass: 1},
		Skills: []prefabs.SkillSpec{
			{Name: "dash", Script: "dash.tengo", CooldownFrames: 60, MaxFrames: 30},
		},
	}
}

func TestBuildCharacter(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildCharacter(w, testSpec(), CharacterOptions{Player: true, Logger: quietLogger})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	char, ok := ecs.Get(w, e, component.CharacterComponent.Kind())
	if !ok {
		t.Fatalf("expected a character component")
	}
	if char.Name != "squire" || char.InvulnFrames != 30 {
		t.Fatalf("unexpected character %+v", char)
	}
	if char.SpeedFor(fsm.Hurt) != 0.5 || char.SpeedFor(fsm.Attacking) != 1 {
		t.Fatalf("unexpected multipliers %v", char.SpeedMultipliers)
	}

	hp, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || hp.Current != 4 || hp.Max != 4 {
		t.Fatalf("unexpected health %+v", hp)
	}
	set, ok := ecs.Get(w, e, component.SkillSetComponent.Kind())
	if !ok || len(set.Skills) != 1 || set.Active != -1 || len(set.Cooldowns) != 1 {
		t.Fatalf("unexpected skills %+v", set)
	}
	for name, has := range map[string]bool{
		"transform":    ecs.Has(w, e, component.TransformComponent.Kind()),
		"physics body": ecs.Has(w, e, component.PhysicsBodyComponent.Kind()),
		"ground":       ecs.Has(w, e, component.GroundComponent.Kind()),
		"attack":       ecs.Has(w, e, component.AttackComponent.Kind()),
		"input":        ecs.Has(w, e, component.InputComponent.Kind()),
		"player tag":   ecs.Has(w, e, component.PlayerTagComponent.Kind()),
	} {
		if !has {
			t.Fatalf("expected a %s component", name)
		}
	}

	cs, ok := ecs.Get(w, e, component.CharacterStateComponent.Kind())
	if !ok || cs.Machine == nil {
		t.Fatalf("expected a state machine")
	}
	if cs.Machine.Current() != fsm.Falling {
		t.Fatalf("expected the initial state from the prefab, got %s", cs.Machine.Current())
	}
	if got := cs.Machine.Scheduler().Interval(); got != 40*time.Millisecond {
		t.Fatalf("expected a 40ms interval, got %v", got)
	}
}

func TestBuildCharacterOptionalParts(t *testing.T) {
	spec := testSpec()
	spec.InitialState = ""
	spec.Health = 0
	spec.Skills = nil

	w := ecs.NewWorld()
	e, err := BuildCharacter(w, spec, CharacterOptions{Logger: quietLogger})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ecs.Has(w, e, component.HealthComponent.Kind()) || ecs.Has(w, e, component.SkillSetComponent.Kind()) {
		t.Fatalf("expected no health or skills")
	}
	if ecs.Has(w, e, component.InputComponent.Kind()) || ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		t.Fatalf("expected a non-player character")
	}
	cs, _ := ecs.Get(w, e, component.CharacterStateComponent.Kind())
	if cs.Machine.Current() != fsm.Idle {
		t.Fatalf("expected idle by default, got %s", cs.Machine.Current())
	}
}

func TestBuildCharacterRejectsBadStates(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*prefabs.CharacterSpec)
	}{
		{"initial_state", func(s *prefabs.CharacterSpec) { s.InitialState = "invincible" }},
		{"speed_multiplier", func(s *prefabs.CharacterSpec) { s.SpeedMultipliers["gliding"] = 2 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec := testSpec()
			c.mutate(&spec)
			w := ecs.NewWorld()
			if _, err := BuildCharacter(w, spec, CharacterOptions{Logger: quietLogger}); !errors.Is(err, fsm.ErrUnknownState) {
				t.Fatalf("expected ErrUnknownState, got %v", err)
			}
			if n := len(ecs.Entities(w)); n != 0 {
				t.Fatalf("expected no entities left behind, got %d", n)
			}
		})
	}
}

func TestEvalIntervalOverride(t *testing.T) {
	w := ecs.NewWorld()
	opts := CharacterOptions{Logger: quietLogger, EvalInterval: 75 * time.Millisecond}
	e, err := BuildCharacter(w, testSpec(), opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	cs, _ := ecs.Get(w, e, component.CharacterStateComponent.Kind())
	if got := cs.Machine.Scheduler().Interval(); got != 75*time.Millisecond {
		t.Fatalf("expected the override at build, got %v", got)
	}

	reloaded := testSpec()
	reloaded.Machine.EvalIntervalMS = 10
	if err := ApplyTuning(w, e, reloaded, opts); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := cs.Machine.Scheduler().Interval(); got != 75*time.Millisecond {
		t.Fatalf("expected the override to survive a reload, got %v", got)
	}
}

func TestApplyTuning(t *testing.T) {
	w := ecs.NewWorld()
	opts := CharacterOptions{Logger: quietLogger}
	e, err := BuildCharacter(w, testSpec(), opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	hp, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	hp.Current = 1

	spec := testSpec()
	spec.MoveSpeed = 5
	spec.InvulnFrames = 15
	spec.Health = 9
	spec.Machine.EvalIntervalMS = 60
	if err := ApplyTuning(w, e, spec, opts); err != nil {
		t.Fatalf("apply: %v", err)
	}

	char, _ := ecs.Get(w, e, component.CharacterComponent.Kind())
	if char.MoveSpeed != 5 || char.InvulnFrames != 15 {
		t.Fatalf("expected the new tuning, got %+v", char)
	}
	if hp.Current != 1 || hp.Max != 4 {
		t.Fatalf("a reload must not touch health, got %+v", hp)
	}
	cs, _ := ecs.Get(w, e, component.CharacterStateComponent.Kind())
	if got := cs.Machine.Scheduler().Interval(); got != 60*time.Millisecond {
		t.Fatalf("expected a 60ms interval, got %v", got)
	}

	bad := testSpec()
	bad.SpeedMultipliers["gliding"] = 2
	if err := ApplyTuning(w, e, bad, opts); !errors.Is(err, fsm.ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
	if char.MoveSpeed != 5 {
		t.Fatalf("a rejected reload must leave tuning alone, got %+v", char)
	}

	ecs.DestroyEntity(w, e)
	if err := ApplyTuning(w, e, spec, opts); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestNewCharacterFromEmbeddedPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewCharacter(w, "character.yaml", CharacterOptions{Player: true, Logger: quietLogger})
	if err != nil {
		t.Fatalf("new character: %v", err)
	}
	char, _ := ecs.Get(w, e, component.CharacterComponent.Kind())
	if char.Name != "knight" {
		t.Fatalf("expected knight, got %q", char.Name)
	}
	if _, err := NewCharacter(w, "missing.yaml", CharacterOptions{Logger: quietLogger}); err == nil {
		t.Fatalf("expected an error for a missing prefab")
	}
}

func TestBuildArena(t *testing.T) {
	w := ecs.NewWorld()
	got, err := BuildArena(w, prefabs.ArenaSpec{
		Width:  100,
		Height: 50,
		Platforms: []prefabs.PlatformSpec{
			{X: 50, Y: 45, Width: 100, Height: 10},
			{X: 20, Y: 20, Width: 30, Height: 4},
		},
	})
	if err != nil {
		t.Fatalf("build arena: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(got))
	}
	for _, e := range got {
		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || !body.Static {
			t.Fatalf("expected a static body on %s", e)
		}
		if !ecs.Has(w, e, component.PlatformTagComponent.Kind()) {
			t.Fatalf("expected a platform tag on %s", e)
		}
	}
}
