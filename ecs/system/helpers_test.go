package system

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
	"github.com/milk9111/charfsm/fsm"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var quietLogger = log.New(io.Discard, "", 0)

// harness runs the full system order against a world with scripted input.
type harness struct {
	t       *testing.T
	w       *ecs.World
	clock   *fakeClock
	input   component.Input
	systems *Systems
	sched   *ecs.Scheduler
	scripts map[string]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		w:       ecs.NewWorld(),
		clock:   &fakeClock{now: time.Unix(1000, 0)},
		scripts: map[string]string{},
	}
	sample := func() component.Input {
		in := h.input
		// edges last a single tick
		h.input.JumpPressed = false
		h.input.AttackPressed = false
		h.input.SkillPressed = false
		h.input.InteractPressed = false
		return in
	}
	load := func(path string) ([]byte, error) {
		src, ok := h.scripts[path]
		if !ok {
			return nil, errNoScript
		}
		return []byte(src), nil
	}
	h.systems = NewSystems(sample, load, quietLogger)
	h.sched = h.systems.Scheduler()
	return h
}

type scriptError string

func (e scriptError) Error() string { return string(e) }

const errNoScript = scriptError("no such script")

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.clock.Advance(fsm.DefaultEvaluationInterval)
		h.sched.Update(h.w)
	}
}

type characterParts struct {
	health int
	skills []component.SkillSlot
	body   bool
}

// addCharacter builds a character without physics unless parts.body is
// set, so it counts as grounded.
func (h *harness) addCharacter(parts characterParts) ecs.Entity {
	h.t.Helper()
	w := h.w
	e := ecs.CreateEntity(w)
	must := func(err error) {
		h.t.Helper()
		if err != nil {
			h.t.Fatalf("add component: %v", err)
		}
	}
	must(ecs.Add(w, e, component.CharacterComponent.Kind(), &component.Character{
		Name:             "tester",
		MoveSpeed:        2,
		JumpSpeed:        6,
		AttackFrames:     3,
		InvulnFrames:     5,
		HurtStunFrames:   2,
		SpeedMultipliers: map[fsm.State]float64{fsm.Attacking: 0.5},
	}))
	must(ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Facing: 1}))
	must(ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}))
	must(ecs.Add(w, e, component.AttackComponent.Kind(), &component.Attack{}))
	if parts.health > 0 {
		must(ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Current: parts.health, Max: parts.health}))
	}
	if len(parts.skills) > 0 {
		must(ecs.Add(w, e, component.SkillSetComponent.Kind(), &component.SkillSet{
			Skills:    parts.skills,
			Active:    -1,
			Cooldowns: make([]int, len(parts.skills)),
		}))
	}
	if parts.body {
		must(ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 16, Height: 28, Mass: 1}))
		must(ecs.Add(w, e, component.GroundComponent.Kind(), &component.Ground{}))
	}
	m := fsm.New(fsm.Config{Clock: h.clock, Logger: quietLogger}, CharacterCollaborators(w, e))
	must(ecs.Add(w, e, component.CharacterStateComponent.Kind(), &component.CharacterState{Machine: m}))
	return e
}

func (h *harness) machine(e ecs.Entity) *fsm.Machine {
	h.t.Helper()
	m := machineFor(h.w, e)
	if m == nil {
		h.t.Fatalf("entity %s has no machine", e)
	}
	return m
}

func (h *harness) expectState(e ecs.Entity, want fsm.State) {
	h.t.Helper()
	if got := h.machine(e).Current(); got != want {
		h.t.Fatalf("expected %s, got %s", want, got)
	}
}
