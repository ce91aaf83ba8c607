package system

import (
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
	"github.com/milk9111/charfsm/fsm"
)

func TestInputEdgesDriveTheMachine(t *testing.T) {
	h := newHarness(t)
	e := h.addCharacter(characterParts{})
	h.tick(1)
	h.expectState(e, fsm.Idle)

	// no clock advance: only the input event can force the evaluation
	h.input.MoveX = 1
	h.systems.Input.Update(h.w)
	h.systems.State.Update(h.w)
	h.expectState(e, fsm.Walking)

	h.input.MoveX = 0
	h.tick(1)
	h.expectState(e, fsm.Idle)
}

func TestAttackSwingLifecycle(t *testing.T) {
	h := newHarness(t)
	e := h.addCharacter(characterParts{})
	h.tick(1)

	h.input.AttackPressed = true
	h.tick(1)
	h.expectState(e, fsm.Attacking)
	atk, _ := ecs.Get(h.w, e, component.AttackComponent.Kind())
	if atk.Frames != 3 {
		t.Fatalf("expected a 3 frame swing, got %d", atk.Frames)
	}

	h.tick(2)
	h.expectState(e, fsm.Attacking)
	h.tick(1)
	h.expectState(e, fsm.Idle)
	if atk.Frames != 0 {
		t.Fatalf("expected swing over, got %d frames", atk.Frames)
	}
}

func TestHurtAndInvulnerabilityWindow(t *testing.T) {
	h := newHarness(t)
	e := h.addCharacter(characterParts{health: 3})
	h.tick(1)
	m := h.machine(e)
	hp, _ := ecs.Get(h.w, e, component.HealthComponent.Kind())

	if err := Damage(h.w, e, 1, 0); err != nil {
		t.Fatalf("damage: %v", err)
	}
	h.tick(1)
	h.expectState(e, fsm.Hurt)
	if hp.Current != 2 || hp.StunFrames != 2 {
		t.Fatalf("expected hp 2 stun 2, got %+v", hp)
	}
	if !m.Flags().IsInvincible() || !ecs.Has(h.w, e, component.InvulnerableComponent.Kind()) {
		t.Fatalf("expected an invulnerability window")
	}

	h.tick(2)
	h.expectState(e, fsm.Idle)
	if !m.Flags().IsInvincible() {
		t.Fatalf("invincibility must outlive the hurt state")
	}

	_ = Damage(h.w, e, 1, 0)
	h.tick(1)
	h.expectState(e, fsm.Idle)
	if hp.Current != 2 {
		t.Fatalf("damage while invincible must be dropped, hp=%d", hp.Current)
	}

	h.tick(2)
	if m.Flags().IsInvincible() {
		t.Fatalf("expected the window to have ended")
	}
	if ecs.Has(h.w, e, component.InvulnerableComponent.Kind()) {
		t.Fatalf("expected the marker to be removed")
	}

	_ = Damage(h.w, e, 1, 0)
	h.tick(1)
	h.expectState(e, fsm.Hurt)
	if hp.Current != 1 {
		t.Fatalf("expected hp 1, got %d", hp.Current)
	}
}

func TestUnsetInvulnerabilityWindowStillEnds(t *testing.T) {
	h := newHarness(t)
	e := h.addCharacter(characterParts{health: 5})
	char, _ := ecs.Get(h.w, e, component.CharacterComponent.Kind())
	char.InvulnFrames = 0
	h.tick(1)
	m := h.machine(e)

	_ = Damage(h.w, e, 1, 0)
	h.tick(1)
	h.expectState(e, fsm.Hurt)
	if !m.Flags().IsInvincible() {
		t.Fatalf("expected hurt to raise invincibility")
	}

	h.tick(1)
	if m.Flags().IsInvincible() {
		t.Fatalf("expected the unset window to end on the next tick")
	}
	if ecs.Has(h.w, e, component.InvulnerableComponent.Kind()) {
		t.Fatalf("expected the marker to be removed")
	}

	h.tick(10)
	h.expectState(e, fsm.Idle)
	_ = Damage(h.w, e, 1, 0)
	h.tick(1)
	h.expectState(e, fsm.Hurt)
}

func TestLethalDamageKills(t *testing.T) {
	h := newHarness(t)
	e := h.addCharacter(characterParts{health: 2})
	h.tick(1)

	_ = Damage(h.w, e, 5, 0)
	h.tick(1)
	h.expectState(e, fsm.Death)

	h.input.MoveX = 1
	h.input.AttackPressed = true
	h.tick(10)
	h.expectState(e, fsm.Death)
	if h.machine(e).Flags().IsMovementAllowed() {
		t.Fatalf("dead characters cannot move")
	}
}

func TestStateInterrupt(t *testing.T) {
	h := newHarness(t)
	e := h.addCharacter(characterParts{})
	h.tick(1)

	if err := Interrupt(h.w, e, fsm.Attacking); err != nil {
		t.Fatalf("interrupt: %v", err)
	}
	h.systems.State.Update(h.w)
	h.expectState(e, fsm.Attacking)
	if last, ok := h.machine(e).LastTransition(); !ok || last.Label != "force" {
		t.Fatalf("expected a forced transition, got %+v", last)
	}
	atk, _ := ecs.Get(h.w, e, component.AttackComponent.Kind())
	if atk.Frames != 3 {
		t.Fatalf("forced attacks still start a swing, got %d frames", atk.Frames)
	}
	if ecs.Has(h.w, e, component.StateInterruptComponent.Kind()) {
		t.Fatalf("interrupt must be consumed")
	}

	_ = ecs.Add(h.w, e, component.StateInterruptComponent.Kind(), &component.StateInterrupt{State: "flying"})
	before := h.machine(e).Current()
	h.systems.State.Update(h.w)
	if h.machine(e).Current() != before {
		t.Fatalf("unknown state names must be ignored")
	}
}

func TestMovementRespectsCapabilities(t *testing.T) {
	h := newHarness(t)
	e := h.addCharacter(characterParts{})
	body, _ := ecs.Get(h.w, e, component.PhysicsBodyComponent.Kind())
	if body != nil {
		t.Fatalf("character should start without a body")
	}
	_ = ecs.Add(h.w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: newTestBody()})
	in, _ := ecs.Get(h.w, e, component.InputComponent.Kind())
	m := h.machine(e)

	in.MoveX = -1
	h.systems.Movement.Update(h.w)
	if v := Velocity(h.w, e); v.X != -2 {
		t.Fatalf("expected vx -2, got %v", v.X)
	}
	tr, _ := ecs.Get(h.w, e, component.TransformComponent.Kind())
	if tr.Facing != -1 {
		t.Fatalf("expected facing left")
	}

	m.ForceTransition(fsm.Attacking)
	h.systems.Movement.Update(h.w)
	if v := Velocity(h.w, e); v.X != -1 {
		t.Fatalf("expected attacking multiplier, got %v", v.X)
	}

	m.ForceTransition(fsm.Death)
	h.systems.Movement.Update(h.w)
	if v := Velocity(h.w, e); v.X != 0 {
		t.Fatalf("expected no movement when disallowed, got %v", v.X)
	}
}

func newTestBody() *cp.Body {
	return cp.NewBody(1, cp.INFINITY)
}
