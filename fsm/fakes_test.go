package fsm

import (
	"io"
	"log"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeInput struct {
	move     Vector2
	jump     bool
	attack   bool
	skill    bool
	interact bool
}

func (i *fakeInput) MoveVector() Vector2     { return i.move }
func (i *fakeInput) JumpRequested() bool     { return i.jump }
func (i *fakeInput) AttackRequested() bool   { return i.attack }
func (i *fakeInput) SkillRequested() bool    { return i.skill }
func (i *fakeInput) InteractRequested() bool { return i.interact }

type fakePhysics struct {
	grounded bool
	vy       float64
}

func (p *fakePhysics) IsGrounded() bool          { return p.grounded }
func (p *fakePhysics) VerticalVelocity() float64 { return p.vy }

type fakeSkills struct {
	executing bool
	ready     bool
}

func (s *fakeSkills) IsExecutingSkill() bool { return s.executing }
func (s *fakeSkills) SkillReady() bool       { return s.ready }

type fakeAttacks struct {
	attacking bool
}

func (a *fakeAttacks) IsAttacking() bool { return a.attacking }

type fakeHealth struct {
	alive   bool
	stunned bool
}

func (h *fakeHealth) IsAlive() bool   { return h.alive }
func (h *fakeHealth) IsStunned() bool { return h.stunned }

// rig wires a machine to controllable collaborators.
type rig struct {
	m       *Machine
	clock   *fakeClock
	input   *fakeInput
	physics *fakePhysics
	skills  *fakeSkills
	attacks *fakeAttacks
	health  *fakeHealth
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		clock:   newFakeClock(),
		input:   &fakeInput{},
		physics: &fakePhysics{grounded: true},
		skills:  &fakeSkills{ready: true},
		attacks: &fakeAttacks{},
		health:  &fakeHealth{alive: true},
	}
	r.m = New(Config{
		Clock:  r.clock,
		Logger: log.New(io.Discard, "", 0),
	}, Collaborators{
		Input:   r.input,
		Physics: r.physics,
		Skills:  r.skills,
		Attacks: r.attacks,
		Health:  r.health,
	})
	return r
}

// tick advances past the evaluation interval and runs one update.
func (r *rig) tick() bool {
	r.clock.Advance(DefaultEvaluationInterval)
	return r.m.Update()
}
