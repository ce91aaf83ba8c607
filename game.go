package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/charfsm/config"
	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
	"github.com/milk9111/charfsm/ecs/entity"
	"github.com/milk9111/charfsm/ecs/system"
	"github.com/milk9111/charfsm/fsm"
	"github.com/milk9111/charfsm/prefabs"
	"github.com/milk9111/charfsm/telemetry"
)

const (
	baseWidth  = 480
	baseHeight = 270

	historyLines = 6
)

var stateColors = map[fsm.State]color.Color{
	fsm.Idle:      colornames.Steelblue,
	fsm.Walking:   colornames.Seagreen,
	fsm.Jumping:   colornames.Gold,
	fsm.Falling:   colornames.Orange,
	fsm.Attacking: colornames.Crimson,
	fsm.Skill:     colornames.Mediumpurple,
	fsm.Hurt:      colornames.Hotpink,
	fsm.Death:     colornames.Dimgray,
}

type Game struct {
	cfg    config.Runtime
	opts   entity.CharacterOptions
	world  *ecs.World
	sys    *system.Systems
	sched  *ecs.Scheduler
	player ecs.Entity
	watch  *prefabs.Watcher
	frames int
}

func NewGame(cfg config.Runtime) (*Game, error) {
	w := ecs.NewWorld()

	arena, err := prefabs.LoadArenaSpec(cfg.Arena)
	if err != nil {
		return nil, err
	}
	if _, err := entity.BuildArena(w, arena); err != nil {
		return nil, err
	}

	opts := entity.CharacterOptions{Player: true, Debug: cfg.Debug, EvalInterval: cfg.EvalInterval}
	player, err := entity.NewCharacter(w, cfg.Prefab, opts)
	if err != nil {
		return nil, err
	}
	cs, _ := ecs.Get(w, player, component.CharacterStateComponent.Kind())
	name := cfg.Prefab
	if char, ok := ecs.Get(w, player, component.CharacterComponent.Kind()); ok {
		name = char.Name
	}
	telemetry.TraceTransitions(cs.Machine, telemetry.Tracer("fsm"), name)

	sys := system.NewSystems(sampleInput, nil, nil)
	g := &Game{
		cfg:    cfg,
		opts:   opts,
		world:  w,
		sys:    sys,
		sched:  sys.Scheduler(),
		player: player,
	}

	if cfg.HotReload {
		watch, err := prefabs.NewWatcher(cfg.PrefabDir, filepath.Join(cfg.PrefabDir, "scripts"))
		if err != nil {
			log.Printf("hot reload disabled: %v", err)
		} else {
			g.watch = watch
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watch != nil {
		_ = g.watch.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.applyReloads()
	g.handleDebugKeys()
	g.sched.Update(g.world)
	return nil
}

func (g *Game) applyReloads() {
	if g.watch == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watch.Changes:
			if !ok {
				g.watch = nil
				return
			}
			g.applyChange(change)
		case err := <-g.watch.Errors:
			if err != nil {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ScriptChanged:
		g.sys.Skill.Invalidate(change.Path)
		log.Printf("reload: script %s", filepath.Base(change.Path))
	case prefabs.SpecChanged:
		if filepath.Base(change.Path) != filepath.Base(g.cfg.Prefab) {
			return
		}
		spec, err := prefabs.LoadCharacterSpec(g.cfg.Prefab)
		if err != nil {
			log.Printf("reload: %v", err)
			return
		}
		if err := entity.ApplyTuning(g.world, g.player, spec, g.opts); err != nil {
			log.Printf("reload: %v", err)
			return
		}
		log.Printf("reload: tuning for %s", spec.Name)
	}
}

// handleDebugKeys: E hurts the player, R resets it, Q cycles skills.
func (g *Game) handleDebugKeys() {
	w, e := g.world, g.player
	if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok && in.InteractPressed {
		if err := system.Damage(w, e, 1, 0); err != nil {
			log.Printf("debug: damage: %v", err)
		}
	}
	if skillCyclePressed() {
		if set, ok := ecs.Get(w, e, component.SkillSetComponent.Kind()); ok && len(set.Skills) > 0 && !set.Executing() {
			set.Selected = (set.Selected + 1) % len(set.Skills)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if hp, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
			hp.Current = hp.Max
			hp.StunFrames = 0
		}
		system.EndInvulnerability(w, e)
		if cs, ok := ecs.Get(w, e, component.CharacterStateComponent.Kind()); ok {
			cs.Machine.Reset()
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	ecs.ForEach2(g.world, component.PlatformTagComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, _ *component.PlatformTag, body *component.PhysicsBody) {
		t, ok := ecs.Get(g.world, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		vector.FillRect(screen, float32(t.X-body.Width/2), float32(t.Y-body.Height/2), float32(body.Width), float32(body.Height), colornames.Slategray, false)
	})

	ecs.ForEach(g.world, component.CharacterStateComponent.Kind(), func(e ecs.Entity, cs *component.CharacterState) {
		g.drawCharacter(screen, e, cs.Machine)
	})

	if cs, ok := ecs.Get(g.world, g.player, component.CharacterStateComponent.Kind()); ok {
		ebitenutil.DebugPrint(screen, g.status(cs.Machine))
	}
}

func (g *Game) drawCharacter(screen *ebiten.Image, e ecs.Entity, m *fsm.Machine) {
	t, ok1 := ecs.Get(g.world, e, component.TransformComponent.Kind())
	body, ok2 := ecs.Get(g.world, e, component.PhysicsBodyComponent.Kind())
	if !ok1 || !ok2 {
		return
	}
	x, y := float32(t.X-body.Width/2), float32(t.Y-body.Height/2)
	w, h := float32(body.Width), float32(body.Height)

	fill := stateColors[m.Current()]
	if fill == nil {
		fill = colornames.White
	}
	vector.FillRect(screen, x, y, w, h, fill, false)
	if m.Flags().IsInvincible() && g.frames%8 < 4 {
		vector.StrokeRect(screen, x-2, y-2, w+4, h+4, 1, colornames.White, false)
	}
	eyeX := x + w*0.7
	if t.Facing < 0 {
		eyeX = x + w*0.3
	}
	vector.FillRect(screen, eyeX-1, y+4, 2, 2, colornames.Black, false)
}

func (g *Game) status(m *fsm.Machine) string {
	var b strings.Builder
	f := m.Flags()
	fmt.Fprintf(&b, "FPS %.0f  state %s (prev %s) %.1fs\n", ebiten.ActualFPS(), m.Current(), m.Previous(), m.CurrentStateDuration().Seconds())
	fmt.Fprintf(&b, "move=%t attack=%t invincible=%t grounded=%t falling=%t\n",
		f.IsMovementAllowed(), f.IsAttackAllowed(), f.IsInvincible(), f.IsGrounded(), f.IsFalling())
	fmt.Fprintf(&b, "can jump=%t attack=%t skill=%t\n",
		m.CanTransitionTo(fsm.Jumping), m.CanTransitionTo(fsm.Attacking), m.CanTransitionTo(fsm.Skill))

	if hp, ok := ecs.Get(g.world, g.player, component.HealthComponent.Kind()); ok {
		fmt.Fprintf(&b, "hp %d/%d stun %d\n", hp.Current, hp.Max, hp.StunFrames)
	}
	if set, ok := ecs.Get(g.world, g.player, component.SkillSetComponent.Kind()); ok && len(set.Skills) > 0 {
		sel := set.Skills[set.Selected]
		cd := 0
		if set.Selected < len(set.Cooldowns) {
			cd = set.Cooldowns[set.Selected]
		}
		fmt.Fprintf(&b, "skill %s cooldown %d\n", sel.Name, cd)
	}

	entries := m.History()
	if len(entries) > historyLines {
		entries = entries[len(entries)-historyLines:]
	}
	for i := len(entries) - 1; i >= 0; i-- {
		en := entries[i]
		fmt.Fprintf(&b, "  %s -> %s [%s]\n", en.From, en.To, en.Label)
	}
	b.WriteString("AD move  SPACE jump  J attack  K skill  Q next skill  E hurt  R reset")
	return b.String()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
