package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/charfsm/ecs/component"
)

const stickDeadzone = 0.2

// sampleInput reads keyboard and the first gamepad.
func sampleInput() component.Input {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)

	in := component.Input{
		Jump:            ebiten.IsKeyPressed(ebiten.KeySpace),
		JumpPressed:     inpututil.IsKeyJustPressed(ebiten.KeySpace),
		AttackPressed:   inpututil.IsKeyJustPressed(ebiten.KeyJ) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		SkillPressed:    inpututil.IsKeyJustPressed(ebiten.KeyK) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		InteractPressed: inpututil.IsKeyJustPressed(ebiten.KeyE),
	}
	if left {
		in.MoveX -= 1
	}
	if right {
		in.MoveX += 1
	}
	if up {
		in.MoveY -= 1
	}
	if down {
		in.MoveY += 1
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			in.MoveX = lx
			in.MoveY = ly
		}
		in.Jump = in.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.AttackPressed = in.AttackPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		in.SkillPressed = in.SkillPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
		in.InteractPressed = in.InteractPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
	}

	return in
}

// skillCyclePressed selects the next skill slot.
func skillCyclePressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return true
	}
	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		return inpututil.IsStandardGamepadButtonJustPressed(gamepads[0], ebiten.StandardGamepadButtonFrontTopRight)
	}
	return false
}
