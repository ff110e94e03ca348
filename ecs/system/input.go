package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/movement"
)

const stickDeadzone = 0.2

// KeyPoller reports keyboard state.
type KeyPoller interface {
	Pressed(key ebiten.Key) bool
	JustPressed(key ebiten.Key) bool
}

// GamepadPoller reports the direction held on the first connected gamepad.
type GamepadPoller interface {
	Direction() (movement.Input, bool)
}

type InputSystem struct {
	keys    KeyPoller
	gamepad GamepadPoller
}

// NewInputSystem polls ebiten's keyboard and standard gamepad.
func NewInputSystem() *InputSystem {
	return NewInputSystemWith(ebitenKeys{}, ebitenGamepad{})
}

// NewInputSystemWith uses the given pollers. A nil gamepad poller disables
// gamepad input.
func NewInputSystemWith(keys KeyPoller, gamepad GamepadPoller) *InputSystem {
	return &InputSystem{keys: keys, gamepad: gamepad}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.keys == nil {
		return
	}

	dir := movement.Input{
		Up:    i.keys.Pressed(ebiten.KeyArrowUp),
		Down:  i.keys.Pressed(ebiten.KeyArrowDown),
		Left:  i.keys.Pressed(ebiten.KeyArrowLeft),
		Right: i.keys.Pressed(ebiten.KeyArrowRight),
	}
	if i.gamepad != nil {
		if pad, ok := i.gamepad.Direction(); ok {
			dir.Up = dir.Up || pad.Up
			dir.Down = dir.Down || pad.Down
			dir.Left = dir.Left || pad.Left
			dir.Right = dir.Right || pad.Right
		}
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		input.Direction = dir
	})

	if i.keys.JustPressed(ebiten.KeyD) {
		ecs.ForEach(w, component.DebugOverlayComponent.Kind(), func(_ ecs.Entity, overlay *component.DebugOverlay) {
			overlay.Visible = !overlay.Visible
		})
	}
}

// stickDirection maps a stick position to directions, ignoring the deadzone.
func stickDirection(x, y float64) movement.Input {
	var in movement.Input
	if math.Abs(x) > stickDeadzone {
		in.Left = x < 0
		in.Right = x > 0
	}
	if math.Abs(y) > stickDeadzone {
		in.Up = y < 0
		in.Down = y > 0
	}
	return in
}

type ebitenKeys struct{}

func (ebitenKeys) Pressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

func (ebitenKeys) JustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

type ebitenGamepad struct{}

func (ebitenGamepad) Direction() (movement.Input, bool) {
	gamepads := ebiten.AppendGamepadIDs(nil)
	if len(gamepads) == 0 {
		return movement.Input{}, false
	}
	id := gamepads[0]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return movement.Input{}, false
	}

	in := stickDirection(
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
	)
	in.Up = in.Up || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop)
	in.Down = in.Down || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom)
	in.Left = in.Left || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft)
	in.Right = in.Right || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight)
	return in, true
}
