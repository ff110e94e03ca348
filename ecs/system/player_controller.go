package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/movement"
)

// restVelocity is the speed below which a velocity component counts as zero.
// A contact solve against a wall leaves a tiny residual pointing away from it.
const restVelocity = 1e-6

// PlayerControllerSystem turns the sampled directions of each player into a
// body velocity and the matching walk animation or still frame.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	entities := w.Query(
		component.PlayerTagComponent.Kind(),
		component.InputComponent.Kind(),
		component.PlayerComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
	)
	for _, e := range entities {
		input, ok := ecs.Get(w, e, component.InputComponent)
		if !ok {
			continue
		}
		player, ok := ecs.Get(w, e, component.PlayerComponent)
		if !ok {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp.Body == nil {
			continue
		}

		speed := player.MoveSpeed
		if speed <= 0 {
			speed = movement.DefaultSpeed
		}

		res := movement.Resolve(input.Direction, settled(bodyComp.Body.Velocity()), player.Facing, speed)
		bodyComp.Body.SetVelocityVector(res.Velocity)
		player.Facing = res.Facing

		anim, ok := ecs.Get(w, e, component.AnimationComponent)
		if !ok {
			continue
		}
		if res.Moving {
			anim.Play(movement.WalkAnimation(player.Character, res.Heading), true)
			continue
		}
		anim.Stop()
		anim.ShowFrame(movement.StillFrame(player.Character, res.Facing))
	}
}

// settled zeroes velocity components left over from collision response.
func settled(v cp.Vector) cp.Vector {
	if math.Abs(v.X) < restVelocity {
		v.X = 0
	}
	if math.Abs(v.Y) < restVelocity {
		v.Y = 0
	}
	return v
}
