// Package movement turns directional input into a character velocity and pose.
package movement

import "github.com/jakecoffman/cp"

// DefaultSpeed is the walking speed in pixels per second.
const DefaultSpeed = 175.0

// Input is the directional key state sampled once per tick. More than one
// flag may be set; Resolve applies them in the order Left, Right, Up, Down.
type Input struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Result is the outcome of a single tick.
type Result struct {
	Velocity cp.Vector
	// Moving is false when no direction was held.
	Moving bool
	// Heading is the walk direction. Only meaningful when Moving.
	Heading Facing
	// Facing is the still pose. It only changes on idle ticks.
	Facing Facing
}

// Resolve computes this tick's velocity and pose from the input, the
// previous tick's velocity and the current facing.
func Resolve(in Input, prev cp.Vector, facing Facing, speed float64) Result {
	res := Result{Facing: facing, Moving: true}

	switch {
	case in.Left:
		res.Velocity = cp.Vector{X: -speed}
		res.Heading = FacingLeft
	case in.Right:
		res.Velocity = cp.Vector{X: speed}
		res.Heading = FacingRight
	case in.Up:
		res.Velocity = cp.Vector{Y: -speed}
		res.Heading = FacingBack
	case in.Down:
		res.Velocity = cp.Vector{Y: speed}
		res.Heading = FacingFront
	default:
		res.Moving = false
		res.Facing = idleFacing(prev, facing)
	}

	// Only one branch above can set a component, so this never changes the
	// magnitude today. It keeps the speed cap if diagonals are ever allowed.
	res.Velocity = rescale(res.Velocity, speed)
	return res
}

func idleFacing(prev cp.Vector, current Facing) Facing {
	switch {
	case prev.X < 0:
		return FacingLeft
	case prev.X > 0:
		return FacingRight
	case prev.Y < 0:
		return FacingBack
	case prev.Y > 0:
		return FacingFront
	}
	return current
}

// rescale sets the length of v to speed. A zero vector stays zero.
func rescale(v cp.Vector, speed float64) cp.Vector {
	length := v.Length()
	if length == 0 {
		return v
	}
	return cp.Vector{X: v.X / length * speed, Y: v.Y / length * speed}
}
