package component

import "github.com/milk9111/topdown/movement"

type Player struct {
	MoveSpeed float64
	// Character prefixes animation and frame names, e.g. "misa".
	Character string
	Facing    movement.Facing
}

var PlayerComponent = NewComponent[Player]()
