package component

import "github.com/milk9111/topdown/movement"

// Input stores the directional key state sampled for an entity this tick.
type Input struct {
	Direction movement.Input
}

var InputComponent = NewComponent[Input]()
