package entity

import (
	"image/color"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// DebugColors configures the collision overlay.
type DebugColors struct {
	CollidingTile color.Color
	Face          color.Color
	Alpha         float64
}

// NewDebugOverlay creates the single entity holding the overlay state.
func NewDebugOverlay(w *ecs.World, colors DebugColors, visible bool) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.DebugOverlayComponent.Kind(), &component.DebugOverlay{
		Visible:           visible,
		Alpha:             colors.Alpha,
		CollidingTileFill: colors.CollidingTile,
		FaceColor:         colors.Face,
	}); err != nil {
		w.DestroyEntity(e)
		return 0, err
	}
	return e, nil
}
