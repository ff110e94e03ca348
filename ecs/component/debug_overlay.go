package component

import "image/color"

// DebugOverlay controls the collision debug drawing. It lives on a single
// entity created with the scene.
type DebugOverlay struct {
	Visible           bool
	Alpha             float64
	CollidingTileFill color.Color
	FaceColor         color.Color
}

var DebugOverlayComponent = NewComponent[DebugOverlay]()
