package component

type Camera struct {
	TargetName string
	Zoom       float64
	// Smoothness is the per-tick lerp factor toward the target; 1 snaps.
	Smoothness float64
	// Bounded clamps the view to the level bounds.
	Bounded bool
}

var CameraComponent = NewComponent[Camera]()
