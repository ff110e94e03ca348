package component

// Transform positions an entity in world space. For sprites with a centered
// origin X/Y is the visual center.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
