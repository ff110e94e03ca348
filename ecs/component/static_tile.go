package component

// StaticTile marks a map tile. Colliding tiles get a static physics box and
// show up in the collision debug overlay.
type StaticTile struct {
	Col      int
	Row      int
	Width    float64
	Height   float64
	Collides bool
}

var StaticTileComponent = NewComponent[StaticTile]()
