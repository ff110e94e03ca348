package component

const (
	CategoryWorld  uint32 = 1 << 0
	CategoryPlayer uint32 = 1 << 1
)

// CollisionLayer declares a collision category and mask so the physics
// system can filter which shapes touch.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// the physics system will treat it as CategoryWorld.
	Category uint32
	// Mask is a bitmask of categories this entity should collide with. If
	// zero, the physics system will treat it as all-bits set.
	Mask uint32
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
