package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// OffsetX/OffsetY place the collider center relative to the transform.
type PhysicsBody struct {
	Body          *cp.Body
	Shape         *cp.Shape
	Width         float64
	Height        float64
	OffsetX       float64
	OffsetY       float64
	Mass          float64
	Friction      float64
	Elasticity    float64
	Static        bool
	FixedRotation bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
