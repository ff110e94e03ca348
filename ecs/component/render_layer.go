package component

// RenderLayer is used to sort draw order deterministically.
type RenderLayer struct {
	Index int
}

const (
	LayerBelow  = 0
	LayerWorld  = 1
	LayerPlayer = 2
	LayerAbove  = 10
)

var RenderLayerComponent = NewComponent[RenderLayer]()
