package system

import (
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// CameraSystem moves the camera transform, which holds the world position of
// the view's top-left corner, toward its target.
type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
	viewW        float64
	viewH        float64
	placed       bool
}

func NewCameraSystem(viewW, viewH float64) *CameraSystem {
	return &CameraSystem{viewW: viewW, viewH: viewH}
}

// SetViewport updates the screen size the camera frames, in pixels.
func (cs *CameraSystem) SetViewport(w, h float64) {
	cs.viewW, cs.viewH = w, h
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if !w.IsAlive(cs.camEntity) {
		camEntity, ok := w.First(component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
		cs.targetEntity = 0
		cs.placed = false
	}
	camComp, ok := ecs.Get(w, cs.camEntity, component.CameraComponent)
	if !ok {
		return
	}
	camTransform, ok := ecs.Get(w, cs.camEntity, component.TransformComponent)
	if !ok {
		return
	}

	if !w.IsAlive(cs.targetEntity) {
		cs.targetEntity = findEntityByNameOrTag(w, camComp.TargetName)
	}
	target, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent)
	if !ok {
		return
	}

	zoom := camComp.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	viewW, viewH := cs.viewW/zoom, cs.viewH/zoom

	desiredX := target.X - viewW/2
	desiredY := target.Y - viewH/2

	smooth := camComp.Smoothness
	if smooth <= 0 || smooth > 1 || !cs.placed {
		smooth = 1
	}
	x := camTransform.X + (desiredX-camTransform.X)*smooth
	y := camTransform.Y + (desiredY-camTransform.Y)*smooth

	if camComp.Bounded {
		if boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind()); ok {
			if bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent); ok {
				x = clampAxis(x, viewW, bounds.Width)
				y = clampAxis(y, viewH, bounds.Height)
			}
		}
	}

	camTransform.X = x
	camTransform.Y = y
	cs.placed = true
}

// clampAxis keeps a view of size view inside [0, world]. A world smaller than
// the view is centered.
func clampAxis(pos, view, world float64) float64 {
	if world <= 0 {
		return pos
	}
	if world <= view {
		return (world - view) / 2
	}
	if pos < 0 {
		return 0
	}
	if pos > world-view {
		return world - view
	}
	return pos
}

func findEntityByNameOrTag(w *ecs.World, name string) ecs.Entity {
	if name == "player" {
		if e, ok := w.First(component.PlayerTagComponent.Kind()); ok {
			return e
		}
	}
	return 0
}
