package system

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// RenderSystem draws sprites through the camera, lowest RenderLayer first.
type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}

	camX, camY, zoom := cameraView(w)
	screenW := float64(screen.Bounds().Dx())
	screenH := float64(screen.Bounds().Dy())

	entities := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	layers := make(map[ecs.Entity]int, len(entities))
	for _, e := range entities {
		if layer, ok := ecs.Get(w, e, component.RenderLayerComponent); ok {
			layers[e] = layer.Index
		}
	}
	// Query returns id order, so equal layers keep creation order.
	sort.SliceStable(entities, func(i, j int) bool {
		return layers[entities[i]] < layers[entities[j]]
	})

	for _, e := range entities {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		s, ok := ecs.Get(w, e, component.SpriteComponent)
		if !ok || s.Image == nil || s.Hidden {
			continue
		}

		img := s.Image
		if s.UseSource {
			sub, ok := s.Image.SubImage(s.Source).(*ebiten.Image)
			if !ok {
				continue
			}
			img = sub
		}

		sx := t.ScaleX
		if sx == 0 {
			sx = 1
		}
		sy := t.ScaleY
		if sy == 0 {
			sy = 1
		}

		dx := (t.X - camX) * zoom
		dy := (t.Y - camY) * zoom
		if t.Rotation == 0 && offscreen(dx-s.OriginX*sx*zoom, dy-s.OriginY*sy*zoom, float64(img.Bounds().Dx())*sx*zoom, float64(img.Bounds().Dy())*sy*zoom, screenW, screenH) {
			continue
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)
		op.GeoM.Scale(sx, sy)
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Scale(zoom, zoom)
		op.GeoM.Translate(dx, dy)
		op.Filter = ebiten.FilterNearest

		screen.DrawImage(img, op)
	}
}

func offscreen(x, y, w, h, screenW, screenH float64) bool {
	return x+w < 0 || y+h < 0 || x > screenW || y > screenH
}

// cameraView returns the camera's top-left world position and zoom.
func cameraView(w *ecs.World) (float64, float64, float64) {
	camX, camY := 0.0, 0.0
	zoom := 1.0
	camEntity, ok := w.First(component.CameraComponent.Kind())
	if !ok {
		return camX, camY, zoom
	}
	if camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent); ok {
		camX = camTransform.X
		camY = camTransform.Y
	}
	if camComp, ok := ecs.Get(w, camEntity, component.CameraComponent); ok {
		if camComp.Zoom > 0 {
			zoom = camComp.Zoom
		}
	}
	return camX, camY, zoom
}
