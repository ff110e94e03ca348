package system

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
	debugFaceWidth      = 2
)

// SpaceProvider exposes the physics space to the debug drawer.
type SpaceProvider interface {
	Space() *cp.Space
}

// CollisionDebugSystem draws colliding tiles, their exposed faces and the
// chipmunk shapes while the debug overlay is visible.
type CollisionDebugSystem struct {
	physics SpaceProvider
}

func NewCollisionDebugSystem(physics SpaceProvider) *CollisionDebugSystem {
	return &CollisionDebugSystem{physics: physics}
}

func (d *CollisionDebugSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	overlayEntity, ok := w.First(component.DebugOverlayComponent.Kind())
	if !ok {
		return
	}
	overlay, ok := ecs.Get(w, overlayEntity, component.DebugOverlayComponent)
	if !ok || !overlay.Visible {
		return
	}

	camX, camY, zoom := cameraView(w)
	fill := withAlpha(overlay.CollidingTileFill, overlay.Alpha)
	face := withAlpha(overlay.FaceColor, overlay.Alpha)

	tiles := collidingTiles(w)
	for cell, tile := range tiles {
		x := float32((tile.X - camX) * zoom)
		y := float32((tile.Y - camY) * zoom)
		tw := float32(tile.Width * zoom)
		th := float32(tile.Height * zoom)
		vector.DrawFilledRect(screen, x, y, tw, th, fill, false)

		for _, f := range exposedFaces(tiles, cell) {
			x0, y0 := x+tw*f[0], y+th*f[1]
			x1, y1 := x+tw*f[2], y+th*f[3]
			vector.StrokeLine(screen, x0, y0, x1, y1, debugFaceWidth, face, false)
		}
	}

	if d.physics != nil {
		if space := d.physics.Space(); space != nil {
			cp.DrawSpace(space, &physicsDebugDrawer{screen: screen, camX: camX, camY: camY, zoom: zoom})
		}
	}
}

type tileCell struct{ col, row int }

type tileRect struct {
	X, Y, Width, Height float64
}

func collidingTiles(w *ecs.World) map[tileCell]tileRect {
	out := make(map[tileCell]tileRect)
	ecs.ForEach2(w, component.StaticTileComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, tile *component.StaticTile, t *component.Transform) {
		if !tile.Collides {
			return
		}
		out[tileCell{tile.Col, tile.Row}] = tileRect{X: t.X, Y: t.Y, Width: tile.Width, Height: tile.Height}
	})
	return out
}

// exposedFaces returns the edges of a colliding tile that border a
// non-colliding cell, as fractions of the tile rect {x0, y0, x1, y1}.
func exposedFaces(tiles map[tileCell]tileRect, c tileCell) [][4]float32 {
	var faces [][4]float32
	if _, ok := tiles[tileCell{c.col, c.row - 1}]; !ok {
		faces = append(faces, [4]float32{0, 0, 1, 0})
	}
	if _, ok := tiles[tileCell{c.col, c.row + 1}]; !ok {
		faces = append(faces, [4]float32{0, 1, 1, 1})
	}
	if _, ok := tiles[tileCell{c.col - 1, c.row}]; !ok {
		faces = append(faces, [4]float32{0, 0, 0, 1})
	}
	if _, ok := tiles[tileCell{c.col + 1, c.row}]; !ok {
		faces = append(faces, [4]float32{1, 0, 1, 1})
	}
	return faces
}

func withAlpha(c color.Color, alpha float64) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * math.Max(0, math.Min(1, alpha))))
	return n
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	camX   float64
	camY   float64
	zoom   float64
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, color cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, toNRGBA(color))
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, color cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], color)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, color cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, color)
}

func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float64, float64) {
	return (v.X - d.camX) * d.zoom, (v.Y - d.camY) * d.zoom
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
