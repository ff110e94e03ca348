package entity

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/levels"
)

const (
	// CollisionLayer is the tile layer whose tiles can block movement.
	CollisionLayer = "main"
	// CollidesProperty marks blocking tiles in the tileset.
	CollidesProperty = "collides"
	// SpawnLayer holds the player spawn point object.
	SpawnLayer  = "Objects"
	SpawnObject = "spawn"
)

// ImageSource resolves tileset images by the path written in the map.
type ImageSource interface {
	Image(key string) (*ebiten.Image, error)
}

var layerRenderIndex = map[string]int{
	"lower": component.LayerBelow,
	"main":  component.LayerWorld,
	"top":   component.LayerAbove,
}

// LoadMapToWorld creates a sprite entity per tile of every visible tile layer,
// merged static colliders for the blocking tiles of the collision layer and
// the level bounds entity.
func LoadMapToWorld(w *ecs.World, m *levels.Map, images ImageSource) error {
	if w == nil || m == nil {
		return fmt.Errorf("load map: world and map are required")
	}
	if _, err := m.TileLayer(CollisionLayer); err != nil {
		return fmt.Errorf("load map: %w", err)
	}

	boundsEntity := w.CreateEntity()
	if err := ecs.Add(w, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  float64(m.WidthInPixels()),
		Height: float64(m.HeightInPixels()),
	}); err != nil {
		return err
	}

	colliding, err := m.CollidingTiles(CollisionLayer, CollidesProperty)
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	blocked := make([]bool, m.Width*m.Height)
	for _, t := range colliding {
		blocked[t.Row*m.Width+t.Col] = true
	}

	tileW, tileH := float64(m.TileWidth), float64(m.TileHeight)
	imgs := make(map[string]*ebiten.Image)

	for i := range m.Layers {
		layer := &m.Layers[i]
		if layer.Type != "tilelayer" || !layer.Visible {
			continue
		}
		renderIndex, ok := layerRenderIndex[layer.Name]
		if !ok {
			renderIndex = component.LayerWorld
		}

		for row := 0; row < layer.Height; row++ {
			for col := 0; col < layer.Width; col++ {
				gid := layer.TileAt(col, row)
				if gid == 0 {
					continue
				}

				ts, err := m.TilesetFor(gid)
				if err != nil {
					return fmt.Errorf("load map: layer %q: %w", layer.Name, err)
				}
				img, ok := imgs[ts.Image]
				if !ok {
					img, err = images.Image(ts.Image)
					if err != nil {
						return fmt.Errorf("load map: tileset %q: %w", ts.Name, err)
					}
					imgs[ts.Image] = img
				}

				e := w.CreateEntity()
				if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
					X:      float64(col)*tileW + layer.OffsetX,
					Y:      float64(row)*tileH + layer.OffsetY,
					ScaleX: 1,
					ScaleY: 1,
				}); err != nil {
					return err
				}
				if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
					Image:     img,
					Source:    ts.SourceRect(gid),
					UseSource: true,
				}); err != nil {
					return err
				}
				if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: renderIndex}); err != nil {
					return err
				}

				if layer.Name == CollisionLayer {
					if err := ecs.Add(w, e, component.StaticTileComponent.Kind(), &component.StaticTile{
						Col:      col,
						Row:      row,
						Width:    tileW,
						Height:   tileH,
						Collides: blocked[row*m.Width+col],
					}); err != nil {
						return err
					}
				}
			}
		}
	}

	return addMergedTileColliders(w, blocked, m.Width, m.Height, tileW, tileH)
}

// SpawnPoint returns the world position of the player spawn object.
func SpawnPoint(m *levels.Map) (float64, float64, error) {
	obj, err := m.FindObject(SpawnLayer, func(o levels.Object) bool { return o.Name == SpawnObject })
	if err != nil {
		return 0, 0, fmt.Errorf("spawn point: %w", err)
	}
	return obj.X, obj.Y, nil
}

// addMergedTileColliders greedily grows rectangles over blocked cells, right
// first then down, and adds one static box per rectangle.
func addMergedTileColliders(w *ecs.World, blocked []bool, width, height int, tileW, tileH float64) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	open := func(x, y int) bool {
		idx := index(x, y)
		return idx < len(blocked) && blocked[idx] && !visited[idx]
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !open(x, y) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && open(x2, y); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !open(x2, y2) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}

			boxW := float64(maxW) * tileW
			boxH := float64(maxH) * tileH
			e := w.CreateEntity()
			if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
				X:      float64(x) * tileW,
				Y:      float64(y) * tileH,
				ScaleX: 1,
				ScaleY: 1,
			}); err != nil {
				return err
			}
			if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
				Width:   boxW,
				Height:  boxH,
				OffsetX: boxW / 2,
				OffsetY: boxH / 2,
				Static:  true,
			}); err != nil {
				return err
			}
			if err := ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
				Category: component.CategoryWorld,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
