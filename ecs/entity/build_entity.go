package entity

import (
	"fmt"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/ecs/render"
	"github.com/milk9111/topdown/movement"
	"github.com/milk9111/topdown/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

// BuildContext carries what component builders need beyond the raw prefab:
// where prefabs live on disk and the scene's asset registry.
type BuildContext struct {
	PrefabDir string
	Registry  *render.Registry
}

func (ctx *BuildContext) registry() *render.Registry {
	if ctx.Registry == nil {
		ctx.Registry = render.NewRegistry(nil)
	}
	return ctx.Registry
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"camera_tag":      addCameraTag,
	"player":          addPlayer,
	"input":           addInput,
	"transform":       addTransform,
	"sprite":          addSprite,
	"render_layer":    addRenderLayer,
	"camera":          addCamera,
	"animation":       addAnimation,
	"collision_layer": addCollisionLayer,
	"physics_body":    addPhysicsBody,
}

// Sprites resolve before physics bodies so a top-left aligned collider can
// be measured against the sprite origin.
var componentBuildOrder = []string{
	"player_tag",
	"camera_tag",
	"player",
	"input",
	"transform",
	"sprite",
	"render_layer",
	"camera",
	"animation",
	"collision_layer",
	"physics_body",
}

// BuildEntity creates an entity from a prefab. On any error the partially
// built entity is destroyed.
func BuildEntity(w *ecs.World, prefabPath string, ctx *BuildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if ctx == nil {
		ctx = &BuildContext{PrefabDir: prefabs.DefaultDir}
	}

	spec, err := prefabs.LoadEntityBuildSpecFrom(ctx.PrefabDir, prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, prefabPath, spec, ctx)
}

// BuildEntityFromSpec is BuildEntity for an already decoded prefab.
func BuildEntityFromSpec(w *ecs.World, name string, spec entityPrefabSpec, ctx *BuildContext) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", name)
	}
	if ctx == nil {
		ctx = &BuildContext{PrefabDir: prefabs.DefaultDir}
	}

	for compName := range spec.Components {
		if _, ok := componentRegistry[compName]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", name, compName)
		}
	}

	e := w.CreateEntity()
	for _, compName := range componentBuildOrder {
		raw, ok := spec.Components[compName]
		if !ok {
			continue
		}
		if err := componentRegistry[compName](w, e, raw, ctx); err != nil {
			w.DestroyEntity(e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", name, compName, err)
		}
	}

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	player, err := decodePlayer(raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &player)
}

func decodePlayer(raw any) (component.Player, error) {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return component.Player{}, fmt.Errorf("decode player spec: %w", err)
	}
	facing := movement.FacingFront
	if spec.Facing != "" {
		facing, err = movement.ParseFacing(spec.Facing)
		if err != nil {
			return component.Player{}, err
		}
	}
	if spec.MoveSpeed <= 0 {
		spec.MoveSpeed = movement.DefaultSpeed
	}
	if spec.Character == "" {
		spec.Character = "misa"
	}
	return component.Player{
		MoveSpeed: spec.MoveSpeed,
		Character: spec.Character,
		Facing:    facing,
	}, nil
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

type spriteSpec = prefabs.SpriteComponentSpec

func addSprite(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[spriteSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sprite spec: %w", err)
	}

	var sprite component.Sprite
	var sizeW, sizeH float64
	switch {
	case spec.Atlas != "":
		atlas, err := ctx.registry().Atlas(spec.Atlas)
		if err != nil {
			return err
		}
		sprite.Image = atlas.Image
		if spec.Frame != "" {
			rect, ok := atlas.Frame(spec.Frame)
			if !ok {
				return fmt.Errorf("atlas %q: %w: %q", spec.Atlas, render.ErrFrameNotFound, spec.Frame)
			}
			sprite.Source = rect
			sprite.UseSource = true
			sizeW, sizeH = float64(rect.Dx()), float64(rect.Dy())
		}
	case spec.Image != "":
		img, err := ctx.registry().Image(spec.Image)
		if err != nil {
			return fmt.Errorf("load image %q: %w", spec.Image, err)
		}
		sprite.Image = img
	}
	if sizeW == 0 && sprite.Image != nil {
		b := sprite.Image.Bounds()
		sizeW, sizeH = float64(b.Dx()), float64(b.Dy())
	}

	sprite.OriginX = spec.OriginX
	sprite.OriginY = spec.OriginY
	if spec.CenterOrigin && sprite.OriginX == 0 && sprite.OriginY == 0 {
		sprite.OriginX = sizeW / 2
		sprite.OriginY = sizeH / 2
	}

	return ecs.Add(w, e, component.SpriteComponent.Kind(), &sprite)
}

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderLayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.Zoom <= 0 {
		spec.Zoom = 1
	}
	if spec.Smoothness <= 0 {
		spec.Smoothness = 1
	}
	bounded := true
	if spec.Bounded != nil {
		bounded = *spec.Bounded
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		TargetName: spec.TargetName,
		Zoom:       spec.Zoom,
		Smoothness: spec.Smoothness,
		Bounded:    bounded,
	})
}

type animationSpec = prefabs.AnimationComponentSpec

func addAnimation(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[animationSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animation spec: %w", err)
	}
	if spec.Atlas == "" {
		return fmt.Errorf("animation: atlas is required")
	}
	atlas, err := ctx.registry().Atlas(spec.Atlas)
	if err != nil {
		return err
	}

	clips, err := buildClips(spec, atlas)
	if err != nil {
		return err
	}
	if spec.Still != "" {
		if _, ok := atlas.Frame(spec.Still); !ok {
			return fmt.Errorf("animation still: %w: %q", render.ErrFrameNotFound, spec.Still)
		}
	}

	library := ctx.registry().Animations()
	for _, clip := range clips {
		library.Register(clip)
	}

	playing := spec.Playing
	if m, ok := raw.(map[string]any); ok && spec.Current != "" {
		if _, has := m["playing"]; !has {
			playing = true
		}
	}
	if _, ok := clips[spec.Current]; !ok {
		playing = false
	}

	return ecs.Add(w, e, component.AnimationComponent.Kind(), &component.Animation{
		Atlas:   atlas,
		Clips:   library,
		Current: spec.Current,
		Playing: playing,
		Still:   spec.Still,
	})
}

// buildClips resolves every clip of spec against atlas.
func buildClips(spec animationSpec, atlas *render.Atlas) (map[string]render.Clip, error) {
	clips := make(map[string]render.Clip, len(spec.Defs))
	for name, def := range spec.Defs {
		clip, err := render.BuildClip(render.ClipSpec{
			Name:      name,
			Prefix:    def.Prefix,
			Start:     def.Start,
			End:       def.End,
			ZeroPad:   def.ZeroPad,
			FrameRate: def.FrameRate,
			Repeat:    def.Repeat,
		}, atlas)
		if err != nil {
			return nil, err
		}
		clips[name] = clip
	}
	return clips, nil
}

type collisionLayerSpec = prefabs.CollisionLayerComponentSpec

func addCollisionLayer(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[collisionLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision layer spec: %w", err)
	}
	cat := spec.Category
	mask := spec.Mask
	if cat == 0 {
		cat = component.CategoryWorld
	}
	if mask == 0 {
		mask = ^uint32(0)
	}
	return ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: cat, Mask: mask})
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	if spec.DefaultWidth <= 0 {
		spec.DefaultWidth = 32
	}
	if spec.DefaultHeight <= 0 {
		spec.DefaultHeight = 32
	}

	width := spec.Width
	height := spec.Height
	if width == 0 {
		width = spec.DefaultWidth
	}
	if height == 0 {
		height = spec.DefaultHeight
	}
	if !spec.Static && spec.Mass == 0 {
		spec.Mass = 1
	}

	offX, offY := spec.OffsetX, spec.OffsetY
	if spec.AlignTopLeft {
		var originX, originY float64
		if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			originX, originY = sprite.OriginX, sprite.OriginY
		}
		offX, offY = alignedOffset(offX, offY, width, height, originX, originY)
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:         width,
		Height:        height,
		OffsetX:       offX,
		OffsetY:       offY,
		Mass:          spec.Mass,
		Friction:      spec.Friction,
		Elasticity:    spec.Elasticity,
		Static:        spec.Static,
		FixedRotation: spec.FixedRotation,
	})
}

// alignedOffset converts a top-left to top-left offset into the offset from
// the transform (the sprite origin) to the collider center.
func alignedOffset(offX, offY, width, height, originX, originY float64) (float64, float64) {
	return offX + width/2 - originX, offY + height/2 - originY
}
