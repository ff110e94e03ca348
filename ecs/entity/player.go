package entity

import (
	"fmt"
	"strings"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/ecs/render"
	"github.com/milk9111/topdown/movement"
	"github.com/milk9111/topdown/prefabs"
)

const PlayerPrefab = "player.yaml"

func NewPlayer(w *ecs.World, ctx *BuildContext) (ecs.Entity, error) {
	return BuildEntity(w, PlayerPrefab, ctx)
}

// NewPlayerAt builds the player with its sprite centered on (x, y).
func NewPlayerAt(w *ecs.World, ctx *BuildContext, x, y float64) (ecs.Entity, error) {
	entity, err := NewPlayer(w, ctx)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y, 0); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}

// ReloadPlayerTuning re-applies the player and animation components of a
// freshly loaded prefab. Facing survives the reload so the pose does not jump.
// Nothing changes unless the character has a walk clip and a still frame for
// every facing.
func ReloadPlayerTuning(w *ecs.World, e ecs.Entity, spec prefabs.EntityBuildSpec, ctx *BuildContext) error {
	if ctx == nil {
		ctx = &BuildContext{}
	}
	raw, ok := spec.Components["player"]
	if !ok {
		return fmt.Errorf("player: prefab %q has no player component", spec.Name)
	}
	current, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return fmt.Errorf("player: entity %s has no player component", e)
	}
	anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind())
	if !ok {
		return fmt.Errorf("player: entity %s has no animation component", e)
	}
	tuned, err := decodePlayer(raw)
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}

	atlas := anim.Atlas
	var clips map[string]render.Clip
	if rawAnim, ok := spec.Components["animation"]; ok {
		animSpec, err := prefabs.DecodeComponentSpec[animationSpec](rawAnim)
		if err != nil {
			return fmt.Errorf("player: decode animation spec: %w", err)
		}
		if animSpec.Atlas != "" {
			if atlas, err = ctx.registry().Atlas(animSpec.Atlas); err != nil {
				return fmt.Errorf("player: %w", err)
			}
		}
		if clips, err = buildClips(animSpec, atlas); err != nil {
			return fmt.Errorf("player: %w", err)
		}
	}

	if atlas == nil {
		return fmt.Errorf("player: character %q has no atlas", tuned.Character)
	}
	for _, f := range []movement.Facing{movement.FacingFront, movement.FacingLeft, movement.FacingRight, movement.FacingBack} {
		walk := movement.WalkAnimation(tuned.Character, f)
		_, fresh := clips[walk]
		// Library clips index the old atlas, so they only count when it is kept.
		_, kept := anim.Clips.Get(walk)
		if !fresh && (!kept || atlas != anim.Atlas) {
			return fmt.Errorf("player: character %q has no %q clip", tuned.Character, walk)
		}
		if missing, ok := atlas.HasFrames(movement.StillFrame(tuned.Character, f)); !ok {
			return fmt.Errorf("player: %w: %q", render.ErrFrameNotFound, missing)
		}
	}

	if anim.Clips == nil {
		anim.Clips = ctx.registry().Animations()
	}
	for _, clip := range clips {
		anim.Clips.Register(clip)
	}
	if atlas != anim.Atlas {
		if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			sprite.Image = atlas.Image
		}
		anim.Atlas = atlas
	}
	if anim.Playing && !strings.HasPrefix(anim.Current, tuned.Character+"-") {
		anim.ShowFrame(movement.StillFrame(tuned.Character, current.Facing))
	}

	current.MoveSpeed = tuned.MoveSpeed
	current.Character = tuned.Character
	return nil
}
