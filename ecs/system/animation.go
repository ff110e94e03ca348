package system

import (
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// TicksPerSecond is the fixed update rate animations are timed against.
const TicksPerSecond = 60

type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.AnimationComponent.Kind(), component.SpriteComponent.Kind(), func(_ ecs.Entity, anim *component.Animation, sprite *component.Sprite) {
		if anim.Atlas == nil {
			return
		}
		if sprite.Image == nil {
			sprite.Image = anim.Atlas.Image
		}

		if !anim.Playing {
			if anim.Still != "" {
				showFrame(anim, sprite, anim.Still)
			}
			return
		}

		def, ok := anim.Clip(anim.Current)
		if !ok {
			return
		}

		anim.FrameTimer++
		if anim.FrameTimer >= def.TicksPerFrame(TicksPerSecond) {
			anim.FrameTimer = 0
			anim.Frame++
			if anim.Frame >= len(def.Frames) {
				switch {
				case def.Loop:
					anim.Frame = 0
				case anim.Repeats < def.Repeat:
					anim.Repeats++
					anim.Frame = 0
				default:
					anim.Frame = len(def.Frames) - 1
					anim.Playing = false
				}
			}
		}
		if anim.Frame >= len(def.Frames) {
			anim.Frame = 0
		}

		showFrame(anim, sprite, def.Frames[anim.Frame])
	})
}

func showFrame(anim *component.Animation, sprite *component.Sprite, name string) {
	rect, ok := anim.Atlas.Frame(name)
	if !ok {
		return
	}
	sprite.Source = rect
	sprite.UseSource = true
}
