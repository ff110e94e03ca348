package system

import (
	"image"
	"testing"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/ecs/render"
)

const walkAtlas = `{
  "frames": {
    "misa-left": {"frame": {"x": 0, "y": 0, "w": 32, "h": 48}},
    "misa-left-walk.000": {"frame": {"x": 32, "y": 0, "w": 32, "h": 48}},
    "misa-left-walk.001": {"frame": {"x": 64, "y": 0, "w": 32, "h": 48}}
  },
  "meta": {"image": "atlas.png"}
}`

// newAnimated builds an entity with a two-frame walk clip. repeat follows the
// prefab convention: -1 loops forever.
func newAnimated(t *testing.T, repeat int) (*ecs.World, *component.Animation, *component.Sprite) {
	t.Helper()
	data, err := render.ParseAtlas([]byte(walkAtlas))
	if err != nil {
		t.Fatalf("ParseAtlas: %v", err)
	}
	atlas := render.NewAtlas(nil, data)
	clip, err := render.BuildClip(render.ClipSpec{
		Name:      "misa-left-walk",
		Prefix:    "misa-left-walk.",
		End:       1,
		ZeroPad:   3,
		FrameRate: 10,
		Repeat:    repeat,
	}, atlas)
	if err != nil {
		t.Fatalf("BuildClip: %v", err)
	}
	clips := render.NewAnimationLibrary()
	clips.Register(clip)

	w := ecs.NewWorld()
	e := w.CreateEntity()
	must(t, ecs.Add(w, e, component.SpriteComponent, &component.Sprite{}))
	must(t, ecs.Add(w, e, component.AnimationComponent, &component.Animation{
		Atlas: atlas,
		Clips: clips,
		Still: "misa-left",
	}))
	anim, _ := ecs.Get(w, e, component.AnimationComponent)
	sprite, _ := ecs.Get(w, e, component.SpriteComponent)
	return w, anim, sprite
}

func TestAnimationShowsStillFrame(t *testing.T) {
	w, _, sprite := newAnimated(t, -1)
	NewAnimationSystem().Update(w)
	if !sprite.UseSource || sprite.Source != image.Rect(0, 0, 32, 48) {
		t.Fatalf("source = %v use=%v", sprite.Source, sprite.UseSource)
	}
}

func TestAnimationAdvancesAndLoops(t *testing.T) {
	w, anim, sprite := newAnimated(t, -1)
	sys := NewAnimationSystem()
	if !anim.Play("misa-left-walk", false) {
		t.Fatalf("Play failed")
	}

	sys.Update(w)
	if anim.Frame != 0 || sprite.Source != image.Rect(32, 0, 64, 48) {
		t.Fatalf("first tick frame = %d source %v", anim.Frame, sprite.Source)
	}
	// 10 fps at 60 ticks per second is six ticks per frame.
	for i := 0; i < 5; i++ {
		sys.Update(w)
	}
	if anim.Frame != 1 || sprite.Source != image.Rect(64, 0, 96, 48) {
		t.Fatalf("after six ticks frame = %d source %v", anim.Frame, sprite.Source)
	}
	for i := 0; i < 6; i++ {
		sys.Update(w)
	}
	if anim.Frame != 0 || !anim.Playing {
		t.Fatalf("looping clip should wrap, frame = %d playing=%v", anim.Frame, anim.Playing)
	}
}

func TestAnimationOneShotStopsOnLastFrame(t *testing.T) {
	w, anim, _ := newAnimated(t, 0)
	sys := NewAnimationSystem()
	anim.Play("misa-left-walk", false)

	for i := 0; i < 30; i++ {
		sys.Update(w)
	}
	if anim.Playing || anim.Frame != 1 {
		t.Fatalf("one-shot clip frame = %d playing=%v", anim.Frame, anim.Playing)
	}
}

func TestAnimationStopThenStill(t *testing.T) {
	w, anim, sprite := newAnimated(t, -1)
	sys := NewAnimationSystem()
	anim.Play("misa-left-walk", false)
	sys.Update(w)

	anim.Stop()
	anim.ShowFrame("misa-left")
	sys.Update(w)
	if sprite.Source != image.Rect(0, 0, 32, 48) {
		t.Fatalf("still frame not shown, source %v", sprite.Source)
	}
}

func TestAnimationRepeatsCountedPasses(t *testing.T) {
	w, anim, _ := newAnimated(t, 1)
	sys := NewAnimationSystem()
	anim.Play("misa-left-walk", false)

	for i := 0; i < 12; i++ {
		sys.Update(w)
	}
	if !anim.Playing || anim.Frame != 0 || anim.Repeats != 1 {
		t.Fatalf("after first pass frame = %d repeats = %d playing=%v", anim.Frame, anim.Repeats, anim.Playing)
	}

	for i := 0; i < 18; i++ {
		sys.Update(w)
	}
	if anim.Playing || anim.Frame != 1 {
		t.Fatalf("after second pass frame = %d playing=%v", anim.Frame, anim.Playing)
	}

	if !anim.Play("misa-left-walk", false) || anim.Repeats != 0 {
		t.Fatalf("Play should reset the pass count, repeats = %d", anim.Repeats)
	}
}

func TestAnimationUnknownClip(t *testing.T) {
	w, anim, sprite := newAnimated(t, -1)
	if anim.Play("hero-left-walk", false) {
		t.Fatalf("Play of a clip missing from the library succeeded")
	}
	anim.Playing = true
	anim.Current = "hero-left-walk"
	NewAnimationSystem().Update(w)
	if sprite.UseSource {
		t.Fatalf("unknown clip drew a frame")
	}
}
