package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/ecs/render"
	"github.com/milk9111/topdown/movement"
)

func walkClips() *render.AnimationLibrary {
	clips := render.NewAnimationLibrary()
	for _, f := range []movement.Facing{movement.FacingFront, movement.FacingLeft, movement.FacingRight, movement.FacingBack} {
		name := movement.WalkAnimation("misa", f)
		clips.Register(render.Clip{
			Name:   name,
			Frames: render.GenerateFrameNames(name+".", 0, 3, 3),
			FPS:    10,
			Loop:   true,
		})
	}
	return clips
}

func newControlledPlayer(t *testing.T, w *ecs.World) (ecs.Entity, *cp.Body) {
	t.Helper()
	space := cp.NewSpace()
	body := space.AddBody(cp.NewBody(1, cp.INFINITY))

	e := w.CreateEntity()
	must(t, ecs.Add(w, e, component.PlayerTagComponent, &component.PlayerTag{}))
	must(t, ecs.Add(w, e, component.InputComponent, &component.Input{}))
	must(t, ecs.Add(w, e, component.PlayerComponent, &component.Player{MoveSpeed: movement.DefaultSpeed, Character: "misa"}))
	must(t, ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{Body: body}))
	must(t, ecs.Add(w, e, component.AnimationComponent, &component.Animation{Clips: walkClips(), Still: "misa-front"}))
	return e, body
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPlayerControllerWalkThenIdle(t *testing.T) {
	cases := []struct {
		name      string
		dir       movement.Input
		velocity  cp.Vector
		walk      string
		idleStill string
		facing    movement.Facing
	}{
		{"left", movement.Input{Left: true}, cp.Vector{X: -175}, "misa-left-walk", "misa-left", movement.FacingLeft},
		{"right", movement.Input{Right: true}, cp.Vector{X: 175}, "misa-right-walk", "misa-right", movement.FacingRight},
		{"up", movement.Input{Up: true}, cp.Vector{Y: -175}, "misa-back-walk", "misa-back", movement.FacingBack},
		{"down", movement.Input{Down: true}, cp.Vector{Y: 175}, "misa-front-walk", "misa-front", movement.FacingFront},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e, body := newControlledPlayer(t, w)
			sys := NewPlayerControllerSystem()

			input, _ := ecs.Get(w, e, component.InputComponent)
			input.Direction = c.dir
			sys.Update(w)

			if got := body.Velocity(); got != c.velocity {
				t.Fatalf("velocity = %v, want %v", got, c.velocity)
			}
			anim, _ := ecs.Get(w, e, component.AnimationComponent)
			if !anim.Playing || anim.Current != c.walk {
				t.Fatalf("animation = %q playing=%v, want %q", anim.Current, anim.Playing, c.walk)
			}

			input.Direction = movement.Input{}
			sys.Update(w)

			if got := body.Velocity(); got != (cp.Vector{}) {
				t.Fatalf("idle velocity = %v", got)
			}
			if anim.Playing {
				t.Fatalf("animation still playing when idle")
			}
			if anim.Still != c.idleStill {
				t.Fatalf("still frame = %q, want %q", anim.Still, c.idleStill)
			}
			player, _ := ecs.Get(w, e, component.PlayerComponent)
			if player.Facing != c.facing {
				t.Fatalf("facing = %v, want %v", player.Facing, c.facing)
			}

			// A second idle tick starts from zero velocity and keeps the pose.
			sys.Update(w)
			if anim.Still != c.idleStill || player.Facing != c.facing {
				t.Fatalf("pose changed on repeated idle: %q %v", anim.Still, player.Facing)
			}
		})
	}
}

func TestPlayerControllerDoesNotRestartWalk(t *testing.T) {
	w := ecs.NewWorld()
	e, _ := newControlledPlayer(t, w)
	sys := NewPlayerControllerSystem()

	input, _ := ecs.Get(w, e, component.InputComponent)
	input.Direction = movement.Input{Left: true}
	sys.Update(w)

	anim, _ := ecs.Get(w, e, component.AnimationComponent)
	anim.Frame = 2
	sys.Update(w)
	if anim.Frame != 2 {
		t.Fatalf("walk restarted, frame = %d", anim.Frame)
	}
}

func TestPlayerControllerSpawnPose(t *testing.T) {
	w := ecs.NewWorld()
	e, _ := newControlledPlayer(t, w)
	NewPlayerControllerSystem().Update(w)

	anim, _ := ecs.Get(w, e, component.AnimationComponent)
	if anim.Still != "misa-front" {
		t.Fatalf("spawn still frame = %q", anim.Still)
	}
}

func TestPlayerControllerSkipsEntitiesWithoutBody(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	must(t, ecs.Add(w, e, component.PlayerTagComponent, &component.PlayerTag{}))
	must(t, ecs.Add(w, e, component.InputComponent, &component.Input{Direction: movement.Input{Left: true}}))
	must(t, ecs.Add(w, e, component.PlayerComponent, &component.Player{}))
	must(t, ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{}))

	NewPlayerControllerSystem().Update(w)

	player, _ := ecs.Get(w, e, component.PlayerComponent)
	if player.Facing != movement.FacingFront {
		t.Fatalf("entity without a body was updated")
	}
}

func TestPlayerControllerKeepsFacingAfterWallContact(t *testing.T) {
	// Each wall sits just past the player's 30x40 collider at (100, 100).
	cases := []struct {
		name   string
		dir    movement.Input
		wallX  float64
		wallY  float64
		wallW  float64
		wallH  float64
		facing movement.Facing
		still  string
	}{
		{"left", movement.Input{Left: true}, 60, 100, 32, 200, movement.FacingLeft, "misa-left"},
		{"right", movement.Input{Right: true}, 140, 100, 32, 200, movement.FacingRight, "misa-right"},
		{"up", movement.Input{Up: true}, 100, 60, 200, 32, movement.FacingBack, "misa-back"},
		{"down", movement.Input{Down: true}, 100, 140, 200, 32, movement.FacingFront, "misa-front"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := addBody(t, w, 100, 100, component.PhysicsBody{Width: 30, Height: 40, Mass: 1, FixedRotation: true})
			must(t, ecs.Add(w, e, component.CollisionLayerComponent, &component.CollisionLayer{
				Category: component.CategoryPlayer,
				Mask:     component.CategoryWorld,
			}))
			must(t, ecs.Add(w, e, component.PlayerTagComponent, &component.PlayerTag{}))
			must(t, ecs.Add(w, e, component.InputComponent, &component.Input{Direction: c.dir}))
			must(t, ecs.Add(w, e, component.PlayerComponent, &component.Player{MoveSpeed: movement.DefaultSpeed, Character: "misa"}))
			must(t, ecs.Add(w, e, component.AnimationComponent, &component.Animation{Clips: walkClips()}))
			addBody(t, w, c.wallX, c.wallY, component.PhysicsBody{Width: c.wallW, Height: c.wallH, Static: true})

			physics := NewPhysicsSystem()
			controller := NewPlayerControllerSystem()
			physics.Sync(w)
			for i := 0; i < 60; i++ {
				controller.Update(w)
				physics.Update(w)
			}

			input, _ := ecs.Get(w, e, component.InputComponent)
			input.Direction = movement.Input{}
			controller.Update(w)

			player, _ := ecs.Get(w, e, component.PlayerComponent)
			if player.Facing != c.facing {
				t.Fatalf("facing after wall contact = %v, want %v", player.Facing, c.facing)
			}
			anim, _ := ecs.Get(w, e, component.AnimationComponent)
			if anim.Still != c.still {
				t.Fatalf("still frame = %q, want %q", anim.Still, c.still)
			}
		})
	}
}

func TestSettledVelocity(t *testing.T) {
	cases := []struct {
		in, want cp.Vector
	}{
		{cp.Vector{X: 2.258e-302}, cp.Vector{}},
		{cp.Vector{Y: -1.25e-302}, cp.Vector{}},
		{cp.Vector{X: -175, Y: 1e-9}, cp.Vector{X: -175}},
		{cp.Vector{X: 0.5, Y: -0.5}, cp.Vector{X: 0.5, Y: -0.5}},
	}
	for _, c := range cases {
		if got := settled(c.in); got != c.want {
			t.Fatalf("settled(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
