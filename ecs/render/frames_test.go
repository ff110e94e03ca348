package render

import (
	"errors"
	"testing"
)

func TestGenerateFrameNames(t *testing.T) {
	cases := []struct {
		name    string
		prefix  string
		start   int
		end     int
		zeroPad int
		want    []string
	}{
		{"padded", "misa-left-walk.", 0, 3, 3, []string{"misa-left-walk.000", "misa-left-walk.001", "misa-left-walk.002", "misa-left-walk.003"}},
		{"no_pad", "run", 1, 2, 0, []string{"run1", "run2"}},
		{"single", "idle", 5, 5, 2, []string{"idle05"}},
		{"descending", "f", 2, 0, 1, []string{"f2", "f1", "f0"}},
		{"wider_than_pad", "f", 99, 100, 2, []string{"f99", "f100"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := GenerateFrameNames(c.prefix, c.start, c.end, c.zeroPad)
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			for i := range c.want {
				if got[i] != c.want[i] {
					t.Fatalf("got %v, want %v", got, c.want)
				}
			}
		})
	}
}

func TestBuildClip(t *testing.T) {
	data, err := ParseAtlas([]byte(`{"frames": {
		"walk.000": {"frame": {"w": 1, "h": 1}},
		"walk.001": {"frame": {"w": 1, "h": 1}}
	}}`))
	if err != nil {
		t.Fatalf("ParseAtlas: %v", err)
	}
	atlas := NewAtlas(nil, data)

	clip, err := BuildClip(ClipSpec{Name: "walk", Prefix: "walk.", Start: 0, End: 1, ZeroPad: 3, FrameRate: 10, Repeat: -1}, atlas)
	if err != nil {
		t.Fatalf("BuildClip: %v", err)
	}
	if !clip.Loop || clip.FPS != 10 || len(clip.Frames) != 2 {
		t.Fatalf("clip = %+v", clip)
	}
	if got := clip.TicksPerFrame(60); got != 6 {
		t.Fatalf("TicksPerFrame = %d, want 6", got)
	}

	once, err := BuildClip(ClipSpec{Name: "once", Prefix: "walk.", End: 0, ZeroPad: 3}, atlas)
	if err != nil {
		t.Fatalf("BuildClip: %v", err)
	}
	if once.Loop || once.Repeat != 0 || once.FPS != DefaultFrameRate {
		t.Fatalf("defaults not applied: %+v", once)
	}

	thrice, err := BuildClip(ClipSpec{Name: "thrice", Prefix: "walk.", End: 1, ZeroPad: 3, Repeat: 2}, atlas)
	if err != nil {
		t.Fatalf("BuildClip: %v", err)
	}
	if thrice.Loop || thrice.Repeat != 2 {
		t.Fatalf("repeat count lost: %+v", thrice)
	}

	_, err = BuildClip(ClipSpec{Name: "walk", Prefix: "walk.", Start: 0, End: 3, ZeroPad: 3}, atlas)
	if !errors.Is(err, ErrFrameNotFound) {
		t.Fatalf("expected ErrFrameNotFound, got %v", err)
	}
	if _, err := BuildClip(ClipSpec{Prefix: "walk."}, atlas); err == nil {
		t.Fatalf("expected error for unnamed clip")
	}
}

func TestAnimationLibrary(t *testing.T) {
	lib := NewAnimationLibrary()
	lib.Register(Clip{Name: "a", Frames: []string{"x"}})
	lib.Register(Clip{Name: "empty"})
	lib.Register(Clip{Frames: []string{"x"}})
	if lib.Len() != 1 {
		t.Fatalf("Len = %d, want 1", lib.Len())
	}
	if _, ok := lib.Get("a"); !ok {
		t.Fatalf("clip a missing")
	}
	if _, ok := lib.Get("empty"); ok {
		t.Fatalf("clip without frames registered")
	}

	var nilLib *AnimationLibrary
	if nilLib.Len() != 0 {
		t.Fatalf("nil library length")
	}
}

func TestTicksPerFrameFloor(t *testing.T) {
	cases := []struct {
		fps  float64
		want int
	}{
		{0, 1},
		{120, 1},
		{24, 2},
		{10, 6},
	}
	for _, c := range cases {
		if got := (Clip{FPS: c.fps}).TicksPerFrame(60); got != c.want {
			t.Fatalf("TicksPerFrame(fps=%v) = %d, want %d", c.fps, got, c.want)
		}
	}
}
