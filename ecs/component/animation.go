package component

import "github.com/milk9111/topdown/ecs/render"

type Animation struct {
	Atlas *render.Atlas
	// Clips is the scene's clip library; clip names carry the character so
	// entities can share it.
	Clips      *render.AnimationLibrary
	Current    string
	Frame      int
	FrameTimer int
	// Repeats counts the extra passes played of the current clip.
	Repeats int
	Playing bool
	// Still is an atlas frame to show once, set while stopped.
	Still string
}

// Clip looks up a clip by name.
func (a *Animation) Clip(name string) (render.Clip, bool) {
	clip, ok := a.Clips.Get(name)
	if !ok || len(clip.Frames) == 0 {
		return render.Clip{}, false
	}
	return clip, true
}

// Play starts the named animation. With ignoreIfPlaying an animation that is
// already running is left alone instead of restarting.
func (a *Animation) Play(name string, ignoreIfPlaying bool) bool {
	if _, ok := a.Clip(name); !ok {
		return false
	}
	if ignoreIfPlaying && a.Playing && a.Current == name {
		return true
	}
	a.Current = name
	a.Frame = 0
	a.FrameTimer = 0
	a.Repeats = 0
	a.Playing = true
	a.Still = ""
	return true
}

// Stop freezes the animation on its current frame.
func (a *Animation) Stop() {
	a.Playing = false
}

// ShowFrame stops playback and displays a single atlas frame.
func (a *Animation) ShowFrame(name string) {
	a.Playing = false
	a.Still = name
}

var AnimationComponent = NewComponent[Animation]()
