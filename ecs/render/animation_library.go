package render

// DefaultFrameRate is used by clips that do not set one.
const DefaultFrameRate = 24.0

// Clip is a named sequence of atlas frames.
type Clip struct {
	Name   string
	Frames []string
	FPS    float64
	// Loop plays the clip forever. Otherwise it plays Repeat extra times
	// after the first pass and stops on its last frame.
	Loop   bool
	Repeat int
}

// TicksPerFrame converts the frame rate to whole ticks at tps.
func (c Clip) TicksPerFrame(tps int) int {
	if c.FPS <= 0 {
		return 1
	}
	ticks := int(float64(tps) / c.FPS)
	if ticks < 1 {
		return 1
	}
	return ticks
}

// AnimationLibrary stores clips by key.
type AnimationLibrary struct {
	clips map[string]Clip
}

// NewAnimationLibrary creates an empty library.
func NewAnimationLibrary() *AnimationLibrary {
	return &AnimationLibrary{clips: make(map[string]Clip)}
}

// Register adds a clip to the library, replacing any clip with the same name.
func (l *AnimationLibrary) Register(clip Clip) {
	if l == nil || clip.Name == "" || len(clip.Frames) == 0 {
		return
	}
	l.clips[clip.Name] = clip
}

// Get returns a clip by key.
func (l *AnimationLibrary) Get(key string) (Clip, bool) {
	if l == nil || key == "" {
		return Clip{}, false
	}
	clip, ok := l.clips[key]
	return clip, ok
}

// Len returns the number of registered clips.
func (l *AnimationLibrary) Len() int {
	if l == nil {
		return 0
	}
	return len(l.clips)
}
