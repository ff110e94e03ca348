package render

import (
	"fmt"
	"strconv"
	"strings"
)

// GenerateFrameNames builds sequential frame names such as
// "misa-left-walk.000" .. "misa-left-walk.003". Numbers are left-padded with
// zeros to zeroPad digits. When start > end the sequence counts down.
func GenerateFrameNames(prefix string, start, end, zeroPad int) []string {
	step := 1
	if start > end {
		step = -1
	}
	n := (end-start)*step + 1
	names := make([]string, 0, n)
	for i := start; ; i += step {
		names = append(names, prefix+padNumber(i, zeroPad))
		if i == end {
			break
		}
	}
	return names
}

func padNumber(n, width int) string {
	s := strconv.Itoa(n)
	if n < 0 || len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// ClipSpec describes a clip to build from generated frame names.
type ClipSpec struct {
	Name      string
	Prefix    string
	Start     int
	End       int
	ZeroPad   int
	FrameRate float64
	// Repeat is -1 for an endless loop, otherwise the number of extra passes
	// after the first.
	Repeat int
}

// BuildClip generates the frame names of a clip and checks them against atlas.
func BuildClip(spec ClipSpec, atlas *Atlas) (Clip, error) {
	if spec.Name == "" {
		return Clip{}, fmt.Errorf("render: clip without a name")
	}
	frames := GenerateFrameNames(spec.Prefix, spec.Start, spec.End, spec.ZeroPad)
	if atlas != nil {
		if missing, ok := atlas.HasFrames(frames...); !ok {
			return Clip{}, fmt.Errorf("render: clip %q: %w: %q", spec.Name, ErrFrameNotFound, missing)
		}
	}
	fps := spec.FrameRate
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	clip := Clip{Name: spec.Name, Frames: frames, FPS: fps}
	if spec.Repeat < 0 {
		clip.Loop = true
	} else {
		clip.Repeat = spec.Repeat
	}
	return clip, nil
}
