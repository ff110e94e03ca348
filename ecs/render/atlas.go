package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	ErrNoFrames       = errors.New("render: atlas has no frames")
	ErrFrameNotFound  = errors.New("render: frame not found")
	ErrDuplicateFrame = errors.New("render: duplicate frame name")
)

// AtlasFrame is one named sub-image of a packed sheet.
type AtlasFrame struct {
	Name    string
	Rect    image.Rectangle
	Rotated bool
	Trimmed bool
	// SourceW/SourceH is the untrimmed size of the original image.
	SourceW int
	SourceH int
}

// AtlasData is the parsed metadata of a TexturePacker JSON atlas.
type AtlasData struct {
	// Image is the sheet file named in meta.image, relative to the JSON.
	Image  string
	Frames map[string]AtlasFrame
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Filename   string   `json:"filename"`
	Frame      jsonRect `json:"frame"`
	Rotated    bool     `json:"rotated"`
	Trimmed    bool     `json:"trimmed"`
	SourceSize struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"sourceSize"`
}

type jsonAtlas struct {
	Frames json.RawMessage `json:"frames"`
	Meta   struct {
		Image string `json:"image"`
	} `json:"meta"`
}

// ParseAtlas decodes TexturePacker JSON. Both the hash form (frames keyed by
// name) and the array form (frames with a filename field) are accepted.
func ParseAtlas(data []byte) (*AtlasData, error) {
	var raw jsonAtlas
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("render: unmarshal atlas: %w", err)
	}

	if len(raw.Frames) == 0 {
		return nil, ErrNoFrames
	}

	var frames []jsonFrame
	var byName map[string]jsonFrame
	if err := json.Unmarshal(raw.Frames, &byName); err == nil {
		for name, f := range byName {
			f.Filename = name
			frames = append(frames, f)
		}
	} else if err := json.Unmarshal(raw.Frames, &frames); err != nil {
		return nil, fmt.Errorf("render: atlas frames must be an object or an array: %w", err)
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	out := &AtlasData{Image: raw.Meta.Image, Frames: make(map[string]AtlasFrame, len(frames))}
	for _, f := range frames {
		if f.Filename == "" {
			return nil, fmt.Errorf("render: atlas frame without a name")
		}
		if _, dup := out.Frames[f.Filename]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFrame, f.Filename)
		}
		if f.Frame.W <= 0 || f.Frame.H <= 0 {
			return nil, fmt.Errorf("render: frame %q has empty size %dx%d", f.Filename, f.Frame.W, f.Frame.H)
		}
		w, h := f.Frame.W, f.Frame.H
		// rotated frames are stored 90 degrees clockwise in the sheet
		if f.Rotated {
			w, h = h, w
		}
		srcW, srcH := f.SourceSize.W, f.SourceSize.H
		if srcW == 0 || srcH == 0 {
			srcW, srcH = f.Frame.W, f.Frame.H
		}
		out.Frames[f.Filename] = AtlasFrame{
			Name:    f.Filename,
			Rect:    image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+w, f.Frame.Y+h),
			Rotated: f.Rotated,
			Trimmed: f.Trimmed,
			SourceW: srcW,
			SourceH: srcH,
		}
	}
	return out, nil
}

// Atlas pairs parsed frame metadata with its sheet image.
type Atlas struct {
	Image *ebiten.Image
	data  *AtlasData
}

func NewAtlas(img *ebiten.Image, data *AtlasData) *Atlas {
	if data == nil {
		data = &AtlasData{Frames: map[string]AtlasFrame{}}
	}
	return &Atlas{Image: img, data: data}
}

// Frame returns the sheet rectangle of a named frame.
func (a *Atlas) Frame(name string) (image.Rectangle, bool) {
	if a == nil {
		return image.Rectangle{}, false
	}
	f, ok := a.data.Frames[name]
	return f.Rect, ok
}

// HasFrames reports whether every name is a frame of the atlas and returns
// the first missing one otherwise.
func (a *Atlas) HasFrames(names ...string) (string, bool) {
	for _, name := range names {
		if _, ok := a.Frame(name); !ok {
			return name, false
		}
	}
	return "", true
}

// FrameNames returns all frame names sorted.
func (a *Atlas) FrameNames() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.data.Frames))
	for name := range a.data.Frames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SubImage returns the frame as an image backed by the sheet.
func (a *Atlas) SubImage(name string) (*ebiten.Image, bool) {
	if a == nil || a.Image == nil {
		return nil, false
	}
	rect, ok := a.Frame(name)
	if !ok {
		return nil, false
	}
	sub, ok := a.Image.SubImage(rect).(*ebiten.Image)
	return sub, ok
}
