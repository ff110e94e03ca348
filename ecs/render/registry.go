package render

import (
	"fmt"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
)

// Registry caches decoded images, atlases and animation clips by key. A scene
// owns one registry; nothing here is shared between scenes.
type Registry struct {
	images     map[string]*ebiten.Image
	atlases    map[string]*Atlas
	animations *AnimationLibrary
	loader     Loader
}

// NewRegistry creates an empty registry reading through loader. A nil loader
// reads embedded assets with a filesystem fallback.
func NewRegistry(loader Loader) *Registry {
	if loader == nil {
		loader = AssetLoader{}
	}
	return &Registry{
		images:     make(map[string]*ebiten.Image),
		atlases:    make(map[string]*Atlas),
		animations: NewAnimationLibrary(),
		loader:     loader,
	}
}

// Image returns a cached image, loading it on first use.
func (r *Registry) Image(key string) (*ebiten.Image, error) {
	if key == "" {
		return nil, fmt.Errorf("render: empty image key")
	}
	if img, ok := r.images[key]; ok {
		return img, nil
	}
	img, err := r.loader.LoadImage(key)
	if err != nil {
		return nil, err
	}
	r.images[key] = img
	return img, nil
}

// Atlas returns a cached atlas, loading its JSON and sheet on first use. The
// sheet path comes from meta.image, relative to the JSON file.
func (r *Registry) Atlas(jsonPath string) (*Atlas, error) {
	if a, ok := r.atlases[jsonPath]; ok {
		return a, nil
	}
	b, err := r.loader.LoadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("render: load atlas %q: %w", jsonPath, err)
	}
	data, err := ParseAtlas(b)
	if err != nil {
		return nil, fmt.Errorf("render: atlas %q: %w", jsonPath, err)
	}
	sheet := data.Image
	if sheet == "" {
		return nil, fmt.Errorf("render: atlas %q does not name its image", jsonPath)
	}
	img, err := r.Image(path.Join(path.Dir(jsonPath), sheet))
	if err != nil {
		return nil, fmt.Errorf("render: atlas %q sheet: %w", jsonPath, err)
	}
	a := NewAtlas(img, data)
	r.atlases[jsonPath] = a
	return a, nil
}

// Animations returns the clip library shared by entities of the scene.
func (r *Registry) Animations() *AnimationLibrary {
	return r.animations
}
