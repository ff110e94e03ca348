package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/topdown/assets"
)

// Loader reads raw asset bytes and decoded images.
type Loader interface {
	LoadFile(path string) ([]byte, error)
	LoadImage(path string) (*ebiten.Image, error)
}

// AssetLoader reads embedded assets first and falls back to the filesystem.
type AssetLoader struct{}

func (AssetLoader) LoadFile(path string) ([]byte, error) {
	if b, err := assets.LoadFile(path); err == nil {
		return b, nil
	}
	for _, p := range candidatePaths(path) {
		if b, err := os.ReadFile(p); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("render: file %s not found", path)
}

func (l AssetLoader) LoadImage(path string) (*ebiten.Image, error) {
	b, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("render: decode image %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

func candidatePaths(path string) []string {
	return []string{path, filepath.Join("assets", path), filepath.Base(path)}
}
