package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDir is the on-disk directory checked before the embedded prefabs.
const DefaultDir = "prefabs"

//go:embed *.yaml
var PrefabsFS embed.FS

func Load(name string) ([]byte, error) {
	return LoadFrom(DefaultDir, name)
}

// LoadFrom reads a prefab from dir on disk, falling back to the embedded copy.
func LoadFrom(dir, name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if dir != "" {
		if data, err := os.ReadFile(diskPrefabPath(dir, clean)); err == nil {
			return data, nil
		}
	}
	return PrefabsFS.ReadFile(clean)
}

func ModTime(dir, name string) (time.Time, bool) {
	info, err := os.Stat(diskPrefabPath(dir, cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func diskPrefabPath(dir, clean string) string {
	return filepath.Join(dir, filepath.FromSlash(clean))
}
