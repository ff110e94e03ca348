package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Load reads a map by name from ./levels on disk when present, falling back
// to the embedded maps. The ".json" extension is optional.
func Load(name string) (*Map, error) {
	clean := cleanLevelName(name)
	data, err := os.ReadFile(filepath.Join("levels", clean))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, clean)
		if err != nil {
			return nil, fmt.Errorf("levels: read %s: %w", clean, err)
		}
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: parse %s: %w", clean, err)
	}
	return m, nil
}

func cleanLevelName(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if s == "" {
		s = "map"
	}
	if !strings.HasSuffix(s, ".json") {
		s += ".json"
	}
	return s
}
