package assets

import (
	"embed"
	"path/filepath"
	"strings"
)

//go:embed *.png *.json
var assetsFS embed.FS

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return assetsFS.ReadFile(cleanAssetPath(path))
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
		return s[idx+len("/assets/"):]
	}
	s = strings.TrimPrefix(s, "../")
	s = strings.TrimPrefix(s, "./")
	return strings.TrimPrefix(s, "assets/")
}
