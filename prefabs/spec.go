package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadSpec decodes a prefab from the default prefab directory or the
// embedded copy.
func LoadSpec[T any](filename string) (T, error) {
	return LoadSpecFrom[T](DefaultDir, filename)
}

// LoadSpecFrom decodes a prefab, preferring dir on disk over the embedded copy.
func LoadSpecFrom[T any](dir, filename string) (T, error) {
	var zero T
	data, err := LoadFrom(dir, filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}
