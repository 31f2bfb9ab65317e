package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads every descriptor file matching the glob pattern and merges
// their types in match order.
func Load(pattern string) (*File, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob pattern error: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no schema files found matching: %s", pattern)
	}
	return LoadFiles(matches...)
}

// LoadFiles reads and merges the given descriptor files.
func LoadFiles(paths ...string) (*File, error) {
	merged := &File{}
	for _, path := range paths {
		f, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		merged.Types = append(merged.Types, f.Types...)
	}
	return merged, nil
}

func loadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a single descriptor document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i, t := range f.Types {
		if t.Name == "" {
			return nil, fmt.Errorf("type %d: name is required", i)
		}
	}
	return &f, nil
}
