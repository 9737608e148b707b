package config

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/san-kum/floatsim/internal/design"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// GetPreset returns the raw document of a built-in design.
func GetPreset(name string) ([]byte, bool) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".yaml"))
	if err != nil {
		return nil, false
	}
	return data, true
}

// LoadPreset parses a built-in design.
func LoadPreset(name string) (*design.Description, error) {
	data, ok := GetPreset(name)
	if !ok {
		return nil, fmt.Errorf("%w: preset %q", design.ErrNotFound, name)
	}
	return design.Parse(name+".yaml", data)
}

// ListPresets returns the built-in design names, sorted.
func ListPresets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
